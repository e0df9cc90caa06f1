package controllers

import (
	"net/http"

	"insuranceapi/middleware"
	"insuranceapi/models"
	"insuranceapi/services"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	dropdownSrv services.DropdownService
	citySrv     services.CityService
)

// SetDropdownService sets the dropdown service used by the dropdown handlers.
func SetDropdownService(s services.DropdownService) {
	dropdownSrv = s
}

// SetCityService sets the city service used by the city handlers.
func SetCityService(s services.CityService) {
	citySrv = s
}

// listDropdownCategories lists every dropdown category
// @Summary Dropdown categories
// @Tags Dropdowns
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Router /api/dropdowns/categories [get]
func listDropdownCategories(c *gin.Context) {
	utils.OKResponse(c, http.StatusOK, "", dropdownSrv.Categories(c.Request.Context()))
}

// listDropdownOptions lists the options of one category in display order
// @Summary Dropdown options
// @Tags Dropdowns
// @Produce json
// @Param category path string true "Category, e.g. bank"
// @Param include_inactive query bool false "Include deactivated options"
// @Success 200 {object} DropdownListResponse
// @Failure 404 {object} utils.ErrorBody "Unknown category"
// @Router /api/dropdowns/{category} [get]
func listDropdownOptions(c *gin.Context) {
	options, err := dropdownSrv.List(c.Request.Context(), c.Param("category"), utils.QueryBool(c, "include_inactive", false))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", options)
}

// createDropdownOption adds an option to a category
// @Summary Create dropdown option
// @Tags Dropdowns
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param option body models.DropdownOption true "Option"
// @Success 201 {object} DropdownResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody "Value already exists in the category"
// @Router /api/dropdowns [post]
func createDropdownOption(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var data models.DropdownOption
	if !bindJSON(c, &data) {
		return
	}
	created, err := dropdownSrv.Create(c.Request.Context(), actor, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusCreated, "Option created", created)
}

// updateDropdownOption edits an option; set is_active=false to retire it
// @Summary Update dropdown option
// @Tags Dropdowns
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Option ID"
// @Param option body models.DropdownOption true "Option"
// @Success 200 {object} DropdownResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/dropdowns/{id} [put]
func updateDropdownOption(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	var data models.DropdownOption
	if !bindJSON(c, &data) {
		return
	}
	updated, err := dropdownSrv.Update(c.Request.Context(), actor, id, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Option updated", updated)
}

// deleteDropdownOption removes an option nothing references
// @Summary Delete dropdown option
// @Tags Dropdowns
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Option ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody "Option is in use; deactivate it instead"
// @Router /api/dropdowns/{id} [delete]
func deleteDropdownOption(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := dropdownSrv.Delete(c.Request.Context(), actor, id); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Option deleted", nil)
}

// listCities lists cities by name
// @Summary List cities
// @Tags Cities
// @Produce json
// @Param include_inactive query bool false "Include deactivated cities"
// @Success 200 {object} CityListResponse
// @Router /api/cities [get]
func listCities(c *gin.Context) {
	cities, err := citySrv.List(c.Request.Context(), utils.QueryBool(c, "include_inactive", false))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", cities)
}

// createCity adds a city
// @Summary Create city
// @Tags Cities
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param city body models.City true "City"
// @Success 201 {object} CityResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/cities [post]
func createCity(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var data models.City
	if !bindJSON(c, &data) {
		return
	}
	created, err := citySrv.Create(c.Request.Context(), actor, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusCreated, "City created", created)
}

// updateCity edits a city
// @Summary Update city
// @Tags Cities
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "City ID"
// @Param city body models.City true "City"
// @Success 200 {object} CityResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/cities/{id} [put]
func updateCity(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	var data models.City
	if !bindJSON(c, &data) {
		return
	}
	updated, err := citySrv.Update(c.Request.Context(), actor, id, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "City updated", updated)
}

// deleteCity removes a city no client references
// @Summary Delete city
// @Tags Cities
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "City ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody "City is in use"
// @Router /api/cities/{id} [delete]
func deleteCity(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := citySrv.Delete(c.Request.Context(), actor, id); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "City deleted", nil)
}

// RegisterLookupRoutes registers the dropdown and city endpoints. Reads are open
// to every signed-in user, writes to admins.
func RegisterLookupRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRole(models.RoleAdmin)

	dropdowns := rg.Group("/dropdowns")
	{
		dropdowns.GET("/categories", listDropdownCategories)
		dropdowns.GET("/:category", listDropdownOptions)
		dropdowns.POST("", admin, createDropdownOption)
		dropdowns.PUT("/:id", admin, updateDropdownOption)
		dropdowns.DELETE("/:id", admin, deleteDropdownOption)
	}

	cities := rg.Group("/cities")
	{
		cities.GET("", listCities)
		cities.POST("", admin, createCity)
		cities.PUT("/:id", admin, updateCity)
		cities.DELETE("/:id", admin, deleteCity)
	}
}
