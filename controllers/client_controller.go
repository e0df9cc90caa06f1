package controllers

import (
	"net/http"
	"strings"

	"insuranceapi/models"
	"insuranceapi/services"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var clientSrv services.ClientService

// SetClientService sets the client service used by the client handlers.
func SetClientService(s services.ClientService) {
	clientSrv = s
}

// listClients lists clients, newest first
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param search query string false "Name, contact, email or sr_no"
// @Param tag query string false "Tag" Enums(A, B, C)
// @Param client_type query string false "Client type" Enums(INDIVIDUAL, CORPORATE)
// @Param city_id query int false "City ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} ClientListResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/clients [get]
func listClients(c *gin.Context) {
	cityID, err := utils.QueryUint(c, "city_id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	filter := dto.ClientFilter{
		PageRequest: pageRequest(c),
		Search:      strings.TrimSpace(c.Query("search")),
		Tag:         c.Query("tag"),
		ClientType:  c.Query("client_type"),
		CityID:      cityID,
	}

	page, err := clientSrv.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	writePage(c, page)
}

// getClient returns one client
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} utils.ErrorBody
// @Router /api/clients/{id} [get]
func getClient(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	client, err := clientSrv.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", client)
}

// createClient adds a client. sr_no is assigned by the server.
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param client body models.Client true "Client"
// @Success 201 {object} ClientResponse
// @Failure 400 {object} utils.ErrorBody "Validation error, field names the offending input"
// @Router /api/clients [post]
func createClient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var data models.Client
	if !bindJSON(c, &data) {
		return
	}
	created, err := clientSrv.Create(c.Request.Context(), actor, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusCreated, "Client created", created)
}

// updateClient replaces a client's fields. sr_no never changes.
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Client ID"
// @Param client body models.Client true "Client"
// @Success 200 {object} ClientResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/clients/{id} [put]
func updateClient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	var data models.Client
	if !bindJSON(c, &data) {
		return
	}
	updated, err := clientSrv.Update(c.Request.Context(), actor, id, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Client updated", updated)
}

// deleteClient removes a client after password confirmation
// @Summary Delete client
// @Tags Clients
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param id path int true "Client ID"
// @Param body body dto.DeleteRequest true "Password confirmation"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} utils.ErrorBody "Wrong password"
// @Failure 404 {object} utils.ErrorBody
// @Router /api/clients/{id} [delete]
func deleteClient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	var req dto.DeleteRequest
	if !bindRequest(c, &req) {
		return
	}
	if err := clientSrv.Delete(c.Request.Context(), actor, id, req.Password); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Client deleted", nil)
}

// getClientProfile returns the client with all entries and upcoming events
// @Summary Client profile
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} ClientProfileResponse
// @Failure 404 {object} utils.ErrorBody
// @Router /api/clients/{id}/profile [get]
func getClientProfile(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	profile, err := clientSrv.Profile(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", profile)
}

// RegisterClientRoutes registers HTTP endpoints for clients.
func RegisterClientRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("", listClients)
		clients.POST("", createClient)
		clients.GET("/:id", getClient)
		clients.PUT("/:id", updateClient)
		clients.DELETE("/:id", deleteClient)
		clients.GET("/:id/profile", getClientProfile)
	}
}
