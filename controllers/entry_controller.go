package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"insuranceapi/models"
	"insuranceapi/repository"
	"insuranceapi/services"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

// entryHandlers serves one entry type. The same handlers back /gic, /lic,
// /rto, /bmds and /mf; only the service differs.
type entryHandlers[T any, PT repository.EntryPtr[T]] struct {
	srv services.EntryService[T, PT]
}

// list lists entries of one type, highest reg_num first
// @Summary List entries
// @Tags Entries
// @Produce json
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Param client_id query int false "Client ID"
// @Param form_status query string false "Form status"
// @Param kind query string false "Type-specific category (policy_type, job_type, category, bmds_type or mf_type)"
// @Param date_from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param date_to query string false "Latest entry date (YYYY-MM-DD)"
// @Param reg_num query int false "Registration number"
// @Param search query string false "Client name or reg_num"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} EntryListResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/{type} [get]
func (h *entryHandlers[T, PT]) list(c *gin.Context) {
	filter, err := entryFilter(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	page, err := h.srv.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	writePage(c, page)
}

func entryFilter(c *gin.Context) (dto.EntryFilter, error) {
	filter := dto.EntryFilter{
		PageRequest:   pageRequest(c),
		FormStatus:    c.Query("form_status"),
		Discriminator: c.Query("kind"),
		Search:        strings.TrimSpace(c.Query("search")),
	}

	clientID, err := utils.QueryUint(c, "client_id")
	if err != nil {
		return filter, err
	}
	filter.ClientID = clientID

	if filter.DateFrom, err = queryDate(c, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryDate(c, "date_to"); err != nil {
		return filter, err
	}

	if raw := strings.TrimSpace(c.Query("reg_num")); raw != "" {
		regNum, err := strconv.Atoi(raw)
		if err != nil || regNum < 1 {
			return filter, utils.NewValidationError("reg_num", fmt.Sprintf("invalid reg_num %q", raw))
		}
		filter.RegNum = &regNum
	}
	return filter, nil
}

func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, utils.NewValidationError(name, err.Error())
	}
	return &d, nil
}

// nextRegNum previews the next registration number
// @Summary Next reg_num
// @Description The number is only reserved when the entry is saved
// @Tags Entries
// @Produce json
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Success 200 {object} NextRegNumResponse
// @Router /api/{type}/next-reg-num [get]
func (h *entryHandlers[T, PT]) nextRegNum(c *gin.Context) {
	next, err := h.srv.NextRegNum(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", gin.H{"reg_num": next})
}

// get returns one entry
// @Summary Get entry
// @Tags Entries
// @Produce json
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Param id path int true "Entry ID"
// @Success 200 {object} EntryResponse
// @Failure 404 {object} utils.ErrorBody
// @Router /api/{type}/{id} [get]
func (h *entryHandlers[T, PT]) get(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	entry, err := h.srv.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", entry)
}

// create adds an entry; reg_num is assigned by the server
// @Summary Create entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Param entry body object true "Entry of the given type"
// @Success 201 {object} EntryResponse
// @Failure 400 {object} utils.ErrorBody "Validation error, field names the offending input"
// @Router /api/{type} [post]
func (h *entryHandlers[T, PT]) create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var data T
	if !bindJSON(c, &data) {
		return
	}
	created, err := h.srv.Create(c.Request.Context(), actor, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	regNum := PT(created).GetBase().RegNum
	utils.OKResponse(c, http.StatusCreated, fmt.Sprintf("%s entry %d created", strings.ToUpper(h.srv.Kind()), regNum), created)
}

// update replaces an entry's fields; reg_num never changes
// @Summary Update entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Param id path int true "Entry ID"
// @Param entry body object true "Entry of the given type"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/{type}/{id} [put]
func (h *entryHandlers[T, PT]) update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	var data T
	if !bindJSON(c, &data) {
		return
	}
	updated, err := h.srv.Update(c.Request.Context(), actor, id, data)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Entry updated", updated)
}

// delete removes an entry after password confirmation
// @Summary Delete entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param type path string true "Entry type" Enums(gic, lic, rto, bmds, mf)
// @Param id path int true "Entry ID"
// @Param body body dto.DeleteRequest true "Password confirmation"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} utils.ErrorBody "Wrong password"
// @Failure 404 {object} utils.ErrorBody
// @Router /api/{type}/{id} [delete]
func (h *entryHandlers[T, PT]) delete(c *gin.Context) {
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
	if err := h.srv.Delete(c.Request.Context(), actor, id, req.Password); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "Entry deleted", nil)
}

// RegisterEntryRoutes registers the CRUD endpoints of one entry type under /<kind>.
func RegisterEntryRoutes[T any, PT repository.EntryPtr[T]](rg *gin.RouterGroup, srv services.EntryService[T, PT]) {
	h := &entryHandlers[T, PT]{srv: srv}
	entries := rg.Group("/" + srv.Kind())
	{
		entries.GET("", h.list)
		entries.GET("/next-reg-num", h.nextRegNum)
		entries.POST("", h.create)
		entries.GET("/:id", h.get)
		entries.PUT("/:id", h.update)
		entries.DELETE("/:id", h.delete)
	}
}

// RegisterAllEntryRoutes registers the endpoints of every entry type.
func RegisterAllEntryRoutes(rg *gin.RouterGroup, entries services.EntryServices) {
	RegisterEntryRoutes(rg, entries.GIC)
	RegisterEntryRoutes(rg, entries.LIC)
	RegisterEntryRoutes(rg, entries.RTO)
	RegisterEntryRoutes(rg, entries.BMDS)
	RegisterEntryRoutes(rg, entries.MF)
}
