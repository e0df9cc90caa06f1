package controllers

import (
	"net/http"
	"strings"

	"insuranceapi/middleware"
	"insuranceapi/models"
	"insuranceapi/services"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	dashboardSrv services.DashboardService
	auditSrv     services.AuditService
)

// SetDashboardService sets the dashboard service.
func SetDashboardService(s services.DashboardService) {
	dashboardSrv = s
}

// SetAuditService sets the audit service.
func SetAuditService(s services.AuditService) {
	auditSrv = s
}

// getDashboard returns the landing page figures
// @Summary Dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Router /api/dashboard [get]
func getDashboard(c *gin.Context) {
	dashboard, err := dashboardSrv.Get(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", dashboard)
}

// listAudit lists the audit trail, newest first
// @Summary Audit trail
// @Tags Audit
// @Produce json
// @Param entity query string false "Entity, e.g. client or gic"
// @Param entity_id query int false "Entity ID"
// @Param user_id query int false "User ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} AuditListResponse
// @Failure 403 {object} utils.ErrorBody "Admin only"
// @Router /api/audit [get]
func listAudit(c *gin.Context) {
	entityID, err := utils.QueryUint(c, "entity_id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	userID, err := utils.QueryUint(c, "user_id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	filter := dto.AuditFilter{
		PageRequest: pageRequest(c),
		Entity:      strings.ToLower(strings.TrimSpace(c.Query("entity"))),
		EntityID:    entityID,
		UserID:      userID,
	}
	page, err := auditSrv.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	writePage(c, page)
}

// RegisterDashboardRoutes registers the dashboard and the admin audit trail.
func RegisterDashboardRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", getDashboard)
	rg.GET("/audit", middleware.RequireRole(models.RoleAdmin), listAudit)
}
