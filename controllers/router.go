package controllers

import (
	"insuranceapi/middleware"
	"insuranceapi/services"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures the middleware installed by NewRouter.
type RouterOptions struct {
	Session     middleware.SessionOptions
	CORSOrigins []string
}

// NewRouter builds the gin engine with the global middleware and every /api route.
// The package-level services must be set first.
func NewRouter(opts RouterOptions, entries services.EntryServices) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(utils.LoggerMiddleware())
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORS(opts.CORSOrigins))
	}
	router.Use(middleware.Sessions(opts.Session))

	RegisterRoutes(router.Group("/api"), entries)
	return router
}

// RegisterRoutes registers the public endpoints and, behind session and CSRF
// checks, everything else.
func RegisterRoutes(api *gin.RouterGroup, entries services.EntryServices) {
	RegisterHealthRoutes(api)
	RegisterPublicAuthRoutes(api)

	protected := api.Group("", middleware.RequireAuth(), middleware.RequireCSRF())
	{
		RegisterAuthRoutes(protected)
		RegisterClientRoutes(protected)
		RegisterAllEntryRoutes(protected, entries)
		RegisterReminderRoutes(protected)
		RegisterLookupRoutes(protected)
		RegisterDashboardRoutes(protected)
		RegisterJobRoutes(protected)
	}
}
