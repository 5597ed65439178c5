package handlers

import (
	"net/http"

	"github.com/SscSPs/library_circulation_app/internal/core/services"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/SscSPs/library_circulation_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.AppConfig, svc *services.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, svc.AuthSvc)

	// Everything circulation-related requires a staff token.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCirculationRoutes(v1, svc.CirculationSvc)
	registerReservationRoutes(v1, svc.ReservationSvc)
	registerCopyRoutes(v1, svc.CopySvc)
	registerPatronRoutes(v1, svc.PatronSvc)
	registerPolicyRoutes(v1, svc.PolicySvc)
}
