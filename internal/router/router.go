package router

import (
	"github.com/gin-gonic/gin"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/handler"
	"github.com/KoTeHok22/Locus-sub001/internal/middleware"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	documentH *handler.DocumentHandler,
	deliveryH *handler.DeliveryHandler,
	projectH *handler.ProjectHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	r.GET("/health", healthH.Health)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Account management, manager only
	protected.POST("/auth/register", middleware.RequireRole(domain.RoleManager), authH.Register)

	// Document recognition. Scans are submitted by the foreman on site.
	documents := protected.Group("/documents")
	documents.POST("/recognize", middleware.RequireRole(domain.RoleForeman), documentH.Recognize)
	documents.GET("/:id", documentH.Get)
	documents.GET("/:id/status", documentH.Status)
	documents.GET("/:id/scan", documentH.ScanURL)
	documents.PUT("/:id", documentH.Update)

	// Projects and their deliveries
	projects := protected.Group("/projects")
	projects.GET("", projectH.List)
	projects.GET("/nearest", projectH.Nearest)
	projects.GET("/:id", projectH.Get)
	projects.GET("/:id/documents", documentH.ListByProject)
	projects.POST("/:id/deliveries", middleware.RequireRole(domain.RoleForeman), deliveryH.Create)
	projects.GET("/:id/deliveries", deliveryH.List)
	projects.GET("/:id/deliveries/export", middleware.RequireRole(domain.RoleManager, domain.RoleInspector), deliveryH.Export)

	return r
}
