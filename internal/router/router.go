package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/config"
	"github.com/influencehub/influencehub-backend/internal/app/controller"
	"github.com/influencehub/influencehub-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	influencerController *controller.InfluencerController
	referenceController  *controller.ReferenceController
	adminController      *controller.AdminController
	uploadController     *controller.UploadController // nil when no bucket is configured
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	influencerController *controller.InfluencerController,
	referenceController *controller.ReferenceController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		influencerController: influencerController,
		referenceController:  referenceController,
		adminController:      adminController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "InfluenceHub API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	staff := []middleware.Role{middleware.RoleAdmin, middleware.RoleManager, middleware.RoleViewer}
	editors := []middleware.Role{middleware.RoleAdmin, middleware.RoleManager}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/platforms", r.referenceController.ListPlatforms)
		v1.GET("/categories", r.referenceController.ListCategories)
		v1.GET("/statuses", r.referenceController.ListStatuses)

		influencers := v1.Group("/influencers")
		{
			influencers.GET("", r.influencerController.ListInfluencers)
			influencers.GET("/:id", r.influencerController.GetInfluencer)
			influencers.POST("", r.influencerController.RegisterInfluencer)
			influencers.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(editors...),
				r.influencerController.UpdateInfluencer,
			)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		{
			readers := r.authMiddleware.RequireRole(staff...)
			writers := r.authMiddleware.RequireRole(editors...)
			owners := r.authMiddleware.RequireRole(middleware.RoleAdmin)

			admin.GET("/influencers", readers, r.adminController.ListInfluencers)
			admin.GET("/influencers/export", readers, r.adminController.ExportInfluencers)
			admin.POST("/influencers/bulk-status", writers, r.adminController.BulkSetStatus)
			admin.DELETE("/influencers/:id", owners, r.adminController.DeleteInfluencer)

			admin.GET("/social-accounts", readers, r.adminController.ListSocialAccounts)

			admin.GET("/categories", readers, r.referenceController.ListCategoriesWithCounts)
			admin.POST("/categories", writers, r.referenceController.CreateCategory)
			admin.PUT("/categories/:id", writers, r.referenceController.UpdateCategory)
			admin.DELETE("/categories/:id", writers, r.referenceController.DeleteCategory)

			admin.DELETE("/statuses/:id", owners, r.referenceController.DeleteStatus)
			admin.DELETE("/platforms/:id", owners, r.referenceController.DeletePlatform)
		}

		if r.uploadController != nil {
			uploads := v1.Group("/uploads")
			uploads.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(editors...))
			{
				uploads.POST("/profile-image", r.uploadController.PresignProfileImage)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, X-Export-Rows")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
