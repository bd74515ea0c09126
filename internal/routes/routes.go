package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/handlers"
	"github.com/seopilot/seopilot-golang/internal/middleware"
)

// CORSMiddleware tells the browser the dashboard origin may call us.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("DASHBOARD_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must run before anything else.
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		// --- Public Routes ---
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		// The pricing page needs plans without a session.
		api.GET("/plans", h.GetPlans)

		// Exported reports embed logo URLs, so serving is public;
		// the filename validator is the gate.
		api.GET("/upload/logo/:filename", h.ServeLogo)

		// --- Protected Routes (Login Required) ---
		auth := api.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/user/me", h.GetMe)
			auth.GET("/user/plan", h.GetUserPlan)
			auth.PATCH("/user/plan", h.SwitchPlan)

			// --- Branding (agency-gated inside the handlers) ---
			auth.GET("/brand-settings", h.GetBrandSettings)
			auth.PUT("/brand-settings", h.UpdateBrandSettings)
			auth.DELETE("/brand-settings/logo", h.DeleteBrandLogo)
			auth.POST("/upload/logo", h.UploadLogo)

			// --- Audits & Export ---
			auth.GET("/audits", h.GetMyAudits)
			auth.GET("/audit/:id/export", h.ExportAudit)

			// --- Indexing ---
			indexing := auth.Group("/indexing")
			{
				indexing.GET("/sites", h.GetMySites)
				indexing.PATCH("/sites/:siteId/auto-index", h.UpdateAutoIndex)
				indexing.GET("/gsc/connect", h.ConnectGSC)
				indexing.GET("/gsc/callback", h.GSCCallback)
				indexing.DELETE("/gsc/disconnect", h.DisconnectGSC)
			}
		}
	}

	return router
}
