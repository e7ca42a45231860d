package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studiobook/handlers"
	"studiobook/middleware"
)

// RegisterAvailabilityRoutes registers the read-only slot endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/artists/:artistID")
	{
		api.GET("/slots/final", hb.GetFinalSlotsHandler)
		api.GET("/slots/original", hb.GetOriginalSlotsHandler)
		api.GET("/availability", hb.GetAvailableSlots)
	}
}

// RegisterScheduleRoutes registers template, override and blocked range management.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	artist := r.Group("/api/artists/:artistID")
	{
		artist.POST("/templates", hb.AddTemplateHandler)
		artist.POST("/overrides", hb.AddOverrideHandler)
		artist.POST("/blocked", hb.AddBlockedHandler)
	}

	api := r.Group("/api")
	{
		api.PUT("/templates/:id", hb.UpdateTemplateHandler)
		api.DELETE("/templates/:id", hb.DeleteTemplateHandler)
		api.PUT("/overrides/:id", hb.UpdateOverrideHandler)
		api.DELETE("/overrides/:id", hb.DeleteOverrideHandler)
		api.PUT("/blocked/:id", hb.UpdateBlockedHandler)
		api.DELETE("/blocked/:id", hb.DeleteBlockedHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		if hb.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := hb.Health.Status()
		code, label := http.StatusOK, "ok"
		if !status.Healthy && !status.CheckedAt.IsZero() {
			code, label = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": label, "services": status.Services, "checkedAt": status.CheckedAt})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
}
