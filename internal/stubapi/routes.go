package stubapi

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// RouteConfig tunes route-level middleware.
type RouteConfig struct {
	// AuthToken is the bearer token every /api/v1 request must present.
	// Empty disables auth, for local development.
	AuthToken string

	// Per-client rate limiting for mutating endpoints.
	RequestsPerSecond int
	Burst             int
}

// RegisterRoutes wires up the stub review backend's endpoints.
func RegisterRoutes(engine *gin.Engine, deps *Dependencies, cfg RouteConfig, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 40
	}

	engine.GET("/health", healthHandler(deps))

	v1 := engine.Group("/api/v1")
	v1.Use(BearerAuth(cfg.AuthToken))
	v1.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, cfg.RequestsPerSecond, cfg.Burst))

	annotations := v1.Group("/annotations")
	{
		annotations.POST("", CreateAnnotation(deps))
		annotations.GET("", ListAnnotations(deps))
		annotations.PATCH("/:id", PatchAnnotation(deps))
		annotations.DELETE("/:id", DeleteAnnotation(deps))
		annotations.GET("/:id/chat", GetTranscript(deps))
		annotations.POST("/:id/chat", SendMessage(deps))
	}

	sessions := v1.Group("/sessions")
	{
		sessions.GET("/:id/document", GetDocument(deps))
		sessions.PATCH("/:id/metrics", UpdateSessionMetrics(deps))
	}

	return nil
}

func healthHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "not configured"
		if deps != nil && deps.DB != nil {
			if err := deps.DB.HealthCheck(); err != nil {
				dbStatus = "unhealthy"
			} else {
				dbStatus = "healthy"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": dbStatus,
		})
	}
}
