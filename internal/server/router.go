package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/usersapi/users-api/internal/health"
)

// Options configures the router
type Options struct {
	Logger         *zap.Logger
	Health         *health.Manager
	MaxRequestSize int64
}

// RouteRegistrar adds a group of routes to the router
type RouteRegistrar func(router gin.IRouter)

// NewRouter builds the gin engine with the shared middleware, the root
// greeting and the health endpoint, then lets each registrar add its routes.
func NewRouter(opts Options, registrars ...RouteRegistrar) *gin.Engine {
	router := gin.New()

	router.Use(cors.Default())
	router.Use(RequestLogging(opts.Logger))
	router.Use(gin.Recovery())
	router.Use(LimitRequestBody(opts.MaxRequestSize))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})

	router.GET("/health", healthHandler(opts.Health))

	for _, register := range registrars {
		register(router)
	}

	return router
}

func healthHandler(manager *health.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}

		results := manager.RuntimeHealthCheck(c.Request.Context())
		services := gin.H{}
		for name, err := range results {
			if err != nil {
				services[name] = "unhealthy"
				continue
			}
			services[name] = "healthy"
		}

		if err := manager.Critical(results); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
				"services":  services,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  services,
		})
	}
}
