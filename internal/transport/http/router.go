// Package http exposes termwatch's ambient health/metrics surface: a
// gin router serving /healthz and the Prometheus /metrics endpoint.
// This is explicitly NOT the tool-call RPC surface spec.md names as a
// Non-goal — it carries no session operation routes, only the ambient
// observability concerns every one of the teacher's services exposes.
// Grounded on the teacher's internal/api/http + internal/api/middleware
// CORS wiring.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coreway/termwatch/internal/manager"
)

// CORSConfig mirrors the teacher's CORS middleware config shape.
type CORSConfig struct {
	AllowOrigins []string
	MaxAge       time.Duration
}

// DefaultCORSConfig returns permissive defaults suitable for local
// operator tooling talking to the health/metrics surface.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{AllowOrigins: []string{"*"}, MaxAge: 12 * time.Hour}
}

// NewRouter builds the health/metrics-only gin router. mgr is consulted
// only for /healthz's session count; no session operation is routed.
func NewRouter(mgr *manager.Manager, cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Content-Type", "Accept"},
		MaxAge:       cfg.MaxAge,
	}))

	r.GET("/healthz", healthz(mgr))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func healthz(mgr *manager.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := 0
		if mgr != nil {
			sessions = len(mgr.List())
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": sessions,
		})
	}
}
