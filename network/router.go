package network

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"duel/lobby"
	"duel/observability"
)

type RouterConfig struct {
	CORSOrigins []string
	StaticDir   string
	SendBuffer  int
	Logger      zerolog.Logger
}

// NewRouter wires the websocket endpoint, health and metrics, and optionally
// the client assets.
func NewRouter(l *lobby.Lobby, cfg RouterConfig) *gin.Engine {
	observability.RegisterMetrics()
	startedAt := time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(cfg.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	ws := NewWSHandler(l, WSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		SendBuffer:     cfg.SendBuffer,
		Logger:         cfg.Logger,
	})
	r.GET("/ws", gin.WrapH(ws))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(startedAt).String(),
			"lobby":  l.Stats(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
