package api

import (
	"log/slog"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the handler routes under cfg.BasePath. /health is
// always at the root.
func NewRouter(cfg models.ServerConfig, h *SummaryHandler, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	if len(cfg.AllowedOrigins) == 0 {
		r.Use(cors.Default())
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	api := r.Group(cfg.BasePath)
	api.POST("/summarize", h.PostSummarize)
	api.GET("/summary", h.GetSummaries)

	r.GET("/health", h.GetHealth)

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
