package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pdfqa/internal/rag"
)

// NewRouter builds the gin engine with logging, recovery and all routes.
func NewRouter(svc *rag.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
