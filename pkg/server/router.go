package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRouter builds the gin engine hosting the MCP endpoint and a health
// probe.
func NewRouter(bus *ToolBus) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	mcpHandler := NewHandler(bus)
	router.POST("/mcp", gin.WrapH(mcpHandler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// requestLogger tags each request with a correlation ID and logs its
// outcome. The ID is echoed in the X-Request-Id header so agent transcripts
// can be matched to server logs.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s -> %d (%s)",
			requestID, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
