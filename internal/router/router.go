// Package router assembles the gin engine for the API server.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/handlers"
)

// New builds the API router.
func New(logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := handlers.NewSessionHandler(logger)
	v1 := r.Group("/v1")
	{
		v1.POST("/sessions", sessions.Create)
		v1.GET("/sessions/:id", sessions.Get)
		v1.GET("/sessions/:id/events", sessions.Events)
		v1.DELETE("/sessions/:id", sessions.Cancel)
	}

	return r
}
