package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register wires every API route under the configured prefix.
func Register(router *gin.Engine, prefix string, users *UserHandler, declarations *DeclarationHandler, statistics *StatisticsHandler) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Internship platform API"})
	})

	api := router.Group(prefix)

	api.GET("/users", users.List)
	api.GET("/users/email/:email", users.GetByEmail)
	api.POST("/users", users.Create)
	api.DELETE("/users/:id", users.Delete)

	api.GET("/declarations", declarations.List)
	api.GET("/declarations/export", declarations.Export)
	api.GET("/declarations/:id", declarations.Get)
	api.GET("/declarations/student/:id", declarations.ListByStudent)
	api.POST("/declarations", declarations.Create)
	api.PUT("/declarations/:id/status", declarations.UpdateStatus)
	api.DELETE("/declarations/:id", declarations.Delete)

	api.GET("/statistics", statistics.Get)
}
