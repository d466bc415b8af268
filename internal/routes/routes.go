package routes

import (
	"net/http"

	"spendwise_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the operational surface. User-facing CRUD and chat
// live in separate services; this process only exposes health and the
// settlement re-trigger.
func RegisterRoutes(router *gin.Engine, adminHandler *handlers.AdminHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := router.Group("/admin")
	{
		admin.POST("/settlement/run", adminHandler.TriggerSettlement)
	}
}
