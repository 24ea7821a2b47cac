package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aoi-backend/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, formHandler *handlers.FormHandler, catalogHandler *handlers.CatalogHandler) {
	api := router.Group("/api/v1")

	formRoutes := NewFormRoutes(formHandler)
	formRoutes.RegisterRoutes(api)

	catalogRoutes := NewCatalogRoutes(catalogHandler)
	catalogRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
