package routes

import (
	"github.com/gin-gonic/gin"

	"aoi-backend/internal/handlers"
)

type CatalogRoutes struct {
	handler *handlers.CatalogHandler
}

func NewCatalogRoutes(handler *handlers.CatalogHandler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

func (r *CatalogRoutes) RegisterRoutes(router *gin.RouterGroup) {
	codes := router.Group("/problem-codes")
	{
		codes.GET("", r.handler.ListProblemCodes)
		codes.POST("/sync", r.handler.SyncProblemCodes)
	}
}
