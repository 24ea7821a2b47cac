package routes

import (
	"github.com/gin-gonic/gin"

	"aoi-backend/internal/handlers"
)

type FormRoutes struct {
	handler *handlers.FormHandler
}

func NewFormRoutes(handler *handlers.FormHandler) *FormRoutes {
	return &FormRoutes{handler: handler}
}

func (r *FormRoutes) RegisterRoutes(router *gin.RouterGroup) {
	forms := router.Group("/forms")
	{
		forms.POST("", r.handler.CreateForm)
		forms.GET("", r.handler.ListForms)
		forms.GET("/:id", r.handler.GetForm)
		forms.DELETE("/:id", r.handler.DeleteForm)
	}
}
