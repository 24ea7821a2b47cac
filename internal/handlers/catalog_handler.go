package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aoi-backend/internal/responses"
	"aoi-backend/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListProblemCodes handles GET /api/v1/problem-codes
func (h *CatalogHandler) ListProblemCodes(c *gin.Context) {
	codes, err := h.catalogService.GetProblemCodes(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve problem codes")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"problem_codes": codes}, "Problem codes retrieved successfully")
}

// SyncProblemCodes handles POST /api/v1/problem-codes/sync
func (h *CatalogHandler) SyncProblemCodes(c *gin.Context) {
	result := h.catalogService.Synchronize(c.Request.Context())
	responses.Success(c, http.StatusOK, result, "Problem code sync finished")
}
