package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aoi-backend/internal/models"
	"aoi-backend/internal/repositories"
	"aoi-backend/internal/responses"
	"aoi-backend/internal/services"
)

type FormHandler struct {
	formService *services.FormService
}

func NewFormHandler(formService *services.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

// CreateForm handles POST /api/v1/forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	var payload services.FormPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid payload")
		return
	}

	form, err := h.formService.Create(c.Request.Context(), payload)
	if err != nil {
		var validationErr *services.ValidationError
		var integrityErr *repositories.IntegrityError
		switch {
		case errors.As(err, &validationErr):
			responses.FailValidation(c, validationErr.Errors)
		case errors.As(err, &integrityErr):
			responses.Fail(c, http.StatusConflict, err, "Storage conflict, retry the submission")
		default:
			responses.Fail(c, http.StatusInternalServerError, err, "Failed to create form")
		}
		return
	}

	message := "Form submitted"
	if form.Status == models.FormStatusDraft {
		message = "Draft saved"
	}

	responses.Success(c, http.StatusCreated, services.SerializeForm(form), message)
}

// GetForm handles GET /api/v1/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid form id")
		return
	}

	form, err := h.formService.Get(c.Request.Context(), id)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve form")
		return
	}
	if form == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Form not found")
		return
	}

	responses.Success(c, http.StatusOK, services.SerializeForm(form), "Form retrieved successfully")
}

// ListForms handles GET /api/v1/forms
func (h *FormHandler) ListForms(c *gin.Context) {
	forms, err := h.formService.List(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve forms")
		return
	}

	responses.Success(c, http.StatusOK, services.SerializeForms(forms), "Forms retrieved successfully")
}

// DeleteForm handles DELETE /api/v1/forms/:id
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid form id")
		return
	}

	if err := h.formService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrFormNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Form not found")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to delete form")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Form deleted successfully")
}
