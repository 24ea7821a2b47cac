package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aoi-backend/internal/models"
)

// formStore persists inspection forms as atomic aggregates.
type formStore interface {
	CreateForm(ctx context.Context, form *models.InspectionForm) error
	GetFormByID(ctx context.Context, id uuid.UUID) (*models.InspectionForm, error)
	ListForms(ctx context.Context) ([]models.InspectionForm, error)
	DeleteForm(ctx context.Context, id uuid.UUID) error
}

type FormService struct {
	forms   formStore
	catalog *CatalogService
	logger  *zap.Logger
}

func NewFormService(forms formStore, catalog *CatalogService, logger *zap.Logger) *FormService {
	return &FormService{
		forms:   forms,
		catalog: catalog,
		logger:  logger,
	}
}

// Create validates the submission against the current catalog and persists it
// as one unit. A *ValidationError return means nothing was written. The
// stored aggregate is re-read so child ids and problem names are populated.
func (s *FormService) Create(ctx context.Context, payload FormPayload) (*models.InspectionForm, error) {
	// Loading the catalog here seeds the mirror on first use and gives the
	// validator an in-memory snapshot to resolve codes against.
	codes, err := s.catalog.GetProblemCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem codes: %w", err)
	}

	names := make(map[int]string, len(codes))
	for _, pc := range codes {
		names[pc.Code] = pc.Name
	}

	form, verr := NormalizeSubmission(payload, names)
	if verr != nil {
		return nil, verr
	}

	if err := s.forms.CreateForm(ctx, form); err != nil {
		return nil, err
	}

	s.logger.Info("inspection form created",
		zap.String("form_id", form.ID.String()),
		zap.String("status", string(form.Status)),
		zap.Int("rejections", len(form.Rejections)),
		zap.Int("board_rows", len(form.BoardData)),
	)

	stored, err := s.forms.GetFormByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("form %s not found after create", form.ID)
	}

	return stored, nil
}

func (s *FormService) Get(ctx context.Context, id uuid.UUID) (*models.InspectionForm, error) {
	return s.forms.GetFormByID(ctx, id)
}

func (s *FormService) List(ctx context.Context) ([]models.InspectionForm, error) {
	return s.forms.ListForms(ctx)
}

func (s *FormService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.forms.DeleteForm(ctx, id)
}

// SerializedForm is the flat outbound contract for a stored aggregate.
type SerializedForm struct {
	ID           string                  `json:"id"`
	FormNumber   string                  `json:"form_number"`
	FormRev      string                  `json:"form_rev"`
	Date         string                  `json:"date"`
	Type         string                  `json:"type"`
	Customer     *string                 `json:"customer"`
	Assembly     *string                 `json:"assembly"`
	JobNumber    *string                 `json:"job_number"`
	Revision     *string                 `json:"revision"`
	PanelsCount  int                     `json:"panels_count"`
	BoardsCount  int                     `json:"boards_count"`
	Inspector    *string                 `json:"inspector"`
	QtyInspected int                     `json:"qty_inspected"`
	QtyRejected  int                     `json:"qty_rejected"`
	QtyAccepted  int                     `json:"qty_accepted"`
	Comments     *string                 `json:"comments"`
	Status       string                  `json:"status"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
	Rejections   []SerializedRejection   `json:"rejections"`
	BoardData    []SerializedBoardRecord `json:"board_data"`
}

type SerializedRejection struct {
	ID                   string `json:"id"`
	Quantity             int    `json:"quantity"`
	ProblemCode          int    `json:"problem_code"`
	ProblemName          string `json:"problem_name"`
	ReferenceDesignators string `json:"reference_designators"`
}

type SerializedBoardRecord struct {
	ID                   string  `json:"id"`
	BoardID              *string `json:"board_id"`
	ReferenceDesignators *string `json:"reference_designators"`
	ProblemCode          *int    `json:"problem_code"`
	ProblemName          *string `json:"problem_name"`
	Comments             *string `json:"comments"`
}

// SerializeForm projects a stored aggregate into the flat output shape. A
// board row without a problem code serializes with a null name.
func SerializeForm(form *models.InspectionForm) SerializedForm {
	out := SerializedForm{
		ID:           form.ID.String(),
		FormNumber:   form.FormNumber,
		FormRev:      form.FormRev,
		Date:         form.Date.Format(dateLayout),
		Type:         string(form.Type),
		Customer:     form.Customer,
		Assembly:     form.Assembly,
		JobNumber:    form.JobNumber,
		Revision:     form.Revision,
		PanelsCount:  form.PanelsCount,
		BoardsCount:  form.BoardsCount,
		Inspector:    form.Inspector,
		QtyInspected: form.QtyInspected,
		QtyRejected:  form.QtyRejected,
		QtyAccepted:  form.QtyAccepted,
		Comments:     form.Comments,
		Status:       string(form.Status),
		CreatedAt:    form.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    form.UpdatedAt.Format(time.RFC3339),
		Rejections:   []SerializedRejection{},
		BoardData:    []SerializedBoardRecord{},
	}

	for _, rejection := range form.Rejections {
		out.Rejections = append(out.Rejections, SerializedRejection{
			ID:                   rejection.ID.String(),
			Quantity:             rejection.Quantity,
			ProblemCode:          rejection.ProblemCode,
			ProblemName:          rejection.ProblemName,
			ReferenceDesignators: rejection.ReferenceDesignators,
		})
	}

	for _, board := range form.BoardData {
		out.BoardData = append(out.BoardData, SerializedBoardRecord{
			ID:                   board.ID.String(),
			BoardID:              board.BoardID,
			ReferenceDesignators: board.ReferenceDesignators,
			ProblemCode:          board.ProblemCode,
			ProblemName:          board.ProblemName,
			Comments:             board.Comments,
		})
	}

	return out
}

func SerializeForms(forms []models.InspectionForm) []SerializedForm {
	out := make([]SerializedForm, 0, len(forms))
	for i := range forms {
		out = append(out, SerializeForm(&forms[i]))
	}
	return out
}
