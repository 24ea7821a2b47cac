package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aoi-backend/internal/models"
)

// FormRepository persists inspection forms as whole aggregates: the parent row
// and every rejection and board row commit or roll back together.
type FormRepository struct {
	pool *pgxpool.Pool
}

func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

func (r *FormRepository) CreateForm(ctx context.Context, form *models.InspectionForm) error {
	form.Prepare()

	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO inspection_forms (
			id, date, type, form_number, form_rev,
			customer, assembly, job_number, revision,
			panels_count, boards_count, inspector,
			qty_inspected, qty_rejected, qty_accepted,
			comments, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = tx.Exec(ctx, query,
		form.ID,
		form.Date,
		form.Type,
		form.FormNumber,
		form.FormRev,
		form.Customer,
		form.Assembly,
		form.JobNumber,
		form.Revision,
		form.PanelsCount,
		form.BoardsCount,
		form.Inspector,
		form.QtyInspected,
		form.QtyRejected,
		form.QtyAccepted,
		form.Comments,
		form.Status,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return wrapIntegrity(err)
	}

	for i, rejection := range form.Rejections {
		query := `
			INSERT INTO inspection_rejections (id, form_id, position, quantity, problem_code, reference_designators)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, query,
			rejection.ID,
			rejection.FormID,
			i,
			rejection.Quantity,
			rejection.ProblemCode,
			rejection.ReferenceDesignators,
		)
		if err != nil {
			return wrapIntegrity(err)
		}
	}

	for i, board := range form.BoardData {
		query := `
			INSERT INTO inspection_board_data (id, form_id, position, board_id, reference_designators, problem_code, comments)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, query,
			board.ID,
			board.FormID,
			i,
			board.BoardID,
			board.ReferenceDesignators,
			board.ProblemCode,
			board.Comments,
		)
		if err != nil {
			return wrapIntegrity(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapIntegrity(err)
	}

	return nil
}

func (r *FormRepository) GetFormByID(ctx context.Context, id uuid.UUID) (*models.InspectionForm, error) {
	query := `
		SELECT id, date, type, form_number, form_rev,
			customer, assembly, job_number, revision,
			panels_count, boards_count, inspector,
			qty_inspected, qty_rejected, qty_accepted,
			comments, status, created_at, updated_at
		FROM inspection_forms WHERE id = $1
	`

	var form models.InspectionForm
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&form.ID,
		&form.Date,
		&form.Type,
		&form.FormNumber,
		&form.FormRev,
		&form.Customer,
		&form.Assembly,
		&form.JobNumber,
		&form.Revision,
		&form.PanelsCount,
		&form.BoardsCount,
		&form.Inspector,
		&form.QtyInspected,
		&form.QtyRejected,
		&form.QtyAccepted,
		&form.Comments,
		&form.Status,
		&form.CreatedAt,
		&form.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, &form); err != nil {
		return nil, err
	}

	return &form, nil
}

func (r *FormRepository) ListForms(ctx context.Context) ([]models.InspectionForm, error) {
	query := `
		SELECT id, date, type, form_number, form_rev,
			customer, assembly, job_number, revision,
			panels_count, boards_count, inspector,
			qty_inspected, qty_rejected, qty_accepted,
			comments, status, created_at, updated_at
		FROM inspection_forms
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []models.InspectionForm
	for rows.Next() {
		var form models.InspectionForm
		err := rows.Scan(
			&form.ID,
			&form.Date,
			&form.Type,
			&form.FormNumber,
			&form.FormRev,
			&form.Customer,
			&form.Assembly,
			&form.JobNumber,
			&form.Revision,
			&form.PanelsCount,
			&form.BoardsCount,
			&form.Inspector,
			&form.QtyInspected,
			&form.QtyRejected,
			&form.QtyAccepted,
			&form.Comments,
			&form.Status,
			&form.CreatedAt,
			&form.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range forms {
		if err := r.loadChildren(ctx, &forms[i]); err != nil {
			return nil, err
		}
	}

	return forms, nil
}

func (r *FormRepository) DeleteForm(ctx context.Context, id uuid.UUID) error {
	// Child rows go with the form via ON DELETE CASCADE.
	query := `DELETE FROM inspection_forms WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFormNotFound
	}

	return nil
}

// loadChildren fills the owned collections, resolving problem names through
// the catalog mirror. A board row without a problem code keeps a nil name.
func (r *FormRepository) loadChildren(ctx context.Context, form *models.InspectionForm) error {
	rejectionsQuery := `
		SELECT r.id, r.form_id, r.quantity, r.problem_code, p.name, COALESCE(r.reference_designators, '')
		FROM inspection_rejections r
		JOIN problem_codes p ON p.code = r.problem_code
		WHERE r.form_id = $1
		ORDER BY r.position ASC
	`

	rows, err := r.pool.Query(ctx, rejectionsQuery, form.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	form.Rejections = []models.Rejection{}
	for rows.Next() {
		var rejection models.Rejection
		err := rows.Scan(
			&rejection.ID,
			&rejection.FormID,
			&rejection.Quantity,
			&rejection.ProblemCode,
			&rejection.ProblemName,
			&rejection.ReferenceDesignators,
		)
		if err != nil {
			return err
		}
		form.Rejections = append(form.Rejections, rejection)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	boardsQuery := `
		SELECT b.id, b.form_id, b.board_id, b.reference_designators, b.problem_code, p.name, b.comments
		FROM inspection_board_data b
		LEFT JOIN problem_codes p ON p.code = b.problem_code
		WHERE b.form_id = $1
		ORDER BY b.position ASC
	`

	boardRows, err := r.pool.Query(ctx, boardsQuery, form.ID)
	if err != nil {
		return err
	}
	defer boardRows.Close()

	form.BoardData = []models.BoardRecord{}
	for boardRows.Next() {
		var board models.BoardRecord
		err := boardRows.Scan(
			&board.ID,
			&board.FormID,
			&board.BoardID,
			&board.ReferenceDesignators,
			&board.ProblemCode,
			&board.ProblemName,
			&board.Comments,
		)
		if err != nil {
			return err
		}
		form.BoardData = append(form.BoardData, board)
	}

	return boardRows.Err()
}
