package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aoi-backend/internal/models"
)

// ProblemCodeRepository owns the local mirror of the external defect catalog.
// Only the catalog synchronizer writes here; everything else reads.
type ProblemCodeRepository struct {
	pool *pgxpool.Pool
}

func NewProblemCodeRepository(pool *pgxpool.Pool) *ProblemCodeRepository {
	return &ProblemCodeRepository{pool: pool}
}

func (r *ProblemCodeRepository) List(ctx context.Context) ([]models.ProblemCode, error) {
	query := `SELECT code, name, part_type FROM problem_codes ORDER BY code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.ProblemCode
	for rows.Next() {
		var pc models.ProblemCode
		if err := rows.Scan(&pc.Code, &pc.Name, &pc.PartType); err != nil {
			return nil, err
		}
		codes = append(codes, pc)
	}

	return codes, rows.Err()
}

func (r *ProblemCodeRepository) Find(ctx context.Context, code int) (*models.ProblemCode, error) {
	query := `SELECT code, name, part_type FROM problem_codes WHERE code = $1`

	var pc models.ProblemCode
	err := r.pool.QueryRow(ctx, query, code).Scan(&pc.Code, &pc.Name, &pc.PartType)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &pc, nil
}

// ApplySync applies one reconcile pass as a single transaction. Inserts use
// ON CONFLICT DO NOTHING so two uncoordinated bootstrap calls cannot fail each
// other on the unique code key.
func (r *ProblemCodeRepository) ApplySync(ctx context.Context, inserts, updates []models.ProblemCode, deletes []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if len(deletes) > 0 {
		query := `DELETE FROM problem_codes WHERE code = ANY($1)`
		if _, err := tx.Exec(ctx, query, deletes); err != nil {
			return wrapIntegrity(err)
		}
	}

	for _, pc := range inserts {
		query := `
			INSERT INTO problem_codes (code, name, part_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING
		`
		if _, err := tx.Exec(ctx, query, pc.Code, pc.Name, pc.PartType); err != nil {
			return wrapIntegrity(err)
		}
	}

	for _, pc := range updates {
		query := `UPDATE problem_codes SET name = $2, part_type = $3 WHERE code = $1`
		if _, err := tx.Exec(ctx, query, pc.Code, pc.Name, pc.PartType); err != nil {
			return wrapIntegrity(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapIntegrity(err)
	}

	return nil
}
