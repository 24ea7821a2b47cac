package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(pool *pgxpool.Pool) error {
	ctx := context.Background()

	migrations := []string{
		createProblemCodesTable,
		createInspectionFormsTable,
		createInspectionRejectionsTable,
		createInspectionBoardDataTable,
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

const createProblemCodesTable = `
CREATE TABLE IF NOT EXISTS problem_codes (
  code INT PRIMARY KEY,
  name TEXT NOT NULL,
  part_type TEXT,
  CONSTRAINT problem_codes_name_not_blank CHECK (name <> '')
);
`

const createInspectionFormsTable = `
CREATE TABLE IF NOT EXISTS inspection_forms (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  date DATE NOT NULL,
  type TEXT NOT NULL,
  form_number TEXT NOT NULL DEFAULT 'Form-114',
  form_rev TEXT NOT NULL DEFAULT 'Rev. 17 (9/9/2025)',
  customer TEXT,
  assembly TEXT,
  job_number TEXT,
  revision TEXT,
  panels_count INT NOT NULL DEFAULT 0,
  boards_count INT NOT NULL DEFAULT 0,
  inspector TEXT,
  qty_inspected INT NOT NULL DEFAULT 0,
  qty_rejected INT NOT NULL DEFAULT 0,
  qty_accepted INT NOT NULL DEFAULT 0,
  comments TEXT,
  status TEXT NOT NULL DEFAULT 'submitted',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  CONSTRAINT inspection_forms_type_valid CHECK (type IN ('SMT', 'TH')),
  CONSTRAINT inspection_forms_status_valid CHECK (status IN ('draft', 'submitted')),
  CONSTRAINT inspection_forms_panels_count_non_negative CHECK (panels_count >= 0),
  CONSTRAINT inspection_forms_boards_count_non_negative CHECK (boards_count >= 0),
  CONSTRAINT inspection_forms_qty_inspected_non_negative CHECK (qty_inspected >= 0),
  CONSTRAINT inspection_forms_qty_rejected_non_negative CHECK (qty_rejected >= 0),
  CONSTRAINT inspection_forms_qty_accepted_non_negative CHECK (qty_accepted >= 0)
);

CREATE INDEX IF NOT EXISTS idx_inspection_forms_date ON inspection_forms(date);
CREATE INDEX IF NOT EXISTS idx_inspection_forms_status ON inspection_forms(status);
CREATE INDEX IF NOT EXISTS idx_inspection_forms_created_at ON inspection_forms(created_at);
`

const createInspectionRejectionsTable = `
CREATE TABLE IF NOT EXISTS inspection_rejections (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  form_id UUID NOT NULL REFERENCES inspection_forms(id) ON DELETE CASCADE,
  position INT NOT NULL DEFAULT 0,
  quantity INT NOT NULL,
  problem_code INT NOT NULL REFERENCES problem_codes(code),
  reference_designators TEXT,
  CONSTRAINT inspection_rejections_quantity_positive CHECK (quantity >= 1)
);

CREATE INDEX IF NOT EXISTS idx_inspection_rejections_form_id ON inspection_rejections(form_id);
CREATE INDEX IF NOT EXISTS idx_inspection_rejections_problem_code ON inspection_rejections(problem_code);
`

const createInspectionBoardDataTable = `
CREATE TABLE IF NOT EXISTS inspection_board_data (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  form_id UUID NOT NULL REFERENCES inspection_forms(id) ON DELETE CASCADE,
  position INT NOT NULL DEFAULT 0,
  board_id TEXT,
  reference_designators TEXT,
  problem_code INT REFERENCES problem_codes(code),
  comments TEXT
);

CREATE INDEX IF NOT EXISTS idx_inspection_board_data_form_id ON inspection_board_data(form_id);
`
