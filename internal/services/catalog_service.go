package services

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"aoi-backend/internal/models"
)

// defectFetcher pulls the authoritative defect list from the external source.
type defectFetcher interface {
	FetchDefectDefinitions(ctx context.Context) ([]DefectDefinition, error)
}

// problemCodeStore is the local mirror of the catalog.
type problemCodeStore interface {
	List(ctx context.Context) ([]models.ProblemCode, error)
	Find(ctx context.Context, code int) (*models.ProblemCode, error)
	ApplySync(ctx context.Context, inserts, updates []models.ProblemCode, deletes []int) error
}

type SyncStatus string

const (
	SyncApplied   SyncStatus = "applied"
	SyncUnchanged SyncStatus = "unchanged"
	SyncSkipped   SyncStatus = "skipped" // catalog source not configured
	SyncFailed    SyncStatus = "failed"  // fetch or storage failure, mirror untouched
)

// SyncResult reports what a synchronization attempt did. Failures are
// absorbed here and never returned as errors: the mirror keeps its previous
// contents and later validations simply see stale data. The result value
// keeps that degradation visible to callers and tests.
type SyncResult struct {
	Status   SyncStatus `json:"status"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Deleted  int        `json:"deleted"`
	Active   int        `json:"active"`
}

// CatalogService reconciles the problem-code mirror against the external
// defect catalog and answers lookups from the mirror.
type CatalogService struct {
	source defectFetcher
	store  problemCodeStore
	logger *zap.Logger
}

func NewCatalogService(source defectFetcher, store problemCodeStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Synchronize fetches the external catalog and applies the symmetric
// difference to the mirror: stale codes are deleted, new ones inserted,
// changed names or part types updated in place. When nothing differs, no
// write happens at all.
func (s *CatalogService) Synchronize(ctx context.Context) SyncResult {
	defects, err := s.source.FetchDefectDefinitions(ctx)
	if err != nil {
		var confErr *ConfigurationError
		if errors.As(err, &confErr) {
			s.logger.Warn("skipping problem code sync", zap.String("reason", confErr.Reason))
			return SyncResult{Status: SyncSkipped}
		}
		s.logger.Error("failed to synchronize problem codes", zap.Error(err))
		return SyncResult{Status: SyncFailed}
	}

	existing, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to read problem code mirror", zap.Error(err))
		return SyncResult{Status: SyncFailed}
	}

	current := make(map[int]models.ProblemCode, len(existing))
	for _, pc := range existing {
		current[pc.Code] = pc
	}

	var inserts, updates []models.ProblemCode
	incoming := make(map[int]struct{}, len(defects))
	for _, def := range defects {
		incoming[def.ID] = struct{}{}

		pc, ok := current[def.ID]
		if !ok {
			inserts = append(inserts, models.ProblemCode{Code: def.ID, Name: def.Name, PartType: def.PartType})
			continue
		}
		if !pc.Same(def.Name, def.PartType) {
			updates = append(updates, models.ProblemCode{Code: def.ID, Name: def.Name, PartType: def.PartType})
		}
	}

	var deletes []int
	for code := range current {
		if _, ok := incoming[code]; !ok {
			deletes = append(deletes, code)
		}
	}
	sort.Ints(deletes)

	if len(inserts) == 0 && len(updates) == 0 && len(deletes) == 0 {
		s.logger.Debug("problem codes already up to date", zap.Int("active", len(defects)))
		return SyncResult{Status: SyncUnchanged, Active: len(defects)}
	}

	if err := s.store.ApplySync(ctx, inserts, updates, deletes); err != nil {
		s.logger.Error("failed to apply problem code sync", zap.Error(err))
		return SyncResult{Status: SyncFailed}
	}

	s.logger.Info("problem codes synchronized",
		zap.Int("inserted", len(inserts)),
		zap.Int("updated", len(updates)),
		zap.Int("deleted", len(deletes)),
		zap.Int("active", len(defects)),
	)

	return SyncResult{
		Status:   SyncApplied,
		Inserted: len(inserts),
		Updated:  len(updates),
		Deleted:  len(deletes),
		Active:   len(defects),
	}
}

// GetProblemCodes returns the mirror ordered by code, seeding it from the
// external source on first use.
func (s *CatalogService) GetProblemCodes(ctx context.Context) ([]models.ProblemCode, error) {
	codes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(codes) == 0 {
		s.Synchronize(ctx)
		codes, err = s.store.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	return codes, nil
}

// FindProblemName resolves a code to its human-readable name. The second
// return value is false for codes the mirror does not know.
func (s *CatalogService) FindProblemName(ctx context.Context, code int) (string, bool, error) {
	pc, err := s.store.Find(ctx, code)
	if err != nil {
		return "", false, err
	}
	if pc == nil {
		return "", false, nil
	}
	return pc.Name, true, nil
}
