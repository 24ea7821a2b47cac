package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"aoi-backend/internal/config"
)

const defectsPath = "rest/v1/defects?select=*&order=id.asc"

// DefectDefinition is one well-formed entry from the external defect catalog.
type DefectDefinition struct {
	ID       int
	Name     string
	PartType *string
}

// DefectSource fetches the authoritative defect list over HTTP. Entries that
// fail the data contract (non-integer id, blank name) are skipped one by one
// rather than failing the whole fetch.
type DefectSource struct {
	cfg    config.CatalogConfig
	client *http.Client
	logger *zap.Logger
}

func NewDefectSource(cfg config.CatalogConfig, logger *zap.Logger) *DefectSource {
	return &DefectSource{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *DefectSource) FetchDefectDefinitions(ctx context.Context) ([]DefectDefinition, error) {
	if s.cfg.BaseURL == "" || s.cfg.APIKey == "" {
		return nil, &ConfigurationError{
			Reason: "catalog configuration is incomplete; set CATALOG_URL and CATALOG_API_KEY",
		}
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/" + defectsPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Reason: "failed to build catalog request", Err: err}
	}
	req.Header.Set("apikey", s.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &RequestError{Reason: "catalog request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Reason: "failed to read catalog response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(body))
		return nil, &RequestError{Reason: fmt.Sprintf("catalog responded with HTTP %d: %s", resp.StatusCode, detail)}
	}

	var entries []any
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &RequestError{Reason: "unexpected catalog response shape for defects table", Err: err}
	}

	defects := make([]DefectDefinition, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		code, ok := defectID(item["id"])
		if !ok {
			s.logger.Warn("skipping defect with invalid id", zap.Any("id", item["id"]))
			continue
		}

		name, _ := item["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			s.logger.Warn("skipping defect with missing name", zap.Int("code", code))
			continue
		}

		var partType *string
		if raw, ok := item["part_type"].(string); ok {
			if trimmed := strings.TrimSpace(raw); trimmed != "" {
				partType = &trimmed
			}
		}

		defects = append(defects, DefectDefinition{ID: code, Name: name, PartType: partType})
	}

	return defects, nil
}

func defectID(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
