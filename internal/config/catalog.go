package config

import (
	"os"
	"strconv"
	"time"
)

// CatalogConfig points at the external defect catalog (a Supabase-style REST
// endpoint). Leaving the URL or key unset disables the integration; the local
// mirror then just serves whatever it already holds.
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Catalog() CatalogConfig {
	timeout := 10 * time.Second
	if raw := os.Getenv("CATALOG_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return CatalogConfig{
		BaseURL: os.Getenv("CATALOG_URL"),
		APIKey:  os.Getenv("CATALOG_API_KEY"),
		Timeout: timeout,
	}
}
