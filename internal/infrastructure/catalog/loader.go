package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rfpdesk/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed fmeg_catalog.yaml
var defaultCatalog []byte

// Default returns the built-in FMEG catalog
func Default() (*domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path selects the built-in catalog.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML list of catalog entries
func Parse(data []byte) (*domain.Catalog, error) {
	var entries []domain.CatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	return domain.NewCatalog(entries)
}
