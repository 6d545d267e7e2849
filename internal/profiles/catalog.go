package profiles

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// VendorIndex is the per-vendor index.yaml describing the profiles a vendor
// directory ships.
type VendorIndex struct {
	Vendor      string       `yaml:"vendor"`
	Description string       `yaml:"description"`
	Website     string       `yaml:"website"`
	Profiles    []ProfileRef `yaml:"profiles"`
}

type ProfileRef struct {
	ID          string `yaml:"id"`
	File        string `yaml:"file"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tested      bool   `yaml:"tested"`
}

// Catalog scans the search paths for vendor directories and collects their
// index.yaml files. Missing or malformed indexes are logged and skipped; the
// catalog is advisory, loading goes through Loader.Load.
func Catalog(searchPaths []string, logger *zap.Logger) []VendorIndex {
	vendors := make([]VendorIndex, 0)

	for _, searchPath := range searchPaths {
		entries, err := os.ReadDir(searchPath)
		if err != nil {
			logger.Warn("Failed to read profile search path",
				zap.String("path", searchPath),
				zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			indexPath := filepath.Join(searchPath, entry.Name(), "index.yaml")
			data, err := os.ReadFile(indexPath)
			if err != nil {
				continue
			}

			var index VendorIndex
			if err := yaml.Unmarshal(data, &index); err != nil {
				logger.Error("Failed to parse vendor index",
					zap.String("vendor", entry.Name()),
					zap.String("path", indexPath),
					zap.Error(err))
				continue
			}

			vendors = append(vendors, index)
		}
	}

	return vendors
}
