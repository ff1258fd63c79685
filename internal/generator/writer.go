package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDataset writes the dataset as pretty-printed JSON files under dir,
// one file per collection input type.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := map[string]any{
		"profiles.json":   dataset.Profiles,
		"assets.json":     dataset.Assets,
		"portfolios.json": dataset.Portfolios,
		"memos.json":      dataset.Memos,
	}

	for name, payload := range files {
		body, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
