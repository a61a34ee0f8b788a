// Package dataset reads and writes the persisted county record list.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thesavant42/countyroots/internal/models"
)

// Load reads a JSON array of county records
func Load(path string) ([]models.CountyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var records []models.CountyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return records, nil
}

// Save writes records as a JSON array. The file is replaced atomically so a
// reader never sees a partial dataset.
func Save(path string, records []models.CountyRecord) error {
	if records == nil {
		records = []models.CountyRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace dataset: %w", err)
	}
	return nil
}
