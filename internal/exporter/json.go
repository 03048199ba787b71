package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sp500cli/pkg/contracts"
	"sp500cli/pkg/contracts/domain"
)

// Summary is the machine-readable record of one run
type Summary struct {
	Version contracts.VersionInfo  `json:"version"`
	Load    *domain.LoadStats      `json:"load,omitempty"`
	Profile *domain.DatasetProfile `json:"profile,omitempty"`
	Report  *domain.AnalysisReport `json:"report"`
}

// SaveJSON writes v as indented JSON, replacing path atomically
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
