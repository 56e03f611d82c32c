// Package project persists nesting jobs and their results as JSON
// snapshots, so a run can be re-opened or diffed later.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/nestcut/internal/model"
)

// Snapshot ties a job and its result together for save/load.
type Snapshot struct {
	Name     string                     `json:"name"`
	Settings model.NestSettings         `json:"settings"`
	Stocks   map[string]model.StockSpec `json:"stocks"`
	Parts    []model.Part               `json:"parts"`
	Result   *model.NestResult          `json:"result,omitempty"`
}

// DefaultDir returns the default directory for saved snapshots,
// ~/.nestcut on all platforms.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nestcut")
}

// Save writes the snapshot to the given path as indented JSON, creating
// missing parent directories.
func Save(path string, s Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a snapshot from the given path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if s.Stocks == nil {
		s.Stocks = map[string]model.StockSpec{}
	}
	return s, nil
}
