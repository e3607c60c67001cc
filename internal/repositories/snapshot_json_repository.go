package repositories

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sgp/internal/models"
)

// JSONSnapshotRepository persists the snapshot as an indented JSON array in a
// single file. The path is injected at construction; nothing here computes a
// process-wide default or touches the filesystem before it is used.
type JSONSnapshotRepository struct {
	path string
}

// NewJSONSnapshotRepository creates a repository backed by the given file.
func NewJSONSnapshotRepository(path string) *JSONSnapshotRepository {
	return &JSONSnapshotRepository{path: path}
}

// Load reads the snapshot. A missing or corrupt file yields an empty
// collection rather than an error, so the application always starts.
func (r *JSONSnapshotRepository) Load() ([]models.Product, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read product snapshot at %s, starting empty: %v", r.path, err)
		}
		return []models.Product{}, nil
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err == nil {
		return products, nil
	}

	// Older snapshots wrapped the array in an object.
	var wrapper struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Products != nil {
		return wrapper.Products, nil
	}

	log.Printf("Product snapshot at %s is corrupt, starting empty", r.path)
	return []models.Product{}, nil
}

// Save writes the snapshot to a temporary file and atomically renames it over
// the target, so a crash mid-write cannot corrupt the persisted collection.
func (r *JSONSnapshotRepository) Save(products []models.Product) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode product snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace product snapshot: %w", err)
	}
	return nil
}
