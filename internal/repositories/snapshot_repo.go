package repositories

import (
	"sgp/internal/models"
)

// SnapshotRepository persists the whole product collection at once. The
// dataset is small, so every mutation saves the full ordered snapshot.
type SnapshotRepository interface {
	Load() ([]models.Product, error)
	Save(products []models.Product) error
}
