package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"sgp/internal/models"
	"sgp/internal/repositories"
	"sgp/internal/store"
	"sgp/internal/validation"
)

// ErrProductNotFound is returned when an update or delete names a SKU that is
// not in the store.
var ErrProductNotFound = errors.New("product not found")

// DefaultLowStockThreshold is the stock level at or below which a product
// shows up in the low-stock report.
const DefaultLowStockThreshold = 5

// InventoryService owns the in-memory store exclusively and keeps the
// persisted snapshot in sync after every successful mutation. The mutex
// serializes operations at the boundary; the store itself carries no locking.
type InventoryService struct {
	mu    sync.Mutex
	store *store.Store
	repo  repositories.SnapshotRepository
}

// NewInventoryService loads the persisted snapshot into a fresh store.
func NewInventoryService(repo repositories.SnapshotRepository) (*InventoryService, error) {
	products, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}
	return &InventoryService{
		store: store.NewFromSnapshot(products),
		repo:  repo,
	}, nil
}

// CreateProduct validates the raw fields and appends a new record. Validation
// failures come back as the message list together with the best-effort
// candidate record; the error result is reserved for persistence failures.
func (s *InventoryService) CreateProduct(in validation.Input) (models.Product, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, product, verrs := validation.Validate(in, s.store.SKUSet(), validation.ModeCreate, "")
	if !ok {
		return product, verrs, nil
	}

	s.store.Create(product)
	if err := s.persist(); err != nil {
		return product, nil, err
	}
	return product, nil, nil
}

// UpdateProduct validates the raw fields and replaces the record identified
// by originalSKU, preserving its original CreatedAt. Returns
// ErrProductNotFound when originalSKU is not in the store.
func (s *InventoryService) UpdateProduct(originalSKU string, in validation.Input) (models.Product, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, product, verrs := validation.Validate(in, s.store.SKUSet(), validation.ModeEdit, originalSKU)
	if !ok {
		return product, verrs, nil
	}

	if !s.store.Update(originalSKU, product) {
		return product, nil, fmt.Errorf("%w: %s", ErrProductNotFound, originalSKU)
	}
	if err := s.persist(); err != nil {
		return product, nil, err
	}

	// The store carried the prior CreatedAt onto the replacement; return the
	// record as stored.
	stored, _ := s.store.Get(product.SKU)
	return stored, nil, nil
}

// DeleteProduct removes the record with the given SKU.
func (s *InventoryService) DeleteProduct(sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Delete(sku) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	return s.persist()
}

// ListProducts returns every record in original order.
func (s *InventoryService) ListProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// SearchProducts returns the records matching the query case-insensitively
// on SKU, name, or category. A blank query returns everything.
func (s *InventoryService) SearchProducts(query string) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Search(query)
}

// Summary returns the record count and the total inventory value
// (price times stock summed over all records).
func (s *InventoryService) Summary() (int, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len(), models.InventoryValue(s.store.All())
}

// LowStockProducts returns the records whose stock is at or below the
// threshold.
func (s *InventoryService) LowStockProducts(threshold int) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var low []models.Product
	for _, p := range s.store.All() {
		if p.Stock <= threshold {
			low = append(low, p)
		}
	}
	return low
}

// CountByCategory returns how many records each category holds. Records that
// predate validation and carry no category are counted under "Otro".
func (s *InventoryService) CountByCategory() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, p := range s.store.All() {
		cat := p.Category
		if cat == "" {
			cat = "Otro"
		}
		counts[cat]++
	}
	return counts
}

// persist writes the whole snapshot. Callers hold the mutex.
func (s *InventoryService) persist() error {
	return s.repo.Save(s.store.All())
}
