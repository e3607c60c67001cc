package store

import (
	"strings"

	"sgp/internal/models"
)

// Store is the ordered in-memory collection of product records. It is a plain
// data structure with no locking and no validation: callers validate before
// mutating, and a single actor mutates it at a time. Every read returns a
// fresh copy so no caller holds a handle into the underlying slice.
type Store struct {
	products []models.Product
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewFromSnapshot returns a store pre-filled with a loaded snapshot,
// preserving its order.
func NewFromSnapshot(products []models.Product) *Store {
	s := &Store{products: make([]models.Product, len(products))}
	copy(s.products, products)
	return s
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.products)
}

// All returns a copy of every record in original order.
func (s *Store) All() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// FindIndex returns the position of the first record whose SKU matches
// exactly (case-sensitive), or -1 when absent.
func (s *Store) FindIndex(sku string) int {
	for i, p := range s.products {
		if p.SKU == sku {
			return i
		}
	}
	return -1
}

// Get returns the record with the given SKU, if present.
func (s *Store) Get(sku string) (models.Product, bool) {
	idx := s.FindIndex(sku)
	if idx == -1 {
		return models.Product{}, false
	}
	return s.products[idx], true
}

// SKUSet returns the set of all non-empty SKU values currently present.
func (s *Store) SKUSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.products))
	for _, p := range s.products {
		if p.SKU != "" {
			set[p.SKU] = struct{}{}
		}
	}
	return set
}

// Create appends the record. Uniqueness is not checked here; the caller must
// have validated against SKUSet.
func (s *Store) Create(p models.Product) {
	s.products = append(s.products, p)
}

// Update replaces the record identified by originalSKU in place, keeping the
// ordering of every other record. The existing CreatedAt is carried onto the
// replacement. Returns false without mutating when originalSKU is absent.
func (s *Store) Update(originalSKU string, p models.Product) bool {
	idx := s.FindIndex(originalSKU)
	if idx == -1 {
		return false
	}
	if created := s.products[idx].CreatedAt; created != "" {
		p.CreatedAt = created
	}
	s.products[idx] = p
	return true
}

// Delete removes the record with the given SKU. Returns false when absent.
func (s *Store) Delete(sku string) bool {
	idx := s.FindIndex(sku)
	if idx == -1 {
		return false
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	return true
}

// Search returns the records whose SKU, name, or category contains the query
// case-insensitively. A blank query returns every record in original order.
func (s *Store) Search(query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.All()
	}

	var matches []models.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.SKU), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matches = append(matches, p)
		}
	}
	return matches
}
