package store_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgp/internal/models"
	"sgp/internal/store"
)

func product(sku, name, category string, stock int) models.Product {
	return models.Product{
		SKU:       sku,
		Name:      name,
		Category:  category,
		Price:     decimal.NewFromInt(10),
		Stock:     stock,
		Active:    true,
		CreatedAt: "2024-01-01 10:00:00",
	}
}

func seeded() *store.Store {
	return store.NewFromSnapshot([]models.Product{
		product("AB1", "Mop", "Aseo", 5),
		product("AB2", "Rice", "Alimentos", 20),
		product("AB3", "Hammer", "Ferretería", 3),
	})
}

func TestStore_CreateAndFind(t *testing.T) {
	s := store.New()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.FindIndex("AB1"))

	s.Create(product("AB1", "Mop", "Aseo", 5))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.FindIndex("AB1"))

	// Exact, case-sensitive match only.
	assert.Equal(t, -1, s.FindIndex("ab1"))
}

func TestStore_SKUSetSkipsEmpty(t *testing.T) {
	s := store.New()
	s.Create(product("AB1", "Mop", "Aseo", 5))
	s.Create(product("", "Nameless", "Otro", 1))

	set := s.SKUSet()
	assert.Len(t, set, 1)
	_, ok := set["AB1"]
	assert.True(t, ok)
}

func TestStore_UpdatePreservesCreatedAtAndOrder(t *testing.T) {
	s := seeded()

	replacement := product("AB2", "Brown Rice", "Alimentos", 15)
	replacement.CreatedAt = "2030-12-31 23:59:59" // stamped by the validator, must be discarded

	require.True(t, s.Update("AB2", replacement))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"AB1", "AB2", "AB3"}, []string{all[0].SKU, all[1].SKU, all[2].SKU})
	assert.Equal(t, "Brown Rice", all[1].Name)
	assert.Equal(t, "2024-01-01 10:00:00", all[1].CreatedAt)
}

func TestStore_UpdateCanRenameIdentity(t *testing.T) {
	s := seeded()

	replacement := product("AB9", "Mop", "Aseo", 5)
	require.True(t, s.Update("AB1", replacement))

	assert.Equal(t, -1, s.FindIndex("AB1"))
	assert.Equal(t, 0, s.FindIndex("AB9"))
}

func TestStore_UpdateUnknownSKUFails(t *testing.T) {
	s := seeded()
	assert.False(t, s.Update("NOPE", product("NOPE", "X", "Otro", 1)))
	assert.Equal(t, 3, s.Len())
}

func TestStore_Delete(t *testing.T) {
	s := seeded()

	require.True(t, s.Delete("AB2"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, -1, s.FindIndex("AB2"))

	assert.False(t, s.Delete("AB2"))
}

func TestStore_SearchBlankReturnsAllInOrder(t *testing.T) {
	s := seeded()

	all := s.Search("")
	require.Len(t, all, 3)
	assert.Equal(t, "AB1", all[0].SKU)
	assert.Equal(t, "AB3", all[2].SKU)

	// Whitespace-only behaves like blank.
	assert.Len(t, s.Search("   "), 3)
}

func TestStore_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	s := seeded()

	bySKU := s.Search("ab2")
	require.Len(t, bySKU, 1)
	assert.Equal(t, "AB2", bySKU[0].SKU)

	byName := s.Search("HAMMER")
	require.Len(t, byName, 1)
	assert.Equal(t, "AB3", byName[0].SKU)

	byCategory := s.Search("aseo")
	require.Len(t, byCategory, 1)
	assert.Equal(t, "AB1", byCategory[0].SKU)

	assert.Empty(t, s.Search("zzz"))
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := seeded()

	all := s.All()
	all[0].Name = "Mutated"

	fresh, ok := s.Get("AB1")
	require.True(t, ok)
	assert.Equal(t, "Mop", fresh.Name)
}
