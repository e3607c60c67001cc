package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sgp/internal/models"
)

func TestInventoryValue(t *testing.T) {
	products := []models.Product{
		{Price: decimal.NewFromInt(10), Stock: 5},
		{Price: decimal.RequireFromString("2.5"), Stock: 4},
		{Price: decimal.NewFromInt(100), Stock: 0},
	}

	assert.True(t, models.InventoryValue(products).Equal(decimal.NewFromInt(60)))
	assert.True(t, models.InventoryValue(nil).IsZero())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, models.ValidCategory("Aseo"))
	assert.True(t, models.ValidCategory("Ferretería"))
	assert.False(t, models.ValidCategory("aseo"))
	assert.False(t, models.ValidCategory(""))
}

func TestFieldValues(t *testing.T) {
	p := models.Product{
		SKU:       "AB1",
		Name:      "Mop",
		Category:  "Aseo",
		Price:     decimal.RequireFromString("10.5"),
		Stock:     5,
		Active:    true,
		CreatedAt: "2024-01-01 10:00:00",
	}

	values := p.FieldValues()
	assert.Len(t, values, len(models.FieldOrder))
	assert.Equal(t, []string{"AB1", "Mop", "Aseo", "10.5", "5", "true", "2024-01-01 10:00:00"}, values)
}
