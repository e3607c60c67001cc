package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CreatedAtLayout is the timestamp format stored on every record. The value
// is carried verbatim across updates and spreadsheet round-trips, so it stays
// a formatted string rather than a time.Time.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Categories is the fixed set of allowed category labels.
var Categories = []string{"Aseo", "Alimentos", "Ferretería", "Otro"}

// FieldOrder is the canonical column order used by every tabular surface
// (spreadsheet export/import, PDF report).
var FieldOrder = []string{"sku", "name", "category", "price", "stock", "active", "created_at"}

// Product represents one inventory record. The SKU is its identity: unique
// across the store and immutable except when an edit replaces the whole
// identity.
type Product struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
}

// FieldValues returns the record's values as strings in FieldOrder.
func (p Product) FieldValues() []string {
	return []string{
		p.SKU,
		p.Name,
		p.Category,
		p.Price.String(),
		strconv.Itoa(p.Stock),
		strconv.FormatBool(p.Active),
		p.CreatedAt,
	}
}

// ValidCategory reports whether label is one of the allowed categories.
func ValidCategory(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}

// InventoryValue sums price times stock over all records.
func InventoryValue(products []Product) decimal.Decimal {
	return inventoryValueFrom(products, 0)
}

func inventoryValueFrom(products []Product, i int) decimal.Decimal {
	if i >= len(products) {
		return decimal.Zero
	}
	subtotal := products[i].Price.Mul(decimal.NewFromInt(int64(products[i].Stock)))
	return subtotal.Add(inventoryValueFrom(products, i+1))
}
