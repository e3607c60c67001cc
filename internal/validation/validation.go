package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"sgp/internal/models"
)

// Mode selects the uniqueness rule applied by Validate.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,30}$`)

// truthy string tokens accepted for the active flag on import.
var truthyTokens = map[string]struct{}{
	"1":    {},
	"true": {},
	"si":   {},
	"sí":   {},
	"yes":  {},
}

// Input carries the raw field values for one product, as collected from a
// form or a spreadsheet row. Numeric fields stay strings so parsing failures
// can be reported as validation errors instead of transport errors.
type Input struct {
	SKU      string
	Name     string
	Category string
	Price    string
	Stock    string
	Active   bool
}

// NormalizeText trims leading and trailing whitespace. Never fails.
func NormalizeText(raw string) string {
	return strings.TrimSpace(raw)
}

// ParseInt parses a trimmed integer. The second result is false when the
// input is not a whole number.
func ParseInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDecimal parses a trimmed decimal, accepting a comma as the decimal
// separator. The second result is false when the input is not numeric.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	txt := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(txt)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CoerceBool interprets loosely typed spreadsheet input as a boolean. Strings
// are matched against the truthy tokens case-insensitively, numbers are true
// when non-zero, and a missing value (nil) defaults to true.
func CoerceBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(v))]
		return ok
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Validate checks the raw fields against every rule and collects all
// applicable error messages; it never short-circuits and never panics.
//
// It always returns a constructed candidate record, even when invalid, with
// zero substituted for unparseable numeric fields so the caller can still
// display what would have been saved. CreatedAt is stamped with the current
// time on every call; the store overwrites it with the prior value when the
// operation is an update.
//
// In edit mode originalSKU names the identity being edited; an empty value is
// an internal-contract violation and is reported as a validation error rather
// than a panic.
func Validate(in Input, knownSKUs map[string]struct{}, mode Mode, originalSKU string) (bool, models.Product, []string) {
	var errs []string

	sku := NormalizeText(in.SKU)
	name := NormalizeText(in.Name)
	category := NormalizeText(in.Category)

	if sku == "" {
		errs = append(errs, "SKU is required.")
	} else if !skuPattern.MatchString(sku) {
		errs = append(errs, "SKU is invalid (use letters/digits/_/- with length 2 to 30).")
	}

	if name == "" {
		errs = append(errs, "name is required.")
	} else if utf8.RuneCountInString(name) < 2 {
		errs = append(errs, "name must have at least 2 characters.")
	}

	if !models.ValidCategory(category) {
		errs = append(errs, fmt.Sprintf("category is invalid. Use: %s.", strings.Join(models.Categories, ", ")))
	}

	price, priceOK := ParseDecimal(in.Price)
	if !priceOK {
		errs = append(errs, "price must be numeric.")
	} else if price.IsNegative() {
		errs = append(errs, "price cannot be negative.")
	}

	stock, stockOK := ParseInt(in.Stock)
	if !stockOK {
		errs = append(errs, "stock must be a whole number.")
	} else if stock < 0 {
		errs = append(errs, "stock cannot be negative.")
	}

	switch mode {
	case ModeCreate:
		if _, exists := knownSKUs[sku]; exists {
			errs = append(errs, "SKU already exists, it must be unique.")
		}
	case ModeEdit:
		if originalSKU == "" {
			errs = append(errs, "internal error: missing original SKU for edit.")
		} else if sku != originalSKU {
			if _, exists := knownSKUs[sku]; exists {
				errs = append(errs, "new SKU already exists, it must be unique.")
			}
		}
	}

	product := models.Product{
		SKU:       sku,
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		Active:    in.Active,
		CreatedAt: time.Now().Format(models.CreatedAtLayout),
	}

	return len(errs) == 0, product, errs
}
