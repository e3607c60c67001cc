package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sgp/internal/validation"
)

// importHeaderRows is the number of rows preceding data in the spreadsheet,
// used to tag rejection reasons with the row position as the user sees it.
const importHeaderRows = 1

// ImportReport summarizes one reconciled batch: the tallies plus the ordered,
// row-tagged rejection reasons.
type ImportReport struct {
	BatchID  string   `json:"batch_id"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Rejected int      `json:"rejected"`
	Reasons  []string `json:"reasons"`
}

// ImportProducts reconciles externally sourced rows against the store. Each
// row is validated with the same rules as the form: a row whose SKU is
// already known is treated as an edit, otherwise as a create. Invalid rows
// are rejected with their full error list; valid rows either create, update
// (only when overwrite is set), or are rejected as already existing. A newly
// created SKU is added to the in-flight known set immediately, so later rows
// in the same batch see it. No row failure aborts the batch, and the snapshot
// is persisted once after all rows are processed.
func (s *InventoryService) ImportProducts(rows []map[string]string, overwrite bool) (ImportReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := ImportReport{
		BatchID: uuid.New().String(),
		Reasons: []string{},
	}

	known := s.store.SKUSet()
	for i, row := range rows {
		rowNum := i + importHeaderRows + 1

		// A blank active cell is treated as missing. Spreadsheet readers drop
		// trailing empty cells, so a blank value in the last column never
		// reaches us anyway; this keeps both positions on the same default.
		var active any
		if raw, ok := row["active"]; ok && strings.TrimSpace(raw) != "" {
			active = raw
		}
		in := validation.Input{
			SKU:      strings.TrimSpace(row["sku"]),
			Name:     strings.TrimSpace(row["name"]),
			Category: strings.TrimSpace(row["category"]),
			Price:    strings.TrimSpace(row["price"]),
			Stock:    strings.TrimSpace(row["stock"]),
			Active:   validation.CoerceBool(active),
		}

		sku := in.SKU
		_, exists := known[sku]
		mode := validation.ModeCreate
		originalSKU := ""
		if exists {
			mode = validation.ModeEdit
			originalSKU = sku
		}

		ok, product, verrs := validation.Validate(in, known, mode, originalSKU)
		if !ok {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("row %d: %s", rowNum, strings.Join(verrs, "; ")))
			continue
		}

		switch {
		case exists && !overwrite:
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("row %d: SKU %s already exists (not overwritten).", rowNum, sku))
		case exists:
			// The SKU was seen in the known set, but guard the update anyway.
			if s.store.Update(sku, product) {
				report.Updated++
			} else {
				report.Rejected++
				report.Reasons = append(report.Reasons, fmt.Sprintf("row %d: could not update SKU %s.", rowNum, sku))
			}
		default:
			s.store.Create(product)
			report.Created++
			known[sku] = struct{}{}
		}
	}

	if err := s.persist(); err != nil {
		return report, err
	}
	return report, nil
}
