package handlers

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sgp/internal/services"
	"sgp/pkg/excel"
	"sgp/pkg/pdfreport"
)

// maxReasonsInSummary caps the rejection reasons included in the
// human-readable import summary; the JSON report carries the full list.
const maxReasonsInSummary = 10

// TransferHandler handles spreadsheet and document export/import endpoints.
type TransferHandler struct {
	service  *services.InventoryService
	validate *validator.Validate
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service *services.InventoryService) *TransferHandler {
	return &TransferHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the transfer routes with the Fiber app.
func (h *TransferHandler) RegisterRoutes(router fiber.Router) {
	transferRoutes := router.Group("/transfer")
	transferRoutes.Get("/export/xlsx", h.HandleExportExcel)
	transferRoutes.Get("/export/pdf", h.HandleExportPDF)
	transferRoutes.Post("/import/xlsx", h.HandleImportExcel)
}

// pdfExportQuery holds the optional report parameters.
type pdfExportQuery struct {
	Title string `validate:"omitempty,max=120"`
}

// importForm holds the overwrite policy sent alongside the uploaded file.
type importForm struct {
	Overwrite string `validate:"omitempty,oneof=true false 1 0"`
}

// HandleExportExcel streams the current records (optionally filtered by q) as
// an xlsx attachment with a timestamped filename.
func (h *TransferHandler) HandleExportExcel(c *fiber.Ctx) error {
	products := h.service.SearchProducts(c.Query("q"))
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No records to export",
		})
	}

	var buf bytes.Buffer
	if err := excel.Export(&buf, products); err != nil {
		log.Printf("Error exporting products to Excel: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate spreadsheet",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// HandleExportPDF streams the current records (optionally filtered by q) as a
// paginated PDF report.
func (h *TransferHandler) HandleExportPDF(c *fiber.Ctx) error {
	query := pdfExportQuery{Title: c.Query("title")}
	if err := h.validate.Struct(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid report parameters",
			"error":   err.Error(),
		})
	}

	products := h.service.SearchProducts(c.Query("q"))
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No records to export",
		})
	}

	var buf bytes.Buffer
	if err := pdfreport.Export(&buf, query.Title, products); err != nil {
		log.Printf("Error exporting products to PDF: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate PDF report",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("products_%s.pdf", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(buf.Bytes())
}

// HandleImportExcel reads an uploaded xlsx file and reconciles its rows
// against the store per the overwrite policy. The batch always completes;
// the response carries the tallies plus every row-tagged rejection reason.
func (h *TransferHandler) HandleImportExcel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A spreadsheet file is required",
		})
	}

	form := importForm{Overwrite: c.FormValue("overwrite", "false")}
	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid overwrite value, use true or false",
			"error":   err.Error(),
		})
	}
	overwrite := form.Overwrite == "true" || form.Overwrite == "1"

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not open the uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	rows, err := excel.Import(file)
	if err != nil {
		log.Printf("Error reading spreadsheet %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read the spreadsheet",
			"error":   err.Error(),
		})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "The spreadsheet contains no records",
		})
	}

	report, err := h.service.ImportProducts(rows, overwrite)
	if err != nil {
		log.Printf("Error persisting imported products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Import processed but the snapshot could not be saved",
			"error":   err.Error(),
			"report":  report,
		})
	}

	return c.JSON(fiber.Map{
		"message": summaryLine(report),
		"report":  report,
	})
}

// summaryLine renders the tallies plus a capped sample of rejection reasons.
func summaryLine(report services.ImportReport) string {
	msg := fmt.Sprintf("Import finished: %d created, %d updated, %d rejected.",
		report.Created, report.Updated, report.Rejected)
	if len(report.Reasons) > 0 {
		shown := report.Reasons
		if len(shown) > maxReasonsInSummary {
			shown = shown[:maxReasonsInSummary]
		}
		msg += " Reasons: " + strings.Join(shown, " | ")
	}
	return msg
}
