package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sgp/internal/handlers"
	"sgp/internal/repositories"
	"sgp/internal/services"
)

// setupApp builds a Fiber app over a JSON snapshot in a temp dir, wired the
// same way as main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	repo := repositories.NewJSONSnapshotRepository(filepath.Join(t.TempDir(), "products.json"))
	inventoryService, err := services.NewInventoryService(repo)
	require.NoError(t, err)

	productHandler := handlers.NewProductHandler(inventoryService)
	transferHandler := handlers.NewTransferHandler(inventoryService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	transferHandler.RegisterRoutes(apiV1)
	return app
}

// TestMain suppresses handler logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createProductBody(sku string) map[string]any {
	return map[string]any{
		"sku":      sku,
		"name":     "Mop",
		"category": "Aseo",
		"price":    "10",
		"stock":    "5",
		"active":   true,
	}
}

func TestProductCRUDFlow(t *testing.T) {
	app := setupApp(t)

	// Create
	resp := postJSON(t, app, "/api/v1/products/", createProductBody("AB1"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeBody(t, resp, &created)
	assert.Equal(t, "AB1", created["sku"])
	originalCreatedAt := created["created_at"]
	assert.NotEmpty(t, originalCreatedAt)

	// Duplicate create is a validation failure with the full error list.
	resp = postJSON(t, app, "/api/v1/products/", createProductBody("AB1"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var failed struct {
		Errors    []string       `json:"errors"`
		Candidate map[string]any `json:"candidate"`
	}
	decodeBody(t, resp, &failed)
	require.NotEmpty(t, failed.Errors)
	assert.Contains(t, failed.Errors[0], "already exists")
	assert.Equal(t, "AB1", failed.Candidate["sku"])

	// List and search
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?q=mop", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]any
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)

	// Update keeps created_at
	update := createProductBody("AB1")
	update["name"] = "Deluxe Mop"
	jsonBody, _ := json.Marshal(update)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/products/AB1", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Deluxe Mop", updated["name"])
	assert.Equal(t, originalCreatedAt, updated["created_at"])

	// Summary
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/summary", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var summary map[string]any
	decodeBody(t, resp, &summary)
	assert.Equal(t, float64(1), summary["count"])
	assert.Equal(t, "50", summary["inventory_value"])

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/products/AB1", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/products/AB1", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUnknownSKUReturnsNotFound(t *testing.T) {
	app := setupApp(t)

	jsonBody, _ := json.Marshal(createProductBody("AB9"))
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/AB9", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportEndpoints(t *testing.T) {
	app := setupApp(t)

	// Exporting an empty store is refused.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfer/export/xlsx", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/products/", createProductBody("AB1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/transfer/export/xlsx", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/transfer/export/pdf?title=Inventario", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// buildWorkbook renders rows (header included) into an xlsx payload.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadWorkbook(t *testing.T, app *fiber.App, payload []byte, overwrite string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("overwrite", overwrite))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer/import/xlsx", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestImportEndpoint(t *testing.T) {
	app := setupApp(t)

	resp := postJSON(t, app, "/api/v1/products/", createProductBody("AB1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload := buildWorkbook(t, [][]interface{}{
		{"SKU", "NAME", "CATEGORY", "PRICE", "STOCK", "ACTIVE"},
		{"AB1", "Imported Mop", "Aseo", "12", "7", "true"}, // exists, not overwritten
		{"AB2", "Rice", "Alimentos", "2,5", "40", "si"},
		{"AB3", "Broken", "Nope", "abc", "1", "true"}, // invalid row
	})

	resp = uploadWorkbook(t, app, payload, "false")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string                `json:"message"`
		Report  services.ImportReport `json:"report"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Report.Created)
	assert.Equal(t, 0, result.Report.Updated)
	assert.Equal(t, 2, result.Report.Rejected)
	require.Len(t, result.Report.Reasons, 2)
	assert.Contains(t, result.Report.Reasons[0], "row 2")
	assert.Contains(t, result.Report.Reasons[0], "already exists")
	assert.Contains(t, result.Report.Reasons[1], "row 4")
	assert.NotEmpty(t, result.Report.BatchID)
	assert.Contains(t, result.Message, "1 created")

	// The existing record kept its original name.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?q=AB1", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	var listed []map[string]any
	decodeBody(t, listResp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mop", listed[0]["name"])

	// Re-run with overwrite: the existing row now updates.
	resp = uploadWorkbook(t, app, payload, "true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, 0, result.Report.Created)
	assert.Equal(t, 2, result.Report.Updated)
	assert.Equal(t, 1, result.Report.Rejected)
}

func TestImportEndpointRejectsMissingFile(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer/import/xlsx", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
