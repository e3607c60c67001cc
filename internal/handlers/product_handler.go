package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"sgp/internal/models"
	"sgp/internal/services"
	"sgp/internal/validation"
)

// ProductHandler handles HTTP requests for product records.
type ProductHandler struct {
	service *services.InventoryService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/summary", h.HandleSummary)
	productRoutes.Get("/low-stock", h.HandleLowStock)
	productRoutes.Get("/categories", h.HandleCategories)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:sku", h.HandleUpdateProduct)
	productRoutes.Delete("/:sku", h.HandleDeleteProduct)
}

// ProductRequest carries the raw form values for a create or edit. Numeric
// fields stay strings so the domain validator can report coercion problems as
// user-facing messages instead of body-parse failures. Active defaults to
// true when omitted, matching the form's default state.
type ProductRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Stock    string `json:"stock"`
	Active   *bool  `json:"active"`
}

func (r ProductRequest) toInput() validation.Input {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return validation.Input{
		SKU:      r.SKU,
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
		Active:   active,
	}
}

// HandleListProducts returns all products, filtered by the optional q query
// (case-insensitive substring over SKU, name, and category).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products := h.service.SearchProducts(c.Query("q"))
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleCreateProduct validates and stores a new product. Validation failures
// come back as 422 with the full message list plus the candidate record that
// would have been saved.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, verrs, err := h.service.CreateProduct(req.toInput())
	if err != nil {
		log.Printf("Error creating product %s: %v", req.SKU, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save product",
			"error":   err.Error(),
		})
	}
	if len(verrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":   "Validation failed",
			"errors":    verrs,
			"candidate": product,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct validates and replaces the product identified by the
// SKU path parameter. The stored CreatedAt is preserved.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	originalSKU := c.Params("sku")

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, verrs, err := h.service.UpdateProduct(originalSKU, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product with SKU " + originalSKU + " not found",
			})
		}
		log.Printf("Error updating product %s: %v", originalSKU, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save product",
			"error":   err.Error(),
		})
	}
	if len(verrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":   "Validation failed",
			"errors":    verrs,
			"candidate": product,
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes the product identified by the SKU path
// parameter.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	sku := c.Params("sku")

	if err := h.service.DeleteProduct(sku); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product with SKU " + sku + " not found",
			})
		}
		log.Printf("Error deleting product %s: %v", sku, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product " + sku + " deleted",
	})
}

// HandleSummary returns the record count and total inventory value.
func (h *ProductHandler) HandleSummary(c *fiber.Ctx) error {
	count, value := h.service.Summary()
	return c.JSON(fiber.Map{
		"count":           count,
		"inventory_value": value,
	})
}

// HandleLowStock returns the products at or below the stock threshold
// (default 5).
func (h *ProductHandler) HandleLowStock(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold", services.DefaultLowStockThreshold)
	products := h.service.LowStockProducts(threshold)
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(fiber.Map{
		"threshold": threshold,
		"products":  products,
	})
}

// HandleCategories returns the allowed category labels and how many products
// each one holds.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"allowed": models.Categories,
		"counts":  h.service.CountByCategory(),
	})
}
