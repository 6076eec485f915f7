package routes

import (
	"errors"

	"skequip/catalog"
	"skequip/models"

	"github.com/gofiber/fiber/v2"
)

func (h *handlers) getAllProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.Products(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get products",
		})
	}
	return c.JSON(products)
}

func (h *handlers) createProduct(c *fiber.Ctx) error {
	product := new(models.Product)
	if err := c.BodyParser(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	created, err := h.Catalog.CreateProduct(c.Context(), product)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": verr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	h.Events.Publish(Event{Type: "product.created", ID: created.ID.Hex()})
	return c.JSON(created)
}

func (h *handlers) updateProduct(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product ID is required for update",
		})
	}

	updated, err := h.Catalog.UpdateProduct(c.Context(), id, fields)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	h.Events.Publish(Event{Type: "product.updated", ID: id})
	return c.JSON(updated)
}

func (h *handlers) deleteProduct(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product ID is required for deletion",
		})
	}

	if err := h.Catalog.DeleteProduct(c.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	h.Events.Publish(Event{Type: "product.deleted", ID: id})
	return c.JSON(fiber.Map{"success": true})
}

func (h *handlers) productBySlug(c *fiber.Ctx) error {
	product, err := h.Query.BySlug(c.Context(), pathParam(c, "slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get product",
		})
	}
	return c.JSON(product)
}

func (h *handlers) featuredProducts(c *fiber.Ctx) error {
	products, err := h.Query.Featured(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get featured products",
		})
	}
	return c.JSON(products)
}

func (h *handlers) bestSellingProducts(c *fiber.Ctx) error {
	products, err := h.Query.BestSelling(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get best-selling products",
		})
	}
	return c.JSON(products)
}

func (h *handlers) relatedProducts(c *fiber.Ctx) error {
	products, err := h.Query.Related(c.Context(), c.Params("id"), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get related products",
		})
	}
	return c.JSON(products)
}

func (h *handlers) searchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	products, err := h.Query.Search(c.Context(), query, c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search products",
		})
	}
	return c.JSON(SearchResponse{Products: products})
}

type SearchResponse struct {
	Products []models.Product `json:"products"`
}
