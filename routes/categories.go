package routes

import (
	"errors"

	"skequip/catalog"
	"skequip/models"

	"github.com/gofiber/fiber/v2"
)

func (h *handlers) getAllCategories(c *fiber.Ctx) error {
	categories, err := h.Catalog.Categories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get categories",
		})
	}
	return c.JSON(categories)
}

func (h *handlers) createCategory(c *fiber.Ctx) error {
	category := new(models.Category)
	if err := c.BodyParser(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	created, err := h.Catalog.CreateCategory(c.Context(), category)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": verr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create category",
		})
	}

	h.Events.Publish(Event{Type: "category.created", ID: created.ID.Hex()})
	return c.JSON(created)
}

func (h *handlers) updateCategory(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category ID is required for update",
		})
	}

	updated, err := h.Catalog.UpdateCategory(c.Context(), id, fields)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update category",
		})
	}

	h.Events.Publish(Event{Type: "category.updated", ID: id})
	return c.JSON(updated)
}

func (h *handlers) deleteCategory(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category ID is required for deletion",
		})
	}

	if err := h.Catalog.DeleteCategory(c.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete category",
		})
	}

	h.Events.Publish(Event{Type: "category.deleted", ID: id})
	return c.JSON(fiber.Map{"success": true})
}

func (h *handlers) categoryBySlug(c *fiber.Ctx) error {
	category, err := h.Catalog.CategoryBySlug(c.Context(), pathParam(c, "slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get category",
		})
	}
	return c.JSON(category)
}
