package routes

import (
	"errors"

	"skequip/catalog"
	"skequip/models"

	"github.com/gofiber/fiber/v2"
)

func (h *handlers) getAllSubCategories(c *fiber.Ctx) error {
	subs, err := h.Catalog.SubCategories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get subcategories",
		})
	}
	return c.JSON(subs)
}

func (h *handlers) createSubCategory(c *fiber.Ctx) error {
	sub := new(models.SubCategory)
	if err := c.BodyParser(sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	created, err := h.Catalog.CreateSubCategory(c.Context(), sub)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": verr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create subcategory",
		})
	}

	h.Events.Publish(Event{Type: "subcategory.created", ID: created.ID.Hex()})
	return c.JSON(created)
}

func (h *handlers) updateSubCategory(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "SubCategory ID is required for update",
		})
	}

	updated, err := h.Catalog.UpdateSubCategory(c.Context(), id, fields)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "SubCategory not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update subcategory",
		})
	}

	h.Events.Publish(Event{Type: "subcategory.updated", ID: id})
	return c.JSON(updated)
}

func (h *handlers) deleteSubCategory(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := recordID(fields)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "SubCategory ID is required for deletion",
		})
	}

	if err := h.Catalog.DeleteSubCategory(c.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "SubCategory not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete subcategory",
		})
	}

	h.Events.Publish(Event{Type: "subcategory.deleted", ID: id})
	return c.JSON(fiber.Map{"success": true})
}

func (h *handlers) subCategoryBySlug(c *fiber.Ctx) error {
	sub, err := h.Catalog.SubCategoryBySlug(c.Context(), pathParam(c, "slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "SubCategory not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get subcategory",
		})
	}
	return c.JSON(sub)
}

func (h *handlers) subCategoriesByCategory(c *fiber.Ctx) error {
	subs, err := h.Catalog.SubCategoriesByCategory(c.Context(), pathParam(c, "title"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get subcategories",
		})
	}
	return c.JSON(subs)
}
