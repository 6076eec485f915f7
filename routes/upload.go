package routes

import (
	"errors"

	"skequip/blob"

	"github.com/gofiber/fiber/v2"
)

// Image upload handler. Accepts a multipart form with a "file" field
// and stores the payload in the blob store.
func (h *handlers) uploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Upload failed",
		})
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	id, err := h.Blobs.Store(c.Context(), f, fileHeader.Size, contentType, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, blob.ErrUnsupportedMediaType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Only JPEG, PNG, and WEBP images are allowed",
			})
		case errors.Is(err, blob.ErrEmptyPayload):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Uploaded file is empty",
			})
		case errors.Is(err, blob.ErrUploadTimeout):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Upload timed out",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Upload failed",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"fileId":   id,
		"imageUrl": "/api/images/" + id,
	})
}
