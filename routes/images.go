package routes

import (
	"errors"
	"math"

	"skequip/blob"

	"github.com/gofiber/fiber/v2"
)

// Streams blob bytes straight from the store; images are immutable
// once uploaded so clients may cache for a year.
func (h *handlers) serveImage(c *fiber.Ctx) error {
	stream, meta, err := h.Blobs.Open(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Image not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to serve image",
		})
	}

	c.Set(fiber.HeaderContentType, meta.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	if size, ok := streamSize(meta.Length); ok {
		return c.SendStream(stream, size)
	}
	return c.SendStream(stream)
}

// streamSize reports a blob length as an int when the platform can
// represent it; otherwise the response falls back to chunked transfer.
func streamSize(n int64) (int, bool) {
	if n <= 0 || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}
