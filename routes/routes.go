package routes

import (
	"context"
	"io"
	"net/url"

	"skequip/blob"
	"skequip/catalog"
	"skequip/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// CatalogStore is the mutation/read surface the handlers need from the
// catalog repository.
type CatalogStore interface {
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, fields map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Products(ctx context.Context) ([]models.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, error)

	CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)

	CreateSubCategory(ctx context.Context, sub *models.SubCategory) (*models.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id string, fields map[string]any) (*models.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id string) error
	SubCategories(ctx context.Context) ([]models.SubCategory, error)
	SubCategoryBySlug(ctx context.Context, slug string) (*models.SubCategory, error)
	SubCategoriesByCategory(ctx context.Context, categoryTitle string) ([]models.SubCategory, error)
}

// BlobStore is the image storage surface for upload and serving.
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, blob.Meta, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries everything the handlers are wired with. Events and
// Health are optional.
type Deps struct {
	Catalog CatalogStore
	Query   *catalog.Query
	Blobs   BlobStore
	Events  *EventHub
	Health  func(ctx context.Context) error
}

type handlers struct {
	Deps
}

func SetupRoutes(app *fiber.App, d Deps) {
	h := &handlers{d}

	app.Get("/healthz", h.healthz)

	if d.Events != nil {
		app.Get("/ws/admin", adaptor.HTTPHandlerFunc(d.Events.ServeWS))
	}

	api := app.Group("/api")

	api.Post("/upload", h.uploadImage)
	api.Get("/images/:id", h.serveImage)

	// Product routes
	products := api.Group("/products")
	products.Get("/search", h.searchProducts)
	products.Get("/featured", h.featuredProducts)
	products.Get("/best-selling", h.bestSellingProducts)
	products.Get("/related/:id", h.relatedProducts)
	products.Get("/slug/:slug", h.productBySlug)
	products.Get("/", h.getAllProducts)
	products.Post("/", h.createProduct)
	products.Put("/", h.updateProduct)
	products.Delete("/", h.deleteProduct)

	// Category routes
	categories := api.Group("/categories")
	categories.Get("/slug/:slug", h.categoryBySlug)
	categories.Get("/", h.getAllCategories)
	categories.Post("/", h.createCategory)
	categories.Put("/", h.updateCategory)
	categories.Delete("/", h.deleteCategory)

	// SubCategory routes
	subcategories := api.Group("/subcategories")
	subcategories.Get("/slug/:slug", h.subCategoryBySlug)
	subcategories.Get("/by-category/:title", h.subCategoriesByCategory)
	subcategories.Get("/", h.getAllSubCategories)
	subcategories.Post("/", h.createSubCategory)
	subcategories.Put("/", h.updateSubCategory)
	subcategories.Delete("/", h.deleteSubCategory)
}

func (h *handlers) healthz(c *fiber.Ctx) error {
	if h.Health != nil {
		if err := h.Health(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// pathParam returns a route parameter with percent-encoding undone, so
// slugs and titles copied out of browser URLs resolve.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// recordID pulls the target id out of a mutation payload. The admin
// console sends "id"; records exported straight from the database come
// back with "_id".
func recordID(fields map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := fields[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
