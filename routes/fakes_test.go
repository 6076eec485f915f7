package routes

import (
	"bytes"
	"context"
	"io"

	"skequip/blob"
	"skequip/catalog"
	"skequip/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCatalog is an in-memory CatalogStore mirroring the repository's
// contract closely enough for handler tests.
type fakeCatalog struct {
	products      []models.Product
	categories    []models.Category
	subcategories []models.SubCategory
	err           error
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	missing := []string{}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return nil, &catalog.ValidationError{Missing: missing}
	}
	if p.Slug == "" {
		p.Slug = catalog.Slugify(p.Title)
	}
	if p.Rating == 0 {
		p.Rating = 3
	}
	p.ID = primitive.NewObjectID()
	f.products = append(f.products, *p)
	return p, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID.Hex() == id {
			if title, ok := fields["title"].(string); ok {
				f.products[i].Title = title
			}
			return &f.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.products {
		if f.products[i].ID.Hex() == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) Products(ctx context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if cat.Title == "" {
		return nil, &catalog.ValidationError{Missing: []string{"title"}}
	}
	cat.ID = primitive.NewObjectID()
	f.categories = append(f.categories, *cat)
	return cat, nil
}

func (f *fakeCatalog) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID.Hex() == id {
			return &f.categories[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) DeleteCategory(ctx context.Context, id string) error {
	for i := range f.categories {
		if f.categories[i].ID.Hex() == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == catalog.Slugify(slug) {
			return &f.categories[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateSubCategory(ctx context.Context, sub *models.SubCategory) (*models.SubCategory, error) {
	if sub.Title == "" || sub.Category == "" {
		return nil, &catalog.ValidationError{Missing: []string{"title", "category"}}
	}
	sub.ID = primitive.NewObjectID()
	f.subcategories = append(f.subcategories, *sub)
	return sub, nil
}

func (f *fakeCatalog) UpdateSubCategory(ctx context.Context, id string, fields map[string]any) (*models.SubCategory, error) {
	for i := range f.subcategories {
		if f.subcategories[i].ID.Hex() == id {
			return &f.subcategories[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) DeleteSubCategory(ctx context.Context, id string) error {
	for i := range f.subcategories {
		if f.subcategories[i].ID.Hex() == id {
			f.subcategories = append(f.subcategories[:i], f.subcategories[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) SubCategories(ctx context.Context) ([]models.SubCategory, error) {
	return f.subcategories, f.err
}

func (f *fakeCatalog) SubCategoryBySlug(ctx context.Context, slug string) (*models.SubCategory, error) {
	for i := range f.subcategories {
		if f.subcategories[i].Slug == catalog.Slugify(slug) {
			return &f.subcategories[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) SubCategoriesByCategory(ctx context.Context, categoryTitle string) ([]models.SubCategory, error) {
	matched := []models.SubCategory{}
	for _, sub := range f.subcategories {
		if catalog.SoftRef(sub.Category).Matches(categoryTitle) {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}

type storedBlob struct {
	data        []byte
	contentType string
	filename    string
}

// fakeBlobs mimics the blob store's validation and addressing.
type fakeBlobs struct {
	blobs map[string]storedBlob
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{blobs: map[string]storedBlob{}}
}

func (f *fakeBlobs) Store(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return "", blob.ErrUnsupportedMediaType
	}
	if size == 0 {
		return "", blob.ErrEmptyPayload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()
	f.blobs[id] = storedBlob{data: data, contentType: contentType, filename: filename}
	return id, nil
}

func (f *fakeBlobs) Open(ctx context.Context, id string) (io.ReadCloser, blob.Meta, error) {
	b, ok := f.blobs[id]
	if !ok {
		return nil, blob.Meta{}, blob.ErrNotFound
	}
	meta := blob.Meta{ContentType: b.contentType, Length: int64(len(b.data)), Filename: b.filename}
	return io.NopCloser(bytes.NewReader(b.data)), meta, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, id string) error {
	if _, ok := f.blobs[id]; !ok {
		return blob.ErrNotFound
	}
	delete(f.blobs, id)
	return nil
}

func newTestApp(fc *fakeCatalog, fb *fakeBlobs) *fiber.App {
	app := fiber.New()
	SetupRoutes(app, Deps{
		Catalog: fc,
		Query:   catalog.NewQuery(fc),
		Blobs:   fb,
	})
	return app
}
