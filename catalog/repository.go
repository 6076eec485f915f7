package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skequip/blob"
	"skequip/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection      = "products"
	categoriesCollection    = "categories"
	subCategoriesCollection = "subcategories"

	defaultRating = 3
)

var validate = validator.New()

// BlobDeleter is the slice of the blob store the repository needs for
// the product delete cascade.
type BlobDeleter interface {
	Delete(ctx context.Context, id string) error
}

// Repository is the single source of truth for catalog CRUD. It works
// against an injected database handle; every method is one logical
// round trip bounded by the caller's context.
type Repository struct {
	db    *mongo.Database
	blobs BlobDeleter
}

// NewRepository wires the repository to its database. blobs may be nil
// when no blob store is attached (tests, read-only deployments); the
// product delete cascade is then skipped.
func NewRepository(db *mongo.Database, blobs BlobDeleter) *Repository {
	return &Repository{db: db, blobs: blobs}
}

// checkRequired runs the per-kind validation pass and collects every
// missing field into a single ValidationError.
func checkRequired(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Missing: missing}
}

// listOptions sorts every snapshot ascending by _id. ObjectIDs embed
// their creation time, so listings come back in creation order and the
// featured/best-selling cuts downstream are deterministic.
func listOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

// buildUpdate shapes a partial record into a $set document: only the
// supplied keys are written, identity and bookkeeping fields are
// stripped, and a supplied slug is canonicalized.
func buildUpdate(fields map[string]any) bson.M {
	set := bson.M{}
	for k, v := range fields {
		switch k {
		case "id", "_id", "createdAt", "updatedAt":
			continue
		case "slug":
			if s, ok := v.(string); ok {
				v = Slugify(s)
			}
		}
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()
	return set
}

// --- Products ---

func prepareProduct(p *models.Product) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	if err := checkRequired(p); err != nil {
		return err
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	if p.Rating == 0 {
		p.Rating = defaultRating
	}
	if p.Rating < 1 {
		p.Rating = 1
	}
	if p.Rating > 5 {
		p.Rating = 5
	}
	if p.Reviews < 0 {
		p.Reviews = 0
	}
	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := prepareProduct(p); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := r.db.Collection(productsCollection).InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out models.Product
	err = r.db.Collection(productsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": buildUpdate(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &out, nil
}

// DeleteProduct removes the record and then makes a best-effort pass
// at the image blob it referenced. Blob failures are logged, never
// surfaced: the record's deletion wins over blob consistency.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	var p models.Product
	err = r.db.Collection(productsCollection).FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if r.blobs != nil {
		blobID := blobIDForProduct(&p)
		if err := r.blobs.Delete(ctx, blobID); err != nil && !errors.Is(err, blob.ErrNotFound) {
			log.Printf("product %s deleted but blob %s was not: %v", id, blobID, err)
		}
	}
	return nil
}

func (r *Repository) Products(ctx context.Context) ([]models.Product, error) {
	cur, err := r.db.Collection(productsCollection).Find(ctx, bson.M{}, listOptions())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *Repository) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.Collection(productsCollection).FindOne(ctx, bson.M{"slug": Slugify(slug)}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return &p, nil
}

// blobIDForProduct picks the blob id the delete cascade should try.
// Uploaded images are stored as "/api/images/<hex>" references; when
// the reference does not look like one, fall back to the product's own
// id, which is how records imported before the upload endpoint existed
// were keyed.
func blobIDForProduct(p *models.Product) string {
	const prefix = "/api/images/"
	if i := strings.Index(p.Image, prefix); i >= 0 {
		id := p.Image[i+len(prefix):]
		if j := strings.IndexAny(id, "/?"); j >= 0 {
			id = id[:j]
		}
		if _, err := primitive.ObjectIDFromHex(id); err == nil {
			return id
		}
	}
	return p.ID.Hex()
}

// --- Categories ---

func prepareCategory(cat *models.Category) error {
	cat.Title = strings.TrimSpace(cat.Title)
	if err := checkRequired(cat); err != nil {
		return err
	}
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Title)
	} else {
		cat.Slug = Slugify(cat.Slug)
	}
	return nil
}

func (r *Repository) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := prepareCategory(cat); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	cat.CreatedAt, cat.UpdatedAt = now, now

	res, err := r.db.Collection(categoriesCollection).InsertOne(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)
	return cat, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out models.Category
	err = r.db.Collection(categoriesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": buildUpdate(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &out, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.Collection(categoriesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Categories(ctx context.Context) ([]models.Category, error) {
	cur, err := r.db.Collection(categoriesCollection).Find(ctx, bson.M{}, listOptions())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := []models.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := r.db.Collection(categoriesCollection).FindOne(ctx, bson.M{"slug": Slugify(slug)}).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &cat, nil
}

// --- SubCategories ---

func prepareSubCategory(sub *models.SubCategory) error {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Category = strings.TrimSpace(sub.Category)
	if err := checkRequired(sub); err != nil {
		return err
	}
	if sub.Slug == "" {
		sub.Slug = Slugify(sub.Title)
	} else {
		sub.Slug = Slugify(sub.Slug)
	}
	return nil
}

func (r *Repository) CreateSubCategory(ctx context.Context, sub *models.SubCategory) (*models.SubCategory, error) {
	if err := prepareSubCategory(sub); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sub.CreatedAt, sub.UpdatedAt = now, now

	res, err := r.db.Collection(subCategoriesCollection).InsertOne(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("insert subcategory: %w", err)
	}
	sub.ID = res.InsertedID.(primitive.ObjectID)
	return sub, nil
}

func (r *Repository) UpdateSubCategory(ctx context.Context, id string, fields map[string]any) (*models.SubCategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out models.SubCategory
	err = r.db.Collection(subCategoriesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": buildUpdate(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return &out, nil
}

func (r *Repository) DeleteSubCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.Collection(subCategoriesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SubCategories(ctx context.Context) ([]models.SubCategory, error) {
	cur, err := r.db.Collection(subCategoriesCollection).Find(ctx, bson.M{}, listOptions())
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	subs := []models.SubCategory{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}
	return subs, nil
}

func (r *Repository) SubCategoryBySlug(ctx context.Context, slug string) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := r.db.Collection(subCategoriesCollection).FindOne(ctx, bson.M{"slug": Slugify(slug)}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by slug: %w", err)
	}
	return &sub, nil
}

// SubCategoriesByCategory filters the snapshot by the soft reference
// to the parent category's title.
func (r *Repository) SubCategoriesByCategory(ctx context.Context, categoryTitle string) ([]models.SubCategory, error) {
	all, err := r.SubCategories(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.SubCategory{}
	for _, sub := range all {
		if SoftRef(sub.Category).Matches(categoryTitle) {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}
