package catalog

import (
	"context"
	"strings"

	"skequip/models"
)

// InlineSearchLimit caps the search-as-you-type dropdown; the full
// search page passes limit 0 for everything.
const InlineSearchLimit = 5

// Lister is the read slice of the repository the query facade
// composes over. The facade keeps no state of its own.
type Lister interface {
	Products(ctx context.Context) ([]models.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, error)
}

// Query is the read-side helper set consumed by storefront rendering:
// pure filters over the repository's snapshot.
type Query struct {
	store Lister
}

func NewQuery(store Lister) *Query {
	return &Query{store: store}
}

// Featured returns up to n flagged products in creation order. n <= 0
// means no cap.
func (q *Query) Featured(ctx context.Context, n int) ([]models.Product, error) {
	return q.filter(ctx, n, func(p *models.Product) bool { return p.IsFeatured })
}

// BestSelling returns up to n flagged products in creation order.
func (q *Query) BestSelling(ctx context.Context, n int) ([]models.Product, error) {
	return q.filter(ctx, n, func(p *models.Product) bool { return p.IsBestSelling })
}

// Related returns up to limit products other than the given one.
// "Related" deliberately means nothing more than that; the storefront
// shuffles presentation client-side.
func (q *Query) Related(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	return q.filter(ctx, limit, func(p *models.Product) bool { return p.ID.Hex() != productID })
}

// Search does a case-insensitive substring match on title or category.
// limit <= 0 returns every match.
func (q *Query) Search(ctx context.Context, term string, limit int) ([]models.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Product{}, nil
	}
	return q.filter(ctx, limit, func(p *models.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Category), term)
	})
}

// BySlug canonicalizes a raw, user-supplied path segment before the
// exact lookup, so "/product/Cobb%20Tester" and "/product/cobb-tester"
// both resolve.
func (q *Query) BySlug(ctx context.Context, rawSlug string) (*models.Product, error) {
	return q.store.ProductBySlug(ctx, Slugify(rawSlug))
}

func (q *Query) filter(ctx context.Context, limit int, keep func(*models.Product) bool) ([]models.Product, error) {
	all, err := q.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for i := range all {
		if !keep(&all[i]) {
			continue
		}
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
