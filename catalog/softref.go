package catalog

import (
	"strings"

	"skequip/models"
)

// SoftRef is a reference to a category by its display title rather
// than its id. Nothing enforces integrity: a product whose category
// was deleted keeps its title string and simply fails to resolve,
// which renderers display as a missing-category label.
type SoftRef string

// Matches reports whether the reference points at the given title.
// Comparison is case-insensitive; some of the data was entered before
// the admin console normalized titles.
func (r SoftRef) Matches(title string) bool {
	return strings.EqualFold(string(r), title)
}

// Resolve finds the referenced category in a snapshot, if it still
// exists.
func (r SoftRef) Resolve(categories []models.Category) (*models.Category, bool) {
	for i := range categories {
		if r.Matches(categories[i].Title) {
			return &categories[i], true
		}
	}
	return nil, false
}
