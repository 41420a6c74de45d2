package forum

import (
	"clanboard/internal/models"
)

// CategoryDirectory is the immutable per-session snapshot of clan categories
// with fast id and slug lookups. It is loaded once and passed explicitly
// into the paths that need it; nothing mutates it afterwards.
type CategoryDirectory struct {
	ordered []models.Category
	byID    map[uint]models.Category
	bySlug  map[string]models.Category
}

// LoadCategories fetches all categories through the store and builds the
// lookup indexes.
func LoadCategories(store Store) (*CategoryDirectory, error) {
	cats, err := store.ListCategories()
	if err != nil {
		return nil, err
	}
	return NewCategoryDirectory(cats), nil
}

func NewCategoryDirectory(cats []models.Category) *CategoryDirectory {
	d := &CategoryDirectory{
		ordered: cats,
		byID:    make(map[uint]models.Category, len(cats)),
		bySlug:  make(map[string]models.Category, len(cats)),
	}
	for _, c := range cats {
		d.byID[c.ID] = c
		d.bySlug[c.Slug] = c
	}
	return d
}

// All returns categories in their configured sort order.
func (d *CategoryDirectory) All() []models.Category {
	return d.ordered
}

func (d *CategoryDirectory) ByID(id uint) (models.Category, bool) {
	c, ok := d.byID[id]
	return c, ok
}

func (d *CategoryDirectory) BySlug(slug string) (models.Category, bool) {
	c, ok := d.bySlug[slug]
	return c, ok
}

// Name returns the category name for id, or "" when unknown.
func (d *CategoryDirectory) Name(id uint) string {
	return d.byID[id].Name
}

// Slug returns the category slug for id, or "" when unknown.
func (d *CategoryDirectory) Slug(id uint) string {
	return d.byID[id].Slug
}
