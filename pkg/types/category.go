package types

import (
	"strings"
	"time"
)

// DeletedCategoryName is the display name of the reserved category 0.
const DeletedCategoryName = "Deleted"

// Category groups live tasks. ID 0 is reserved for the Deleted bucket and is
// seeded by the storage layer; it can never be created, renamed, or deleted.
// Deleted category IDs return to a free pool and are reused.
type Category struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewCategory constructs a category with the given name.
// The ID is zero until the storage layer assigns one.
// Returns ErrEmptyName if the name is empty after trimming.
func NewCategory(name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Reserved reports whether this is the immutable Deleted category.
// A freshly constructed category also carries ID 0 until the storage
// layer assigns one, so the reserved name disambiguates the two.
func (c *Category) Reserved() bool {
	return c.ID == DeletedCategoryID && c.Name == DeletedCategoryName
}

// Rename replaces the category name.
// Returns ErrEmptyName for an empty name and ErrReservedCategory on
// the Deleted category.
func (c *Category) Rename(name string) error {
	if c.Reserved() {
		return ErrReservedCategory
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}
