package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=32"`
}

// PrepareCategory normalizes a category before it is persisted.
func PrepareCategory(c *Category) {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = slug.Make(c.Name)
}

// Summary reduces a category to the id and name embedded in related-product listings.
func (c Category) Summary() *Category {
	return &Category{ID: c.ID, Name: c.Name}
}
