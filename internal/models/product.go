package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const MaxPhotoSize = 1000000

type Photo struct {
	Data        []byte
	ContentType string
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Quantity    int       `json:"quantity"`
	Sold        int       `json:"sold"`
	Shipping    bool      `json:"shipping"`
	HasPhoto    bool      `json:"has_photo"`
	Photo       *Photo    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductForm carries the raw form fields of a create or update request.
// Every field is mandatory; numbers and booleans are parsed by the service.
type ProductForm struct {
	Name        string `validate:"required,max=32"`
	Description string `validate:"required,max=2000"`
	Price       string `validate:"required"`
	Category    string `validate:"required"`
	Quantity    string `validate:"required"`
	Shipping    string `validate:"required"`
	Photo       *Photo
	PhotoSize   int64
}

// PrepareProduct normalizes a product before it is persisted.
func PrepareProduct(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Slug = slug.Make(p.Name)
	if p.Photo != nil {
		p.HasPhoto = len(p.Photo.Data) > 0
	}
}
