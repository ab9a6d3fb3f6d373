// Package store defines the persistence boundary used by the services.
// Adapters live in the mongostore, mysqlstore and memstore subpackages.
package store

import (
	"context"
	"errors"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	// CreateUser assigns the id and timestamps. A taken email yields ErrDuplicate.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	// GetProduct loads the photo payload only when withPhoto is set.
	GetProduct(ctx context.Context, id string, withPhoto bool) (*models.Product, error)
	// UpdateProduct keeps the stored photo when p.Photo is nil.
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// FindProducts never loads photo payloads.
	FindProducts(ctx context.Context, q query.Query) ([]models.Product, error)
	CountProducts(ctx context.Context, f query.Filter) (int64, error)
	DistinctCategoryIDs(ctx context.Context) ([]string, error)
}

// Store bundles every adapter the application needs.
type Store interface {
	UserStore
	CategoryStore
	ProductStore
	Close(ctx context.Context) error
}
