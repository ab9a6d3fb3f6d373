package services

import (
	"context"
	"fmt"
	"strings"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/store"

	"github.com/rs/zerolog"
)

const categoryNotFound = "No category found"

type CategoryService struct {
	categories store.CategoryStore
	products   store.ProductStore
	logger     zerolog.Logger
}

func NewCategoryService(categories store.CategoryStore, products store.ProductStore, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name}
	models.PrepareCategory(category)

	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, storeError(err, categoryNotFound)
	}

	s.logger.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, storeError(err, categoryNotFound)
	}
	return category, nil
}

// ListCategories returns every category, used or not. See
// ProductService.CategoriesInUse for the categories referenced by products.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing categories")
		return nil, storeError(err, categoryNotFound)
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *models.CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	models.PrepareCategory(category)

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return nil, storeError(err, categoryNotFound)
	}

	s.logger.Info().Str("category_id", id).Str("name", category.Name).Msg("Category updated")
	return category, nil
}

// Delete removes a category that no product references.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.products.CountProducts(ctx, query.Filter{
		{Field: query.FieldCategory, Op: query.OpEq, Value: category.ID},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("Error counting category products")
		return storeError(err, categoryNotFound)
	}
	if n > 0 {
		return apperrors.New(apperrors.KindDependencyExists,
			fmt.Sprintf("Category %s has %d products. Delete them first", category.Name, n))
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return storeError(err, categoryNotFound)
	}

	s.logger.Info().Str("category_id", id).Msg("Category deleted")
	return nil
}
