package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const productNotFound = "Product not found"

type ProductService struct {
	products   store.ProductStore
	categories store.CategoryStore
	logger     zerolog.Logger
}

func NewProductService(products store.ProductStore, categories store.CategoryStore, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

func (s *ProductService) Create(ctx context.Context, form *models.ProductForm) (*models.Product, error) {
	product, err := s.fromForm(ctx, form)
	if err != nil {
		return nil, err
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("Error creating product")
		return nil, storeError(err, productNotFound)
	}

	s.logger.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// Update replaces every field of an existing product. The stored photo is kept
// unless the form carries a new one.
func (s *ProductService) Update(ctx context.Context, id string, form *models.ProductForm) (*models.Product, error) {
	existing, err := s.products.GetProduct(ctx, id, false)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}

	product, err := s.fromForm(ctx, form)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.Sold = existing.Sold
	product.CreatedAt = existing.CreatedAt
	if product.Photo == nil {
		product.HasPhoto = existing.HasPhoto
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Error updating product")
		return nil, storeError(err, productNotFound)
	}

	s.logger.Info().Str("product_id", id).Msg("Product updated")
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id, false)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}

	populated, err := s.populate(ctx, []models.Product{*product}, false)
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return storeError(err, productNotFound)
	}
	s.logger.Info().Str("product_id", id).Msg("Product deleted")
	return nil
}

// Photo returns the stored image of a product.
func (s *ProductService) Photo(ctx context.Context, id string) (*models.Photo, error) {
	product, err := s.products.GetProduct(ctx, id, true)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}
	if product.Photo == nil || len(product.Photo.Data) == 0 {
		return nil, apperrors.NotFound("Photo not found")
	}
	return product.Photo, nil
}

func (s *ProductService) List(ctx context.Context, params query.ListingParams) ([]models.Product, error) {
	q, err := query.BuildListing(params)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, q, false)
}

// Search matches products by name. No search term means no results.
func (s *ProductService) Search(ctx context.Context, params query.SearchParams) ([]models.Product, error) {
	q, ok := query.BuildSearch(params)
	if !ok {
		return []models.Product{}, nil
	}
	return s.find(ctx, q, false)
}

func (s *ProductService) FilterList(ctx context.Context, req query.FilterRequest) ([]models.Product, error) {
	q, err := query.BuildFilter(req)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, q, false)
}

// Related lists other products of the same category, with the category
// reduced to its id and name.
func (s *ProductService) Related(ctx context.Context, id, limit string) ([]models.Product, error) {
	product, err := s.products.GetProduct(ctx, id, false)
	if err != nil {
		return nil, storeError(err, productNotFound)
	}
	return s.find(ctx, query.BuildRelated(product.ID, product.CategoryID, limit), true)
}

// CategoriesInUse returns the ids of categories referenced by at least one product.
func (s *ProductService) CategoriesInUse(ctx context.Context) ([]string, error) {
	ids, err := s.products.DistinctCategoryIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing product categories")
		return nil, storeError(err, "Categories not found")
	}
	return ids, nil
}

func (s *ProductService) find(ctx context.Context, q query.Query, summary bool) ([]models.Product, error) {
	products, err := s.products.FindProducts(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error finding products")
		return nil, storeError(err, productNotFound)
	}
	return s.populate(ctx, products, summary)
}

// populate attaches each product's category record.
func (s *ProductService) populate(ctx context.Context, products []models.Product, summary bool) ([]models.Product, error) {
	if len(products) == 0 {
		return products, nil
	}

	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, p := range products {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}

	categories, err := s.categories.GetCategoriesByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error loading product categories")
		return nil, storeError(err, categoryNotFound)
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	for i := range products {
		c, ok := byID[products[i].CategoryID]
		if !ok {
			continue
		}
		if summary {
			products[i].Category = c.Summary()
		} else {
			products[i].Category = &c
		}
	}
	return products, nil
}

// fromForm validates a create or update form and converts it into a product.
// Nothing is written before every field has been checked.
func (s *ProductService) fromForm(ctx context.Context, form *models.ProductForm) (*models.Product, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Price = strings.TrimSpace(form.Price)
	form.Category = strings.TrimSpace(form.Category)
	form.Quantity = strings.TrimSpace(form.Quantity)
	form.Shipping = strings.TrimSpace(form.Shipping)

	if err := validateForm(form); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, apperrors.Validation("Price must be a non-negative number")
	}
	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil || quantity < 0 {
		return nil, apperrors.Validation("Quantity must be a non-negative integer")
	}
	shipping, err := strconv.ParseBool(form.Shipping)
	if err != nil {
		return nil, apperrors.Validation("Shipping must be true or false")
	}

	if form.Photo != nil && (form.PhotoSize > models.MaxPhotoSize || len(form.Photo.Data) > models.MaxPhotoSize) {
		return nil, apperrors.New(apperrors.KindPayloadTooLarge, "Image should be less than 1mb in size")
	}

	if _, err := s.categories.GetCategory(ctx, form.Category); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Validation("Category %s does not exist", form.Category)
		}
		return nil, storeError(err, categoryNotFound)
	}

	product := &models.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		CategoryID:  form.Category,
		Quantity:    quantity,
		Shipping:    shipping,
		Photo:       form.Photo,
	}
	models.PrepareProduct(product)
	return product, nil
}

// validateForm reports missing fields together, as the form is all or nothing.
func validateForm(form *models.ProductForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return apperrors.Validation("All fields are required")
			}
		}
	}
	return validateStruct(form)
}
