package mysqlstore

import (
	"context"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
)

const (
	categoryColumns = "id, name, slug, created_at, updated_at"
	productSelect   = "id, name, slug, description, price, category_id, quantity, sold, shipping, photo_content_type, created_at, updated_at"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(row scanner) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// scanProduct reads a productSelect row. When photo is non-nil the row carries
// the photo column as well.
func scanProduct(row scanner, photo *[]byte) (models.Product, error) {
	var (
		p           models.Product
		contentType string
	)
	dest := []interface{}{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CategoryID,
		&p.Quantity, &p.Sold, &p.Shipping, &contentType, &p.CreatedAt, &p.UpdatedAt,
	}
	if photo != nil {
		dest = append(dest, photo)
	}
	if err := row.Scan(dest...); err != nil {
		return models.Product{}, err
	}

	p.HasPhoto = contentType != ""
	if photo != nil && p.HasPhoto && len(*photo) > 0 {
		p.Photo = &models.Photo{Data: *photo, ContentType: contentType}
	}
	return p, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	now := s.now()
	id := s.newID()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, c.Name, c.Slug, now, now,
	)
	if err != nil {
		return translate(err, "create category")
	}

	c.ID = id
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if err != nil {
		return nil, translate(err, "get category")
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.queryCategories(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY seq ASC")
}

func (s *Store) GetCategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryCategories(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id IN ("+placeholders(len(ids))+") ORDER BY seq ASC",
		args...,
	)
}

func (s *Store) queryCategories(ctx context.Context, q string, args ...interface{}) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err, "list categories")
	}
	defer rows.Close()

	out := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, translate(err, "scan category")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ?, updated_at = ? WHERE id = ?",
		c.Name, c.Slug, s.now(), c.ID,
	)
	if err != nil {
		return translate(err, "update category")
	}

	updated, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return translate(err, "delete category")
	}
	return requireAffected(res, "delete category")
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	now := s.now()
	id := s.newID()

	var (
		photo       []byte
		contentType string
	)
	if p.Photo != nil {
		photo, contentType = p.Photo.Data, p.Photo.ContentType
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, slug, description, price, category_id, quantity, sold, shipping, photo, photo_content_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Slug, p.Description, p.Price, p.CategoryID, p.Quantity, p.Sold, p.Shipping, photo, contentType, now, now,
	)
	if err != nil {
		return translate(err, "create product")
	}

	p.ID = id
	p.CreatedAt, p.UpdatedAt = now, now
	p.HasPhoto = contentType != ""
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string, withPhoto bool) (*models.Product, error) {
	cols := productSelect
	var photo *[]byte
	if withPhoto {
		cols += ", photo"
		photo = new([]byte)
	}

	p, err := scanProduct(s.db.QueryRowContext(ctx, "SELECT "+cols+" FROM products WHERE id = ?", id), photo)
	if err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	q := `UPDATE products SET name = ?, slug = ?, description = ?, price = ?, category_id = ?, quantity = ?, sold = ?, shipping = ?, updated_at = ?`
	args := []interface{}{p.Name, p.Slug, p.Description, p.Price, p.CategoryID, p.Quantity, p.Sold, p.Shipping, s.now()}
	if p.Photo != nil {
		q += ", photo = ?, photo_content_type = ?"
		args = append(args, p.Photo.Data, p.Photo.ContentType)
	}
	q += " WHERE id = ?"
	args = append(args, p.ID)

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return translate(err, "update product")
	}

	updated, err := s.GetProduct(ctx, p.ID, false)
	if err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt, p.HasPhoto = updated.CreatedAt, updated.UpdatedAt, updated.HasPhoto
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return translate(err, "delete product")
	}
	return requireAffected(res, "delete product")
}

func (s *Store) FindProducts(ctx context.Context, q query.Query) ([]models.Product, error) {
	where, args, ok := whereClause(q.Filter)
	if !ok {
		return []models.Product{}, nil
	}
	limit, limitArgs := limitClause(q)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productSelect+" FROM products"+where+orderClause(q)+limit,
		append(args, limitArgs...)...,
	)
	if err != nil {
		return nil, translate(err, "find products")
	}
	defer rows.Close()

	out := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows, nil)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CountProducts(ctx context.Context, f query.Filter) (int64, error) {
	where, args, ok := whereClause(f)
	if !ok {
		return 0, nil
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&n); err != nil {
		return 0, translate(err, "count products")
	}
	return n, nil
}

func (s *Store) DistinctCategoryIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category_id FROM products GROUP BY category_id ORDER BY MIN(seq) ASC")
	if err != nil {
		return nil, translate(err, "list product categories")
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "scan category id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
