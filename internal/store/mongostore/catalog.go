package mongostore

import (
	"context"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	doc := categoryDocument{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.categories.InsertOne(ctx, doc); err != nil {
		return translate(err, "create category")
	}

	*c = toCategoryModel(&doc)
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc categoryDocument
	if err := s.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translate(err, "get category")
	}
	c := toCategoryModel(&doc)
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.findCategories(ctx, bson.D{})
}

func (s *Store) GetCategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	oids := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []models.Category{}, nil
	}
	return s.findCategories(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
}

func (s *Store) findCategories(ctx context.Context, filter bson.D) ([]models.Category, error) {
	cur, err := s.categories.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(err, "list categories")
	}

	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode categories")
	}

	out := make([]models.Category, 0, len(docs))
	for i := range docs {
		out = append(out, toCategoryModel(&docs[i]))
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	oid, err := parseID(c.ID)
	if err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: c.Name},
		{Key: "slug", Value: c.Slug},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	var doc categoryDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.categories.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		return translate(err, "update category")
	}

	*c = toCategoryModel(&doc)
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.categories.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return translate(err, "delete category")
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	categoryID, err := primitive.ObjectIDFromHex(p.CategoryID)
	if err != nil {
		return store.ErrNotFound
	}

	now := time.Now().UTC()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    categoryID,
		Quantity:    p.Quantity,
		Sold:        p.Sold,
		Shipping:    p.Shipping,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Photo != nil {
		doc.Photo = &photoDocument{Data: p.Photo.Data, ContentType: p.Photo.ContentType}
	}

	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return translate(err, "create product")
	}

	p.ID = doc.ID.Hex()
	p.CreatedAt, p.UpdatedAt = now, now
	p.HasPhoto = doc.Photo != nil && doc.Photo.ContentType != ""
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string, withPhoto bool) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne()
	if !withPhoto {
		opts.SetProjection(photoDataProjection)
	}

	var doc productDocument
	if err := s.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc); err != nil {
		return nil, translate(err, "get product")
	}
	p := toProductModel(&doc)
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	oid, err := parseID(p.ID)
	if err != nil {
		return err
	}
	categoryID, err := primitive.ObjectIDFromHex(p.CategoryID)
	if err != nil {
		return store.ErrNotFound
	}

	set := bson.D{
		{Key: "name", Value: p.Name},
		{Key: "slug", Value: p.Slug},
		{Key: "description", Value: p.Description},
		{Key: "price", Value: p.Price},
		{Key: "category", Value: categoryID},
		{Key: "quantity", Value: p.Quantity},
		{Key: "sold", Value: p.Sold},
		{Key: "shipping", Value: p.Shipping},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}
	if p.Photo != nil {
		set = append(set, bson.E{Key: "photo", Value: photoDocument{Data: p.Photo.Data, ContentType: p.Photo.ContentType}})
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(photoDataProjection)

	var doc productDocument
	if err := s.products.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc); err != nil {
		return translate(err, "update product")
	}

	updated := toProductModel(&doc)
	p.CreatedAt, p.UpdatedAt, p.HasPhoto = updated.CreatedAt, updated.UpdatedAt, updated.HasPhoto
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return translate(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FindProducts(ctx context.Context, q query.Query) ([]models.Product, error) {
	filter, ok := toBSON(q.Filter)
	if !ok {
		return []models.Product{}, nil
	}

	cur, err := s.products.Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, translate(err, "find products")
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode products")
	}

	out := make([]models.Product, 0, len(docs))
	for i := range docs {
		out = append(out, toProductModel(&docs[i]))
	}
	return out, nil
}

func (s *Store) CountProducts(ctx context.Context, f query.Filter) (int64, error) {
	filter, ok := toBSON(f)
	if !ok {
		return 0, nil
	}

	n, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return 0, translate(err, "count products")
	}
	return n, nil
}

func (s *Store) DistinctCategoryIDs(ctx context.Context) ([]string, error) {
	values, err := s.products.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, translate(err, "list product categories")
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}
