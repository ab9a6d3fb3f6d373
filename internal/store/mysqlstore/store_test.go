package mysqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "name", "slug", "description", "price", "category_id",
	"quantity", "sold", "shipping", "photo_content_type", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "generated-id" }
	return s, mock
}

func TestWhereClause_Filters(t *testing.T) {
	q, err := query.BuildFilter(query.FilterRequest{Filters: map[string]interface{}{
		"category": []interface{}{"c1", "c2"},
		"price":    []interface{}{10.0, 20.0},
		"shipping": true,
	}})
	require.NoError(t, err)

	where, args, ok := whereClause(q.Filter)
	require.True(t, ok)
	assert.Equal(t, " WHERE category_id IN (?, ?) AND price BETWEEN ? AND ? AND shipping = ?", where)
	assert.Equal(t, []interface{}{"c1", "c2", 10.0, 20.0, true}, args)
}

func TestWhereClause_SearchEscapesLike(t *testing.T) {
	q, ok := query.BuildSearch(query.SearchParams{Search: "50%_Off", Category: "c9"})
	require.True(t, ok)

	where, args, ok := whereClause(q.Filter)
	require.True(t, ok)
	assert.Equal(t, " WHERE LOWER(name) LIKE ? AND category_id = ?", where)
	assert.Equal(t, []interface{}{`%50\%\_off%`, "c9"}, args)
}

func TestWhereClause_Empty(t *testing.T) {
	where, args, ok := whereClause(nil)
	assert.True(t, ok)
	assert.Empty(t, where)
	assert.Empty(t, args)

	_, _, ok = whereClause(query.Filter{{Field: query.FieldCategory, Op: query.OpIn}})
	assert.False(t, ok)
}

func TestOrderAndLimitClauses(t *testing.T) {
	assert.Equal(t, " ORDER BY seq ASC", orderClause(query.Query{SortField: query.FieldID, Direction: query.Ascending}))
	assert.Equal(t, " ORDER BY price DESC, seq ASC", orderClause(query.Query{SortField: query.FieldPrice, Direction: query.Descending}))
	assert.Equal(t, " ORDER BY created_at ASC, seq ASC", orderClause(query.Query{SortField: query.FieldCreatedAt}))

	clause, args := limitClause(query.Query{Limit: 6})
	assert.Equal(t, " LIMIT ?", clause)
	assert.Equal(t, []interface{}{int64(6)}, args)

	clause, args = limitClause(query.Query{Limit: 10, Skip: 20})
	assert.Equal(t, " LIMIT ? OFFSET ?", clause)
	assert.Equal(t, []interface{}{int64(10), int64(20)}, args)

	clause, args = limitClause(query.Query{Skip: 3})
	assert.Equal(t, " LIMIT "+maxRows+" OFFSET ?", clause)
	assert.Equal(t, []interface{}{int64(3)}, args)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)")).
		WithArgs("generated-id", "Books", "books", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry 'Books'"})

	err := s.CreateCategory(context.Background(), &models.Category{Name: "Books", Slug: "books"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	assert.Equal(t, "generated-id", c.ID)
	assert.Equal(t, s.now(), c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productSelect + " FROM products WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err := s.GetProduct(context.Background(), "missing", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_WithPhoto(t *testing.T) {
	s, mock := newMockStore(t)
	now := s.now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productSelect + ", photo FROM products WHERE id = ?")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(append(productRowColumns, "photo")).
			AddRow("p1", "Atlas", "atlas", "Maps", 12.5, "c1", int64(3), int64(0), true, "image/png", now, now, []byte{0x89, 'P', 'N', 'G'}))

	p, err := s.GetProduct(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.True(t, p.HasPhoto)
	require.NotNil(t, p.Photo)
	assert.Equal(t, "image/png", p.Photo.ContentType)
	assert.Len(t, p.Photo.Data, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProducts(t *testing.T) {
	s, mock := newMockStore(t)
	now := s.now()

	q, err := query.BuildListing(query.ListingParams{SortBy: "price", Order: "desc", Limit: "2"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productSelect + " FROM products ORDER BY price DESC, seq ASC LIMIT ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p2", "Globe", "globe", "Round", 40.0, "c1", int64(1), int64(5), false, "", now, now).
			AddRow("p1", "Atlas", "atlas", "Maps", 12.5, "c1", int64(3), int64(0), true, "image/png", now, now))

	products, err := s.FindProducts(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Globe", products[0].Name)
	assert.False(t, products[0].HasPhoto)
	assert.True(t, products[1].HasPhoto)
	assert.Nil(t, products[1].Photo)
	assert.Equal(t, 3, products[1].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProducts_Unmatchable(t *testing.T) {
	s, mock := newMockStore(t)

	products, err := s.FindProducts(context.Background(), query.Query{
		Filter: query.Filter{{Field: query.FieldCategory, Op: query.OpIn}},
	})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountProducts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE category_id = ?")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := s.CountProducts(context.Background(), query.Filter{{Field: query.FieldCategory, Op: query.OpEq, Value: "c1"}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_KeepsPhoto(t *testing.T) {
	s, mock := newMockStore(t)
	now := s.now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET name = ?, slug = ?, description = ?, price = ?, category_id = ?, quantity = ?, sold = ?, shipping = ?, updated_at = ? WHERE id = ?")).
		WithArgs("Atlas", "atlas", "Maps", 15.0, "c1", 2, 0, true, sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productSelect + " FROM products WHERE id = ?")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p1", "Atlas", "atlas", "Maps", 15.0, "c1", int64(2), int64(0), true, "image/png", now, now))

	p := &models.Product{ID: "p1", Name: "Atlas", Slug: "atlas", Description: "Maps", Price: 15, CategoryID: "c1", Quantity: 2, Shipping: true}
	require.NoError(t, s.UpdateProduct(context.Background(), p))
	assert.True(t, p.HasPhoto)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistinctCategoryIDs(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT category_id FROM products GROUP BY category_id ORDER BY MIN(seq) ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow("c1").AddRow("c2"))

	ids, err := s.DistinctCategoryIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	now := s.now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = ?")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "is_admin", "about", "created_at", "updated_at"}).
			AddRow("u1", "Ada", "ada@example.com", "hash", true, "", now, now))

	u, err := s.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin)
	assert.NotNil(t, u.History)
	assert.NoError(t, mock.ExpectationsWereMet())
}
