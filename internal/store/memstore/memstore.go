// Package memstore is an in-process store used for local development and tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/store"

	"github.com/google/uuid"
)

type record[T any] struct {
	seq   int64
	value T
}

type Store struct {
	mu         sync.RWMutex
	seq        int64
	now        func() time.Time
	users      map[string]record[models.User]
	categories map[string]record[models.Category]
	products   map[string]record[models.Product]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:        time.Now,
		users:      make(map[string]record[models.User]),
		categories: make(map[string]record[models.Category]),
		products:   make(map[string]record[models.Product]),
	}
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.users {
		if strings.EqualFold(r.value.Email, u.Email) {
			return store.ErrDuplicate
		}
	}

	now := s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.History == nil {
		u.History = []interface{}{}
	}
	s.users[u.ID] = record[models.User]{seq: s.nextSeq(), value: *u}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := r.value
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.users {
		if strings.EqualFold(r.value.Email, email) {
			u := r.value
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.users), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && strings.EqualFold(other.value.Email, u.Email) {
			return store.ErrDuplicate
		}
	}

	u.CreatedAt = r.value.CreatedAt
	u.UpdatedAt = s.now()
	r.value = *u
	s.users[u.ID] = r
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryNameTaken(c.Name, "") {
		return store.ErrDuplicate
	}

	now := s.now()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	s.categories[c.ID] = record[models.Category]{seq: s.nextSeq(), value: *c}
	return nil
}

func (s *Store) categoryNameTaken(name, exceptID string) bool {
	for id, r := range s.categories {
		if id != exceptID && r.value.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := r.value
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.categories), nil
}

func (s *Store) GetCategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.categories[id]; ok {
			out = append(out, r.value)
		}
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.categories[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	if s.categoryNameTaken(c.Name, c.ID) {
		return store.ErrDuplicate
	}

	c.CreatedAt = r.value.CreatedAt
	c.UpdatedAt = s.now()
	r.value = *c
	s.categories[c.ID] = r
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Category = nil
	s.products[p.ID] = record[models.Product]{seq: s.nextSeq(), value: stored}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string, withPhoto bool) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := r.value
	if !withPhoto {
		p.Photo = nil
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}

	stored := *p
	stored.Category = nil
	stored.CreatedAt = r.value.CreatedAt
	stored.UpdatedAt = s.now()
	if stored.Photo == nil {
		stored.Photo = r.value.Photo
		stored.HasPhoto = r.value.HasPhoto
	}
	r.value = stored
	s.products[p.ID] = r

	p.CreatedAt, p.UpdatedAt, p.HasPhoto = stored.CreatedAt, stored.UpdatedAt, stored.HasPhoto
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) FindProducts(ctx context.Context, q query.Query) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]record[models.Product], 0)
	for _, r := range s.products {
		p := r.value
		if q.Filter.Matches(func(field string) interface{} { return productValue(&p, field) }) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var c int
		if q.SortField == query.FieldID || q.SortField == "" {
			c = compareSeq(a.seq, b.seq)
		} else {
			c = query.Compare(productValue(&a.value, q.SortField), productValue(&b.value, q.SortField))
			if c == 0 {
				c = compareSeq(a.seq, b.seq)
			}
		}
		if q.Direction == query.Descending {
			return c > 0
		}
		return c < 0
	})

	start := min(q.Skip, int64(len(matched)))
	end := int64(len(matched))
	if q.Limit > 0 {
		end = min(start+q.Limit, end)
	}

	out := make([]models.Product, 0, end-start)
	for _, r := range matched[start:end] {
		p := r.value
		p.Photo = nil
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) CountProducts(ctx context.Context, f query.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.products {
		p := r.value
		if f.Matches(func(field string) interface{} { return productValue(&p, field) }) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DistinctCategoryIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, p := range sortedValues(s.products) {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	return ids, nil
}

func productValue(p *models.Product, field string) interface{} {
	switch field {
	case query.FieldID:
		return p.ID
	case query.FieldName:
		return p.Name
	case query.FieldSlug:
		return p.Slug
	case query.FieldDescription:
		return p.Description
	case query.FieldPrice:
		return p.Price
	case query.FieldCategory:
		return p.CategoryID
	case query.FieldQuantity:
		return p.Quantity
	case query.FieldSold:
		return p.Sold
	case query.FieldShipping:
		return p.Shipping
	case query.FieldCreatedAt:
		return p.CreatedAt
	case query.FieldUpdatedAt:
		return p.UpdatedAt
	default:
		return nil
	}
}

func compareSeq(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sortedValues[T any](m map[string]record[T]) []T {
	records := make([]record[T], 0, len(m))
	for _, r := range m {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	out := make([]T, len(records))
	for i, r := range records {
		out[i] = r.value
	}
	return out
}
