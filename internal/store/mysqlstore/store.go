// Package mysqlstore persists users, categories and products in MySQL.
// The schema is created by db.RunMigrations.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/store"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

const errDuplicateEntry = 1062

type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: uuid.NewString,
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func translate(err error, op string) error {
	var me *mysql.MySQLError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case errors.As(err, &me) && me.Number == errDuplicateEntry:
		return store.ErrDuplicate
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const userColumns = "id, name, email, password_hash, is_admin, about, created_at, updated_at"

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.About, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.History = []interface{}{}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	id := s.newID()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, is_admin, about, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.About, now, now,
	)
	if err != nil {
		return translate(err, "create user")
	}

	u.ID = id
	u.CreatedAt, u.UpdatedAt = now, now
	if u.History == nil {
		u.History = []interface{}{}
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY seq ASC")
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password_hash = ?, is_admin = ?, about = ?, updated_at = ? WHERE id = ?",
		u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.About, s.now(), u.ID,
	)
	if err != nil {
		return translate(err, "update user")
	}

	updated, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}
