package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// InitMySQL opens and pings a MySQL pool. Timestamps are always parsed into
// time.Time regardless of the DSN.
func InitMySQL(ctx context.Context, dsn string, logger zerolog.Logger) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	database, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("database is not responding: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Str("database", cfg.DBName).Msg("Connected to MySQL")
	return database, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id CHAR(36) NOT NULL,
		name VARCHAR(32) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		about VARCHAR(2000) NOT NULL DEFAULT '',
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_users_id (id),
		UNIQUE KEY uq_users_email (email)
	);`,
	`CREATE TABLE IF NOT EXISTS categories (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id CHAR(36) NOT NULL,
		name VARCHAR(32) NOT NULL,
		slug VARCHAR(64) NOT NULL,
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_categories_id (id),
		UNIQUE KEY uq_categories_name (name)
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id CHAR(36) NOT NULL,
		name VARCHAR(32) NOT NULL,
		slug VARCHAR(64) NOT NULL,
		description TEXT NOT NULL,
		price DOUBLE NOT NULL,
		category_id CHAR(36) NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		sold INT NOT NULL DEFAULT 0,
		shipping BOOLEAN NOT NULL DEFAULT FALSE,
		photo MEDIUMBLOB NULL,
		photo_content_type VARCHAR(100) NOT NULL DEFAULT '',
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_products_id (id),
		INDEX idx_products_category (category_id),
		INDEX idx_products_price (price)
	);`,
}

// RunMigrations creates the catalog schema if it does not exist yet.
func RunMigrations(ctx context.Context, database *sql.DB, logger zerolog.Logger) error {
	for _, q := range migrations {
		if _, err := database.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info().Int("statements", len(migrations)).Msg("Migrations completed")
	return nil
}
