package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-api/internal/config"
	"ecommerce-api/internal/db"
	"ecommerce-api/internal/logger"
	"ecommerce-api/internal/router"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/store/memstore"
	"ecommerce-api/internal/store/mongostore"
	"ecommerce-api/internal/store/mysqlstore"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("Starting application")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := openStore(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("Failed to open store")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(cfg, st, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if err := st.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}

	log.Info().Msg("Server stopped")
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.DBUrl, log)
		if err != nil {
			return nil, err
		}
		st := mongostore.New(client, cfg.DBName)
		if err := st.EnsureIndexes(ctx); err != nil {
			st.Close(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return st, nil
	case config.DriverMySQL:
		database, err := db.InitMySQL(ctx, cfg.DBUrl, log)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, database, log); err != nil {
			database.Close()
			return nil, err
		}
		return mysqlstore.New(database), nil
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
