package bodyweight

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/prikhi/bodyweight-client/internal/app"
	"github.com/prikhi/bodyweight-client/internal/db"
	"github.com/prikhi/bodyweight-client/internal/session"
	"github.com/prikhi/bodyweight-client/internal/store"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func withStore(ctx context.Context, run func(context.Context, *store.Store) error) error {
	return withDB(func(sqldb *sql.DB) error {
		flags, err := session.Init(session.SQLiteKV{DB: sqldb}, logger)
		if err != nil {
			return err
		}
		adapter := &store.RESTAdapter{
			BaseURL:   cfg.API.BaseURL,
			Namespace: cfg.API.Namespace,
			Token:     flags.AuthToken,
			Logger:    logger,
		}
		if rps := cfg.API.RequestsPerSecond; rps > 0 {
			adapter.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
		st := store.New(adapter, store.WithTimeout(cfg.APITimeout()), store.WithLogger(logger))
		return run(ctx, st)
	})
}

func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, nil
	}
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func controllerError(message string, err error) error {
	if message == "" {
		return err
	}
	return errors.New(message)
}
