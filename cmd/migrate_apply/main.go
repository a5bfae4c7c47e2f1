package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uno_server/internal/config"
	"uno_server/internal/db"
	"uno_server/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	migDir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	files, err := migrationFiles(*migDir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", *migDir, "error", err)
	}

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		logger.Fatal("create schema_migrations", "error", err)
	}

	for _, name := range files {
		done, err := applied(ctx, pool, name)
		if err != nil {
			logger.Fatal("check migration", "name", name, "error", err)
		}
		if !*apply {
			state := "pending"
			if done {
				state = "applied"
			}
			fmt.Printf("%s\t%s\n", name, state)
			continue
		}
		if done {
			continue
		}

		b, err := os.ReadFile(filepath.Join(*migDir, name))
		if err != nil {
			logger.Fatal("read migration", "name", name, "error", err)
		}
		if err := applyOne(ctx, pool, name, string(b)); err != nil {
			logger.Fatal("failed to apply migration", "name", name, "error", err)
		}
		fmt.Printf("applied %s\n", name)
	}
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func applied(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, name, sql string) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
		return err
	})
}
