package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Migration struct {
	ID    string
	UpSQL string
}

// Все миграции идемпотентны: таблица могла быть создана вручную до появления учета.
var allMigrations = []Migration{
	{
		ID: "20240301090000_create_news_table",
		UpSQL: `
		CREATE TABLE IF NOT EXISTS news(
		id BIGSERIAL PRIMARY KEY,
		link TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		pubdate_iso TEXT,
		pubdate_raw TEXT NOT NULL DEFAULT '',
		saved_at TEXT NOT NULL
		);`,
	},
	{
		ID:    "20240301090100_index_news_pubdate_day",
		UpSQL: `CREATE INDEX IF NOT EXISTS news_pubdate_day_idx ON news (left(pubdate_iso, 10));`,
	},
}

// Apply применяет все еще не примененные миграции в одной транзакции.
// Повторный вызов ничего не меняет.
func Apply(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool) error {
	log = log.With(slog.String("component", "migrations"))
	log.Debug("Starting database migrations check")
	_, err := pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
	id TEXT PRIMARY KEY
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	rows, err := pool.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration id: %w", err)
		}
		applied[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	pending := Pending(applied)
	if len(pending) == 0 {
		log.Debug("Database is up to date")
		return nil
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	for _, m := range pending {
		log.Info("Applying migration", slog.String("id", m.ID))
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", m.ID); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migrations transaction: %w", err)
	}
	log.Info("Database migrations applied successfully", slog.Int("count", len(pending)))
	return nil
}

// Pending возвращает не примененные миграции в порядке их идентификаторов.
func Pending(applied map[string]bool) []Migration {
	var out []Migration
	for _, m := range allMigrations {
		if !applied[m.ID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
