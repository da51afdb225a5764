package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"newsarchive/internal/domain"
	"newsarchive/internal/migrations"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE unique_violation.
const uniqueViolation = "23505"

type PostgresNewsDB struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// OpenPostgres подключается к базе и проверяет соединение.
func OpenPostgres(ctx context.Context, dsn string, log *slog.Logger) (*PostgresNewsDB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %w", domain.ErrStore, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: database ping failed: %w", domain.ErrStore, err)
	}
	return NewPostgresNewsDB(pool, log), nil
}

func NewPostgresNewsDB(pool *pgxpool.Pool, log *slog.Logger) *PostgresNewsDB {
	log = log.With(slog.String("component", "storage"))
	log.Info("Initializing Postgres news storage")
	return &PostgresNewsDB{
		pool: pool,
		log:  log,
	}
}

func (db *PostgresNewsDB) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

// Initialize создает схему, если ее еще нет.
func (db *PostgresNewsDB) Initialize(ctx context.Context) error {
	if err := migrations.Apply(ctx, db.log, db.pool); err != nil {
		db.log.Error("Schema initialization failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}

// InsertIfAbsent вставляет новость одним автофиксируемым запросом.
// Дубликат определяется по нарушению уникальности link и дает false без ошибки.
func (db *PostgresNewsDB) InsertIfAbsent(ctx context.Context, item domain.FeedItem, savedAt time.Time) (bool, error) {
	const op = "storage.postgres.InsertIfAbsent"
	log := db.log.With(slog.String("op", op), slog.String("link", item.Link))
	rec := domain.NewStoredNews(item, savedAt)
	query := `
	INSERT INTO news (link, title, category, pubdate_iso, pubdate_raw, saved_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := db.pool.Exec(ctx, query,
		rec.Link,
		rec.Title,
		rec.Category,
		rec.PubDateISO,
		rec.PubDateRaw,
		rec.SavedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Debug("News already archived")
			return false, nil
		}
		log.Error("Insert failed", slog.Any("error", err))
		return false, fmt.Errorf("%w: %s: failed to insert: %w", domain.ErrStore, op, err)
	}
	log.Debug("News archived")
	return true, nil
}

// FindByDate возвращает записи, чья pubdate_iso начинается с даты, новые первыми.
// Записи без pubdate_iso не возвращаются.
func (db *PostgresNewsDB) FindByDate(ctx context.Context, date domain.Date) ([]domain.StoredNews, error) {
	const op = "storage.postgres.FindByDate"
	log := db.log.With(slog.String("op", op), slog.String("date", date.String()))
	query := `
	SELECT id, link, title, category, pubdate_iso, pubdate_raw, saved_at
	FROM news
	WHERE left(pubdate_iso, 10) = $1
	ORDER BY pubdate_iso DESC;
	`
	rows, err := db.pool.Query(ctx, query, date.String())
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: failed to execute query: %w", domain.ErrStore, op, err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StoredNews, error) {
		var rec domain.StoredNews
		err := row.Scan(
			&rec.ID,
			&rec.Link,
			&rec.Title,
			&rec.Category,
			&rec.PubDateISO,
			&rec.PubDateRaw,
			&rec.SavedAt,
		)
		return rec, err
	})
	if err != nil {
		log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: failed to scan row: %w", domain.ErrStore, op, err)
	}
	log.Debug("Retrieved news for date", slog.Int("count", len(records)))
	return records, nil
}
