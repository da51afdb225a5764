package storage

import (
	"context"
	"newsarchive/internal/domain"
	"time"
)

// Storage определяет общий интерфейс архива новостей.
// Запись создается один раз на уникальную ссылку и никогда не обновляется.
type Storage interface {
	Initialize(ctx context.Context) error
	InsertIfAbsent(ctx context.Context, item domain.FeedItem, savedAt time.Time) (bool, error)
	FindByDate(ctx context.Context, date domain.Date) ([]domain.StoredNews, error)
	Close()
}
