package usecase

import (
	"context"
	"newsarchive/internal/domain"
	"time"
)

// FeedFetcher загружает RSS-ленту и возвращает тело ответа как текст.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FeedParser преобразует текст ленты в список новостей.
type FeedParser interface {
	Parse(ctx context.Context, xmlText string) ([]domain.FeedItem, error)
}

// NewsStorage - архив новостей с уникальностью по ссылке.
type NewsStorage interface {
	Initialize(ctx context.Context) error
	InsertIfAbsent(ctx context.Context, item domain.FeedItem, savedAt time.Time) (bool, error)
	FindByDate(ctx context.Context, date domain.Date) ([]domain.StoredNews, error)
}

// PageRenderer формирует HTML-страницу за день.
type PageRenderer interface {
	Render(date domain.Date, records []domain.StoredNews, generatedAt time.Time) (string, error)
}

// TemplateChecker проверяет наличие шаблона до начала работы.
type TemplateChecker interface {
	Check() error
}

// PageWriter сохраняет готовую страницу и возвращает путь к файлу.
type PageWriter interface {
	Write(date domain.Date, page string) (string, error)
}
