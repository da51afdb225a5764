package domain

import "time"

// ISOLayout - формат ISO-8601 со смещением, в котором хранятся все даты.
const ISOLayout = "2006-01-02T15:04:05-07:00"

// PubDate - успешно распознанная дата публикации.
// Значение времени и его ISO-представление всегда создаются вместе.
type PubDate struct {
	Parsed time.Time
	ISO    string
}

// NewPubDate создает PubDate, сохраняя собственное смещение времени.
func NewPubDate(t time.Time) *PubDate {
	return &PubDate{Parsed: t, ISO: t.Format(ISOLayout)}
}

// FeedItem представляет отдельную новость, извлеченную из RSS-ленты.
// PubDate равен nil, если дата публикации отсутствует или не распознана.
type FeedItem struct {
	Title      string
	Link       string
	Category   string
	PubDateRaw string
	PubDate    *PubDate
}

// PubDateISO возвращает нормализованную дату публикации, если она есть.
func (i FeedItem) PubDateISO() (string, bool) {
	if i.PubDate == nil {
		return "", false
	}
	return i.PubDate.ISO, true
}

// StoredNews представляет запись архива. Создается один раз на уникальную ссылку
// и больше не изменяется.
type StoredNews struct {
	ID         int64
	Link       string
	Title      string
	Category   string
	PubDateISO *string
	PubDateRaw string
	SavedAt    string
}

// NewStoredNews копирует новость в запись архива с отметкой savedAt.
// ID назначается хранилищем.
func NewStoredNews(item FeedItem, savedAt time.Time) StoredNews {
	rec := StoredNews{
		Link:       item.Link,
		Title:      item.Title,
		Category:   item.Category,
		PubDateRaw: item.PubDateRaw,
		SavedAt:    savedAt.Truncate(time.Second).Format(ISOLayout),
	}
	if iso, ok := item.PubDateISO(); ok {
		rec.PubDateISO = &iso
	}
	return rec
}
