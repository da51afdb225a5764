package storage

import (
	"context"
	"newsarchive/internal/domain"
	"sort"
	"sync"
	"time"
)

// MemoryNewsDB - хранилище в памяти с той же семантикой, что и PostgresNewsDB.
// Данные не переживают процесс; используется для пробных запусков и тестов.
type MemoryNewsDB struct {
	mu      sync.Mutex
	lastID  int64
	records []domain.StoredNews
	byLink  map[string]int
}

func NewMemoryNewsDB() *MemoryNewsDB {
	return &MemoryNewsDB{byLink: make(map[string]int)}
}

func (m *MemoryNewsDB) Initialize(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryNewsDB) InsertIfAbsent(ctx context.Context, item domain.FeedItem, savedAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byLink[item.Link]; exists {
		return false, nil
	}
	rec := domain.NewStoredNews(item, savedAt)
	m.lastID++
	rec.ID = m.lastID
	m.byLink[rec.Link] = len(m.records)
	m.records = append(m.records, rec)
	return true, nil
}

func (m *MemoryNewsDB) FindByDate(ctx context.Context, date domain.Date) ([]domain.StoredNews, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	day := date.String()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredNews
	for _, rec := range m.records {
		if rec.PubDateISO == nil || len(*rec.PubDateISO) < len(day) || (*rec.PubDateISO)[:len(day)] != day {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].PubDateISO > *out[j].PubDateISO
	})
	return out, nil
}

func (m *MemoryNewsDB) Close() {}
