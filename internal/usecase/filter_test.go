package usecase

import (
	"newsarchive/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func itemAt(link, category string, t *time.Time) domain.FeedItem {
	it := domain.FeedItem{Title: link, Link: link, Category: category}
	if t != nil {
		it.PubDate = domain.NewPubDate(*t)
	}
	return it
}

func links(items []domain.FeedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Link)
	}
	return out
}

func TestFilter_NoPredicatesReturnsAll(t *testing.T) {
	items := []domain.FeedItem{itemAt("a", "", nil), itemAt("b", "x", nil)}

	assert.Equal(t, items, Filter(items, FilterOptions{}))
}

func TestFilter_ByDate(t *testing.T) {
	kyiv := time.FixedZone("", 2*3600)
	lateToday := time.Date(2024, 3, 14, 23, 30, 0, 0, kyiv)
	earlyToday := time.Date(2024, 3, 14, 0, 10, 0, 0, kyiv)
	yesterday := time.Date(2024, 3, 13, 23, 59, 0, 0, kyiv)
	// 2024-03-14 in UTC but 2024-03-15 in its own zone.
	tomorrowLocal := time.Date(2024, 3, 15, 1, 0, 0, 0, time.FixedZone("", 3*3600))

	items := []domain.FeedItem{
		itemAt("late", "", &lateToday),
		itemAt("undated", "", nil),
		itemAt("yesterday", "", &yesterday),
		itemAt("early", "", &earlyToday),
		itemAt("tomorrow-local", "", &tomorrowLocal),
	}
	day := domain.Date{Year: 2024, Month: time.March, Day: 14}

	got := Filter(items, FilterOptions{Date: &day})

	assert.Equal(t, []string{"late", "early"}, links(got))
}

func TestFilter_ByCategory(t *testing.T) {
	items := []domain.FeedItem{
		itemAt("a", "Politics", nil),
		itemAt("b", "", nil),
		itemAt("c", "Sport", nil),
		itemAt("d", "Economy", nil),
	}

	got := Filter(items, FilterOptions{Categories: []string{"Politics", "Economy"}})

	assert.Equal(t, []string{"a", "d"}, links(got))
}

func TestFilter_DateAndCategory(t *testing.T) {
	today := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	other := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []domain.FeedItem{
		itemAt("match", "Politics", &today),
		itemAt("wrong-day", "Politics", &other),
		itemAt("wrong-cat", "Sport", &today),
		itemAt("no-cat", "", &today),
	}
	day := domain.DateOf(today)

	got := Filter(items, FilterOptions{Date: &day, Categories: []string{"Politics"}})

	assert.Equal(t, []string{"match"}, links(got))
}
