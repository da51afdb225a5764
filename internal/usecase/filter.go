package usecase

import "newsarchive/internal/domain"

// FilterOptions задает необязательные предикаты отбора новостей.
// Nil Date и пустой Categories означают отсутствие соответствующего фильтра.
type FilterOptions struct {
	Date       *domain.Date
	Categories []string
}

// Filter возвращает новости, прошедшие все заданные предикаты, сохраняя порядок.
// При активном фильтре по дате новости без распознанной даты отбрасываются,
// при активном фильтре по категориям отбрасываются новости без категории.
func Filter(items []domain.FeedItem, opts FilterOptions) []domain.FeedItem {
	var categories map[string]struct{}
	if len(opts.Categories) > 0 {
		categories = make(map[string]struct{}, len(opts.Categories))
		for _, c := range opts.Categories {
			categories[c] = struct{}{}
		}
	}
	out := make([]domain.FeedItem, 0, len(items))
	for _, it := range items {
		if opts.Date != nil {
			if it.PubDate == nil || domain.DateOf(it.PubDate.Parsed) != *opts.Date {
				continue
			}
		}
		if categories != nil {
			if it.Category == "" {
				continue
			}
			if _, ok := categories[it.Category]; !ok {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
