package renderer

import (
	"fmt"
	"html"
	"log/slog"
	"newsarchive/internal/domain"
	"strings"
	"time"
)

// EmptyStateBlock подставляется вместо списка, если за день нет записей.
const EmptyStateBlock = `<p class="news-empty">nothing found</p>`

const (
	displayLayout     = "2006-01-02 15:04"
	generatedAtLayout = "2006-01-02 15:04:05"
)

// HTMLRenderer формирует страницу за день подстановкой трех маркеров в шаблон.
// Отсутствующий в шаблоне маркер молча пропускается: страница выйдет без
// соответствующего содержимого.
type HTMLRenderer struct {
	template TemplateSource
	log      *slog.Logger
}

func NewHTMLRenderer(template TemplateSource, log *slog.Logger) *HTMLRenderer {
	return &HTMLRenderer{
		template: template,
		log:      log.With(slog.String("component", "renderer")),
	}
}

// Check проверяет доступность шаблона.
func (r *HTMLRenderer) Check() error {
	return r.template.Check()
}

// Render возвращает готовый HTML-документ. Записи выводятся в переданном порядке.
func (r *HTMLRenderer) Render(date domain.Date, records []domain.StoredNews, generatedAt time.Time) (string, error) {
	tpl, err := r.template.Load()
	if err != nil {
		r.log.Error("Failed to load template", slog.Any("error", err))
		return "", err
	}
	for _, token := range []string{DateToken, NewsListToken, GeneratedAtToken} {
		if !strings.Contains(tpl, token) {
			r.log.Warn("Template is missing placeholder", slog.String("token", token))
		}
	}
	body := EmptyStateBlock
	if len(records) > 0 {
		blocks := make([]string, 0, len(records))
		for _, rec := range records {
			blocks = append(blocks, articleBlock(rec))
		}
		body = strings.Join(blocks, "\n")
	}
	page := strings.NewReplacer(
		DateToken, date.String(),
		NewsListToken, body,
		GeneratedAtToken, generatedAt.Format(generatedAtLayout),
	).Replace(tpl)
	r.log.Debug("Page rendered", slog.String("date", date.String()), slog.Int("articles", len(records)))
	return page, nil
}

func articleBlock(rec domain.StoredNews) string {
	return fmt.Sprintf(`<article class="news-item">
    <h2><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></h2>
    <p class="news-meta">%s | %s</p>
</article>`,
		html.EscapeString(rec.Link),
		html.EscapeString(rec.Title),
		html.EscapeString(rec.Category),
		html.EscapeString(DisplayTime(rec)),
	)
}

// DisplayTime возвращает время публикации для показа: ISO-дата в виде
// YYYY-MM-DD HH:MM в ее собственном смещении, иначе исходная строка.
func DisplayTime(rec domain.StoredNews) string {
	if rec.PubDateISO != nil {
		if t, err := time.Parse(time.RFC3339, *rec.PubDateISO); err == nil {
			return t.Format(displayLayout)
		}
	}
	return rec.PubDateRaw
}
