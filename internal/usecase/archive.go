package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"newsarchive/internal/domain"
	"os"
	"time"
)

// ArchiveRenderer проверяет шаблон и формирует страницу.
type ArchiveRenderer interface {
	TemplateChecker
	PageRenderer
}

// ArchiveOptions - параметры запуска архиватора.
type ArchiveOptions struct {
	FeedURL string
	// Dirs создаются перед запуском, если их нет.
	Dirs []string
	// Categories ограничивает архив категориями; пустой список - без ограничений.
	Categories []string
	// Progress получает строки о ходе работы; nil - не выводить.
	Progress io.Writer
}

// Report - итог одного запуска.
type Report struct {
	Date       domain.Date
	ItemsFound int
	ItemsToday int
	Inserted   int
	TotalToday int
	OutputPath string
}

// ArchiveUseCase реализует один проход архиватора за текущий день:
// загрузка, разбор, отбор сегодняшних новостей, сохранение новых,
// выборка всех записей за день из архива и запись страницы.
type ArchiveUseCase struct {
	fetcher  FeedFetcher
	parser   FeedParser
	storage  NewsStorage
	renderer ArchiveRenderer
	writer   PageWriter
	log      *slog.Logger
	opts     ArchiveOptions
}

func NewArchiveUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	storage NewsStorage,
	renderer ArchiveRenderer,
	writer PageWriter,
	log *slog.Logger,
	opts ArchiveOptions,
) *ArchiveUseCase {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &ArchiveUseCase{
		fetcher:  fetcher,
		parser:   parser,
		storage:  storage,
		renderer: renderer,
		writer:   writer,
		log:      log.With(slog.String("component", "archiver")),
		opts:     opts,
	}
}

// Run выполняет проход для календарного дня now. Значение now также служит
// отметкой saved_at и временем генерации страницы.
// Любая ошибка прерывает проход; уже вставленные записи остаются в архиве,
// страница при этом не записывается.
func (uc *ArchiveUseCase) Run(ctx context.Context, now time.Time) (Report, error) {
	start := time.Now()
	today := domain.DateOf(now)
	report := Report{Date: today}
	log := uc.log.With(slog.String("date", today.String()), slog.String("url", uc.opts.FeedURL))
	log.Info("Archive run started")

	for _, dir := range uc.opts.Dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Failed to create directory", slog.String("stage", "prepare"), slog.String("dir", dir), slog.Any("error", err))
			return report, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := uc.storage.Initialize(ctx); err != nil {
		log.Error("Store initialization failed", slog.String("stage", "prepare"), slog.Any("error", err))
		return report, fmt.Errorf("store initialization failed: %w", err)
	}
	if err := uc.renderer.Check(); err != nil {
		log.Error("Template check failed", slog.String("stage", "prepare"), slog.Any("error", err))
		return report, err
	}

	body, err := uc.fetcher.Fetch(ctx, uc.opts.FeedURL)
	if err != nil {
		log.Error("Feed fetch failed", slog.String("stage", "fetch"), slog.Any("error", err))
		return report, fmt.Errorf("fetch failed: %w", err)
	}
	items, err := uc.parser.Parse(ctx, body)
	if err != nil {
		log.Error("Feed parsing failed", slog.String("stage", "parse"), slog.Any("error", err))
		return report, fmt.Errorf("parse failed: %w", err)
	}
	report.ItemsFound = len(items)
	uc.progressf("Items in feed: %d", report.ItemsFound)

	todays := Filter(items, FilterOptions{Date: &today, Categories: uc.opts.Categories})
	report.ItemsToday = len(todays)
	uc.progressf("Items for today in feed: %d", report.ItemsToday)

	for _, item := range todays {
		inserted, err := uc.storage.InsertIfAbsent(ctx, item, now)
		if err != nil {
			log.Error("Feed save failed", slog.String("stage", "save"), slog.Int("inserted", report.Inserted), slog.Any("error", err))
			return report, fmt.Errorf("save failed: %w", err)
		}
		if inserted {
			report.Inserted++
		}
	}
	uc.progressf("New records saved: %d", report.Inserted)

	records, err := uc.storage.FindByDate(ctx, today)
	if err != nil {
		log.Error("Archive query failed", slog.String("stage", "query"), slog.Any("error", err))
		return report, fmt.Errorf("query failed: %w", err)
	}
	report.TotalToday = len(records)
	uc.progressf("Records for today in archive: %d", report.TotalToday)

	page, err := uc.renderer.Render(today, records, now)
	if err != nil {
		log.Error("Page rendering failed", slog.String("stage", "render"), slog.Any("error", err))
		return report, fmt.Errorf("render failed: %w", err)
	}
	path, err := uc.writer.Write(today, page)
	if err != nil {
		log.Error("Page write failed", slog.String("stage", "write"), slog.Any("error", err))
		return report, fmt.Errorf("write failed: %w", err)
	}
	report.OutputPath = path
	uc.progressf("Page saved: %s", path)

	log.Info("Archive run completed",
		slog.Int("items_found", report.ItemsFound),
		slog.Int("items_today", report.ItemsToday),
		slog.Int("inserted", report.Inserted),
		slog.Int("total_today", report.TotalToday),
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func (uc *ArchiveUseCase) progressf(format string, args ...any) {
	fmt.Fprintf(uc.opts.Progress, format+"\n", args...)
}
