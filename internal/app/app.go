package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"newsarchive/internal/adapter/fetcher"
	"newsarchive/internal/adapter/parser"
	"newsarchive/internal/adapter/renderer"
	"newsarchive/internal/config"
	"newsarchive/internal/logger"
	"newsarchive/internal/usecase"
	"newsarchive/storage"
	"time"
)

// App связывает компоненты архиватора для одного запуска.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	storage  storage.Storage
	archiver *usecase.ArchiveUseCase
	closeLog func() error
	now      func() time.Time
}

// New создает приложение: настраивает логгер, открывает хранилище
// и собирает конвейер. progress получает строки о ходе работы.
func New(ctx context.Context, cfg *config.Config, progress io.Writer) (*App, error) {
	appLogger, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)
	a, err := NewWithLogger(ctx, cfg, appLogger, progress)
	if err != nil {
		closeLog()
		return nil, err
	}
	a.closeLog = closeLog
	return a, nil
}

// NewWithLogger собирает приложение с уже настроенным логгером.
func NewWithLogger(ctx context.Context, cfg *config.Config, appLogger *slog.Logger, progress io.Writer) (*App, error) {
	store, err := openStorage(ctx, cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}
	appCfg := cfg.App
	tpl := renderer.FileTemplate{Path: appCfg.Path(appCfg.TemplateFile)}
	newsDir := appCfg.Path(appCfg.NewsDir)

	archiver := usecase.NewArchiveUseCase(
		fetcher.NewHTTPFetcher(appCfg.Timeout(), appLogger),
		parser.NewXMLParser(appLogger),
		store,
		renderer.NewHTMLRenderer(tpl, appLogger),
		renderer.NewFileWriter(newsDir, appLogger),
		appLogger,
		usecase.ArchiveOptions{
			FeedURL: appCfg.FeedURL,
			Dirs: []string{
				newsDir,
				appCfg.Path(appCfg.TemplatesDir),
				appCfg.Path(appCfg.StylesDir),
			},
			Categories: appCfg.Categories,
			Progress:   progress,
		},
	)
	return &App{
		config:   cfg,
		logger:   appLogger,
		storage:  store,
		archiver: archiver,
		closeLog: func() error { return nil },
		now:      time.Now,
	}, nil
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, archive will not persist", slog.String("component", "app"))
		return storage.NewMemoryNewsDB(), nil
	case config.DriverPostgres:
		return storage.OpenPostgres(ctx, cfg.DSN(), log)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Run выполняет один проход архиватора, фиксируя текущее время в начале.
func (a *App) Run(ctx context.Context) (usecase.Report, error) {
	a.logger.Info("Starting News Archive",
		slog.String("component", "app"),
		slog.String("feed_url", a.config.App.FeedURL),
		slog.String("driver", a.config.Database.Driver),
	)
	return a.archiver.Run(ctx, a.now())
}

// Close освобождает хранилище и файлы логов.
func (a *App) Close() error {
	a.storage.Close()
	a.logger.Info("Application stopped", slog.String("component", "app"))
	return a.closeLog()
}
