package renderer

import (
	"fmt"
	"log/slog"
	"newsarchive/internal/domain"
	"os"
	"path/filepath"
)

// FileWriter сохраняет страницы в каталог как news_YYYYMMDD.html.
// Файл сначала пишется во временный, затем переименовывается, поэтому
// при сбое записи старая страница остается нетронутой.
type FileWriter struct {
	dir string
	log *slog.Logger
}

func NewFileWriter(dir string, log *slog.Logger) *FileWriter {
	return &FileWriter{
		dir: dir,
		log: log.With(slog.String("component", "writer")),
	}
}

// FileName возвращает имя файла страницы за день.
func FileName(date domain.Date) string {
	return "news_" + date.Compact() + ".html"
}

func (w *FileWriter) Write(date domain.Date, page string) (string, error) {
	path := filepath.Join(w.dir, FileName(date))
	tmp, err := os.CreateTemp(w.dir, ".news_*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", w.dir, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(page); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move page to %s: %w", path, err)
	}
	w.log.Info("Page written", slog.String("path", path), slog.Int("bytes", len(page)))
	return path, nil
}
