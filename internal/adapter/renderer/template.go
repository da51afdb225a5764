package renderer

import (
	"fmt"
	"newsarchive/internal/domain"
	"os"
)

// Маркеры, заменяемые в шаблоне дословно.
const (
	DateToken        = "{{date}}"
	NewsListToken    = "{{news_list}}"
	GeneratedAtToken = "{{generated_at}}"
)

// TemplateSource предоставляет текст шаблона страницы.
type TemplateSource interface {
	Load() (string, error)
	Check() error
}

// FileTemplate - шаблон, читаемый с диска при каждом рендеринге.
type FileTemplate struct {
	Path string
}

func (f FileTemplate) Check() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return fmt.Errorf("%w: template %s not found: %w", domain.ErrTemplate, f.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: template %s is a directory", domain.ErrTemplate, f.Path)
	}
	return nil
}

func (f FileTemplate) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read template %s: %w", domain.ErrTemplate, f.Path, err)
	}
	return string(data), nil
}

// StaticTemplate - шаблон, заданный строкой.
type StaticTemplate string

func (s StaticTemplate) Check() error { return nil }

func (s StaticTemplate) Load() (string, error) { return string(s), nil }
