package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"newsarchive/internal/domain"
	"time"
)

// HTTPFetcher загружает RSS-ленту одним GET-запросом.
// Ошибки сети, таймаут и статусы вне диапазона 2xx возвращаются как domain.ErrNetwork.
type HTTPFetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewHTTPFetcher создает HTTPFetcher с таймаутом на весь запрос, включая чтение тела.
func NewHTTPFetcher(timeout time.Duration, log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log.With(slog.String("component", "fetcher")),
	}
}

// Fetch выполняет запрос и возвращает тело ответа как текст.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	log := f.log.With(slog.String("url", url))
	log.Info("Fetching feed")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return "", fmt.Errorf("%w: failed to create request for url %s: %v", domain.ErrNetwork, url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: failed to fetch url %s: %w", domain.ErrNetwork, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return "", fmt.Errorf("%w: unexpected status code: %d for url %s", domain.ErrNetwork, resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return "", fmt.Errorf("%w: failed to read body of %s: %w", domain.ErrNetwork, url, err)
	}
	log.Info("Successfully fetched feed", slog.Int("bytes", len(body)))
	return string(body), nil
}
