package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"newsarchive/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(timeout time.Duration) *HTTPFetcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHTTPFetcher(timeout, logger)
}

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<rss></rss>"))
	}))
	defer testServer.Close()

	body, err := newTestFetcher(time.Second).Fetch(context.Background(), testServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "<rss></rss>", body)
}

func TestHTTPFetcher_Fetch_BadStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		body, err := newTestFetcher(time.Second).Fetch(context.Background(), testServer.URL)
		testServer.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
		assert.Contains(t, err.Error(), "unexpected status code")
		assert.Empty(t, body)
	}
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer testServer.Close()
	defer close(release)

	_, err := newTestFetcher(50*time.Millisecond).Fetch(context.Background(), testServer.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestHTTPFetcher_InvalidURL(t *testing.T) {
	_, err := newTestFetcher(time.Second).Fetch(context.Background(), "invalid://url")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(time.Second).Fetch(ctx, testServer.URL)
	assert.Error(t, err)
}
