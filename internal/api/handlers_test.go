package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turmarkt/trendyol-catalog/internal/config"
	"github.com/turmarkt/trendyol-catalog/internal/scraper"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFetcher struct {
	html string
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

func newScrapeHandlers(fetcher scraper.Fetcher) *Handlers {
	cfg := config.ScraperConfig{
		Domain:        "trendyol.com",
		CDNHost:       "cdn.dsmcdn.com",
		MarkupPercent: decimal.NewFromInt(10),
		MaxImages:     8,
	}
	svc := scraper.NewServiceWithFetcher(cfg, fetcher, testLogger())
	return NewHandlers(svc, nil, nil, testLogger())
}

func postScrape(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Scrape(rec, req)
	return rec
}

func TestScrapeHandler(t *testing.T) {
	const productPage = `
		<h1 class="pr-new-br">Kadın Elbise</h1>
		<span class="prc-dsc">100,00 TL</span>
		<img class="product-image" src="/ty1/a.jpg"/>`

	t.Run("success returns record and export rows", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{html: productPage})

		rec := postScrape(t, h, `{"url":"https://www.trendyol.com/marka/elbise-p-1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, `"Kadın Elbise"`)
		assert.Contains(t, body, `"110.00"`)
		assert.Contains(t, body, "kadn-elbise")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{html: productPage})
		rec := postScrape(t, h, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing url is a 400", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{html: productPage})
		rec := postScrape(t, h, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("foreign url is a 400", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{html: productPage})
		rec := postScrape(t, h, `{"url":"https://example.com/p-1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("page without product data is a 422", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{html: `<div>empty</div>`})
		rec := postScrape(t, h, `{"url":"https://www.trendyol.com/p-1"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("upstream failure is a 502", func(t *testing.T) {
		h := newScrapeHandlers(&stubFetcher{err: &scraper.FetchError{Status: 503}})
		rec := postScrape(t, h, `{"url":"https://www.trendyol.com/p-1"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestTokenAuth(t *testing.T) {
	protected := tokenAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/status", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/status", nil)
		req.Header.Set("X-API-Token", "nope")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/status", nil)
		req.Header.Set("X-API-Token", "secret")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty configured token disables the check", func(t *testing.T) {
		open := tokenAuth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/status", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
