package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/turmarkt/trendyol-catalog/internal/catalog"
	"github.com/turmarkt/trendyol-catalog/internal/export"
	"github.com/turmarkt/trendyol-catalog/internal/observability"
	"github.com/turmarkt/trendyol-catalog/internal/scraper"
	"github.com/turmarkt/trendyol-catalog/internal/updater"
)

type Handlers struct {
	scraper *scraper.Service
	catalog *catalog.Service
	updater *updater.Updater
	logger  *slog.Logger
}

func NewHandlers(scraperSvc *scraper.Service, catalogSvc *catalog.Service, updaterSvc *updater.Updater, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: scraperSvc,
		catalog: catalogSvc,
		updater: updaterSvc,
		logger:  logger,
	}
}

type ScrapeRequest struct {
	URL    string `json:"url"`
	Ingest bool   `json:"ingest"`
}

type ScrapeResponse struct {
	ProductID int64        `json:"product_id,omitempty"`
	Record    any          `json:"record"`
	Columns   []string     `json:"columns"`
	Rows      []export.Row `json:"rows"`
}

// Scrape extracts one product page, optionally ingesting it, and returns
// the record plus its export rows.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	record, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		observability.ScrapesTotal.WithLabelValues(scrapeResult(err)).Inc()

		switch {
		case errors.Is(err, scraper.ErrInvalidURL):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, scraper.ErrNoProduct):
			h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("scrape failed", "url", req.URL, "error", err)
			h.respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	observability.ScrapesTotal.WithLabelValues("ok").Inc()

	var productID int64
	if req.Ingest {
		productID, err = h.catalog.Ingest(r.Context(), record, req.URL)
		if err != nil {
			h.logger.Error("ingestion failed", "url", req.URL, "error", err)
			h.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		observability.IngestsTotal.Inc()
	}

	h.respondJSON(w, http.StatusOK, ScrapeResponse{
		ProductID: productID,
		Record:    record,
		Columns:   export.Columns(),
		Rows:      export.Convert(record, productID),
	})
}

type UpdateResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
}

// UpdateProducts re-scrapes every known product. Individual failures are
// counted, never propagated.
func (h *Handlers) UpdateProducts(w http.ResponseWriter, r *http.Request) {
	report, err := h.updater.RunAll(r.Context())
	if err != nil {
		h.logger.Error("batch update failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.BatchUpdatesTotal.WithLabelValues("updated").Add(float64(report.Updated))
	observability.BatchUpdatesTotal.WithLabelValues("failed").Add(float64(report.Failed))

	h.respondJSON(w, http.StatusOK, UpdateResponse{
		Message: "update finished",
		Updated: report.Updated,
		Failed:  report.Failed,
	})
}

type ProductStatus struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	StockStatus bool      `json:"stock_status"`
	LastChecked time.Time `json:"last_checked"`
	SourceURL   string    `json:"source_url"`
}

// GetProductStatus lists catalog products with their stock and freshness
// state.
func (h *Handlers) GetProductStatus(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	statuses := make([]ProductStatus, 0, len(products))
	for _, p := range products {
		statuses = append(statuses, ProductStatus{
			ID:          p.ID,
			Title:       p.Title,
			StockStatus: p.StockStatus,
			LastChecked: p.LastChecked,
			SourceURL:   p.SourceURL,
		})
	}

	h.respondJSON(w, http.StatusOK, statuses)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func scrapeResult(err error) string {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, scraper.ErrNoProduct):
		return "no_product"
	default:
		return "fetch_error"
	}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
