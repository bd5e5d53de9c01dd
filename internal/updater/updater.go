// Package updater re-scrapes known catalog products and appends fresh
// price history. Fetch latency dominates, so products run through a
// bounded worker pool; each product's ingestion stays atomic and one
// product's failure never aborts the batch.
package updater

import (
	"context"
	"log/slog"
	"sync"

	"github.com/turmarkt/trendyol-catalog/internal/models"
)

type Scraper interface {
	Scrape(ctx context.Context, url string) (*models.Record, error)
}

type Catalog interface {
	Products(ctx context.Context) ([]*models.Product, error)
	TrackPrice(ctx context.Context, productID int64, rec *models.Record, sourceURL string) error
}

// Report accumulates batch outcomes for the caller.
type Report struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type Updater struct {
	scraper     Scraper
	catalog     Catalog
	concurrency int
	logger      *slog.Logger
}

func New(scraper Scraper, catalog Catalog, concurrency int, logger *slog.Logger) *Updater {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Updater{
		scraper:     scraper,
		catalog:     catalog,
		concurrency: concurrency,
		logger:      logger.With("component", "updater"),
	}
}

// RunAll updates every product in the catalog.
func (u *Updater) RunAll(ctx context.Context) (Report, error) {
	products, err := u.catalog.Products(ctx)
	if err != nil {
		return Report{}, err
	}
	return u.Run(ctx, products), nil
}

// Run re-scrapes the given products with bounded concurrency and reports
// updated/failed counts. Every failure mode (invalid URL, transport error,
// extraction gate, storage) counts as one failed product; the batch always
// runs to completion.
func (u *Updater) Run(ctx context.Context, products []*models.Product) Report {
	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)

	sem := make(chan struct{}, u.concurrency)

	for _, product := range products {
		wg.Add(1)
		sem <- struct{}{}

		go func(product *models.Product) {
			defer wg.Done()
			defer func() { <-sem }()

			ok := u.updateOne(ctx, product)

			mu.Lock()
			if ok {
				report.Updated++
			} else {
				report.Failed++
			}
			mu.Unlock()
		}(product)
	}

	wg.Wait()

	u.logger.Info("batch update finished",
		"total", len(products),
		"updated", report.Updated,
		"failed", report.Failed)

	return report
}

func (u *Updater) updateOne(ctx context.Context, product *models.Product) bool {
	record, err := u.scraper.Scrape(ctx, product.SourceURL)
	if err != nil {
		u.logger.Warn("product update failed",
			"product_id", product.ID,
			"url", product.SourceURL,
			"error", err)
		return false
	}

	if err := u.catalog.TrackPrice(ctx, product.ID, record, product.SourceURL); err != nil {
		u.logger.Error("failed to record tracked price",
			"product_id", product.ID,
			"error", err)
		return false
	}

	return true
}
