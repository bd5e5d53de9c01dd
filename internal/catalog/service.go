// Package catalog turns validated extraction records into persistent
// catalog entities. One record yields exactly one Product, one Variant and
// one PriceHistory row, or nothing at all.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/turmarkt/trendyol-catalog/internal/database"
	"github.com/turmarkt/trendyol-catalog/internal/events"
	"github.com/turmarkt/trendyol-catalog/internal/export"
	"github.com/turmarkt/trendyol-catalog/internal/models"
)

type Service struct {
	db        *database.DB
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewService(db *database.DB, publisher *events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "catalog"),
	}
}

// Ingest persists rec atomically and returns the assigned product id. The
// variant SKU is the slugified title; the price history platform is derived
// from the source URL domain. Any failure rolls the whole triple back and
// surfaces as ErrIngestionFailed, leaving other records in a batch
// unaffected.
func (s *Service) Ingest(ctx context.Context, rec *models.Record, sourceURL string) (int64, error) {
	if !rec.Valid() {
		return 0, fmt.Errorf("%w: record failed validity gate", database.ErrIngestionFailed)
	}

	sku := export.Handle(rec.Title)
	description := export.PropertiesHTML(rec.Properties)
	platform := database.PlatformForURL(sourceURL)

	var productID int64
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		id, err := database.IngestProductTx(ctx, tx, rec, sourceURL, sku, description)
		if err != nil {
			return err
		}
		productID = id

		if s.publisher == nil {
			return nil
		}
		return s.publisher.ProductIngestedTx(ctx, tx, &events.ProductIngestedPayload{
			ProductID:  productID,
			Title:      rec.Title,
			Price:      rec.Price,
			Platform:   platform,
			SourceURL:  sourceURL,
			ImageCount: len(rec.ImageURLs),
			Category:   rec.Category,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", database.ErrIngestionFailed, err)
	}

	s.logger.Info("product ingested",
		"product_id", productID,
		"title", rec.Title,
		"platform", platform,
		"price", rec.Price.String())

	return productID, nil
}

// TrackPrice appends a history row and refreshes the stored product after a
// successful re-scrape of an existing product. The event commits with the
// history row or not at all.
func (s *Service) TrackPrice(ctx context.Context, productID int64, rec *models.Record, sourceURL string) error {
	platform := database.PlatformForURL(sourceURL)

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := database.TrackPriceTx(ctx, tx, productID, rec.Price, platform, rec.Title, rec.PrimaryImage()); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		return s.publisher.PriceTrackedTx(ctx, tx, &events.PriceTrackedPayload{
			ProductID: productID,
			Price:     rec.Price,
			Platform:  platform,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to track price: %w", err)
	}

	return nil
}

// Products lists the catalog for status reporting and update cycles.
func (s *Service) Products(ctx context.Context) ([]*models.Product, error) {
	return s.db.ListProducts(ctx)
}
