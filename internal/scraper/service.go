package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/turmarkt/trendyol-catalog/internal/config"
	"github.com/turmarkt/trendyol-catalog/internal/models"
	"github.com/turmarkt/trendyol-catalog/internal/parser"
	"github.com/turmarkt/trendyol-catalog/internal/pricing"
)

// Service runs the extraction pipeline for one URL: validate, fetch, parse,
// then gate on record validity. It holds no mutable state and is safe for
// concurrent use from any number of workers.
type Service struct {
	client Fetcher
	parser *parser.Parser
	domain string
	logger *slog.Logger
}

func NewService(cfg config.ScraperConfig, logger *slog.Logger) *Service {
	return NewServiceWithFetcher(cfg, NewClient(ClientOptions{
		Timeout:        cfg.Timeout,
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
	}), logger)
}

// NewServiceWithFetcher wires an explicit fetcher; tests use it to avoid
// network access.
func NewServiceWithFetcher(cfg config.ScraperConfig, fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		client: fetcher,
		parser: parser.New(parser.Options{
			CDNHost:   cfg.CDNHost,
			MaxImages: cfg.MaxImages,
			Markup:    pricing.Markup{Percent: cfg.MarkupPercent},
		}),
		domain: cfg.Domain,
		logger: logger.With("component", "scraper"),
	}
}

func (s *Service) ValidateURL(raw string) (string, error) {
	return ValidateURL(raw, s.domain)
}

// Scrape fetches and extracts one product page. It returns ErrInvalidURL
// for foreign URLs, fetch/transport errors unchanged, and ErrNoProduct when
// extraction left the record without a title or positive price.
func (s *Service) Scrape(ctx context.Context, rawURL string) (*models.Record, error) {
	url, err := s.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	html, err := s.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	record, err := s.parser.ParseProductPage(html)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	if !record.Valid() {
		s.logger.Warn("record rejected by validity gate",
			"url", url,
			"has_title", record.Title != "",
			"price", record.Price.String())
		return nil, ErrNoProduct
	}

	s.logger.Info("product extracted",
		"url", url,
		"title", record.Title,
		"price", record.Price.String(),
		"images", len(record.ImageURLs),
		"category", record.Category)

	return record, nil
}
