package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/turmarkt/trendyol-catalog/internal/models"
)

var (
	// ErrInvalidURL marks a source URL outside the supported storefront.
	ErrInvalidURL = errors.New("invalid storefront URL")
	// ErrNoProduct marks a page where no usable record could be extracted
	// after all fallbacks (empty title or non-positive price).
	ErrNoProduct = errors.New("no product data found")
)

// Fetcher retrieves the raw HTML of a product page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scraper turns a product page URL into a normalized record.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*models.Record, error)
	ValidateURL(raw string) (string, error)
}

// ValidateURL trims raw, prefixes https:// when the scheme is missing and
// accepts the URL only when its host belongs to domain (case-insensitive).
// Purely lexical, no network access.
func ValidateURL(raw, domain string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(parsed.Hostname())
	domain = strings.ToLower(domain)
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return "", ErrInvalidURL
	}

	return parsed.String(), nil
}
