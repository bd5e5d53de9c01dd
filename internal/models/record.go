package models

import (
	"github.com/shopspring/decimal"
)

// Record is the normalized result of one product page extraction. It is
// transient: the scraper produces it, ingestion and export both consume it.
type Record struct {
	Title      string            `json:"title"`
	Price      decimal.Decimal   `json:"price"`
	ImageURLs  []string          `json:"image_urls"`
	Category   string            `json:"category"`
	Properties map[string]string `json:"properties"`
}

// Valid reports whether the record passed the extraction gate: a non-empty
// title and a strictly positive price. Records failing the gate are
// discarded, never persisted or exported.
func (r *Record) Valid() bool {
	return r.Title != "" && r.Price.IsPositive()
}

func (r *Record) PrimaryImage() string {
	if len(r.ImageURLs) == 0 {
		return ""
	}
	return r.ImageURLs[0]
}
