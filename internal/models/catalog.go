package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the persistent catalog entity. Variants, price history, images
// and competitor prices belong to exactly one product and are removed with
// it (ON DELETE CASCADE).
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	SourceURL   string    `json:"source_url"`
	StockStatus bool      `json:"stock_status"`
	LastChecked time.Time `json:"last_checked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Variant struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	SKU          string          `json:"sku"`
	Size         string          `json:"size,omitempty"`
	Color        string          `json:"color,omitempty"`
	Stock        int             `json:"stock"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PriceHistory rows are append-only; one row per successful extraction.
type PriceHistory struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Platform  string          `json:"platform"`
	TrackedAt time.Time       `json:"tracked_at"`
}

type ProductImage struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type CompetitorPrice struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	CompetitorName string          `json:"competitor_name"`
	Price          decimal.Decimal `json:"price"`
	URL            string          `json:"url"`
	TrackedAt      time.Time       `json:"tracked_at"`
}
