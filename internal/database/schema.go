package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Schema holds the catalog DDL. Child tables cascade on product deletion:
// removing a product removes its variants, price history, images and
// competitor prices.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT,
	image_url    TEXT,
	source_url   TEXT,
	stock_status BOOLEAN NOT NULL DEFAULT TRUE,
	last_checked TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS variants (
	id            BIGSERIAL PRIMARY KEY,
	product_id    BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	sku           TEXT,
	size          VARCHAR(50),
	color         VARCHAR(50),
	stock         INTEGER NOT NULL DEFAULT 0,
	current_price NUMERIC(10,2) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS price_history (
	id         BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	price      NUMERIC(10,2) NOT NULL,
	platform   VARCHAR(50) NOT NULL,
	tracked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS product_images (
	id         BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	image_url  TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS competitor_prices (
	id              BIGSERIAL PRIMARY KEY,
	product_id      BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	competitor_name VARCHAR(100) NOT NULL,
	price           NUMERIC(10,2) NOT NULL,
	url             TEXT,
	tracked_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox_event (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	target_stream  TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	retry_count    INTEGER NOT NULL DEFAULT 0,
	error_message  TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at   TIMESTAMPTZ,
	next_retry_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history(product_id);
CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);
CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_event(status, next_retry_at);
`

// Migrate applies the schema with a bounded retry, since the database may
// still be starting when the service comes up.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger, maxRetries int, retryDelay time.Duration) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("applying schema", "attempt", attempt, "max", maxRetries)
		if _, err = db.Exec(ctx, Schema); err == nil {
			logger.Info("schema applied")
			return nil
		}

		if attempt < maxRetries {
			logger.Warn("schema apply failed, retrying", "error", err, "delay", retryDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return fmt.Errorf("failed to apply schema after %d attempts: %w", maxRetries, err)
}
