package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/turmarkt/trendyol-catalog/internal/models"
)

// ErrIngestionFailed wraps storage failures during record ingestion. The
// whole Product/Variant/PriceHistory triple is rolled back; no partial
// write is observable.
var ErrIngestionFailed = errors.New("catalog ingestion failed")

const defaultVariantStock = 100

// IngestProductTx inserts the product, its variant, its price history row
// and its image rows within tx. The caller owns the transaction boundary;
// any error must roll the whole insert back.
func IngestProductTx(ctx context.Context, tx pgx.Tx, rec *models.Record, sourceURL, sku, description string) (int64, error) {
	var productID int64
	err := tx.QueryRow(ctx, `
		INSERT INTO products (title, description, image_url, source_url, stock_status)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id`,
		rec.Title, description, rec.PrimaryImage(), sourceURL,
	).Scan(&productID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO variants (product_id, sku, stock, current_price)
		VALUES ($1, $2, $3, $4)`,
		productID, sku, defaultVariantStock, rec.Price,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert variant: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_history (product_id, price, platform, tracked_at)
		VALUES ($1, $2, $3, $4)`,
		productID, rec.Price, PlatformForURL(sourceURL), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert price history: %w", err)
	}

	for position, imageURL := range rec.ImageURLs {
		_, err = tx.Exec(ctx, `
			INSERT INTO product_images (product_id, image_url, position)
			VALUES ($1, $2, $3)`,
			productID, imageURL, position+1,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert product image: %w", err)
		}
	}

	return productID, nil
}

// TrackPriceTx appends a price history row and refreshes the product's
// current state within tx. Used by update cycles on already-ingested
// products; history rows are never mutated, only appended.
func TrackPriceTx(ctx context.Context, tx pgx.Tx, productID int64, price decimal.Decimal, platform, title, imageURL string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO price_history (product_id, price, platform, tracked_at)
		VALUES ($1, $2, $3, $4)`,
		productID, price, platform, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert price history: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET
			title = COALESCE(NULLIF($2, ''), title),
			image_url = COALESCE(NULLIF($3, ''), image_url),
			last_checked = NOW(),
			updated_at = NOW()
		WHERE id = $1`,
		productID, title, imageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE variants SET current_price = $2 WHERE product_id = $1`,
		productID, price,
	)
	if err != nil {
		return fmt.Errorf("failed to update variant price: %w", err)
	}

	return nil
}

// GetProduct retrieves one product; nil when it does not exist.
func (db *DB) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	err := db.pool.QueryRow(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(image_url, ''),
			COALESCE(source_url, ''), stock_status, last_checked, created_at, updated_at
		FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.SourceURL,
		&p.StockStatus, &p.LastChecked, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// ListProducts returns all catalog products, oldest first.
func (db *DB) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(image_url, ''),
			COALESCE(source_url, ''), stock_status, last_checked, created_at, updated_at
		FROM products ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.SourceURL,
			&p.StockStatus, &p.LastChecked, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
