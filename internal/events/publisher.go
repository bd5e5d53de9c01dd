package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/turmarkt/trendyol-catalog/internal/database"
)

type EventType string

const (
	// EventTypeProductIngested is published when a scraped record lands in
	// the catalog.
	EventTypeProductIngested EventType = "PRODUCT_INGESTED"
	// EventTypePriceTracked is published when an update cycle appends a
	// price history row for an existing product.
	EventTypePriceTracked EventType = "PRICE_TRACKED"
)

// StreamCatalogIngest is the Redis stream catalog events are relayed to.
const StreamCatalogIngest = "stream:catalog_ingest"

// ProductIngestedPayload describes a completed ingestion.
type ProductIngestedPayload struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Timestamp  time.Time       `json:"timestamp"`
	ProductID  int64           `json:"product_id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Platform   string          `json:"platform"`
	SourceURL  string          `json:"source_url"`
	ImageCount int             `json:"image_count"`
	Category   string          `json:"category,omitempty"`
}

// PriceTrackedPayload describes an appended price history entry.
type PriceTrackedPayload struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Platform  string          `json:"platform"`
}

// Publisher writes catalog events through the transactional outbox.
type Publisher struct {
	outbox *database.OutboxRepository
	logger *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "event_publisher"),
	}
}

// ProductIngestedTx stages a PRODUCT_INGESTED event inside tx, so the event
// commits or rolls back together with the catalog write it describes.
func (p *Publisher) ProductIngestedTx(ctx context.Context, tx pgx.Tx, payload *ProductIngestedPayload) error {
	stamp(&payload.EventID, &payload.Timestamp)
	payload.EventType = string(EventTypeProductIngested)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	event := &database.OutboxEvent{
		AggregateType: "product",
		AggregateID:   strconv.FormatInt(payload.ProductID, 10),
		EventType:     string(EventTypeProductIngested),
		Payload:       data,
		TargetStream:  StreamCatalogIngest,
	}

	if err := p.outbox.InsertWithTx(ctx, tx, event); err != nil {
		return err
	}

	p.logger.Debug("staged event",
		"event_type", event.EventType,
		"product_id", payload.ProductID)

	return nil
}

// PriceTrackedTx stages a PRICE_TRACKED event inside tx.
func (p *Publisher) PriceTrackedTx(ctx context.Context, tx pgx.Tx, payload *PriceTrackedPayload) error {
	stamp(&payload.EventID, &payload.Timestamp)
	payload.EventType = string(EventTypePriceTracked)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.outbox.InsertWithTx(ctx, tx, &database.OutboxEvent{
		AggregateType: "product",
		AggregateID:   strconv.FormatInt(payload.ProductID, 10),
		EventType:     string(EventTypePriceTracked),
		Payload:       data,
		TargetStream:  StreamCatalogIngest,
	})
}

func stamp(id *string, ts *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if ts.IsZero() {
		*ts = time.Now()
	}
}
