package webhook_handlers

import (
	"context"
	"fmt"

	"catalog-sync-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// EventSink accepts one incremental event for ingestion. Satisfied by the
// synchronization coordinator.
type EventSink interface {
	IngestEvent(ctx context.Context, topic, shopDomain string, payload []byte) error
}

// ProductHandler handles product-related webhook events by feeding them to
// the event ingestion path.
type ProductHandler struct {
	sink   EventSink
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(sink EventSink, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		sink:   sink,
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductsCreate ||
		topic == domain.TopicProductsUpdate
}

// Handle processes a product webhook event
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Msg("Processing product webhook event")

	if err := h.sink.IngestEvent(ctx, event.Topic, event.Shop, event.Payload); err != nil {
		return fmt.Errorf("failed to ingest product event: %w", err)
	}
	return nil
}
