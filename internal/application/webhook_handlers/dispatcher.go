package webhook_handlers

import (
	"context"
	"fmt"

	"catalog-sync-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events for the topics it declares.
type WebhookHandler interface {
	// CanHandle returns true if this handler can process the given topic
	CanHandle(topic string) bool

	// Handle processes a webhook event
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to registered handlers.
// Topics no handler claims are acknowledged as success so the remote system
// does not retry them indefinitely.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		logger: logger,
	}
}

// RegisterHandler adds a handler to the dispatch chain
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch routes an event to every handler that claims its topic.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	dispatched := false
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		dispatched = true
		if err := handler.Handle(ctx, event); err != nil {
			return fmt.Errorf("handler failed for topic %s: %w", event.Topic, err)
		}
	}

	if !dispatched {
		d.logger.Info().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("No handler registered for webhook topic")
	}

	return nil
}
