package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// EventIngestor applies one already-authenticated incremental event to the
// product store through the shared upsert contract. It never performs
// network I/O and never mutates more than one record; replaying the same
// event produces the same stored state.
type EventIngestor struct {
	repository ports.ProductRepository
	logger     zerolog.Logger
}

// NewEventIngestor creates an event ingestor writing through the given
// repository.
func NewEventIngestor(repository ports.ProductRepository, logger zerolog.Logger) *EventIngestor {
	return &EventIngestor{
		repository: repository,
		logger:     logger,
	}
}

// externalID tolerates both JSON encodings Shopify uses for product ids:
// REST webhooks carry numbers, the GraphQL surface carries strings.
type externalID string

func (id *externalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = externalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	// Normalize integral ids so "42" and 42 merge to the same key.
	if i, err := n.Int64(); err == nil {
		*id = externalID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = externalID(n.String())
	return nil
}

type productPayload struct {
	ID              externalID `json:"id"`
	Title           string     `json:"title"`
	BodyHTML        string     `json:"body_html"`
	DescriptionHTML string     `json:"descriptionHtml"`
}

// ParseProductEvent validates a raw payload for a recognized product topic
// and produces a fully populated ProductEvent, or a ValidationError. It
// never returns a partially populated event.
func ParseProductEvent(topic, shopDomain string, payload []byte) (*domain.ProductEvent, error) {
	var p productPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, &domain.ValidationError{Field: "payload", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if p.ID == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "missing product id"}
	}
	if p.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "missing product title"}
	}

	description := p.BodyHTML
	if description == "" {
		description = p.DescriptionHTML
	}

	return &domain.ProductEvent{
		Topic:           topic,
		ShopDomain:      shopDomain,
		ExternalID:      string(p.ID),
		Title:           p.Title,
		DescriptionHTML: description,
	}, nil
}

// Apply validates and applies one incremental event. On a recognized product
// topic it upserts the payload's record and returns the stored product. On
// any other topic it is a success no-op returning nil, so the front door can
// acknowledge receipt and stop webhook redelivery.
func (i *EventIngestor) Apply(ctx context.Context, topic, shopDomain string, payload []byte) (*domain.Product, error) {
	switch topic {
	case domain.TopicProductsCreate, domain.TopicProductsUpdate:
	default:
		i.logger.Debug().
			Str("topic", topic).
			Str("shop", shopDomain).
			Msg("Ignoring webhook topic without a handler")
		return nil, nil
	}

	event, err := ParseProductEvent(topic, shopDomain, payload)
	if err != nil {
		return nil, err
	}

	product, err := i.repository.Upsert(ctx, domain.ProductUpsert{
		ShopDomain:      event.ShopDomain,
		ExternalID:      event.ExternalID,
		Title:           event.Title,
		DescriptionHTML: event.DescriptionHTML,
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Str("topic", topic).
		Str("shop", shopDomain).
		Str("externalId", event.ExternalID).
		Str("title", event.Title).
		Msg("Applied incremental product event")

	return product, nil
}
