package ports

import (
	"context"

	"catalog-sync-shopify-layer/internal/domain"
)

// ProductRepository defines the interface for product persistence. Upsert is
// the sole write path for both synchronization sources, so the store only
// ever observes one merge semantics.
type ProductRepository interface {
	// Upsert creates the product if its external ID is unseen, otherwise
	// updates title, description and the updated-at timestamp. The owning
	// shop's last-activity timestamp is always touched, creating the shop
	// record if absent. Upsert is atomic per external ID.
	Upsert(ctx context.Context, up domain.ProductUpsert) (*domain.Product, error)

	// GetProduct retrieves a product by external ID, or nil if absent.
	GetProduct(ctx context.Context, externalID string) (*domain.Product, error)

	// ListProducts retrieves all products belonging to a shop.
	ListProducts(ctx context.Context, shopDomain string) ([]*domain.Product, error)

	// GetShop retrieves a shop by domain, or nil if absent.
	GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error)
}
