package repository

import (
	"context"
	"sync"
	"time"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"
)

// MemoryProductRepository implements ProductRepository with an in-process
// map. It backs tests and deployments that run without MongoDB. The mutex
// gives every upsert the same per-key atomicity the Mongo implementation
// gets from single-document writes.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	shops    map[string]*domain.Shop
}

// NewMemoryProductRepository creates an empty in-memory product repository
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]*domain.Product),
		shops:    make(map[string]*domain.Shop),
	}
}

var _ ports.ProductRepository = (*MemoryProductRepository)(nil)

// Upsert creates or updates a product keyed by its external ID, touching
// the owning shop's last-activity timestamp.
func (r *MemoryProductRepository) Upsert(ctx context.Context, up domain.ProductUpsert) (*domain.Product, error) {
	if up.ExternalID == "" {
		return nil, &domain.ValidationError{Field: "externalId", Reason: "must not be empty"}
	}
	if up.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	shop, ok := r.shops[up.ShopDomain]
	if !ok {
		shop = &domain.Shop{Domain: up.ShopDomain, CreatedAt: now}
		r.shops[up.ShopDomain] = shop
	}
	shop.LastActivityAt = now

	existing, ok := r.products[up.ExternalID]
	if !ok {
		product := &domain.Product{
			ExternalID:      up.ExternalID,
			ShopDomain:      up.ShopDomain,
			Title:           up.Title,
			DescriptionHTML: up.DescriptionHTML,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		r.products[up.ExternalID] = product
		copied := *product
		return &copied, nil
	}

	// ShopDomain stays as created; reassignment is a no-op on that field.
	existing.Title = up.Title
	existing.DescriptionHTML = up.DescriptionHTML
	existing.UpdatedAt = now

	copied := *existing
	return &copied, nil
}

// GetProduct retrieves a product by external ID, or nil if absent
func (r *MemoryProductRepository) GetProduct(ctx context.Context, externalID string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[externalID]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

// ListProducts retrieves all products belonging to a shop
func (r *MemoryProductRepository) ListProducts(ctx context.Context, shopDomain string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []*domain.Product
	for _, product := range r.products {
		if product.ShopDomain != shopDomain {
			continue
		}
		copied := *product
		products = append(products, &copied)
	}
	return products, nil
}

// GetShop retrieves a shop by domain, or nil if absent
func (r *MemoryProductRepository) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shop, ok := r.shops[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *shop
	return &copied, nil
}

// CountProducts returns the number of stored products across all shops.
func (r *MemoryProductRepository) CountProducts() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
