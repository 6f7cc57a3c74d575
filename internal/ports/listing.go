package ports

import (
	"context"

	"catalog-sync-shopify-layer/internal/domain"
)

// ProductLister defines the interface for paginated remote catalog access.
type ProductLister interface {
	// ListProductPage fetches one page of the shop's catalog. An empty
	// cursor requests the first page; the returned page carries the cursor
	// for the next one while HasNextPage is true.
	ListProductPage(ctx context.Context, shopDomain string, pageSize int, cursor string) (*domain.ProductPage, error)
}
