package ports

import (
	"context"

	"catalog-sync-shopify-layer/internal/domain"
)

// SyncStatusCache defines the interface for recording the outcome of the
// most recent bulk run per shop.
type SyncStatusCache interface {
	SetStatus(ctx context.Context, status *domain.SyncStatus) error

	// GetStatus retrieves the last recorded status for a shop, or nil if
	// no run has been recorded.
	GetStatus(ctx context.Context, shopDomain string) (*domain.SyncStatus, error)
}
