package application

import (
	"context"
	"time"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SyncCoordinator is the composition root for both synchronization paths.
// It holds no mutable state of its own; it is the only component aware that
// the bulk path and the event path converge on one repository, and it owns
// the structured event emission seam.
//
// Both paths may run concurrently against the same store. The repository's
// per-key atomicity is the only ordering guarantee: if a bulk page and a
// webhook event race on the same record, the later physical write fully
// wins, even when it carries staler data.
type SyncCoordinator struct {
	bulk        *BulkSynchronizer
	ingestor    *EventIngestor
	statusCache ports.SyncStatusCache
	emitter     ports.SyncEmitter
	logger      zerolog.Logger
}

// NewSyncCoordinator wires the two synchronization paths. statusCache may be
// nil when no status backend is configured.
func NewSyncCoordinator(
	bulk *BulkSynchronizer,
	ingestor *EventIngestor,
	statusCache ports.SyncStatusCache,
	emitter ports.SyncEmitter,
	logger zerolog.Logger,
) *SyncCoordinator {
	return &SyncCoordinator{
		bulk:        bulk,
		ingestor:    ingestor,
		statusCache: statusCache,
		emitter:     emitter,
		logger:      logger,
	}
}

// SyncAll runs one full bulk synchronization for the shop and records its
// outcome in the status cache.
func (c *SyncCoordinator) SyncAll(ctx context.Context, shopDomain string) (domain.SyncReport, error) {
	c.emitter.Emit(domain.SyncEvent{
		Kind:       domain.SyncEventRunStarted,
		ShopDomain: shopDomain,
		At:         time.Now(),
	})

	report, err := c.bulk.Run(ctx, shopDomain)
	if err != nil {
		c.emitter.Emit(domain.SyncEvent{
			Kind:       domain.SyncEventRunFailed,
			ShopDomain: shopDomain,
			Detail:     err.Error(),
			At:         time.Now(),
		})
		return domain.SyncReport{}, err
	}

	c.emitter.Emit(domain.SyncEvent{
		Kind:       domain.SyncEventRunCompleted,
		ShopDomain: shopDomain,
		Count:      report.ProductsSynced,
		At:         time.Now(),
	})

	if c.statusCache != nil {
		status := &domain.SyncStatus{
			ShopDomain:     shopDomain,
			ProductsSynced: report.ProductsSynced,
			Skipped:        report.Skipped,
			CompletedAt:    time.Now(),
		}
		if err := c.statusCache.SetStatus(ctx, status); err != nil {
			// Status is advisory; a cache outage must not fail the run.
			c.logger.Warn().Err(err).Str("shop", shopDomain).Msg("Failed to record sync status")
		}
	}

	return report, nil
}

// IngestEvent applies one incremental event. Unrecognized topics succeed
// without touching the store.
func (c *SyncCoordinator) IngestEvent(ctx context.Context, topic, shopDomain string, payload []byte) error {
	product, err := c.ingestor.Apply(ctx, topic, shopDomain, payload)
	if err != nil {
		return err
	}

	if product == nil {
		c.emitter.Emit(domain.SyncEvent{
			Kind:       domain.SyncEventIgnored,
			ShopDomain: shopDomain,
			Topic:      topic,
			At:         time.Now(),
		})
		return nil
	}

	c.emitter.Emit(domain.SyncEvent{
		Kind:       domain.SyncEventIngested,
		ShopDomain: shopDomain,
		ExternalID: product.ExternalID,
		Topic:      topic,
		At:         time.Now(),
	})
	return nil
}

// LastSyncStatus returns the recorded outcome of the most recent bulk run
// for the shop, or nil when none is recorded or no cache is configured.
func (c *SyncCoordinator) LastSyncStatus(ctx context.Context, shopDomain string) (*domain.SyncStatus, error) {
	if c.statusCache == nil {
		return nil, nil
	}
	return c.statusCache.GetStatus(ctx, shopDomain)
}
