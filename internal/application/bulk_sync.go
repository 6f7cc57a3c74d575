package application

import (
	"context"
	"time"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// BulkSynchronizer applies a full catalog enumeration to the product store.
// The catalog is drained into memory first; remote catalogs here are small
// enough that simplicity beats streaming.
type BulkSynchronizer struct {
	walker     *ProductWalker
	repository ports.ProductRepository
	emitter    ports.SyncEmitter
	logger     zerolog.Logger
}

// NewBulkSynchronizer creates a bulk synchronizer writing through the shared
// upsert contract.
func NewBulkSynchronizer(
	walker *ProductWalker,
	repository ports.ProductRepository,
	emitter ports.SyncEmitter,
	logger zerolog.Logger,
) *BulkSynchronizer {
	return &BulkSynchronizer{
		walker:     walker,
		repository: repository,
		emitter:    emitter,
		logger:     logger,
	}
}

// Run fetches the complete remote catalog and upserts every record in walker
// order. Records that fail validation or storage are skipped and counted;
// the run only aborts when the enumeration itself fails. Writes applied
// before an abort are not rolled back: a later full resync self-heals any
// gap.
func (s *BulkSynchronizer) Run(ctx context.Context, shopDomain string) (domain.SyncReport, error) {
	records, err := s.walker.FetchAll(ctx, shopDomain)
	if err != nil {
		return domain.SyncReport{}, err
	}

	report := domain.SyncReport{}
	for _, record := range records {
		_, err := s.repository.Upsert(ctx, domain.ProductUpsert{
			ShopDomain:      shopDomain,
			ExternalID:      record.ID,
			Title:           record.Title,
			DescriptionHTML: record.DescriptionHTML,
		})
		if err != nil {
			report.Skipped++
			s.logger.Warn().
				Err(err).
				Str("shop", shopDomain).
				Str("externalId", record.ID).
				Msg("Skipping record that failed to upsert")
			s.emitter.Emit(domain.SyncEvent{
				Kind:       domain.SyncEventRecordSkipped,
				ShopDomain: shopDomain,
				ExternalID: record.ID,
				Detail:     err.Error(),
				At:         time.Now(),
			})
			continue
		}
		report.ProductsSynced++
	}

	s.logger.Info().
		Str("shop", shopDomain).
		Int("productsSynced", report.ProductsSynced).
		Int("skipped", report.Skipped).
		Msg("Bulk synchronization run finished")

	return report, nil
}
