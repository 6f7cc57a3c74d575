package metrics

import (
	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder translates sync events into Prometheus metrics. It is one of the
// emitters the coordinator publishes to, keeping metric side effects out of
// the core.
type Recorder struct {
	syncRuns        *prometheus.CounterVec
	productsSynced  *prometheus.CounterVec
	recordsSkipped  *prometheus.CounterVec
	eventsIngested  *prometheus.CounterVec
	eventsIgnored   *prometheus.CounterVec
}

// NewRecorder registers the sync metrics on the given registerer
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Bulk synchronization runs by shop and result.",
		}, []string{"shop", "result"}),
		productsSynced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_products_synced_total",
			Help: "Products written by completed bulk runs.",
		}, []string{"shop"}),
		recordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_records_skipped_total",
			Help: "Records skipped during bulk runs for validation or storage failures.",
		}, []string{"shop"}),
		eventsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_events_ingested_total",
			Help: "Incremental events applied to the store.",
		}, []string{"shop", "topic"}),
		eventsIgnored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_events_ignored_total",
			Help: "Incremental events acknowledged without a handler.",
		}, []string{"shop", "topic"}),
	}
}

var _ ports.SyncEmitter = (*Recorder)(nil)

// Emit records one sync event
func (r *Recorder) Emit(event domain.SyncEvent) {
	switch event.Kind {
	case domain.SyncEventRunCompleted:
		r.syncRuns.WithLabelValues(event.ShopDomain, "completed").Inc()
		r.productsSynced.WithLabelValues(event.ShopDomain).Add(float64(event.Count))
	case domain.SyncEventRunFailed:
		r.syncRuns.WithLabelValues(event.ShopDomain, "failed").Inc()
	case domain.SyncEventRecordSkipped:
		r.recordsSkipped.WithLabelValues(event.ShopDomain).Inc()
	case domain.SyncEventIngested:
		r.eventsIngested.WithLabelValues(event.ShopDomain, event.Topic).Inc()
	case domain.SyncEventIgnored:
		r.eventsIgnored.WithLabelValues(event.ShopDomain, event.Topic).Inc()
	}
}
