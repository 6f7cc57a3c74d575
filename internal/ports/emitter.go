package ports

import "catalog-sync-shopify-layer/internal/domain"

// SyncEmitter receives structured synchronization progress events. It is
// injected into the coordinator so progress reporting is a collaborator, not
// a process-wide ambient side effect. Emit must not block.
type SyncEmitter interface {
	Emit(event domain.SyncEvent)
}

// MultiEmitter fans one event out to several emitters.
type MultiEmitter []SyncEmitter

func (m MultiEmitter) Emit(event domain.SyncEvent) {
	for _, e := range m {
		e.Emit(event)
	}
}
