package domain

import "time"

// Webhook topics this layer reacts to. Everything else is acknowledged and
// ignored so the remote system does not retry indefinitely.
const (
	TopicProductsCreate = "products/create"
	TopicProductsUpdate = "products/update"
)

// WebhookEvent is a raw, already-verified webhook delivery as handed over by
// the front door.
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}

// ProductEvent is a validated incremental product change. It is only ever
// constructed by the Event Ingestor's validation step, never partially
// populated.
type ProductEvent struct {
	Topic           string
	ShopDomain      string
	ExternalID      string
	Title           string
	DescriptionHTML string
}

// SyncEventKind enumerates the lifecycle events emitted by the
// synchronization paths.
type SyncEventKind string

const (
	SyncEventRunStarted    SyncEventKind = "sync_run_started"
	SyncEventRunCompleted  SyncEventKind = "sync_run_completed"
	SyncEventRunFailed     SyncEventKind = "sync_run_failed"
	SyncEventRecordSkipped SyncEventKind = "sync_record_skipped"
	SyncEventIngested      SyncEventKind = "event_ingested"
	SyncEventIgnored       SyncEventKind = "event_ignored"
)

// SyncEvent is one structured observation of synchronization progress,
// published to the injected emitters instead of ad-hoc logging side effects.
type SyncEvent struct {
	Kind       SyncEventKind `json:"kind"`
	ShopDomain string        `json:"shop_domain"`
	ExternalID string        `json:"external_id,omitempty"`
	Topic      string        `json:"topic,omitempty"`
	Count      int           `json:"count,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	At         time.Time     `json:"at"`
}
