package pubsub

import (
	"context"
	"fmt"
	"sync"

	"catalog-sync-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// SyncEventChannel represents a subscription channel
type SyncEventChannel struct {
	ID     string
	Filter *SyncEventFilter
	Events chan *domain.SyncEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// SyncEventFilter filters synchronization progress events
type SyncEventFilter struct {
	Kinds []domain.SyncEventKind // Filter by event kinds
	Shop  string                 // Filter by shop domain
}

// SyncPubSub fans synchronization progress events out to in-process
// subscribers. It implements the coordinator's emission seam, so components
// that want to observe sync progress subscribe here instead of scraping
// logs.
type SyncPubSub struct {
	mu       sync.RWMutex
	channels map[string]*SyncEventChannel
	logger   zerolog.Logger
	nextID   int64
	idMu     sync.Mutex
}

// NewSyncPubSub creates a new sync event pub/sub system
func NewSyncPubSub(logger zerolog.Logger) *SyncPubSub {
	return &SyncPubSub{
		channels: make(map[string]*SyncEventChannel),
		logger:   logger,
	}
}

// Subscribe creates a new subscription channel
func (ps *SyncPubSub) Subscribe(ctx context.Context, filter *SyncEventFilter) *SyncEventChannel {
	ps.idMu.Lock()
	id := ps.generateID()
	ps.idMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)

	channel := &SyncEventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.SyncEvent, 10), // Buffered channel
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", id).
		Interface("filter", filter).
		Msg("Sync event subscription created")

	// Cleanup when context is cancelled
	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel
func (ps *SyncPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Sync event subscription removed")
}

// Emit implements the SyncEmitter port by publishing to all matching
// subscribers without blocking.
func (ps *SyncPubSub) Emit(event domain.SyncEvent) {
	ps.Publish(&event)
}

// Publish broadcasts a sync event to all matching subscribers
func (ps *SyncPubSub) Publish(event *domain.SyncEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	publishedCount := 0
	for _, channel := range ps.channels {
		// Check if event matches filter
		if ps.matchesFilter(event, channel.Filter) {
			select {
			case channel.Events <- event:
				publishedCount++
			case <-channel.ctx.Done():
				// Channel is closed, skip
			default:
				// Channel buffer full, skip (non-blocking)
				ps.logger.Warn().
					Str("channelId", channel.ID).
					Msg("Channel buffer full, dropping event")
			}
		}
	}

	if publishedCount > 0 {
		ps.logger.Debug().
			Str("kind", string(event.Kind)).
			Str("shop", event.ShopDomain).
			Int("subscribers", publishedCount).
			Msg("Published sync event to subscribers")
	}
}

// matchesFilter checks if an event matches the subscription filter
func (ps *SyncPubSub) matchesFilter(event *domain.SyncEvent, filter *SyncEventFilter) bool {
	if filter == nil {
		return true // No filter, match all
	}

	// Check kind filter
	if len(filter.Kinds) > 0 {
		kindMatch := false
		for _, kind := range filter.Kinds {
			if event.Kind == kind {
				kindMatch = true
				break
			}
		}
		if !kindMatch {
			return false
		}
	}

	// Check shop filter
	if filter.Shop != "" && event.ShopDomain != filter.Shop {
		return false
	}

	return true
}

// generateID generates a unique channel ID
func (ps *SyncPubSub) generateID() string {
	ps.nextID++
	return fmt.Sprintf("channel-%d", ps.nextID)
}

// GetStats returns pub/sub statistics
func (ps *SyncPubSub) GetStats() map[string]interface{} {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return map[string]interface{}{
		"active_subscriptions": len(ps.channels),
	}
}
