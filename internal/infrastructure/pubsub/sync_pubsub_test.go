package pubsub

import (
	"context"
	"testing"
	"time"

	"catalog-sync-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func TestPublishReachesSubscriber(t *testing.T) {
	ps := NewSyncPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := ps.Subscribe(ctx, nil)

	ps.Emit(domain.SyncEvent{Kind: domain.SyncEventRunCompleted, ShopDomain: "demo.myshopify.com", Count: 7})

	select {
	case event := <-channel.Events:
		if event.Kind != domain.SyncEventRunCompleted || event.Count != 7 {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber did not receive event")
	}
}

func TestFilterByKindAndShop(t *testing.T) {
	ps := NewSyncPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := ps.Subscribe(ctx, &SyncEventFilter{
		Kinds: []domain.SyncEventKind{domain.SyncEventIngested},
		Shop:  "a.myshopify.com",
	})

	ps.Emit(domain.SyncEvent{Kind: domain.SyncEventIngested, ShopDomain: "b.myshopify.com"})
	ps.Emit(domain.SyncEvent{Kind: domain.SyncEventRunStarted, ShopDomain: "a.myshopify.com"})
	ps.Emit(domain.SyncEvent{Kind: domain.SyncEventIngested, ShopDomain: "a.myshopify.com"})

	select {
	case event := <-channel.Events:
		if event.Kind != domain.SyncEventIngested || event.ShopDomain != "a.myshopify.com" {
			t.Fatalf("filter let through %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("matching event was not delivered")
	}

	select {
	case event := <-channel.Events:
		t.Fatalf("unexpected second event %+v", event)
	default:
	}
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	ps := NewSyncPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	channel := ps.Subscribe(ctx, nil)
	cancel()

	select {
	case <-channel.Done:
	case <-time.After(time.Second):
		t.Fatalf("channel was not closed after context cancellation")
	}

	stats := ps.GetStats()
	if stats["active_subscriptions"] != 0 {
		t.Fatalf("expected no active subscriptions, got %v", stats["active_subscriptions"])
	}
}
