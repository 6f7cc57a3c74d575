package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"
)

// fakeLister serves a fixed set of pages, using the page index as the
// cursor. It can be told to fail when serving a given call number.
type fakeLister struct {
	pages  [][]domain.RemoteProduct
	failAt int // 1-based call number to fail on, 0 disables
	calls  int
}

func (f *fakeLister) ListProductPage(ctx context.Context, shopDomain string, pageSize int, cursor string) (*domain.ProductPage, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, &domain.TransportError{Op: "list products", Err: errors.New("connection reset")}
	}

	idx := 0
	if cursor != "" {
		var err error
		idx, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
	}
	if idx >= len(f.pages) {
		return &domain.ProductPage{}, nil
	}

	page := &domain.ProductPage{Records: f.pages[idx]}
	if idx < len(f.pages)-1 {
		page.HasNextPage = true
		page.EndCursor = strconv.Itoa(idx + 1)
	}
	return page, nil
}

// genPage fabricates n remote products with sequential ids starting at from.
func genPage(from, n int) []domain.RemoteProduct {
	records := make([]domain.RemoteProduct, 0, n)
	for i := 0; i < n; i++ {
		id := from + i
		records = append(records, domain.RemoteProduct{
			ID:              strconv.Itoa(id),
			Title:           fmt.Sprintf("Product %d", id),
			DescriptionHTML: fmt.Sprintf("<p>Product %d</p>", id),
		})
	}
	return records
}

type nopEmitter struct{}

func (nopEmitter) Emit(domain.SyncEvent) {}

// captureEmitter records every emitted event for assertions.
type captureEmitter struct {
	mu     sync.Mutex
	events []domain.SyncEvent
}

func (c *captureEmitter) Emit(event domain.SyncEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureEmitter) kinds() []domain.SyncEventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]domain.SyncEventKind, 0, len(c.events))
	for _, e := range c.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// failingRepository delegates to an in-memory repository but fails Upsert
// with a StorageError for one external ID, simulating a persistence
// collaborator outage on that record.
type failingRepository struct {
	ports.ProductRepository
	failID string
}

func (r *failingRepository) Upsert(ctx context.Context, up domain.ProductUpsert) (*domain.Product, error) {
	if up.ExternalID == r.failID {
		return nil, &domain.StorageError{Op: "upsert product", Err: errors.New("server selection timeout")}
	}
	return r.ProductRepository.Upsert(ctx, up)
}

// fakeStatusCache keeps statuses in a map.
type fakeStatusCache struct {
	statuses map[string]*domain.SyncStatus
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: make(map[string]*domain.SyncStatus)}
}

func (c *fakeStatusCache) SetStatus(ctx context.Context, status *domain.SyncStatus) error {
	c.statuses[status.ShopDomain] = status
	return nil
}

func (c *fakeStatusCache) GetStatus(ctx context.Context, shopDomain string) (*domain.SyncStatus, error) {
	return c.statuses[shopDomain], nil
}

// failingStatusCache rejects every write, simulating a cache outage.
type failingStatusCache struct{}

func (failingStatusCache) SetStatus(ctx context.Context, status *domain.SyncStatus) error {
	return errors.New("connection refused")
}

func (failingStatusCache) GetStatus(ctx context.Context, shopDomain string) (*domain.SyncStatus, error) {
	return nil, errors.New("connection refused")
}
