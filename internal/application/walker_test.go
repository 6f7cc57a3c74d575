package application

import (
	"context"
	"testing"

	"catalog-sync-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func TestFetchAllPaginationCompleteness(t *testing.T) {
	lister := &fakeLister{pages: [][]domain.RemoteProduct{
		genPage(1, 50),
		genPage(51, 50),
		genPage(101, 7),
	}}
	walker := NewProductWalker(lister, 50, zerolog.Nop())

	records, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 107 {
		t.Fatalf("expected 107 records, got %d", len(records))
	}
	if lister.calls != 3 {
		t.Fatalf("expected 3 page requests, got %d", lister.calls)
	}
	// Page order must be preserved.
	for i, record := range records {
		if record.ID != genPage(i+1, 1)[0].ID {
			t.Fatalf("record %d out of order: got id %s", i, record.ID)
		}
	}
}

func TestFetchAllSinglePage(t *testing.T) {
	lister := &fakeLister{pages: [][]domain.RemoteProduct{genPage(1, 3)}}
	walker := NewProductWalker(lister, 50, zerolog.Nop())

	records, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if lister.calls != 1 {
		t.Fatalf("expected 1 page request, got %d", lister.calls)
	}
}

func TestFetchAllEmptyCatalog(t *testing.T) {
	lister := &fakeLister{pages: [][]domain.RemoteProduct{nil}}
	walker := NewProductWalker(lister, 50, zerolog.Nop())

	records, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestFetchAllTransportFailureMidPagination(t *testing.T) {
	lister := &fakeLister{
		pages:  [][]domain.RemoteProduct{genPage(1, 50), genPage(51, 50)},
		failAt: 2,
	}
	walker := NewProductWalker(lister, 50, zerolog.Nop())

	records, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no partial records on failure, got %d", len(records))
	}
}

func TestFetchAllIsRestartable(t *testing.T) {
	lister := &fakeLister{pages: [][]domain.RemoteProduct{genPage(1, 2), genPage(3, 2)}}
	walker := NewProductWalker(lister, 50, zerolog.Nop())

	first, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := walker.FetchAll(context.Background(), "demo.myshopify.com")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("expected both runs to yield 4 records, got %d and %d", len(first), len(second))
	}
}
