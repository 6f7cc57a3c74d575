package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"catalog-sync-shopify-layer/internal/domain"
)

func TestUpsertIdempotence(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()

	first, err := r.Upsert(ctx, domain.ProductUpsert{
		ShopDomain: "demo.myshopify.com",
		ExternalID: "1",
		Title:      "Old",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := r.Upsert(ctx, domain.ProductUpsert{
		ShopDomain:      "demo.myshopify.com",
		ExternalID:      "1",
		Title:           "New",
		DescriptionHTML: "<p>new</p>",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if r.CountProducts() != 1 {
		t.Fatalf("expected one row, got %d", r.CountProducts())
	}
	if second.Title != "New" || second.DescriptionHTML != "<p>new</p>" {
		t.Fatalf("second call's values must win: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("update must not reset creation time")
	}
}

func TestUpsertRejectsEmptyTitle(t *testing.T) {
	r := NewMemoryProductRepository()

	_, err := r.Upsert(context.Background(), domain.ProductUpsert{
		ShopDomain: "demo.myshopify.com",
		ExternalID: "1",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpsertRejectsEmptyExternalID(t *testing.T) {
	r := NewMemoryProductRepository()

	_, err := r.Upsert(context.Background(), domain.ProductUpsert{
		ShopDomain: "demo.myshopify.com",
		Title:      "T",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpsertShopDomainIsImmutable(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()

	if _, err := r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "a.myshopify.com", ExternalID: "1", Title: "T"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "b.myshopify.com", ExternalID: "1", Title: "T2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ShopDomain != "a.myshopify.com" {
		t.Fatalf("shop reassignment must be a no-op, got %q", updated.ShopDomain)
	}
	if updated.Title != "T2" {
		t.Fatalf("other fields must still update, got %q", updated.Title)
	}
}

func TestUpsertTouchesShop(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()

	if _, err := r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "demo.myshopify.com", ExternalID: "1", Title: "T"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	shop, err := r.GetShop(ctx, "demo.myshopify.com")
	if err != nil {
		t.Fatalf("get shop: %v", err)
	}
	if shop == nil {
		t.Fatalf("shop must be created on first product write")
	}

	first := shop.LastActivityAt
	if _, err := r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "demo.myshopify.com", ExternalID: "2", Title: "T2"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	shop, _ = r.GetShop(ctx, "demo.myshopify.com")
	if shop.LastActivityAt.Before(first) {
		t.Fatalf("last activity must advance")
	}
}

func TestConcurrentUpsertsSameKey(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		title := fmt.Sprintf("Title %d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Upsert(ctx, domain.ProductUpsert{
				ShopDomain:      "demo.myshopify.com",
				ExternalID:      "race",
				Title:           title,
				DescriptionHTML: title,
			}); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	if r.CountProducts() != 1 {
		t.Fatalf("expected one row under concurrency, got %d", r.CountProducts())
	}
	// No torn writes: title and description were always set together.
	got, _ := r.GetProduct(ctx, "race")
	if got.Title != got.DescriptionHTML {
		t.Fatalf("torn write observed: title %q, description %q", got.Title, got.DescriptionHTML)
	}
}

func TestListProductsFiltersByShop(t *testing.T) {
	r := NewMemoryProductRepository()
	ctx := context.Background()

	r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "a.myshopify.com", ExternalID: "1", Title: "A"})
	r.Upsert(ctx, domain.ProductUpsert{ShopDomain: "b.myshopify.com", ExternalID: "2", Title: "B"})

	products, err := r.ListProducts(ctx, "a.myshopify.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ExternalID != "1" {
		t.Fatalf("unexpected listing %+v", products)
	}
}

func TestGetProductAbsent(t *testing.T) {
	r := NewMemoryProductRepository()

	product, err := r.GetProduct(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil for absent product, got %+v", product)
	}
}
