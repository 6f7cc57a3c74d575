package shopify

import (
	"context"
	"fmt"
	"strconv"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ListingClient adapts the Shopify Admin API to the ProductLister port.
// Shopify's page_info token is carried through unchanged as the walker's
// opaque cursor.
type ListingClient struct {
	app         goshopify.App
	accessToken string
	rateLimiter *RateLimiter
	retryConfig RetryConfig
	logger      zerolog.Logger
}

// NewListingClient creates a listing client without rate limiting or retry
func NewListingClient(apiKey, apiSecret, accessToken string) *ListingClient {
	return NewListingClientWithOptions(apiKey, apiSecret, accessToken, nil, RetryConfig{}, zerolog.Nop())
}

// NewListingClientWithOptions creates a listing client with rate limiting
// and retry options
func NewListingClientWithOptions(
	apiKey, apiSecret, accessToken string,
	rateLimiter *RateLimiter,
	retryConfig RetryConfig,
	logger zerolog.Logger,
) *ListingClient {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	return &ListingClient{
		app:         app,
		accessToken: accessToken,
		rateLimiter: rateLimiter,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

var _ ports.ProductLister = (*ListingClient)(nil)

// createClient is a helper to create a goshopify client for a shop
func (c *ListingClient) createClient(shopDomain string) (*goshopify.Client, error) {
	client, err := goshopify.NewClient(c.app, shopDomain, c.accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// ListProductPage fetches one page of the shop's product catalog. Failures
// that survive the retry budget come back as TransportError; the bulk run
// that requested the page aborts on them.
func (c *ListingClient) ListProductPage(ctx context.Context, shopDomain string, pageSize int, cursor string) (*domain.ProductPage, error) {
	client, err := c.createClient(shopDomain)
	if err != nil {
		return nil, &domain.TransportError{Op: "create shopify client", Err: err}
	}

	options := goshopify.ListOptions{Limit: pageSize}
	if cursor != "" {
		options.PageInfo = cursor
	}

	var (
		products   []goshopify.Product
		pagination *goshopify.Pagination
	)
	err = withRetry(ctx, c.retryConfig, c.logger, func() error {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return err
			}
		}
		var listErr error
		products, pagination, listErr = client.Product.ListWithPagination(ctx, options)
		return listErr
	})
	if err != nil {
		return nil, &domain.TransportError{Op: "list products", Err: err}
	}

	page := &domain.ProductPage{
		Records: make([]domain.RemoteProduct, 0, len(products)),
	}
	for _, p := range products {
		page.Records = append(page.Records, domain.RemoteProduct{
			ID:              strconv.FormatUint(p.Id, 10),
			Title:           p.Title,
			DescriptionHTML: p.BodyHTML,
		})
	}
	if pagination != nil && pagination.NextPageOptions != nil {
		page.HasNextPage = true
		page.EndCursor = pagination.NextPageOptions.PageInfo
	}

	c.logger.Debug().
		Str("shop", shopDomain).
		Int("records", len(page.Records)).
		Bool("hasNextPage", page.HasNextPage).
		Msg("Listed product page")

	return page, nil
}
