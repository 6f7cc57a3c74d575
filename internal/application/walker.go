package application

import (
	"context"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultPageSize is the number of products requested per listing page.
const DefaultPageSize = 50

// ProductWalker drives paginated retrieval of the full remote catalog. It
// holds no state across calls: every FetchAll starts a fresh cursor chain.
type ProductWalker struct {
	lister   ports.ProductLister
	pageSize int
	logger   zerolog.Logger
}

// NewProductWalker creates a walker over the given listing collaborator.
// A non-positive pageSize falls back to DefaultPageSize.
func NewProductWalker(lister ports.ProductLister, pageSize int, logger zerolog.Logger) *ProductWalker {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ProductWalker{
		lister:   lister,
		pageSize: pageSize,
		logger:   logger,
	}
}

// FetchAll enumerates every product in the shop's remote catalog,
// concatenating pages in the order received. It returns a TransportError if
// any page request fails; the partial prefix is discarded by the caller.
func (w *ProductWalker) FetchAll(ctx context.Context, shopDomain string) ([]domain.RemoteProduct, error) {
	var all []domain.RemoteProduct

	cursor := ""
	hasNextPage := true
	pages := 0

	for hasNextPage {
		page, err := w.lister.ListProductPage(ctx, shopDomain, w.pageSize, cursor)
		if err != nil {
			if domain.IsTransport(err) {
				return nil, err
			}
			return nil, &domain.TransportError{Op: "list product page", Err: err}
		}

		all = append(all, page.Records...)
		hasNextPage = page.HasNextPage
		cursor = page.EndCursor
		pages++

		w.logger.Debug().
			Str("shop", shopDomain).
			Int("page", pages).
			Int("pageRecords", len(page.Records)).
			Bool("hasNextPage", page.HasNextPage).
			Msg("Fetched catalog page")
	}

	w.logger.Info().
		Str("shop", shopDomain).
		Int("pages", pages).
		Int("records", len(all)).
		Msg("Remote catalog enumeration complete")

	return all, nil
}
