package usecase

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// Paginator drives the cursor-chained page fetches for one collection.
// Pages of a single collection are strictly sequential (each cursor depends
// on the previous page); independent collections can sweep concurrently
// because the driver keeps no state between calls.
type Paginator struct {
	client domain.StorefrontClient
	store  domain.CatalogStore

	// First page small for latency to first paint, the rest large to cut
	// round trips.
	firstPageSize int
	nextPageSize  int

	log *zap.Logger
}

// NewPaginator creates a pagination driver writing into the given store.
func NewPaginator(client domain.StorefrontClient, store domain.CatalogStore, firstPageSize, nextPageSize int, log *zap.Logger) *Paginator {
	if firstPageSize <= 0 {
		firstPageSize = 50
	}
	if nextPageSize <= 0 {
		nextPageSize = 250
	}
	return &Paginator{
		client:        client,
		store:         store,
		firstPageSize: firstPageSize,
		nextPageSize:  nextPageSize,
		log:           log,
	}
}

// SweepCollection fetches every page of a collection, merging each page into
// the store as it lands. Handles stay in API order across pages. On context
// cancellation the remaining pages are dropped and the collection is left
// not fully loaded; the caller marks it fully loaded only on a nil return.
func (p *Paginator) SweepCollection(ctx context.Context, handle string) error {
	cursor := ""
	offset := 0
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep of %q cancelled: %w", handle, err)
		}

		limit := p.firstPageSize
		if cursor != "" {
			limit = p.nextPageSize
		}

		page, err := p.client.FetchCollectionPage(ctx, handle, cursor, limit, offset)
		if err != nil {
			return err
		}
		pages++

		handles := make([]string, 0, len(page.Products))
		for _, product := range page.Products {
			handles = append(handles, product.Handle)
		}

		p.store.UpsertCollection(&domain.Collection{
			Handle:      handle,
			Title:       page.Title,
			Description: page.Description,
			ImageSrc:    page.ImageSrc,
			Products:    handles,
			NextCursor:  page.NextCursor,
		})
		p.store.UpsertProducts(page.Products)

		offset += len(page.Products)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	p.log.Debug("collection sweep complete",
		zap.String("handle", handle),
		zap.Int("pages", pages),
		zap.Int("products", offset))
	return nil
}
