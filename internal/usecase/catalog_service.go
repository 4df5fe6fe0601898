package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// warmConcurrency bounds how many collections sweep at once during warm-up.
const warmConcurrency = 4

// CatalogServiceConfig holds tuning for the catalog service
type CatalogServiceConfig struct {
	FirstPageSize int
	NextPageSize  int
}

// CatalogService coordinates dependent fetches against the catalog store:
// menu ingestion, full collection sweeps, product detail loads and their
// cross-reference resolution. Re-running any load on an already resolved
// entity performs no network call and leaves the store unchanged.
type CatalogService struct {
	store      domain.CatalogStore
	client     domain.StorefrontClient
	menuClient domain.MenuClient
	paginator  *Paginator
	ingester   *MenuIngester

	// flight collapses concurrent loads of the same entity into one network
	// call; the second caller observes the first's in-flight result.
	flight singleflight.Group

	log *zap.Logger
}

// NewCatalogService creates the catalog service with its collaborators.
func NewCatalogService(
	store domain.CatalogStore,
	client domain.StorefrontClient,
	menuClient domain.MenuClient,
	config CatalogServiceConfig,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		store:      store,
		client:     client,
		menuClient: menuClient,
		paginator:  NewPaginator(client, store, config.FirstPageSize, config.NextPageSize, log),
		ingester:   NewMenuIngester(store, log),
		log:        log,
	}
}

// LoadMenu fetches the navigation menu, seeds the store from it, and returns
// the tree for the caller to render.
func (s *CatalogService) LoadMenu(ctx context.Context) ([]domain.MenuNode, error) {
	nodes, err := s.menuClient.FetchMenu(ctx)
	if err != nil {
		return nil, err
	}
	s.ingester.Ingest(nodes)
	return nodes, nil
}

// LoadCollection ensures a collection is fully loaded, sweeping its pages if
// it isn't, and returns its current snapshot. Concurrent calls for one
// handle share a single sweep.
func (s *CatalogService) LoadCollection(ctx context.Context, handle string) (*domain.Collection, error) {
	if handle == "" {
		return nil, domain.ErrInvalidRequest
	}

	if collection, ok := s.store.Collection(handle); ok && collection.FullyLoaded {
		return collection, nil
	}

	_, err, _ := s.flight.Do("collection:"+handle, func() (interface{}, error) {
		// Another caller may have completed the sweep while we queued.
		if collection, ok := s.store.Collection(handle); ok && collection.FullyLoaded {
			return nil, nil
		}
		if err := s.paginator.SweepCollection(ctx, handle); err != nil {
			return nil, err
		}
		s.store.MarkCollectionFullyLoaded(handle)
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Info("collection not found", zap.String("handle", handle))
		} else {
			s.log.Warn("collection sweep failed", zap.String("handle", handle), zap.Error(err))
		}
		return nil, err
	}

	collection, ok := s.store.Collection(handle)
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, handle)
	}
	return collection, nil
}

// WarmCollections sweeps several independent collections concurrently.
func (s *CatalogService) WarmCollections(ctx context.Context, handles []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, handle := range handles {
		g.Go(func() error {
			_, err := s.LoadCollection(ctx, handle)
			return err
		})
	}
	return g.Wait()
}

// LoadProduct ensures full detail for a product, then resolves its swatch
// and similar-product cross-references. The detail fetch is phase one;
// cross-reference resolution is scheduled only after it succeeds and is
// itself idempotent. Concurrent calls for one handle share a single fetch.
func (s *CatalogService) LoadProduct(ctx context.Context, handle string) (*domain.Product, error) {
	if handle == "" {
		return nil, domain.ErrInvalidRequest
	}

	if product, ok := s.store.Product(handle); ok && product.HasDetail() {
		s.resolveCrossReferences(ctx, product)
		return product, nil
	}

	_, err, _ := s.flight.Do("product:"+handle, func() (interface{}, error) {
		if product, ok := s.store.Product(handle); ok && product.HasDetail() {
			return nil, nil
		}

		s.store.SetProductLoadingState(handle, true, false)
		product, err := s.client.FetchProduct(ctx, handle)
		if err != nil {
			s.store.SetProductLoadingState(handle, false, false)
			return nil, err
		}

		s.store.UpsertProducts([]*domain.Product{product})
		s.store.SetProductLoadingState(handle, false, true)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	product, ok := s.store.Product(handle)
	if !ok {
		return nil, fmt.Errorf("%w: product %q", domain.ErrNotFound, handle)
	}
	s.resolveCrossReferences(ctx, product)
	return product, nil
}

// resolveCrossReferences batch-loads the handles named by the product's
// swatch and similar-product metafields. Best effort: a failure here leaves
// the primary product loaded and is only logged.
func (s *CatalogService) resolveCrossReferences(ctx context.Context, product *domain.Product) {
	if product == nil || len(product.Metafields) == 0 {
		return
	}

	handles := append(
		splitHandleList(product.Metafields[domain.MetafieldSwatchProducts]),
		splitHandleList(product.Metafields[domain.MetafieldSimilarProducts])...,
	)
	if len(handles) == 0 {
		return
	}

	if err := s.LoadProductsByHandles(ctx, handles); err != nil {
		s.log.Warn("cross-reference resolution failed",
			zap.String("handle", product.Handle),
			zap.Error(err))
	}
}

// LoadProductsByHandles batch-fetches the given products, skipping any the
// store already holds full detail for or is already fetching. The remainder
// goes out as one batched request, never one request per handle; concurrent
// calls for the same set share a single request. Empty input is a no-op.
func (s *CatalogService) LoadProductsByHandles(ctx context.Context, handles []string) error {
	seen := make(map[string]struct{}, len(handles))
	missing := make([]string, 0, len(handles))
	for _, handle := range handles {
		if handle == "" {
			continue
		}
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		if product, ok := s.store.Product(handle); ok {
			if product.HasDetail() || product.LoadingState == domain.StateLoading {
				continue
			}
		}
		missing = append(missing, handle)
	}

	if len(missing) == 0 {
		return nil
	}

	// Marks only known records: a handle that turns out stale must not leave
	// a placeholder behind. Released marks on Loaded records are no-ops.
	setInFlight := func(isLoading bool) {
		for _, handle := range missing {
			if _, ok := s.store.Product(handle); ok {
				s.store.SetProductLoadingState(handle, isLoading, false)
			}
		}
	}

	_, err, _ := s.flight.Do(batchKey(missing), func() (interface{}, error) {
		setInFlight(true)

		products, err := s.client.FetchProductsByHandles(ctx, missing)
		if err != nil {
			setInFlight(false)
			return nil, err
		}

		s.store.UpsertProducts(products)
		setInFlight(false)
		return nil, nil
	})
	return err
}

// batchKey derives an order-independent flight key for a batch of handles.
func batchKey(handles []string) string {
	sorted := append([]string(nil), handles...)
	sort.Strings(sorted)
	return "batch:" + strings.Join(sorted, ",")
}

// Search runs a free-text product search and folds the results into the
// store as loaded products.
func (s *CatalogService) Search(ctx context.Context, query, cursor string) (*domain.ProductPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	page, err := s.client.SearchProducts(ctx, query, cursor)
	if err != nil {
		return nil, err
	}

	s.store.UpsertProducts(page.Products)
	return page, nil
}

// Product returns the store's current snapshot of a product without
// triggering any network activity.
func (s *CatalogService) Product(handle string) (*domain.Product, bool) {
	return s.store.Product(handle)
}

// Collection returns the store's current snapshot of a collection without
// triggering any network activity.
func (s *CatalogService) Collection(handle string) (*domain.Collection, bool) {
	return s.store.Collection(handle)
}

// splitHandleList parses a comma-separated handle list metafield value.
func splitHandleList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	handles := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			handles = append(handles, trimmed)
		}
	}
	return handles
}
