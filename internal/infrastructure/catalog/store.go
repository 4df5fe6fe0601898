package catalog

import (
	"sync"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// Store is the thread-safe in-memory catalog for one synchronization
// session. It owns every Product and Collection record; the pagination
// driver and menu ingester are stateless and only emit mutations here.
//
// Merge rules: collection product lists union in first-seen order and are
// frozen once fully loaded; product records never regress from Loaded to a
// placeholder.
type Store struct {
	mutex       sync.RWMutex
	collections map[string]*domain.Collection
	products    map[string]*domain.Product
	log         *zap.Logger
}

// NewStore creates an empty catalog store.
func NewStore(log *zap.Logger) *Store {
	return &Store{
		collections: make(map[string]*domain.Collection),
		products:    make(map[string]*domain.Product),
		log:         log,
	}
}

// UpsertCollection merges an incoming collection into the store.
func (s *Store) UpsertCollection(incoming *domain.Collection) {
	if incoming == nil || incoming.Handle == "" {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.collections[incoming.Handle]
	if !ok {
		stored := *incoming
		stored.Products = append([]string(nil), incoming.Products...)
		s.collections[incoming.Handle] = &stored
		return
	}

	// Scalar fields refresh regardless of loading state.
	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if incoming.Description != "" {
		existing.Description = incoming.Description
	}
	if incoming.ImageSrc != "" {
		existing.ImageSrc = incoming.ImageSrc
	}

	if existing.FullyLoaded {
		// Authoritative product list; a partial source never replaces or
		// truncates it.
		return
	}

	existing.Products = unionOrdered(existing.Products, incoming.Products)
	existing.NextCursor = incoming.NextCursor
	existing.PartiallyLoaded = incoming.PartiallyLoaded
	if incoming.FullyLoaded {
		existing.FullyLoaded = true
	}
}

// MarkCollectionFullyLoaded freezes the collection's product list. Called
// only when a paginated sweep completes, never from a menu summary.
func (s *Store) MarkCollectionFullyLoaded(handle string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	collection, ok := s.collections[handle]
	if !ok {
		collection = &domain.Collection{Handle: handle}
		s.collections[handle] = collection
	}
	collection.FullyLoaded = true
	collection.PartiallyLoaded = false
	collection.NextCursor = ""

	s.log.Debug("collection fully loaded",
		zap.String("handle", handle),
		zap.Int("products", len(collection.Products)))
}

// UpsertProducts merges a batch of products. Nil entries (stale slots from a
// batched fetch) are skipped. Placeholders never downgrade a Loaded record.
func (s *Store) UpsertProducts(products []*domain.Product) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, incoming := range products {
		if incoming == nil || incoming.Handle == "" {
			continue
		}

		existing, ok := s.products[incoming.Handle]
		if incoming.HasDetail() || !ok {
			stored := *incoming
			if stored.LoadingState < domain.StatePlaceholder {
				stored.LoadingState = domain.StatePlaceholder
			}
			// A detail overwrite without a sort weight keeps the one the
			// collection sweep assigned.
			if stored.ManualSortWeight == nil && ok && existing.ManualSortWeight != nil {
				stored.ManualSortWeight = existing.ManualSortWeight
			}
			s.products[incoming.Handle] = &stored
			continue
		}

		// Bare handle against an existing record: only the sort weight may
		// advance, the loading state stays where it is.
		if incoming.ManualSortWeight != nil {
			existing.ManualSortWeight = incoming.ManualSortWeight
		}
	}
}

// SetProductLoadingState advances the in-flight flags for a handle. Marking
// a product as loading before its fetch resolves is what keeps two
// concurrent callers from dispatching duplicate requests.
func (s *Store) SetProductLoadingState(handle string, isLoading, isLoaded bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	product, ok := s.products[handle]
	if !ok {
		product = &domain.Product{Handle: handle, LoadingState: domain.StatePlaceholder}
		s.products[handle] = product
	}

	switch {
	case isLoaded:
		product.LoadingState = domain.StateLoaded
	case isLoading:
		if product.LoadingState < domain.StateLoading {
			product.LoadingState = domain.StateLoading
		}
	default:
		// Fetch finished without a load (not found or transport failure);
		// release the in-flight mark so a later call can retry.
		if product.LoadingState == domain.StateLoading {
			product.LoadingState = domain.StatePlaceholder
		}
	}
}

// Collection returns a snapshot of a collection by handle.
func (s *Store) Collection(handle string) (*domain.Collection, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	collection, ok := s.collections[handle]
	if !ok {
		return nil, false
	}
	snapshot := *collection
	snapshot.Products = append([]string(nil), collection.Products...)
	return &snapshot, true
}

// Product returns a snapshot of a product by handle. Nested slices and the
// metafield map are copied so a caller mutating the snapshot cannot reach
// back into the stored record.
func (s *Store) Product(handle string) (*domain.Product, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	product, ok := s.products[handle]
	if !ok {
		return nil, false
	}

	snapshot := *product
	snapshot.Tags = append([]string(nil), product.Tags...)
	snapshot.Images = append([]string(nil), product.Images...)
	snapshot.Variants = append([]domain.Variant(nil), product.Variants...)
	snapshot.Media = append([]domain.Media(nil), product.Media...)
	if product.Metafields != nil {
		snapshot.Metafields = make(map[string]string, len(product.Metafields))
		for k, v := range product.Metafields {
			snapshot.Metafields[k] = v
		}
	}
	if product.ManualSortWeight != nil {
		weight := *product.ManualSortWeight
		snapshot.ManualSortWeight = &weight
	}
	return &snapshot, true
}

// unionOrdered appends the entries of b not already present in a, preserving
// first-seen order. A single paginated sweep cannot repeat handles, but a
// menu summary and a sweep of the same collection can.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, handle := range a {
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		merged = append(merged, handle)
	}
	for _, handle := range b {
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		merged = append(merged, handle)
	}
	return merged
}
