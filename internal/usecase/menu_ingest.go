package usecase

import (
	"strings"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// MenuIngester walks a navigation menu tree depth-first and seeds the
// catalog store with the partial knowledge embedded in it: collection
// summaries and bare product handles. The input tree is trusted to be
// acyclic (it comes from a configured menu document).
type MenuIngester struct {
	store domain.CatalogStore
	log   *zap.Logger
}

// NewMenuIngester creates a menu ingester writing into the given store.
func NewMenuIngester(store domain.CatalogStore, log *zap.Logger) *MenuIngester {
	return &MenuIngester{store: store, log: log}
}

// Ingest applies a menu tree to the store. Every collection node becomes a
// collection record (fully loaded only when its embedded product list covers
// its declared count); every product handle reachable anywhere in the tree
// becomes one placeholder, deduplicated across the whole tree.
func (m *MenuIngester) Ingest(nodes []domain.MenuNode) {
	seen := make(map[string]struct{})
	placeholders := make([]*domain.Product, 0)

	var walk func(nodes []domain.MenuNode)
	walk = func(nodes []domain.MenuNode) {
		for i := range nodes {
			node := &nodes[i]

			if node.IsCollection {
				m.ingestCollection(node)
			}

			for _, handle := range node.Products {
				if _, ok := seen[handle]; ok {
					continue
				}
				seen[handle] = struct{}{}
				placeholders = append(placeholders, &domain.Product{
					Handle:       handle,
					LoadingState: domain.StatePlaceholder,
				})
			}

			// Children are traversed whether or not this node is a collection.
			walk(node.Children)
		}
	}
	walk(nodes)

	if len(placeholders) > 0 {
		m.store.UpsertProducts(placeholders)
	}

	m.log.Debug("menu ingested", zap.Int("placeholder_products", len(placeholders)))
}

func (m *MenuIngester) ingestCollection(node *domain.MenuNode) {
	handle := CollectionHandleFromURL(node.URL)
	if handle == "" {
		m.log.Warn("menu collection node without a collection URL", zap.String("url", node.URL))
		return
	}

	partiallyLoaded := len(node.Products) < node.ProductCount

	m.store.UpsertCollection(&domain.Collection{
		Handle:          handle,
		Title:           node.Title,
		Products:        node.Products,
		PartiallyLoaded: partiallyLoaded,
	})

	// The menu summary covers the declared count: nothing left to page in.
	if !partiallyLoaded {
		m.store.MarkCollectionFullyLoaded(handle)
	}
}

// CollectionHandleFromURL extracts the handle from the URL path segment
// after "/collections/".
func CollectionHandleFromURL(url string) string {
	idx := strings.Index(url, "/collections/")
	if idx < 0 {
		return ""
	}
	handle := url[idx+len("/collections/"):]
	if cut := strings.IndexAny(handle, "/?#"); cut >= 0 {
		handle = handle[:cut]
	}
	return handle
}
