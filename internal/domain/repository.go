package domain

import "context"

// CatalogStore is the shared in-memory store of products and collections for a
// synchronization session. Writes are serialized by the implementation; reads
// return snapshots safe to hold across later mutations.
type CatalogStore interface {
	// UpsertCollection merges an incoming collection into the store. A fully
	// loaded collection keeps its product list; only scalar fields refresh.
	UpsertCollection(incoming *Collection)

	// MarkCollectionFullyLoaded freezes a collection's product list against
	// later partial updates. Called only on pagination completion.
	MarkCollectionFullyLoaded(handle string)

	// UpsertProducts merges a batch of products. Nil entries (stale slots from
	// a batched fetch) are skipped. A bare placeholder never downgrades an
	// already loaded record.
	UpsertProducts(products []*Product)

	// SetProductLoadingState advances the in-flight flags for a handle.
	SetProductLoadingState(handle string, isLoading, isLoaded bool)

	Collection(handle string) (*Collection, bool)
	Product(handle string) (*Product, bool)
}

// StorefrontClient is the transport collaborator for the remote query API.
// A missing upstream entity surfaces as ErrNotFound, a network problem as
// ErrTransport; neither is retried by the client.
type StorefrontClient interface {
	// FetchProduct retrieves full detail for one product by handle.
	FetchProduct(ctx context.Context, handle string) (*Product, error)

	// FetchProductsByHandles retrieves full detail for many products in a
	// single batched request. Slots the API returned null for come back as
	// nil entries, in no guaranteed order.
	FetchProductsByHandles(ctx context.Context, handles []string) ([]*Product, error)

	// FetchCollectionPage retrieves one page of a collection's product
	// handles. sortOffset is the number of handles accumulated by earlier
	// pages and seeds the manual sort weight of this page's products.
	FetchCollectionPage(ctx context.Context, handle, cursor string, limit, sortOffset int) (*CollectionPage, error)

	// SearchProducts retrieves one page of free-text search results.
	SearchProducts(ctx context.Context, query, cursor string) (*ProductPage, error)
}

// MenuClient fetches the navigation menu tree from its configured location.
// An absent menu is an empty slice, not an error.
type MenuClient interface {
	FetchMenu(ctx context.Context) ([]MenuNode, error)
}

// CheckoutClient is the thin proxy over the external checkout service.
type CheckoutClient interface {
	CreateCheckout(ctx context.Context) (*Checkout, error)
	FetchCheckout(ctx context.Context, id string) (*Checkout, error)
	AddLineItems(ctx context.Context, checkoutID string, items []LineItem) (*Checkout, error)
	UpdateLineItems(ctx context.Context, checkoutID string, updates []LineItemUpdate) (*Checkout, error)
	RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*Checkout, error)
	UpdateAttributes(ctx context.Context, checkoutID string, attributes []Attribute) (*Checkout, error)
}
