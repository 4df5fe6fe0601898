package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopfront/backend/internal/domain"
)

// collectionCall records one FetchCollectionPage invocation.
type collectionCall struct {
	Handle     string
	Cursor     string
	Limit      int
	SortOffset int
}

// fakeStorefront is a scriptable StorefrontClient that records every call.
type fakeStorefront struct {
	mu              sync.Mutex
	collectionCalls []collectionCall
	productCalls    []string
	batchCalls      [][]string
	searchCalls     int

	fetchProductFn    func(handle string) (*domain.Product, error)
	fetchBatchFn      func(handles []string) ([]*domain.Product, error)
	fetchCollectionFn func(handle, cursor string, limit, sortOffset int) (*domain.CollectionPage, error)
	searchFn          func(query, cursor string) (*domain.ProductPage, error)
}

func (f *fakeStorefront) FetchProduct(ctx context.Context, handle string) (*domain.Product, error) {
	f.mu.Lock()
	f.productCalls = append(f.productCalls, handle)
	fn := f.fetchProductFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected FetchProduct call")
	}
	return fn(handle)
}

func (f *fakeStorefront) FetchProductsByHandles(ctx context.Context, handles []string) ([]*domain.Product, error) {
	f.mu.Lock()
	f.batchCalls = append(f.batchCalls, append([]string(nil), handles...))
	fn := f.fetchBatchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected FetchProductsByHandles call")
	}
	return fn(handles)
}

func (f *fakeStorefront) FetchCollectionPage(ctx context.Context, handle, cursor string, limit, sortOffset int) (*domain.CollectionPage, error) {
	f.mu.Lock()
	f.collectionCalls = append(f.collectionCalls, collectionCall{handle, cursor, limit, sortOffset})
	fn := f.fetchCollectionFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected FetchCollectionPage call")
	}
	return fn(handle, cursor, limit, sortOffset)
}

func (f *fakeStorefront) SearchProducts(ctx context.Context, query, cursor string) (*domain.ProductPage, error) {
	f.mu.Lock()
	f.searchCalls++
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected SearchProducts call")
	}
	return fn(query, cursor)
}

func (f *fakeStorefront) collectionCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.collectionCalls)
}

func (f *fakeStorefront) productCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.productCalls)
}

// scriptCollectionPages wires the fake to serve a fixed sequence of page
// sizes for any collection, with handles named by their absolute position.
func scriptCollectionPages(f *fakeStorefront, pageSizes []int) {
	f.fetchCollectionFn = func(handle, cursor string, limit, sortOffset int) (*domain.CollectionPage, error) {
		pageIndex := 0
		if cursor != "" {
			if _, err := fmt.Sscanf(cursor, "cursor-%d", &pageIndex); err != nil {
				return nil, fmt.Errorf("bad cursor %q", cursor)
			}
		}
		if pageIndex >= len(pageSizes) {
			return nil, fmt.Errorf("page %d out of range", pageIndex)
		}

		products := make([]*domain.Product, 0, pageSizes[pageIndex])
		for i := 0; i < pageSizes[pageIndex]; i++ {
			weight := sortOffset + i
			products = append(products, &domain.Product{
				Handle:           fmt.Sprintf("p-%04d", weight),
				ManualSortWeight: &weight,
				LoadingState:     domain.StatePlaceholder,
			})
		}

		page := &domain.CollectionPage{Products: products}
		if cursor == "" {
			page.Title = "Collection " + handle
		}
		if pageIndex < len(pageSizes)-1 {
			page.NextCursor = fmt.Sprintf("cursor-%d", pageIndex+1)
		}
		return page, nil
	}
}

// loadedProduct builds a full-detail record for fake responses.
func loadedProduct(handle string) *domain.Product {
	return &domain.Product{
		Handle:       handle,
		Title:        "Title of " + handle,
		LoadingState: domain.StateLoaded,
	}
}

// fakeMenu is a MenuClient returning a fixed tree.
type fakeMenu struct {
	nodes []domain.MenuNode
	err   error
}

func (f *fakeMenu) FetchMenu(ctx context.Context) ([]domain.MenuNode, error) {
	return f.nodes, f.err
}

// fakeCheckout is a scriptable CheckoutClient recording call order.
type fakeCheckout struct {
	mu    sync.Mutex
	calls []string

	createFn     func() (*domain.Checkout, error)
	fetchFn      func(id string) (*domain.Checkout, error)
	addFn        func(id string, items []domain.LineItem) (*domain.Checkout, error)
	updateFn     func(id string, updates []domain.LineItemUpdate) (*domain.Checkout, error)
	removeFn     func(id string, lineItemIDs []string) (*domain.Checkout, error)
	attributesFn func(id string, attributes []domain.Attribute) (*domain.Checkout, error)
}

func (f *fakeCheckout) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context) (*domain.Checkout, error) {
	f.record("create")
	if f.createFn == nil {
		return &domain.Checkout{ID: "checkout-1"}, nil
	}
	return f.createFn()
}

func (f *fakeCheckout) FetchCheckout(ctx context.Context, id string) (*domain.Checkout, error) {
	f.record("fetch")
	if f.fetchFn == nil {
		return &domain.Checkout{ID: id}, nil
	}
	return f.fetchFn(id)
}

func (f *fakeCheckout) AddLineItems(ctx context.Context, checkoutID string, items []domain.LineItem) (*domain.Checkout, error) {
	f.record("add")
	if f.addFn == nil {
		return &domain.Checkout{ID: checkoutID, LineItems: items}, nil
	}
	return f.addFn(checkoutID, items)
}

func (f *fakeCheckout) UpdateLineItems(ctx context.Context, checkoutID string, updates []domain.LineItemUpdate) (*domain.Checkout, error) {
	f.record("update")
	if f.updateFn == nil {
		return &domain.Checkout{ID: checkoutID}, nil
	}
	return f.updateFn(checkoutID, updates)
}

func (f *fakeCheckout) RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*domain.Checkout, error) {
	f.record("remove")
	if f.removeFn == nil {
		return &domain.Checkout{ID: checkoutID}, nil
	}
	return f.removeFn(checkoutID, lineItemIDs)
}

func (f *fakeCheckout) UpdateAttributes(ctx context.Context, checkoutID string, attributes []domain.Attribute) (*domain.Checkout, error) {
	f.record("attributes")
	if f.attributesFn == nil {
		return &domain.Checkout{ID: checkoutID}, nil
	}
	return f.attributesFn(checkoutID, attributes)
}
