package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to the storefront query endpoint: rendered query text over
// HTTP POST with the access token header. A missing entity resolves to
// domain.ErrNotFound, a network or HTTP failure to domain.ErrTransport;
// the client never retries either.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	token       string
	builder     *QueryBuilder
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

// NewClient creates a storefront API client. timeout bounds each page fetch
// so an unbounded pagination sweep cannot hang on one request.
func NewClient(endpoint, token string, timeout time.Duration, log *zap.Logger) *Client {
	// Storefront API allows ~4 requests/sec sustained per client IP
	limiter := rate.NewLimiter(rate.Limit(4), 8)

	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:    endpoint,
		token:       token,
		builder:     NewQueryBuilder(),
		rateLimiter: limiter,
		log:         log,
	}
}

// post executes one query and returns the raw data payload. GraphQL-level
// errors and non-200 statuses are both transport failures here; "entity not
// found" arrives as a null data field and is handled by the callers.
func (c *Client) post(ctx context.Context, query string) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/graphql")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("storefront API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrTransport, resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrTransport, err)
	}
	if len(envelope.Errors) > 0 {
		c.log.Warn("storefront query rejected", zap.String("message", envelope.Errors[0].Message))
		return nil, fmt.Errorf("%w: %s", domain.ErrTransport, envelope.Errors[0].Message)
	}

	return envelope.Data, nil
}

// FetchProduct retrieves full detail for one product by handle.
func (c *Client) FetchProduct(ctx context.Context, handle string) (*domain.Product, error) {
	data, err := c.post(ctx, c.builder.ProductQuery(handle))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Product *productRaw `json:"product"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding product: %v", domain.ErrTransport, err)
	}

	product := normalizeProduct(payload.Product, nil)
	if product == nil {
		return nil, fmt.Errorf("%w: product %q", domain.ErrNotFound, handle)
	}
	return product, nil
}

// FetchProductsByHandles retrieves full detail for many products in one
// batched request. Handles the API returned null for come back as nil
// entries so callers can apply the stale-slot policy uniformly.
func (c *Client) FetchProductsByHandles(ctx context.Context, handles []string) ([]*domain.Product, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	data, err := c.post(ctx, c.builder.ProductsByHandlesQuery(handles))
	if err != nil {
		return nil, err
	}

	var payload map[string]*productRaw
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding products: %v", domain.ErrTransport, err)
	}

	products := make([]*domain.Product, 0, len(payload))
	for _, raw := range payload {
		products = append(products, normalizeProduct(raw, nil))
	}

	c.log.Debug("batched product fetch",
		zap.Int("requested", len(handles)),
		zap.Int("returned", len(products)))
	return products, nil
}

// FetchCollectionPage retrieves one page of a collection's product handles.
// Each handle becomes a placeholder product whose manual sort weight is its
// position across the whole sweep (sortOffset + index on this page).
func (c *Client) FetchCollectionPage(ctx context.Context, handle, cursor string, limit, sortOffset int) (*domain.CollectionPage, error) {
	data, err := c.post(ctx, c.builder.CollectionQuery(handle, limit, cursor))
	if err != nil {
		return nil, err
	}

	var payload struct {
		CollectionByHandle *collectionRaw `json:"collectionByHandle"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding collection: %v", domain.ErrTransport, err)
	}
	if payload.CollectionByHandle == nil {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, handle)
	}

	raw := payload.CollectionByHandle
	productsPage := unwrapPage(raw.Products)

	products := make([]*domain.Product, 0, len(productsPage.Content))
	for i, node := range productsPage.Content {
		weight := sortOffset + i
		products = append(products, &domain.Product{
			Handle:           node.Handle,
			ManualSortWeight: &weight,
			LoadingState:     domain.StatePlaceholder,
		})
	}

	result := &domain.CollectionPage{
		Title:       raw.Title,
		Description: raw.Description,
		Products:    products,
		NextCursor:  productsPage.Cursor,
	}
	if raw.Image != nil {
		result.ImageSrc = raw.Image.Src
	}
	return result, nil
}

// SearchProducts retrieves one page of free-text search results, already
// normalized and filtered to purchasable (or restocking) products.
func (c *Client) SearchProducts(ctx context.Context, query, cursor string) (*domain.ProductPage, error) {
	data, err := c.post(ctx, c.builder.SearchQuery(query, searchPageSize, cursor))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Products connection[productRaw] `json:"products"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding search results: %v", domain.ErrTransport, err)
	}

	resultsPage := unwrapPage(payload.Products)
	products := make([]*domain.Product, 0, len(resultsPage.Content))
	for i := range resultsPage.Content {
		product := normalizeProduct(&resultsPage.Content[i], nil)
		if product != nil && product.AvailableOrRestocking() {
			products = append(products, product)
		}
	}

	return &domain.ProductPage{
		Products:   products,
		NextCursor: resultsPage.Cursor,
	}, nil
}

// searchPageSize is fixed for the search shape; pagination uses the cursor.
const searchPageSize = 30
