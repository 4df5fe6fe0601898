package checkout

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// Client proxies checkout operations to the external checkout service over
// the same versioned storefront endpoint the catalog uses.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        *zap.Logger
}

// NewClient creates a checkout service client.
func NewClient(endpoint, token string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
		token:    token,
		log:      log,
	}
}

type checkoutRaw struct {
	ID        string `json:"id"`
	WebURL    string `json:"webUrl"`
	LineItems struct {
		Edges []struct {
			Node lineItemRaw `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type lineItemRaw struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Variant  *struct {
		ID string `json:"id"`
	} `json:"variant"`
	CustomAttributes []domain.Attribute `json:"customAttributes"`
}

type userErrorRaw struct {
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, payload string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/graphql")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrCheckoutFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("checkout service error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCheckoutFailed, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []userErrorRaw  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrCheckoutFailed, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCheckoutFailed, envelope.Errors[0].Message)
	}
	return envelope.Data, nil
}

// mutate runs one mutation and extracts the checkout from its named result.
func (c *Client) mutate(ctx context.Context, field, payload string) (*domain.Checkout, error) {
	data, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var result map[string]struct {
		Checkout           *checkoutRaw   `json:"checkout"`
		CheckoutUserErrors []userErrorRaw `json:"checkoutUserErrors"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding checkout: %v", domain.ErrCheckoutFailed, err)
	}

	res, ok := result[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s result", domain.ErrCheckoutFailed, field)
	}
	if len(res.CheckoutUserErrors) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCheckoutFailed, res.CheckoutUserErrors[0].Message)
	}
	if res.Checkout == nil {
		return nil, fmt.Errorf("%w: empty checkout in %s result", domain.ErrCheckoutFailed, field)
	}
	return mapCheckout(res.Checkout), nil
}

// CreateCheckout starts a fresh checkout.
func (c *Client) CreateCheckout(ctx context.Context) (*domain.Checkout, error) {
	return c.mutate(ctx, "checkoutCreate", createMutation())
}

// FetchCheckout retrieves an existing checkout by ID.
func (c *Client) FetchCheckout(ctx context.Context, id string) (*domain.Checkout, error) {
	data, err := c.post(ctx, fetchQuery(id))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Node *checkoutRaw `json:"node"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding checkout: %v", domain.ErrCheckoutFailed, err)
	}
	if payload.Node == nil {
		return nil, fmt.Errorf("%w: checkout %q", domain.ErrNotFound, id)
	}
	return mapCheckout(payload.Node), nil
}

// AddLineItems adds line items to a checkout. Bare numeric variant IDs are
// wrapped into their global form before the request.
func (c *Client) AddLineItems(ctx context.Context, checkoutID string, items []domain.LineItem) (*domain.Checkout, error) {
	encoded := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.VariantID = EncodeVariantID(item.VariantID)
		encoded[i] = item
	}
	return c.mutate(ctx, "checkoutLineItemsAdd", addLineItemsMutation(checkoutID, encoded))
}

// UpdateLineItems changes quantities of existing line items.
func (c *Client) UpdateLineItems(ctx context.Context, checkoutID string, updates []domain.LineItemUpdate) (*domain.Checkout, error) {
	return c.mutate(ctx, "checkoutLineItemsUpdate", updateLineItemsMutation(checkoutID, updates))
}

// RemoveLineItems deletes line items from a checkout.
func (c *Client) RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*domain.Checkout, error) {
	return c.mutate(ctx, "checkoutLineItemsRemove", removeLineItemsMutation(checkoutID, lineItemIDs))
}

// UpdateAttributes replaces the custom attributes on a checkout.
func (c *Client) UpdateAttributes(ctx context.Context, checkoutID string, attributes []domain.Attribute) (*domain.Checkout, error) {
	return c.mutate(ctx, "checkoutAttributesUpdateV2", updateAttributesMutation(checkoutID, attributes))
}

// EncodeVariantID wraps a bare numeric variant ID into its base64 global
// form. IDs that already look global pass through unchanged.
func EncodeVariantID(id string) string {
	if len(id) > 15 || strings.HasPrefix(id, "gid://") {
		return id
	}
	return base64.StdEncoding.EncodeToString([]byte("gid://shopify/ProductVariant/" + id))
}

func mapCheckout(raw *checkoutRaw) *domain.Checkout {
	checkout := &domain.Checkout{
		ID:        raw.ID,
		WebURL:    raw.WebURL,
		LineItems: make([]domain.LineItem, 0, len(raw.LineItems.Edges)),
	}
	for _, e := range raw.LineItems.Edges {
		item := domain.LineItem{
			ID:               e.Node.ID,
			Title:            e.Node.Title,
			Quantity:         e.Node.Quantity,
			CustomAttributes: e.Node.CustomAttributes,
		}
		if e.Node.Variant != nil {
			item.VariantID = e.Node.Variant.ID
		}
		checkout.LineItems = append(checkout.LineItems, item)
	}
	return checkout
}
