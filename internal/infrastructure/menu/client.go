package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// Client fetches the navigation menu document from its configured location.
type Client struct {
	httpClient *http.Client
	url        string
	log        *zap.Logger
}

// NewClient creates a menu source client.
func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: url,
		log: log,
	}
}

// FetchMenu retrieves the menu tree. A document without a menu field yields
// an empty slice, not an error.
func (c *Client) FetchMenu(ctx context.Context) ([]domain.MenuNode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("menu source error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrTransport, resp.StatusCode)
	}

	var payload struct {
		Menu []domain.MenuNode `json:"menu"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding menu: %v", domain.ErrTransport, err)
	}

	if payload.Menu == nil {
		return []domain.MenuNode{}, nil
	}
	return payload.Menu, nil
}
