package menu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestClient_FetchMenu(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{
			"menu": [
				{
					"label": "Knitwear",
					"url": "/collections/knitwear",
					"isCollection": true,
					"title": "Knitwear",
					"productCount": 2,
					"products": ["sweater", "cardigan"],
					"children": [
						{"label": "Sale", "products": ["old-sweater"]}
					]
				}
			]
		}`))
	})

	nodes, err := client.FetchMenu(context.Background())

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Knitwear", nodes[0].Label)
	assert.True(t, nodes[0].IsCollection)
	assert.Equal(t, 2, nodes[0].ProductCount)
	assert.Equal(t, []string{"sweater", "cardigan"}, nodes[0].Products)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, []string{"old-sweater"}, nodes[0].Children[0].Products)
}

func TestClient_FetchMenu_AbsentMenuIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	nodes, err := client.FetchMenu(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestClient_FetchMenu_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchMenu(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_FetchMenu_MalformedDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"menu": `))
	})

	_, err := client.FetchMenu(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
}
