package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/domain"
	"github.com/shopfront/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
	cart    *usecase.CartService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, cart *usecase.CartService) *Handler {
	return &Handler{catalog: catalog, cart: cart}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopfront-backend",
		"version": "1.0.0",
	})
}

// GetMenu fetches the navigation menu, seeds the catalog from it, and
// returns the tree.
func (h *Handler) GetMenu(c *gin.Context) {
	nodes, err := h.catalog.LoadMenu(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": nodes})
}

// GetCollection ensures the collection is fully loaded and returns it with
// its product records resolved in API order.
func (h *Handler) GetCollection(c *gin.Context) {
	handle := c.Param("handle")

	collection, err := h.catalog.LoadCollection(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err)
		return
	}

	products := make([]*domain.Product, 0, len(collection.Products))
	for _, productHandle := range collection.Products {
		if product, ok := h.catalog.Product(productHandle); ok {
			products = append(products, product)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
		"products":   products,
	})
}

// WarmCollections sweeps several collections concurrently.
func (h *Handler) WarmCollections(c *gin.Context) {
	var req struct {
		Handles []string `json:"handles" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handles list is required"})
		return
	}

	if err := h.catalog.WarmCollections(c.Request.Context(), req.Handles); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warmed": len(req.Handles)})
}

// GetProduct ensures full product detail (resolving cross-references as a
// side effect) and returns the record.
func (h *Handler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")

	product, err := h.catalog.LoadProduct(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// BatchProducts loads a set of products in one upstream request and returns
// their current snapshots.
func (h *Handler) BatchProducts(c *gin.Context) {
	var req struct {
		Handles []string `json:"handles" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handles list is required"})
		return
	}

	if err := h.catalog.LoadProductsByHandles(c.Request.Context(), req.Handles); err != nil {
		respondError(c, err)
		return
	}

	products := make([]*domain.Product, 0, len(req.Handles))
	for _, handle := range req.Handles {
		if product, ok := h.catalog.Product(handle); ok {
			products = append(products, product)
		}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts runs a free-text search page.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	cursor := c.Query("cursor")

	page, err := h.catalog.Search(c.Request.Context(), query, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCart returns the current cart snapshot.
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.State())
}

// ResumeCart resumes an existing checkout or creates a new one.
func (h *Handler) ResumeCart(c *gin.Context) {
	var req struct {
		CheckoutID string `json:"checkoutId"`
	}
	// Body is optional; an empty body creates a fresh checkout.
	_ = c.ShouldBindJSON(&req)

	checkout, err := h.cart.GetCheckout(c.Request.Context(), req.CheckoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// AddCartItem adds one line item to the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req struct {
		VariantID          string             `json:"variantId" binding:"required"`
		Quantity           int                `json:"quantity"`
		Note               *domain.Attribute  `json:"note"`
		CheckoutAttributes []domain.Attribute `json:"checkoutAttributes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variantId is required"})
		return
	}

	item := domain.LineItem{VariantID: req.VariantID, Quantity: req.Quantity}
	checkout, err := h.cart.AddLineItem(c.Request.Context(), item, req.Note, req.CheckoutAttributes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// UpdateCartItems changes line item quantities.
func (h *Handler) UpdateCartItems(c *gin.Context) {
	var req struct {
		Updates []domain.LineItemUpdate `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updates list is required"})
		return
	}

	checkout, err := h.cart.UpdateLineItems(c.Request.Context(), req.Updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// RemoveCartItem deletes one line item.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	checkout, err := h.cart.RemoveLineItem(c.Request.Context(), c.Param("lineItemID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// UpdateCartAttributes replaces the checkout's custom attributes.
func (h *Handler) UpdateCartAttributes(c *gin.Context) {
	var req struct {
		Attributes []domain.Attribute `json:"attributes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attributes list is required"})
		return
	}

	checkout, err := h.cart.UpdateAttributes(c.Request.Context(), req.Attributes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoCheckout):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrCheckoutFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
