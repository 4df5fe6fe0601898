package usecase

import (
	"context"
	"sync"

	"github.com/shopfront/backend/internal/domain"
	"go.uber.org/zap"
)

// CartService is a thin proxy over the external checkout service for one
// storefront session. It never mutates a checkout locally; it stores
// whatever the service last returned, plus a busy flag for the UI.
type CartService struct {
	client domain.CheckoutClient
	log    *zap.Logger

	mutex    sync.Mutex
	checkout *domain.Checkout
	busy     bool
}

// NewCartService creates a cart service with no active checkout.
func NewCartService(client domain.CheckoutClient, log *zap.Logger) *CartService {
	return &CartService{client: client, log: log}
}

// CartState is the observable cart snapshot.
type CartState struct {
	Checkout  *domain.Checkout `json:"checkout"`
	ItemCount int              `json:"itemCount"`
	Busy      bool             `json:"busy"`
}

// State returns the current cart snapshot.
func (s *CartService) State() CartState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return CartState{
		Checkout:  s.checkout,
		ItemCount: s.checkout.ItemCount(),
		Busy:      s.busy,
	}
}

func (s *CartService) setBusy(busy bool) {
	s.mutex.Lock()
	s.busy = busy
	s.mutex.Unlock()
}

func (s *CartService) setCheckout(checkout *domain.Checkout) {
	s.mutex.Lock()
	s.checkout = checkout
	s.mutex.Unlock()
}

func (s *CartService) currentID() (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.checkout == nil {
		return "", false
	}
	return s.checkout.ID, true
}

// GetCheckout resumes the checkout with the given ID, or the current one, or
// creates a new checkout when neither exists.
func (s *CartService) GetCheckout(ctx context.Context, id string) (*domain.Checkout, error) {
	s.setBusy(true)
	defer s.setBusy(false)

	if id == "" {
		if current, ok := s.currentID(); ok {
			id = current
		}
	}

	var checkout *domain.Checkout
	var err error
	if id != "" {
		checkout, err = s.client.FetchCheckout(ctx, id)
	} else {
		checkout, err = s.client.CreateCheckout(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.setCheckout(checkout)
	return checkout, nil
}

// AddLineItem adds one line item to the checkout, creating a checkout first
// if none is active. Note and checkout attributes default to empty pairs.
func (s *CartService) AddLineItem(ctx context.Context, item domain.LineItem, note *domain.Attribute, checkoutAttributes []domain.Attribute) (*domain.Checkout, error) {
	s.setBusy(true)
	defer s.setBusy(false)

	id, ok := s.currentID()
	if !ok {
		checkout, err := s.client.CreateCheckout(ctx)
		if err != nil {
			return nil, err
		}
		s.setCheckout(checkout)
		id = checkout.ID
	}

	if note == nil {
		note = &domain.Attribute{}
	}
	if checkoutAttributes == nil {
		checkoutAttributes = []domain.Attribute{{}}
	}

	if _, err := s.client.UpdateAttributes(ctx, id, checkoutAttributes); err != nil {
		return nil, err
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	item.CustomAttributes = []domain.Attribute{*note}

	checkout, err := s.client.AddLineItems(ctx, id, []domain.LineItem{item})
	if err != nil {
		return nil, err
	}
	s.setCheckout(checkout)
	return checkout, nil
}

// UpdateLineItems changes quantities of line items in the active checkout.
func (s *CartService) UpdateLineItems(ctx context.Context, updates []domain.LineItemUpdate) (*domain.Checkout, error) {
	id, ok := s.currentID()
	if !ok {
		return nil, domain.ErrNoCheckout
	}

	s.setBusy(true)
	defer s.setBusy(false)

	checkout, err := s.client.UpdateLineItems(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.setCheckout(checkout)
	return checkout, nil
}

// UpdateLineItem changes the quantity of a single line item.
func (s *CartService) UpdateLineItem(ctx context.Context, lineItemID string, quantity int) (*domain.Checkout, error) {
	return s.UpdateLineItems(ctx, []domain.LineItemUpdate{{ID: lineItemID, Quantity: quantity}})
}

// RemoveLineItem deletes one line item from the active checkout.
func (s *CartService) RemoveLineItem(ctx context.Context, lineItemID string) (*domain.Checkout, error) {
	id, ok := s.currentID()
	if !ok {
		return nil, domain.ErrNoCheckout
	}

	s.setBusy(true)
	defer s.setBusy(false)

	checkout, err := s.client.RemoveLineItems(ctx, id, []string{lineItemID})
	if err != nil {
		return nil, err
	}
	s.setCheckout(checkout)
	return checkout, nil
}

// UpdateAttributes replaces the custom attributes on the active checkout.
func (s *CartService) UpdateAttributes(ctx context.Context, attributes []domain.Attribute) (*domain.Checkout, error) {
	id, ok := s.currentID()
	if !ok {
		return nil, domain.ErrNoCheckout
	}

	s.setBusy(true)
	defer s.setBusy(false)

	checkout, err := s.client.UpdateAttributes(ctx, id, attributes)
	if err != nil {
		return nil, err
	}
	s.setCheckout(checkout)
	return checkout, nil
}
