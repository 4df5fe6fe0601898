package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain"
)

func TestCartState_Empty(t *testing.T) {
	service := NewCartService(&fakeCheckout{}, zap.NewNop())

	state := service.State()
	if state.Checkout != nil {
		t.Error("fresh cart has a checkout")
	}
	if state.ItemCount != 0 {
		t.Errorf("ItemCount = %d, want 0", state.ItemCount)
	}
	if state.Busy {
		t.Error("fresh cart is busy")
	}
}

func TestGetCheckout(t *testing.T) {
	t.Run("no id and no session creates a checkout", func(t *testing.T) {
		client := &fakeCheckout{}
		service := NewCartService(client, zap.NewNop())

		checkout, err := service.GetCheckout(context.Background(), "")
		if err != nil {
			t.Fatalf("GetCheckout() error = %v", err)
		}
		if checkout.ID != "checkout-1" {
			t.Errorf("ID = %q", checkout.ID)
		}
		if !reflect.DeepEqual(client.calls, []string{"create"}) {
			t.Errorf("calls = %v, want [create]", client.calls)
		}
	})

	t.Run("explicit id resumes that checkout", func(t *testing.T) {
		client := &fakeCheckout{}
		service := NewCartService(client, zap.NewNop())

		checkout, err := service.GetCheckout(context.Background(), "saved-id")
		if err != nil {
			t.Fatalf("GetCheckout() error = %v", err)
		}
		if checkout.ID != "saved-id" {
			t.Errorf("ID = %q, want saved-id", checkout.ID)
		}
		if !reflect.DeepEqual(client.calls, []string{"fetch"}) {
			t.Errorf("calls = %v, want [fetch]", client.calls)
		}
	})

	t.Run("active session is refreshed without an id", func(t *testing.T) {
		client := &fakeCheckout{}
		service := NewCartService(client, zap.NewNop())

		if _, err := service.GetCheckout(context.Background(), "saved-id"); err != nil {
			t.Fatal(err)
		}
		if _, err := service.GetCheckout(context.Background(), ""); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(client.calls, []string{"fetch", "fetch"}) {
			t.Errorf("calls = %v, want [fetch fetch]", client.calls)
		}
	})
}

func TestAddLineItem_CreatesCheckoutWhenNoneActive(t *testing.T) {
	client := &fakeCheckout{}
	var gotAttributes []domain.Attribute
	var gotItems []domain.LineItem
	client.attributesFn = func(id string, attributes []domain.Attribute) (*domain.Checkout, error) {
		gotAttributes = attributes
		return &domain.Checkout{ID: id}, nil
	}
	client.addFn = func(id string, items []domain.LineItem) (*domain.Checkout, error) {
		gotItems = items
		return &domain.Checkout{ID: id, LineItems: items}, nil
	}
	service := NewCartService(client, zap.NewNop())

	checkout, err := service.AddLineItem(context.Background(),
		domain.LineItem{VariantID: "123"}, nil, nil)
	if err != nil {
		t.Fatalf("AddLineItem() error = %v", err)
	}

	if !reflect.DeepEqual(client.calls, []string{"create", "attributes", "add"}) {
		t.Fatalf("calls = %v, want [create attributes add]", client.calls)
	}

	// Omitted note and attributes default to empty pairs.
	if !reflect.DeepEqual(gotAttributes, []domain.Attribute{{}}) {
		t.Errorf("attributes = %v, want one empty pair", gotAttributes)
	}
	if len(gotItems) != 1 {
		t.Fatalf("items = %v, want 1", gotItems)
	}
	if gotItems[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want defaulted to 1", gotItems[0].Quantity)
	}
	if !reflect.DeepEqual(gotItems[0].CustomAttributes, []domain.Attribute{{}}) {
		t.Errorf("CustomAttributes = %v, want one empty pair", gotItems[0].CustomAttributes)
	}

	state := service.State()
	if state.Checkout == nil || state.Checkout.ID != checkout.ID {
		t.Error("checkout not retained in state")
	}
	if state.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", state.ItemCount)
	}
}

func TestAddLineItem_ReusesActiveCheckout(t *testing.T) {
	client := &fakeCheckout{}
	service := NewCartService(client, zap.NewNop())

	if _, err := service.GetCheckout(context.Background(), "saved-id"); err != nil {
		t.Fatal(err)
	}
	note := &domain.Attribute{Key: "gift", Value: "yes"}
	if _, err := service.AddLineItem(context.Background(),
		domain.LineItem{VariantID: "123", Quantity: 2}, note, []domain.Attribute{{Key: "src", Value: "test"}}); err != nil {
		t.Fatalf("AddLineItem() error = %v", err)
	}

	if !reflect.DeepEqual(client.calls, []string{"fetch", "attributes", "add"}) {
		t.Errorf("calls = %v, want [fetch attributes add] (no create)", client.calls)
	}
}

func TestCartOperations_RequireActiveCheckout(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(*CartService) error
	}{
		{"update items", func(s *CartService) error {
			_, err := s.UpdateLineItems(ctx, []domain.LineItemUpdate{{ID: "li1", Quantity: 2}})
			return err
		}},
		{"remove item", func(s *CartService) error {
			_, err := s.RemoveLineItem(ctx, "li1")
			return err
		}},
		{"update attributes", func(s *CartService) error {
			_, err := s.UpdateAttributes(ctx, []domain.Attribute{{Key: "k", Value: "v"}})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewCartService(&fakeCheckout{}, zap.NewNop())
			if err := tt.call(service); !errors.Is(err, domain.ErrNoCheckout) {
				t.Errorf("error = %v, want ErrNoCheckout", err)
			}
		})
	}
}

func TestUpdateLineItem_DelegatesToBatchUpdate(t *testing.T) {
	client := &fakeCheckout{}
	var gotUpdates []domain.LineItemUpdate
	client.updateFn = func(id string, updates []domain.LineItemUpdate) (*domain.Checkout, error) {
		gotUpdates = updates
		return &domain.Checkout{ID: id}, nil
	}
	service := NewCartService(client, zap.NewNop())
	if _, err := service.GetCheckout(context.Background(), "saved-id"); err != nil {
		t.Fatal(err)
	}

	if _, err := service.UpdateLineItem(context.Background(), "li1", 5); err != nil {
		t.Fatalf("UpdateLineItem() error = %v", err)
	}
	want := []domain.LineItemUpdate{{ID: "li1", Quantity: 5}}
	if !reflect.DeepEqual(gotUpdates, want) {
		t.Errorf("updates = %v, want %v", gotUpdates, want)
	}
}

func TestRemoveLineItem(t *testing.T) {
	client := &fakeCheckout{}
	var gotIDs []string
	client.removeFn = func(id string, lineItemIDs []string) (*domain.Checkout, error) {
		gotIDs = lineItemIDs
		return &domain.Checkout{ID: id}, nil
	}
	service := NewCartService(client, zap.NewNop())
	if _, err := service.GetCheckout(context.Background(), "saved-id"); err != nil {
		t.Fatal(err)
	}

	if _, err := service.RemoveLineItem(context.Background(), "li1"); err != nil {
		t.Fatalf("RemoveLineItem() error = %v", err)
	}
	if !reflect.DeepEqual(gotIDs, []string{"li1"}) {
		t.Errorf("lineItemIDs = %v, want [li1]", gotIDs)
	}
}

func TestCartClientErrorLeavesStateIntact(t *testing.T) {
	client := &fakeCheckout{}
	client.updateFn = func(id string, updates []domain.LineItemUpdate) (*domain.Checkout, error) {
		return nil, domain.ErrCheckoutFailed
	}
	service := NewCartService(client, zap.NewNop())
	if _, err := service.GetCheckout(context.Background(), "saved-id"); err != nil {
		t.Fatal(err)
	}

	_, err := service.UpdateLineItems(context.Background(), []domain.LineItemUpdate{{ID: "li1", Quantity: 2}})
	if !errors.Is(err, domain.ErrCheckoutFailed) {
		t.Fatalf("error = %v, want ErrCheckoutFailed", err)
	}

	state := service.State()
	if state.Checkout == nil || state.Checkout.ID != "saved-id" {
		t.Error("failed update discarded the active checkout")
	}
	if state.Busy {
		t.Error("busy flag stuck after a failed update")
	}
}
