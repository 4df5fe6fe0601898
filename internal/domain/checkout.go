package domain

// Checkout mirrors the checkout object held by the external checkout service.
// The cart workflow is a thin proxy over that service; we never mutate a
// checkout locally, we only store what the service last returned.
type Checkout struct {
	ID        string     `json:"id"`
	WebURL    string     `json:"webUrl,omitempty"`
	LineItems []LineItem `json:"lineItems"`
}

// ItemCount sums the quantities of all line items.
func (c *Checkout) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.LineItems {
		count += item.Quantity
	}
	return count
}

// LineItem is one product variant in a checkout.
type LineItem struct {
	ID               string      `json:"id"`
	Title            string      `json:"title,omitempty"`
	VariantID        string      `json:"variantId"`
	Quantity         int         `json:"quantity"`
	CustomAttributes []Attribute `json:"customAttributes,omitempty"`
}

// LineItemUpdate identifies a line item and its new quantity.
type LineItemUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Attribute is a key/value note attached to a checkout or line item.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
