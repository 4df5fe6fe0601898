package checkout

import (
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/domain"
)

// Rendered mutation text for the external checkout service. The checkout
// workflow is a thin proxy: every operation sends one mutation and stores
// whatever checkout object comes back.

const checkoutFragment = `
	id
	webUrl
	lineItems(first: 250) {
		edges {
			node {
				id
				title
				quantity
				variant {
					id
				}
				customAttributes {
					key
					value
				}
			}
		}
	}
`

func createMutation() string {
	return fmt.Sprintf(`mutation {
		checkoutCreate(input: {}) {
			checkout {%s}
			checkoutUserErrors {
				message
			}
		}
	}`, checkoutFragment)
}

func fetchQuery(checkoutID string) string {
	return fmt.Sprintf(`{
		node(id: %q) {
			... on Checkout {%s}
		}
	}`, checkoutID, checkoutFragment)
}

func addLineItemsMutation(checkoutID string, items []domain.LineItem) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, fmt.Sprintf(`{ variantId: %q, quantity: %d, customAttributes: [%s] }`,
			item.VariantID, item.Quantity, renderAttributes(item.CustomAttributes)))
	}
	return fmt.Sprintf(`mutation {
		checkoutLineItemsAdd(checkoutId: %q, lineItems: [%s]) {
			checkout {%s}
			checkoutUserErrors {
				message
			}
		}
	}`, checkoutID, strings.Join(rendered, ", "), checkoutFragment)
}

func updateLineItemsMutation(checkoutID string, updates []domain.LineItemUpdate) string {
	rendered := make([]string, 0, len(updates))
	for _, update := range updates {
		rendered = append(rendered, fmt.Sprintf(`{ id: %q, quantity: %d }`, update.ID, update.Quantity))
	}
	return fmt.Sprintf(`mutation {
		checkoutLineItemsUpdate(checkoutId: %q, lineItems: [%s]) {
			checkout {%s}
			checkoutUserErrors {
				message
			}
		}
	}`, checkoutID, strings.Join(rendered, ", "), checkoutFragment)
}

func removeLineItemsMutation(checkoutID string, lineItemIDs []string) string {
	quoted := make([]string, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	return fmt.Sprintf(`mutation {
		checkoutLineItemsRemove(checkoutId: %q, lineItemIds: [%s]) {
			checkout {%s}
			checkoutUserErrors {
				message
			}
		}
	}`, checkoutID, strings.Join(quoted, ", "), checkoutFragment)
}

func updateAttributesMutation(checkoutID string, attributes []domain.Attribute) string {
	return fmt.Sprintf(`mutation {
		checkoutAttributesUpdateV2(checkoutId: %q, input: { customAttributes: [%s] }) {
			checkout {%s}
			checkoutUserErrors {
				message
			}
		}
	}`, checkoutID, renderAttributes(attributes), checkoutFragment)
}

func renderAttributes(attributes []domain.Attribute) string {
	rendered := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		rendered = append(rendered, fmt.Sprintf(`{ key: %q, value: %q }`, attr.Key, attr.Value))
	}
	return strings.Join(rendered, ", ")
}
