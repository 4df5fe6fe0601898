package storefront

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
)

// QueryBuilder renders the four request shapes accepted by the storefront
// query endpoint. It is a pure function of its inputs except for the alias
// counter, which guarantees unique top-level field names in batched queries.
type QueryBuilder struct {
	aliasSeq atomic.Uint64
}

// NewQueryBuilder creates a query builder with a fresh alias counter.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// productFragment is the full product field set: scalars, up to 10 images,
// the pdp_extras metafields, up to 5 media entries with video sources, and
// up to 40 variants with options and swatch color.
const productFragment = `
	availableForSale
	title
	handle
	tags
	description
	descriptionHtml
	productType
	id

	images(first: 10) {
		pageInfo {
			hasNextPage
			hasPreviousPage
		}
		edges {
			node {
				src
			}
		}
	}

	metafields(identifiers: [
		{ namespace: "pdp_extras", key: "pdp_swatch_name" },
		{ namespace: "pdp_extras", key: "pdp_swatch_products" },
		{ namespace: "pdp_extras", key: "pdp_swatch_hex" },
		{ namespace: "pdp_extras", key: "pdp_field_details" },
		{ namespace: "pdp_extras", key: "pdp_similar_products" }
	]) {
		key
		value
	}

	media(first: 5) {
		edges {
			node {
				alt
				mediaContentType
				... on Video {
					id
					sources {
						format
						height
						mimeType
						url
						width
					}
				}
			}
		}
	}

	variants(first: 40) {
		pageInfo {
			hasNextPage
			hasPreviousPage
		}
		edges {
			node {
				id
				availableForSale
				compareAtPrice {
					amount
				}
				price {
					amount
				}
				title
				image {
					src
				}
				selectedOptions {
					value
					name
				}
				swatch_color: metafield(namespace: "pdp_extras", key: "swatch_color") {
					value
				}
			}
		}
	}
`

// ProductQuery renders a single-product-by-handle request.
func (b *QueryBuilder) ProductQuery(handle string) string {
	return fmt.Sprintf(`{ product: productByHandle(handle: %q) {%s} }`, handle, productFragment)
}

// ProductsByHandlesQuery renders a batched multi-product request. Each handle
// gets its own aliased top-level field because the query language forbids
// duplicate field names at one level.
func (b *QueryBuilder) ProductsByHandlesQuery(handles []string) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, handle := range handles {
		fmt.Fprintf(&sb, "%s: productByHandle(handle: %q) {%s}\n", b.alias(handle), handle, productFragment)
	}
	sb.WriteString("}")
	return sb.String()
}

// CollectionQuery renders one page of a collection's product handles.
// Collection scalar fields are only requested on the first page (no cursor).
func (b *QueryBuilder) CollectionQuery(handle string, limit int, cursor string) string {
	collectionInfo := ""
	if cursor == "" {
		collectionInfo = collectionFields
	}
	after := ""
	if cursor != "" {
		after = fmt.Sprintf(", after: %q", cursor)
	}
	return fmt.Sprintf(`{ collectionByHandle(handle: %q) {
		%s
		products(first: %d%s, sortKey: MANUAL) {
			pageInfo {
				hasNextPage
				hasPreviousPage
			}
			edges {
				cursor
				node {
					handle
				}
			}
		}
	} }`, handle, collectionInfo, limit, after)
}

const collectionFields = `
		title
		description
		image {
			src
		}
`

// SearchQuery renders a free-text product search page.
func (b *QueryBuilder) SearchQuery(query string, pageSize int, cursor string) string {
	after := ""
	if cursor != "" {
		after = fmt.Sprintf(", after: %q", cursor)
	}
	return fmt.Sprintf(`{ products(query: %q, first: %d%s) {
		pageInfo {
			hasNextPage
			hasPreviousPage
		}
		edges {
			cursor
			node {%s}
		}
	} }`, query, pageSize, after, productFragment)
}

var aliasStripPattern = regexp.MustCompile(`-|[0-9]`)

// alias derives a unique field alias from a handle by stripping digits and
// hyphens and appending the next counter value. The counter makes aliases
// unique by construction, even for handles that strip to the same prefix.
func (b *QueryBuilder) alias(handle string) string {
	return fmt.Sprintf("%s_%d", aliasStripPattern.ReplaceAllString(handle, ""), b.aliasSeq.Add(1))
}
