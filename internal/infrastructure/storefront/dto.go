package storefront

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wire types for the storefront query API. Paginated fields arrive wrapped in
// the edge/node envelope; unwrapPage strips it.

type pageInfo struct {
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// connection is the raw paginated envelope. PageInfo is a pointer because
// some fields (media) omit it; absence means a single, complete page.
type connection[T any] struct {
	PageInfo *pageInfo `json:"pageInfo"`
	Edges    []edge[T] `json:"edges"`
}

// page is the normalized shape of any paginated response. Cursor identifies
// the last entry and is only set when another page exists.
type page[T any] struct {
	HasNextPage bool
	Cursor      string
	Content     []T
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type imageRaw struct {
	Src string `json:"src"`
}

// metafieldRaw slots come back null for identifiers the product doesn't
// carry, hence the pointer elements in metafield lists.
type metafieldRaw struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type moneyRaw struct {
	Amount decimal.Decimal `json:"amount"`
}

type selectedOptionRaw struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type mediaSourceRaw struct {
	Format   string `json:"format"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
}

type mediaRaw struct {
	Alt              string           `json:"alt"`
	MediaContentType string           `json:"mediaContentType"`
	Sources          []mediaSourceRaw `json:"sources"`
}

type variantRaw struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	AvailableForSale bool                `json:"availableForSale"`
	Price            moneyRaw            `json:"price"`
	CompareAtPrice   *moneyRaw           `json:"compareAtPrice"`
	Image            *imageRaw           `json:"image"`
	SelectedOptions  []selectedOptionRaw `json:"selectedOptions"`
	SwatchColor      *metafieldRaw       `json:"swatch_color"`
}

type productRaw struct {
	ID               string                 `json:"id"`
	Handle           string                 `json:"handle"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	DescriptionHTML  string                 `json:"descriptionHtml"`
	ProductType      string                 `json:"productType"`
	Tags             []string               `json:"tags"`
	AvailableForSale bool                   `json:"availableForSale"`
	Images           connection[imageRaw]   `json:"images"`
	Metafields       []*metafieldRaw        `json:"metafields"`
	Media            connection[mediaRaw]   `json:"media"`
	Variants         connection[variantRaw] `json:"variants"`
}

// handleNodeRaw is the slim node shape requested on collection pages.
type handleNodeRaw struct {
	Handle string `json:"handle"`
}

type collectionRaw struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Image       *imageRaw                 `json:"image"`
	Products    connection[handleNodeRaw] `json:"products"`
}
