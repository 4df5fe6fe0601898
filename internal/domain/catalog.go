package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LoadingState tracks how much of a product we know about. States only ever
// advance; a Loaded product is never downgraded by a later placeholder push.
type LoadingState int

const (
	StateNotLoaded LoadingState = iota
	StatePlaceholder
	StateLoading
	StateLoaded
)

// String returns a readable name for API responses and logs.
func (s LoadingState) String() string {
	switch s {
	case StatePlaceholder:
		return "placeholder"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "not_loaded"
	}
}

// MarshalJSON encodes the state as its readable name.
func (s LoadingState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a state from its readable name.
func (s *LoadingState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "not_loaded":
		*s = StateNotLoaded
	case "placeholder":
		*s = StatePlaceholder
	case "loading":
		*s = StateLoading
	case "loaded":
		*s = StateLoaded
	default:
		return fmt.Errorf("unknown loading state %q", name)
	}
	return nil
}

// Product is a normalized storefront product keyed by handle.
type Product struct {
	ID               string            `json:"id,omitempty"`
	Handle           string            `json:"handle"`
	Title            string            `json:"title,omitempty"`
	Description      string            `json:"description,omitempty"`
	DescriptionHTML  string            `json:"descriptionHtml,omitempty"`
	ProductType      string            `json:"productType,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	AvailableForSale bool              `json:"availableForSale"`
	Images           []string          `json:"images,omitempty"`
	Variants         []Variant         `json:"variants,omitempty"`
	Media            []Media           `json:"media,omitempty"`
	Metafields       map[string]string `json:"metafields,omitempty"`
	ManualSortWeight *int              `json:"manualSortWeight,omitempty"`
	LoadingState     LoadingState      `json:"loadingState"`
}

// HasDetail reports whether the product carries a full detail payload, as
// opposed to being a bare handle known only from a menu or collection page.
func (p *Product) HasDetail() bool {
	return p != nil && p.LoadingState == StateLoaded
}

// AvailableOrRestocking reports whether any variant is purchasable or the
// product is tagged as restocking. Used to filter search results.
func (p *Product) AvailableOrRestocking() bool {
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return true
		}
	}
	for _, tag := range p.Tags {
		if tag == "restocking" {
			return true
		}
	}
	return false
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title,omitempty"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            decimal.Decimal  `json:"price"`
	CompareAtPrice   *decimal.Decimal `json:"compareAtPrice,omitempty"`
	ImageSrc         string           `json:"imageSrc,omitempty"`
	SelectedOptions  []SelectedOption `json:"selectedOptions,omitempty"`
	SwatchColor      string           `json:"swatchColor,omitempty"`
}

// SelectedOption is a name/value pair identifying a variant dimension.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Media is an image or video attachment on a product. Sources is populated
// for video entries only.
type Media struct {
	Alt              string        `json:"alt,omitempty"`
	MediaContentType string        `json:"mediaContentType"`
	Sources          []MediaSource `json:"sources,omitempty"`
}

// MediaSource describes one encoding of a video media entry.
type MediaSource struct {
	Format   string `json:"format"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
}

// Collection is a named, ordered list of product handles. Products preserves
// API sort order and is append-only across pages.
type Collection struct {
	Handle          string   `json:"handle"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	ImageSrc        string   `json:"imageSrc,omitempty"`
	Products        []string `json:"products"`
	NextCursor      string   `json:"-"`
	FullyLoaded     bool     `json:"fullyLoaded"`
	PartiallyLoaded bool     `json:"partiallyLoaded"`
}

// CollectionPage is one page of a paginated collection fetch. Title,
// Description and ImageSrc are only populated on the first page.
type CollectionPage struct {
	Title       string
	Description string
	ImageSrc    string
	Products    []*Product
	NextCursor  string
}

// ProductPage is one page of a free-text product search.
type ProductPage struct {
	Products   []*Product `json:"products"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// Metafield keys carrying comma-separated cross-reference handle lists.
const (
	MetafieldSwatchProducts  = "pdp_swatch_products"
	MetafieldSimilarProducts = "pdp_similar_products"
)
