package storefront

import (
	"github.com/shopfront/backend/internal/domain"
)

// unwrapPage normalizes the edge/node envelope into a flat page. A missing
// pageInfo is not an error; it means a single, complete page. The cursor is
// the last edge's cursor and only meaningful while another page exists.
func unwrapPage[T any](conn connection[T]) page[T] {
	hasNextPage := conn.PageInfo != nil && conn.PageInfo.HasNextPage

	cursor := ""
	if hasNextPage && len(conn.Edges) > 0 {
		cursor = conn.Edges[len(conn.Edges)-1].Cursor
	}

	content := make([]T, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		content = append(content, e.Node)
	}

	return page[T]{
		HasNextPage: hasNextPage,
		Cursor:      cursor,
		Content:     content,
	}
}

// flattenMetafields maps a metafield list into key/value form. Null slots
// (identifiers the product doesn't carry) are skipped, never an error; on a
// duplicate key the last write wins.
func flattenMetafields(list []*metafieldRaw) map[string]string {
	fields := make(map[string]string)
	for _, mf := range list {
		if mf == nil {
			continue
		}
		fields[mf.Key] = mf.Value
	}
	return fields
}

// normalizeProduct assembles a domain product from a raw node, expanding the
// nested image/variant/media envelopes and flattening metafields. A nil raw
// product (entity missing upstream, or a null slot in a batched response)
// normalizes to nil, the stale marker callers filter out before merging.
func normalizeProduct(raw *productRaw, sortWeight *int) *domain.Product {
	if raw == nil {
		return nil
	}

	images := unwrapPage(raw.Images)
	imageSrcs := make([]string, 0, len(images.Content))
	for _, img := range images.Content {
		imageSrcs = append(imageSrcs, img.Src)
	}

	variants := unwrapPage(raw.Variants)
	mapped := make([]domain.Variant, 0, len(variants.Content))
	for _, v := range variants.Content {
		mapped = append(mapped, normalizeVariant(v))
	}

	media := unwrapPage(raw.Media)
	mediaEntries := make([]domain.Media, 0, len(media.Content))
	for _, m := range media.Content {
		mediaEntries = append(mediaEntries, domain.Media{
			Alt:              m.Alt,
			MediaContentType: m.MediaContentType,
			Sources:          normalizeMediaSources(m.Sources),
		})
	}

	return &domain.Product{
		ID:               raw.ID,
		Handle:           raw.Handle,
		Title:            raw.Title,
		Description:      raw.Description,
		DescriptionHTML:  raw.DescriptionHTML,
		ProductType:      raw.ProductType,
		Tags:             raw.Tags,
		AvailableForSale: raw.AvailableForSale,
		Images:           imageSrcs,
		Variants:         mapped,
		Media:            mediaEntries,
		Metafields:       flattenMetafields(raw.Metafields),
		ManualSortWeight: sortWeight,
		LoadingState:     domain.StateLoaded,
	}
}

func normalizeVariant(v variantRaw) domain.Variant {
	variant := domain.Variant{
		ID:               v.ID,
		Title:            v.Title,
		AvailableForSale: v.AvailableForSale,
		Price:            v.Price.Amount,
	}
	if v.CompareAtPrice != nil {
		amount := v.CompareAtPrice.Amount
		variant.CompareAtPrice = &amount
	}
	if v.Image != nil {
		variant.ImageSrc = v.Image.Src
	}
	for _, opt := range v.SelectedOptions {
		variant.SelectedOptions = append(variant.SelectedOptions, domain.SelectedOption(opt))
	}
	if v.SwatchColor != nil {
		variant.SwatchColor = v.SwatchColor.Value
	}
	return variant
}

func normalizeMediaSources(sources []mediaSourceRaw) []domain.MediaSource {
	if len(sources) == 0 {
		return nil
	}
	mapped := make([]domain.MediaSource, 0, len(sources))
	for _, s := range sources {
		mapped = append(mapped, domain.MediaSource(s))
	}
	return mapped
}
