package feed

import (
	"fmt"
	"strconv"
	"strings"

	"feedbridge/internal/services/tiendanube"
)

// Flattener converts raw product records into normalized feed items.
type Flattener struct {
	language string
}

func NewFlattener(language string) *Flattener {
	return &Flattener{language: language}
}

// Flatten expands products into feed items according to the variant mode.
// It is a pure transform: same input, same output.
func (f *Flattener) Flatten(products []tiendanube.Product, variantMode string) []Item {
	items := make([]Item, 0, len(products))

	for i := range products {
		product := &products[i]
		title := product.Name.Resolve(f.language)
		description := product.Description.Resolve(f.language)
		handle := product.Handle.Resolve(f.language)

		if len(product.Variants) == 0 {
			items = append(items, Item{
				ID:           fmt.Sprintf("%d", product.ID),
				Title:        title,
				Description:  description,
				Handle:       handle,
				ImageLink:    firstImage(product),
				Availability: AvailabilityOutOfStock,
			})
			continue
		}

		variants := product.Variants
		if variantMode != VariantModeSplit {
			variants = variants[:1]
		}

		for j := range variants {
			variant := &variants[j]

			item := Item{
				ID:           fmt.Sprintf("%d", product.ID),
				Title:        title,
				Description:  description,
				Handle:       handle,
				ImageLink:    variantImage(product, variant),
				Availability: availability(variant),
			}

			if variantMode == VariantModeSplit {
				item.ID = fmt.Sprintf("%d-%d", product.ID, variant.ID)
				if suffix := variantTitle(variant, f.language); suffix != "" {
					item.Title = title + " - " + suffix
				}
			}

			item.Price, item.SalePrice = resolvePrices(variant)
			items = append(items, item)
		}
	}

	return items
}

// variantTitle returns the variant's display name, or "" when it carries no
// useful distinction ("Default" placeholder variants).
func variantTitle(variant *tiendanube.Variant, language string) string {
	name := strings.TrimSpace(variant.Name.Resolve(language))
	if strings.EqualFold(name, "default") {
		return ""
	}
	return name
}

// resolvePrices returns (price, salePrice). The promotional price is honored
// only when both values are numeric and 0 < promotional < price.
func resolvePrices(variant *tiendanube.Variant) (string, string) {
	if variant.Price == nil || *variant.Price == "" {
		return "", ""
	}
	price := *variant.Price

	if variant.PromotionalPrice == nil || *variant.PromotionalPrice == "" {
		return price, ""
	}

	regular, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return price, ""
	}
	promo, err := strconv.ParseFloat(*variant.PromotionalPrice, 64)
	if err != nil {
		return price, ""
	}

	if promo > 0 && promo < regular {
		return price, *variant.PromotionalPrice
	}
	return price, ""
}

func availability(variant *tiendanube.Variant) string {
	if !variant.StockManagement {
		return AvailabilityInStock
	}
	if variant.Stock != nil && *variant.Stock > 0 {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}

// variantImage picks the variant's own image when its image_id matches one of
// the product's images, else the product's first image, else empty.
func variantImage(product *tiendanube.Product, variant *tiendanube.Variant) string {
	if variant.ImageID != nil {
		for i := range product.Images {
			if product.Images[i].ID == *variant.ImageID {
				return product.Images[i].Src
			}
		}
	}
	return firstImage(product)
}

func firstImage(product *tiendanube.Product) string {
	if len(product.Images) > 0 {
		return product.Images[0].Src
	}
	return ""
}
