package feed

import (
	"encoding/json"
	"strings"

	"feedbridge/internal/services/tiendanube"
)

// BrandResolver picks a brand for a product: per-store override, then the
// product's own fields, then a configured default. Empty means the feed omits
// the brand element.
type BrandResolver struct {
	overrides    map[string]string
	defaultBrand string
	language     string
}

func NewBrandResolver(overrides map[string]string, defaultBrand, language string) *BrandResolver {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &BrandResolver{
		overrides:    overrides,
		defaultBrand: defaultBrand,
		language:     language,
	}
}

func (r *BrandResolver) Resolve(storeID string, product *tiendanube.Product) string {
	if brand := strings.TrimSpace(r.overrides[storeID]); brand != "" {
		return brand
	}
	if brand := brandField(product.Brand, r.language); brand != "" {
		return brand
	}
	if brand := strings.TrimSpace(product.Vendor); brand != "" {
		return brand
	}
	if brand := strings.TrimSpace(product.Manufacturer); brand != "" {
		return brand
	}
	if brand := attributeBrand(product.Attributes, r.language); brand != "" {
		return brand
	}
	return strings.TrimSpace(r.defaultBrand)
}

// brandField handles the platform's brand value, which may be a plain string
// or a structured object with a (possibly localized) name.
func brandField(raw json.RawMessage, language string) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var structured struct {
		Name tiendanube.LocalizedString `json:"name"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		return strings.TrimSpace(structured.Name.Resolve(language))
	}

	return ""
}

// attributeBrand probes an attributes/properties bag for a brand-like key.
func attributeBrand(raw json.RawMessage, language string) string {
	if len(raw) == 0 {
		return ""
	}

	var bag map[string]tiendanube.LocalizedString
	if err := json.Unmarshal(raw, &bag); err != nil {
		return ""
	}

	for _, key := range []string{"brand", "Brand", "marca", "Marca"} {
		if value, ok := bag[key]; ok {
			if brand := strings.TrimSpace(value.Resolve(language)); brand != "" {
				return brand
			}
		}
	}
	return ""
}
