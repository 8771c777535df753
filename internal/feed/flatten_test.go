package feed

import (
	"reflect"
	"testing"

	"feedbridge/internal/services/tiendanube"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64   { return &i }

func plain(s string) tiendanube.LocalizedString {
	return tiendanube.LocalizedString{Plain: s, IsPlain: true}
}

func TestFlatten_SplitProducesOneItemPerVariant(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   1,
			Name: plain("Shoe"),
			Variants: []tiendanube.Variant{
				{ID: 10, Name: plain("38"), Price: strPtr("50.00")},
				{ID: 11, Name: plain("39"), Price: strPtr("50.00")},
				{ID: 12, Name: plain("40"), Price: strPtr("50.00")},
			},
		},
	}

	items := NewFlattener("es").Flatten(products, VariantModeSplit)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	seen := map[string]bool{}
	for _, item := range items {
		if seen[item.ID] {
			t.Fatalf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = true
	}
	if !seen["1-10"] || !seen["1-11"] || !seen["1-12"] {
		t.Fatalf("unexpected item ids: %v", seen)
	}
	if items[0].Title != "Shoe - 38" {
		t.Fatalf("expected variant title suffix, got %q", items[0].Title)
	}
}

func TestFlatten_FirstModeUsesFirstVariant(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   7,
			Name: plain("Hat"),
			Variants: []tiendanube.Variant{
				{ID: 70, Name: plain("S"), Price: strPtr("10.00")},
				{ID: 71, Name: plain("M"), Price: strPtr("12.00")},
			},
		},
	}

	items := NewFlattener("es").Flatten(products, VariantModeFirst)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "7" {
		t.Fatalf("expected product-level id, got %q", items[0].ID)
	}
	if items[0].Price != "10.00" {
		t.Fatalf("expected first variant price, got %q", items[0].Price)
	}
	if items[0].Title != "Hat" {
		t.Fatalf("first mode must not suffix the title, got %q", items[0].Title)
	}
}

func TestFlatten_DefaultVariantNameGetsNoSuffix(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   2,
			Name: plain("Mug"),
			Variants: []tiendanube.Variant{
				{ID: 20, Name: plain("Default"), Price: strPtr("5.00")},
			},
		},
	}

	items := NewFlattener("es").Flatten(products, VariantModeSplit)
	if items[0].Title != "Mug" {
		t.Fatalf("expected bare title for default variant, got %q", items[0].Title)
	}
	if items[0].ID != "2-20" {
		t.Fatalf("split mode still uses compound ids, got %q", items[0].ID)
	}
}

func TestFlatten_ZeroVariants(t *testing.T) {
	products := []tiendanube.Product{
		{ID: 3, Name: plain("Empty")},
	}

	items := NewFlattener("es").Flatten(products, VariantModeSplit)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "3" {
		t.Fatalf("unexpected id %q", items[0].ID)
	}
	if items[0].Availability != AvailabilityOutOfStock {
		t.Fatalf("zero-variant product must be out of stock, got %q", items[0].Availability)
	}
	if items[0].Price != "" {
		t.Fatalf("zero-variant product must have no price, got %q", items[0].Price)
	}
}

func TestFlatten_PriceAndSalePrice(t *testing.T) {
	tests := []struct {
		name          string
		price         *string
		promo         *string
		wantPrice     string
		wantSalePrice string
	}{
		{"promo below price", strPtr("100.00"), strPtr("80.00"), "100.00", "80.00"},
		{"promo above price", strPtr("100.00"), strPtr("120.00"), "100.00", ""},
		{"promo equals price", strPtr("100.00"), strPtr("100.00"), "100.00", ""},
		{"promo zero", strPtr("100.00"), strPtr("0.00"), "100.00", ""},
		{"no promo", strPtr("100.00"), nil, "100.00", ""},
		{"promo not numeric", strPtr("100.00"), strPtr("abc"), "100.00", ""},
		{"no price", nil, strPtr("80.00"), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := []tiendanube.Product{
				{
					ID:   1,
					Name: plain("P"),
					Variants: []tiendanube.Variant{
						{ID: 10, Price: tt.price, PromotionalPrice: tt.promo},
					},
				},
			}
			items := NewFlattener("es").Flatten(products, VariantModeSplit)
			if items[0].Price != tt.wantPrice {
				t.Fatalf("price: got %q want %q", items[0].Price, tt.wantPrice)
			}
			if items[0].SalePrice != tt.wantSalePrice {
				t.Fatalf("sale price: got %q want %q", items[0].SalePrice, tt.wantSalePrice)
			}
		})
	}
}

func TestFlatten_AvailabilityScenario(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   1,
			Name: plain("Shoe"),
			Variants: []tiendanube.Variant{
				{ID: 10, Price: strPtr("50.00"), StockManagement: true, Stock: intPtr(0)},
				{ID: 11, Price: strPtr("55.00"), StockManagement: false},
			},
		},
	}

	items := NewFlattener("es").Flatten(products, VariantModeSplit)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "1-10" || items[0].Availability != AvailabilityOutOfStock {
		t.Fatalf("stock-managed zero-stock variant: %+v", items[0])
	}
	if items[1].ID != "1-11" || items[1].Availability != AvailabilityInStock {
		t.Fatalf("untracked variant: %+v", items[1])
	}
}

func TestFlatten_ImageSelection(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   1,
			Name: plain("P"),
			Images: []tiendanube.Image{
				{ID: 100, Src: "https://cdn.example/first.jpg"},
				{ID: 101, Src: "https://cdn.example/second.jpg"},
			},
			Variants: []tiendanube.Variant{
				{ID: 10, Price: strPtr("1.00"), ImageID: i64Ptr(101)},
				{ID: 11, Price: strPtr("1.00"), ImageID: i64Ptr(999)},
				{ID: 12, Price: strPtr("1.00")},
			},
		},
	}

	items := NewFlattener("es").Flatten(products, VariantModeSplit)
	if items[0].ImageLink != "https://cdn.example/second.jpg" {
		t.Fatalf("variant image id should win: %q", items[0].ImageLink)
	}
	if items[1].ImageLink != "https://cdn.example/first.jpg" {
		t.Fatalf("unmatched image id falls back to first image: %q", items[1].ImageLink)
	}
	if items[2].ImageLink != "https://cdn.example/first.jpg" {
		t.Fatalf("missing image id falls back to first image: %q", items[2].ImageLink)
	}
}

func TestFlatten_Idempotent(t *testing.T) {
	products := []tiendanube.Product{
		{
			ID:   1,
			Name: plain("Shoe"),
			Variants: []tiendanube.Variant{
				{ID: 10, Name: plain("38"), Price: strPtr("50.00"), PromotionalPrice: strPtr("40.00")},
				{ID: 11, Name: plain("39"), Price: strPtr("50.00")},
			},
		},
	}

	f := NewFlattener("es")
	first := f.Flatten(products, VariantModeSplit)
	second := f.Flatten(products, VariantModeSplit)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("flatten is not idempotent:\n%+v\n%+v", first, second)
	}
}
