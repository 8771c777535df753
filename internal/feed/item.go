package feed

// Availability values as emitted in the feed.
const (
	AvailabilityInStock    = "in stock"
	AvailabilityOutOfStock = "out of stock"
)

// Variant expansion policy.
const (
	VariantModeSplit = "split"
	VariantModeFirst = "first"
)

// Item is one normalized feed entry, derived from a product and (usually) one
// of its variants. Link is assembled at serialization time from the resolved
// storefront host and Handle. An empty Price drops the item from the document.
type Item struct {
	ID           string
	Title        string
	Description  string
	Handle       string
	ImageLink    string
	Price        string
	SalePrice    string
	Availability string
	Brand        string
}
