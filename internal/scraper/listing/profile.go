package listing

// PaginationControls lists the "next" mechanisms a retailer page exposes,
// tried in order: an explicit load-more button, a numbered page link, a next
// arrow. A site usually has one of them; the fallbacks absorb redesigns.
type PaginationControls struct {
	// LoadMore is the selector of an explicit "load more" / "voir plus"
	// button, when the listing appends in place.
	LoadMore string

	// PageLink is a printf template for the link of a specific page number,
	// e.g. "a[data-page='%d']".
	PageLink string

	// Next holds selector fallbacks for a next arrow/button.
	Next []string
}

// Profile bundles everything that is retailer-specific: where the cards
// live, how fields are read out of them and how the listing advances. The
// pagination loop itself is store-agnostic.
type Profile struct {
	StoreID string
	Name    string

	// StartURL is the clearance/liquidation listing entry point.
	StartURL string

	// Container is the selector the page-load wait targets.
	Container string

	// Card selects one product tile inside the container.
	Card string

	// PriceHint is a price-bearing selector used to decide the page has
	// settled. JS-rendered prices lag DOM insertion, so its absence after a
	// bounded wait is tolerated.
	PriceHint string

	// Fields are the listing-card fallback chains.
	Fields FieldRules

	// Detail are the fallback chains used against a product detail page by
	// the enrichment pass. Optional.
	Detail FieldRules

	Pagination PaginationControls
}
