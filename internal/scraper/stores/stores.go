// Package stores holds one scraping profile per supported retailer. The
// selector fallback chains are ordered from the current site markup to older
// generations of it, so a redesign degrades a field to a fallback instead of
// killing the run.
package stores

import (
	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/listing"
)

// CanadianTire is the flagship profile: the clearance grid loads prices
// through a second JS pass, appends pages in place via a load-more button and
// re-renders already-served tiles, which is exactly what the pagination
// loop's stall detection and dedup exist for.
var CanadianTire = listing.Profile{
	StoreID:   "canadian-tire",
	Name:      "Canadian Tire",
	StartURL:  "https://www.canadiantire.ca/fr/promotions/liquidation.html",
	Container: ".nl-product-grid, .product-grid__list",
	Card:      ".nl-product-card, .product-grid__item",
	PriceHint: ".nl-price--total, .price__value",
	Fields: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: ".nl-product-card__title"},
			{Selector: ".product-card__title"},
			{Selector: "a", Attr: "title"},
		},
		Image: []listing.Rule{
			{Selector: ".nl-product-card__image img", Attr: "src"},
			{Selector: "img", Attr: "data-src"},
			{Selector: "img", Attr: "src"},
		},
		Link: []listing.Rule{
			{Selector: "a.nl-product-card__no-button", Attr: "href"},
			{Selector: "a", Attr: "href"},
		},
		SalePrice: []listing.Rule{
			{Selector: ".nl-price--total"},
			{Selector: ".price__value--sale"},
			{Selector: ".price__value"},
		},
		RegularPrice: []listing.Rule{
			{Selector: ".nl-price--was"},
			{Selector: ".price__value--was"},
			{Selector: "s"},
		},
		SKU: []listing.Rule{
			{Selector: ".nl-product-card__code"},
		},
		ProductID: []listing.Rule{
			{Selector: ".nl-product-card", Attr: "data-product-id"},
			{Selector: "a", Attr: "data-pcode"},
		},
		Availability: []listing.Rule{
			{Selector: ".nl-product-card__availability-message"},
		},
		Badges: []listing.Rule{
			{Selector: ".nl-product-card__badge"},
			{Selector: ".product-card__badge"},
		},
	},
	Detail: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: "h1.nl-product__title"},
			{Selector: "h1"},
		},
		SalePrice: []listing.Rule{
			{Selector: ".nl-price--total"},
		},
		RegularPrice: []listing.Rule{
			{Selector: ".nl-price--was"},
		},
		SKU: []listing.Rule{
			{Selector: ".nl-product__sku-value"},
		},
		Availability: []listing.Rule{
			{Selector: ".nl-product__fulfillment-availability"},
		},
	},
	Pagination: listing.PaginationControls{
		LoadMore: "button.nl-load-more__button",
		PageLink: "a[data-page='%d']",
		Next: []string{
			"a[aria-label='Suivant']",
			"a.pagination__next",
		},
	},
}

// BureauEnGros (Staples Canada, French storefront).
var BureauEnGros = listing.Profile{
	StoreID:   "bureau-en-gros",
	Name:      "Bureau en Gros",
	StartURL:  "https://www.bureauengros.com/collections/economisez-plus-2256",
	Container: ".product-list, .ais-Hits",
	Card:      ".product-thumbnail, .ais-Hits-item",
	PriceHint: ".money, .product-thumbnail__price",
	Fields: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: ".product-thumbnail__title"},
			{Selector: "a.product-link", Attr: "title"},
		},
		Image: []listing.Rule{
			{Selector: "img.product-thumbnail__image", Attr: "src"},
			{Selector: "img", Attr: "src"},
		},
		Link: []listing.Rule{
			{Selector: "a.product-link", Attr: "href"},
			{Selector: "a", Attr: "href"},
		},
		SalePrice: []listing.Rule{
			{Selector: ".product-thumbnail__price .money"},
			{Selector: ".money"},
		},
		RegularPrice: []listing.Rule{
			{Selector: ".product-thumbnail__compare .money"},
			{Selector: "s .money"},
		},
		SKU: []listing.Rule{
			{Selector: ".product-thumbnail", Attr: "data-sku"},
		},
		Availability: []listing.Rule{
			{Selector: ".product-thumbnail__availability"},
		},
		Badges: []listing.Rule{
			{Selector: ".product-thumbnail__badge"},
		},
	},
	Pagination: listing.PaginationControls{
		PageLink: "a.ais-Pagination-link[aria-label='Page %d']",
		Next: []string{
			"a.ais-Pagination-link--next",
			"li.pagination-next a",
		},
	},
}

// BestBuy Canada clearance.
var BestBuy = listing.Profile{
	StoreID:   "best-buy",
	Name:      "Best Buy",
	StartURL:  "https://www.bestbuy.ca/fr-ca/collection/liquidation/16074",
	Container: "div[class^='productsRow'], .product-listing",
	Card:      "div[class^='x-productListItem'], .product-item",
	PriceHint: "span[class^='screenReaderOnly_'], .product-item__price",
	Fields: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: "div[class^='productItemName']"},
			{Selector: ".product-item__name"},
		},
		Image: []listing.Rule{
			{Selector: "img[class^='productItemImage']", Attr: "src"},
			{Selector: "img", Attr: "src"},
		},
		Link: []listing.Rule{
			{Selector: "a[class^='link_']", Attr: "href"},
			{Selector: "a", Attr: "href"},
		},
		SalePrice: []listing.Rule{
			{Selector: "span[class^='price_']"},
			{Selector: ".product-item__price"},
		},
		RegularPrice: []listing.Rule{
			{Selector: "span[class^='productSaving'] + span"},
			{Selector: ".product-item__regular-price"},
		},
		ProductID: []listing.Rule{
			{Selector: "div[class^='x-productListItem']", Attr: "data-sku-id"},
		},
		Availability: []listing.Rule{
			{Selector: "span[class^='availabilityMessage']"},
		},
		Badges: []listing.Rule{
			{Selector: "div[class^='productSaving']"},
		},
	},
	Pagination: listing.PaginationControls{
		LoadMore: "button[aria-label='Afficher plus']",
		Next: []string{
			"a[aria-label='Aller à la page suivante']",
		},
	},
}

// Walmart Canada clearance.
var Walmart = listing.Profile{
	StoreID:   "walmart",
	Name:      "Walmart",
	StartURL:  "https://www.walmart.ca/fr/cp/magasiner-liquidation/6000202073686",
	Container: "div[data-testid='item-stack'], .product-grid",
	Card:      "div[data-item-id], .product-tile",
	PriceHint: "div[data-automation-id='product-price'], .price-current",
	Fields: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: "span[data-automation-id='product-title']"},
			{Selector: ".product-title"},
		},
		Image: []listing.Rule{
			{Selector: "img[data-testid='productTileImage']", Attr: "src"},
			{Selector: "img", Attr: "src"},
		},
		Link: []listing.Rule{
			{Selector: "a[link-identifier]", Attr: "href"},
			{Selector: "a", Attr: "href"},
		},
		SalePrice: []listing.Rule{
			{Selector: "div[data-automation-id='product-price'] span:first-child"},
			{Selector: ".price-current"},
		},
		RegularPrice: []listing.Rule{
			{Selector: "div[data-automation-id='product-price'] s"},
			{Selector: ".price-was"},
		},
		ProductID: []listing.Rule{
			{Selector: "div[data-item-id]", Attr: "data-item-id"},
		},
		Availability: []listing.Rule{
			{Selector: "div[data-automation-id='fulfillment-badge']"},
		},
		Badges: []listing.Rule{
			{Selector: "span[data-testid='tag-leading-badge']"},
		},
	},
	Pagination: listing.PaginationControls{
		PageLink: "a[data-testid='page-%d']",
		Next: []string{
			"a[data-testid='NextPage']",
			"a[aria-label='Page suivante']",
		},
	},
}

// SportingLife outlet.
var SportingLife = listing.Profile{
	StoreID:   "sporting-life",
	Name:      "Sporting Life",
	StartURL:  "https://www.sportinglife.ca/fr-CA/solde/",
	Container: ".product-grid, .search-result-content",
	Card:      ".product-tile, .grid-tile",
	PriceHint: ".product-sales-price, .price-sales",
	Fields: listing.FieldRules{
		Title: []listing.Rule{
			{Selector: ".product-tile__name"},
			{Selector: ".product-name a"},
		},
		Image: []listing.Rule{
			{Selector: "img.product-tile__image", Attr: "src"},
			{Selector: "img", Attr: "data-src"},
			{Selector: "img", Attr: "src"},
		},
		Link: []listing.Rule{
			{Selector: "a.product-tile__link", Attr: "href"},
			{Selector: ".product-name a", Attr: "href"},
		},
		SalePrice: []listing.Rule{
			{Selector: ".product-sales-price"},
			{Selector: ".price-sales"},
		},
		RegularPrice: []listing.Rule{
			{Selector: ".product-standard-price"},
			{Selector: ".price-standard"},
		},
		SKU: []listing.Rule{
			{Selector: ".product-tile", Attr: "data-itemid"},
		},
		Badges: []listing.Rule{
			{Selector: ".product-tile__badge"},
		},
	},
	Pagination: listing.PaginationControls{
		LoadMore: "button.load-more-products",
		Next: []string{
			"a.page-next",
			"li.pagination-item--next a",
		},
	},
}

var registry = map[string]listing.Profile{
	CanadianTire.StoreID: CanadianTire,
	BureauEnGros.StoreID: BureauEnGros,
	BestBuy.StoreID:      BestBuy,
	Walmart.StoreID:      Walmart,
	SportingLife.StoreID: SportingLife,
}

// Lookup returns the profile for a store id.
func Lookup(storeID string) (listing.Profile, error) {
	p, ok := registry[storeID]
	if !ok {
		return listing.Profile{}, models.ErrUnknownStore
	}
	return p, nil
}

// IDs lists the supported store ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
