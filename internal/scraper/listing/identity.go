package listing

import (
	"net/url"
	"strings"
)

// IdentityKey derives the deduplication key for a card. Strong keys come
// from the product URL (query-stripped, lowercased), the product id or the
// SKU, in that order. When none exist the weak composite of title, raw
// prices and image is used; weak=true tells the tracker to scope it to the
// current page. Two distinct products with identical truncated titles and no
// image can still collide on the weak key; that approximation is accepted.
func IdentityKey(card RawCard) (key string, weak bool) {
	if card.Link != "" {
		return canonicalURL(card.Link), false
	}
	if card.ProductID != "" {
		return "id:" + strings.ToLower(card.ProductID), false
	}
	if card.SKU != "" {
		return "sku:" + strings.ToLower(card.SKU), false
	}
	return strings.ToLower(strings.Join([]string{
		card.Title, card.SaleText, card.RegularText, card.Image,
	}, "|")), true
}

func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.ToLower(u.String())
}
