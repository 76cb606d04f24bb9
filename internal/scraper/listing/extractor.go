package listing

import (
	"github.com/Olivier-cousineau/econodeal/internal/scraper/normalize"
)

// Rule is one step of a selector fallback chain. An empty Attr reads the
// element's text; otherwise the named attribute is read.
type Rule struct {
	Selector string
	Attr     string
}

// FieldRules holds the ordered fallback chains for every card field. Chains
// are evaluated front to back and the first non-empty match wins, which lets
// one profile survive incremental retailer redesigns.
type FieldRules struct {
	Title        []Rule
	Image        []Rule
	Link         []Rule
	SalePrice    []Rule
	RegularPrice []Rule
	SKU          []Rule
	ProductID    []Rule
	Availability []Rule
	Badges       []Rule
}

// RawCard is the unnormalized field bag pulled from one product tile.
// Missing fields are empty strings; extraction never fails.
type RawCard struct {
	Title        string
	Image        string
	Link         string
	SaleText     string
	RegularText  string
	SKU          string
	ProductID    string
	Availability string
	Badges       []string
}

// Empty reports whether nothing at all was extracted from the node.
func (c RawCard) Empty() bool {
	return c.Title == "" && c.Image == "" && c.Link == "" &&
		c.SaleText == "" && c.RegularText == "" && c.SKU == "" &&
		c.ProductID == "" && len(c.Badges) == 0
}

// Extract reads one product card through the profile's fallback chains.
// It is a pure read: no DOM mutation, no errors.
func Extract(n Node, rules FieldRules) RawCard {
	card := RawCard{
		Title:        firstMatch(n, rules.Title),
		Image:        firstMatch(n, rules.Image),
		Link:         firstMatch(n, rules.Link),
		SaleText:     firstMatch(n, rules.SalePrice),
		RegularText:  firstMatch(n, rules.RegularPrice),
		SKU:          firstMatch(n, rules.SKU),
		ProductID:    firstMatch(n, rules.ProductID),
		Availability: firstMatch(n, rules.Availability),
	}
	for _, r := range rules.Badges {
		for _, badge := range n.Texts(r.Selector) {
			if badge = normalize.CleanText(badge); badge != "" {
				card.Badges = append(card.Badges, badge)
			}
		}
		if len(card.Badges) > 0 {
			break
		}
	}
	return card
}

func firstMatch(n Node, chain []Rule) string {
	for _, r := range chain {
		var v string
		if r.Attr == "" {
			v = n.Text(r.Selector)
		} else {
			v = n.Attr(r.Selector, r.Attr)
		}
		if v = normalize.CleanText(v); v != "" {
			return v
		}
	}
	return ""
}
