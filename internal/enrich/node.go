package enrich

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Olivier-cousineau/econodeal/internal/scraper/listing"
)

// docNode adapts a parsed detail page to the listing.Node view, so the same
// selector fallback chains drive both the live listing grid and the static
// detail HTML.
type docNode struct {
	sel *goquery.Selection
}

func newDocNode(doc *goquery.Document) docNode {
	return docNode{sel: doc.Selection}
}

func (n docNode) Text(selector string) string {
	if selector == "" {
		return strings.TrimSpace(n.sel.Text())
	}
	return strings.TrimSpace(n.sel.Find(selector).First().Text())
}

func (n docNode) Attr(selector, name string) string {
	v, _ := n.sel.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func (n docNode) Texts(selector string) []string {
	var out []string
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func (n docNode) Has(selector string) bool {
	return n.sel.Find(selector).Length() > 0
}

var _ listing.Node = docNode{}
