package listing

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeNode is an in-memory product card for browser-free tests.
type fakeNode struct {
	text  map[string]string
	attrs map[string]string
	texts map[string][]string
}

func (n *fakeNode) Text(selector string) string { return n.text[selector] }

func (n *fakeNode) Attr(selector, name string) string { return n.attrs[selector+"|"+name] }

func (n *fakeNode) Texts(selector string) []string {
	if v, ok := n.texts[selector]; ok {
		return v
	}
	if t := n.text[selector]; t != "" {
		return []string{t}
	}
	return nil
}

func (n *fakeNode) Has(selector string) bool {
	if _, ok := n.text[selector]; ok {
		return true
	}
	_, ok := n.texts[selector]
	return ok
}

// card builds a well-formed fake product tile.
func card(title, link, sale, regular string) *fakeNode {
	return &fakeNode{
		text: map[string]string{
			".title": title,
			".price": sale,
			".was":   regular,
		},
		attrs: map[string]string{
			"a|href":  link,
			"img|src": "https://cdn.example.ca/" + strings.ToLower(title) + ".jpg",
		},
	}
}

// fakeDriver serves scripted listing pages. Click advances the cursor only
// while it is below advanceLimit, which is how stalled pagination is
// simulated.
type fakeDriver struct {
	pages        [][]Node
	cur          int
	alwaysNext   bool
	advanceLimit int
	navErr       error
	navCalls     int
	clicks       int
}

func (d *fakeDriver) Navigate(_ context.Context, _ string, _ time.Duration) error {
	d.navCalls++
	return d.navErr
}

func (d *fakeDriver) WaitVisible(_ context.Context, _ string, _ time.Duration) error {
	return d.navErr
}

func (d *fakeDriver) Cards(_ string) ([]Node, error) {
	if len(d.pages) == 0 {
		return nil, nil
	}
	return d.pages[d.cur], nil
}

func (d *fakeDriver) Has(selector string) bool {
	if selector != ".next" {
		return false
	}
	return d.alwaysNext || d.cur < len(d.pages)-1
}

func (d *fakeDriver) Click(_ string, _ time.Duration) error {
	d.clicks++
	if d.cur < d.advanceLimit && d.cur < len(d.pages)-1 {
		d.cur++
	}
	return nil
}

func (d *fakeDriver) ScrollTop() error    { return nil }
func (d *fakeDriver) ScrollBottom() error { return nil }

func (d *fakeDriver) Idle(_ time.Duration) {}

var testProfile = Profile{
	StoreID:   "test-store",
	Container: ".grid",
	Card:      ".card",
	PriceHint: ".price",
	Fields: FieldRules{
		Title:        []Rule{{Selector: ".title"}, {Selector: ".name"}},
		Image:        []Rule{{Selector: "img", Attr: "src"}},
		Link:         []Rule{{Selector: "a", Attr: "href"}},
		SalePrice:    []Rule{{Selector: ".price"}},
		RegularPrice: []Rule{{Selector: ".was"}},
		SKU:          []Rule{{Selector: ".sku"}},
		ProductID:    []Rule{{Selector: ".card", Attr: "data-product-id"}},
		Availability: []Rule{{Selector: ".stock"}},
		Badges:       []Rule{{Selector: ".badge"}},
	},
	Pagination: PaginationControls{Next: []string{".next"}},
}

// fastPager keeps retry backoff out of test runtime.
var fastPager = PagerConfig{
	NavBackoff:     time.Millisecond,
	NavTimeout:     time.Second,
	StableTimeout:  time.Millisecond,
	AdvanceTimeout: time.Second,
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("store", "test-store")
}
