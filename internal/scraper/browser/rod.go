// Package browser implements the listing.Driver capability set on top of a
// headless Chromium session driven by go-rod.
package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/scraper/listing"
)

// Launch starts a Chromium instance. Each scrape worker launches its own so
// no browser state is shared between stores.
func Launch(headless bool) (*rod.Browser, error) {
	u, err := launcher.New().Headless(headless).Launch()
	if err != nil {
		return nil, err
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, err
	}
	return b, nil
}

// RodDriver drives one stealth page. Retailer listings fingerprint headless
// sessions aggressively, hence the stealth patches.
type RodDriver struct {
	page *rod.Page
	log  *logrus.Entry
}

var _ listing.Driver = (*RodDriver)(nil)

func NewRodDriver(b *rod.Browser, log *logrus.Entry) (*RodDriver, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, err
	}
	return &RodDriver{page: page, log: log}, nil
}

// Close releases the underlying page. The browser itself belongs to the
// worker that launched it.
func (d *RodDriver) Close() {
	_ = d.page.Close()
}

func (d *RodDriver) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p := d.page.Context(ctx).Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (d *RodDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := d.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (d *RodDriver) Cards(selector string) ([]listing.Node, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	nodes := make([]listing.Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, rodNode{el: el})
	}
	return nodes, nil
}

func (d *RodDriver) Has(selector string) bool {
	has, _, err := d.page.Has(selector)
	return err == nil && has
}

func (d *RodDriver) Click(selector string, timeout time.Duration) error {
	el, err := d.page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	_ = el.ScrollIntoView()
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (d *RodDriver) ScrollTop() error {
	_, err := d.page.Eval(`() => window.scrollTo(0, 0)`)
	return err
}

// ScrollBottom scrolls down in small randomized steps so lazy-loading
// triggers actually fire; a single jump to the bottom skips them.
func (d *RodDriver) ScrollBottom() error {
	for i := 0; i < 10; i++ {
		atBottom, err := d.page.Eval(`() => window.innerHeight + window.pageYOffset >= document.body.scrollHeight - 10`)
		if err != nil {
			return err
		}
		if atBottom.Value.Bool() {
			break
		}
		if _, err := d.page.Eval(`() => window.scrollBy(0, window.innerHeight * 0.5)`); err != nil {
			return err
		}
		time.Sleep(time.Duration(100+rand.Intn(150)) * time.Millisecond)
	}
	// Wiggle at the bottom so trailing triggers fire too.
	_, _ = d.page.Eval(`() => window.scrollBy(0, -200)`)
	time.Sleep(200 * time.Millisecond)
	_, _ = d.page.Eval(`() => window.scrollBy(0, 400)`)
	return nil
}

func (d *RodDriver) Idle(timeout time.Duration) {
	if err := d.page.Timeout(timeout).WaitStable(500 * time.Millisecond); err != nil {
		d.log.WithError(err).Debug("page did not stabilize before timeout")
	}
}

// rodNode adapts one card element to the read-only Node view. Lookups use
// the not-found sleeper: a missing descendant returns immediately instead of
// polling, since fallback chains probe many selectors that will not exist.
type rodNode struct {
	el *rod.Element
}

func (n rodNode) Text(selector string) string {
	el := n.el
	if selector != "" {
		found, err := n.el.Sleeper(rod.NotFoundSleeper).Element(selector)
		if err != nil {
			return ""
		}
		el = found
	}
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (n rodNode) Attr(selector, name string) string {
	el := n.el
	if selector != "" {
		found, err := n.el.Sleeper(rod.NotFoundSleeper).Element(selector)
		if err != nil {
			return ""
		}
		el = found
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (n rodNode) Texts(selector string) []string {
	els, err := n.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		if text, err := el.Text(); err == nil && text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (n rodNode) Has(selector string) bool {
	has, _, err := n.el.Has(selector)
	return err == nil && has
}
