package listing

import (
	"context"
	"time"
)

// Driver is the minimal browser capability set the pagination loop is written
// against. The production implementation wraps a headless Chromium session;
// tests use an in-memory fake.
type Driver interface {
	// Navigate loads url and waits for the document load event, bounded by
	// timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitVisible blocks until an element matching selector is rendered, or
	// the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Cards returns every node currently matching selector, in DOM order.
	Cards(selector string) ([]Node, error)

	// Has reports whether at least one element matches selector right now.
	Has(selector string) bool

	// Click locates selector (bounded by timeout), scrolls it into view and
	// clicks it.
	Click(selector string, timeout time.Duration) error

	// ScrollTop and ScrollBottom move the viewport; ScrollBottom is also the
	// lazy-load trigger on infinite-scroll listings.
	ScrollTop() error
	ScrollBottom() error

	// Idle waits for the DOM to stop mutating, bounded by timeout. Returning
	// early is fine; callers always treat the page as best-effort after Idle.
	Idle(timeout time.Duration)
}

// Node is a read-only view of one product card. All lookups are relative to
// the card's subtree. Missing matches yield zero values, never errors: a
// redesigned retailer page degrades to empty fields, not a crashed run.
type Node interface {
	// Text returns the trimmed text of the first descendant matching
	// selector. An empty selector means the node's own text.
	Text(selector string) string

	// Attr returns the named attribute of the first descendant matching
	// selector.
	Attr(selector, name string) string

	// Texts returns the trimmed text of every descendant matching selector.
	Texts(selector string) []string

	// Has reports whether a descendant matches selector.
	Has(selector string) bool
}
