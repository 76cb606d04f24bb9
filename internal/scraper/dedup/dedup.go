// Package dedup tracks product identity keys within a single scrape run.
//
// Retailer pagination occasionally re-renders a page it already served, so
// the same card can be observed twice. Strong keys (URL, product id, SKU) are
// tracked across the whole run. Weak composite keys can collide between
// genuinely different products, so they are only trusted within one page.
package dedup

// Tracker is a run-scoped set of identity keys. It is not safe for
// concurrent use; each store run owns its own tracker.
type Tracker struct {
	strong map[string]struct{}
	weak   map[string]struct{}
}

func New() *Tracker {
	return &Tracker{
		strong: make(map[string]struct{}),
		weak:   make(map[string]struct{}),
	}
}

// Seen reports whether key was already marked. Weak keys only match within
// the current page (see NextPage).
func (t *Tracker) Seen(key string, weak bool) bool {
	if weak {
		_, ok := t.weak[key]
		return ok
	}
	_, ok := t.strong[key]
	return ok
}

// Mark records key as observed.
func (t *Tracker) Mark(key string, weak bool) {
	if weak {
		t.weak[key] = struct{}{}
		return
	}
	t.strong[key] = struct{}{}
}

// NextPage resets the weak-key scope. Called by the assembler between pages
// so fallback keys cannot cause false cross-page positives.
func (t *Tracker) NextPage() {
	t.weak = make(map[string]struct{})
}

// Len returns the number of strong keys marked so far.
func (t *Tracker) Len() int {
	return len(t.strong)
}
