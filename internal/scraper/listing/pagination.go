package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/models"
)

// HardPageCeiling caps a run regardless of configuration. No Canadian Tire
// clearance listing has ever been this deep; anything beyond it is a looping
// pagination control.
const HardPageCeiling = 50

// Outcome is how a pagination walk ended.
type Outcome int

const (
	// OutcomeCompleted: no further pagination control, or the page budget
	// was reached.
	OutcomeCompleted Outcome = iota
	// OutcomeStalled: the listing stopped advancing; whatever was visited
	// before the stall is still valid.
	OutcomeStalled
	// OutcomeFailed: the listing never loaded.
	OutcomeFailed
)

// PagerConfig bounds every wait in the loop. Zero values pick the defaults
// below; unbounded waits are never allowed.
type PagerConfig struct {
	MaxPages       int
	NavRetries     int
	NavTimeout     time.Duration
	NavBackoff     time.Duration
	StableTimeout  time.Duration
	AdvanceTimeout time.Duration
	MaxStalls      int
}

func (c PagerConfig) withDefaults() PagerConfig {
	if c.MaxPages <= 0 || c.MaxPages > HardPageCeiling {
		c.MaxPages = HardPageCeiling
	}
	if c.NavRetries <= 0 {
		c.NavRetries = 3
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 40 * time.Second
	}
	if c.NavBackoff <= 0 {
		c.NavBackoff = 2 * time.Second
	}
	if c.StableTimeout <= 0 {
		c.StableTimeout = 10 * time.Second
	}
	if c.AdvanceTimeout <= 0 {
		c.AdvanceTimeout = 10 * time.Second
	}
	if c.MaxStalls <= 0 {
		c.MaxStalls = 2
	}
	return c
}

// VisitFunc receives the settled cards of one listing page. It must not
// retain the nodes past the call.
type VisitFunc func(page int, cards []Node)

type pagerState int

const (
	stateLoadPage pagerState = iota
	stateWaitStable
	stateExtract
	stateAdvance
	stateDone
	stateStalled
)

// Pager walks a multi-page listing: load, wait for the DOM to settle, hand
// the cards to the visitor, advance, and detect advances that silently went
// nowhere by comparing the first card's identity key before and after.
type Pager struct {
	drv     Driver
	profile Profile
	cfg     PagerConfig
	log     *logrus.Entry
}

func NewPager(drv Driver, profile Profile, cfg PagerConfig, log *logrus.Entry) *Pager {
	return &Pager{drv: drv, profile: profile, cfg: cfg.withDefaults(), log: log}
}

// Run drives the listing from startURL until the page budget, the end of the
// listing, or a confirmed stall. A navigation failure on the first page is
// the only fatal error; a stall returns OutcomeStalled with
// ErrPaginationStalled and the caller keeps partial results.
func (p *Pager) Run(ctx context.Context, startURL string, visit VisitFunc) (Outcome, error) {
	var (
		st      = stateLoadPage
		visited int
		prevSig string
		cards   []Node
		stalls  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return OutcomeStalled, err
		}

		switch st {
		case stateLoadPage:
			if err := p.loadListing(ctx, startURL); err != nil {
				return OutcomeFailed, fmt.Errorf("%w: %s: %v", models.ErrNavigation, startURL, err)
			}
			st = stateWaitStable

		case stateWaitStable:
			p.waitStable(ctx)
			st = stateExtract

		case stateExtract:
			var err error
			cards, err = p.drv.Cards(p.profile.Card)
			if err != nil {
				p.log.WithError(err).Warn("could not enumerate product cards")
			}
			sig := p.signature(cards)

			if visited > 0 && sig != "" && sig == prevSig {
				// The advance did not change the listing. One corrective
				// pass: back to the top, let the DOM settle, look again.
				_ = p.drv.ScrollTop()
				p.waitStable(ctx)
				cards, _ = p.drv.Cards(p.profile.Card)
				sig = p.signature(cards)
			}
			if visited > 0 && sig != "" && sig == prevSig {
				stalls++
				p.log.WithFields(logrus.Fields{"stalls": stalls, "page": visited + 1}).
					Warn("pagination stall confirmed")
				if stalls >= p.cfg.MaxStalls {
					st = stateStalled
					continue
				}
				// Try the next control once more before giving up.
				st = stateAdvance
				continue
			}

			visit(visited+1, cards)
			prevSig = sig
			visited++
			if visited >= p.cfg.MaxPages {
				st = stateDone
				continue
			}
			st = stateAdvance

		case stateAdvance:
			if !p.advance(visited + 1) {
				st = stateDone
				continue
			}
			st = stateWaitStable

		case stateDone:
			return OutcomeCompleted, nil

		case stateStalled:
			return OutcomeStalled, models.ErrPaginationStalled
		}
	}
}

// loadListing navigates to the listing with bounded retries and waits for
// the listing container to appear.
func (p *Pager) loadListing(ctx context.Context, url string) error {
	var err error
	for attempt := 1; attempt <= p.cfg.NavRetries; attempt++ {
		err = p.drv.Navigate(ctx, url, p.cfg.NavTimeout)
		if err == nil {
			if werr := p.drv.WaitVisible(ctx, p.profile.Container, p.cfg.NavTimeout); werr == nil {
				return nil
			} else {
				err = werr
			}
		}
		p.log.WithError(err).WithField("attempt", attempt).Warn("listing navigation failed")
		if attempt < p.cfg.NavRetries {
			select {
			case <-time.After(time.Duration(attempt) * p.cfg.NavBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

// waitStable scrolls through the page so lazy-loaded cards render, then
// gives the DOM a bounded chance to finish rendering prices. Timing out here
// is not an error; the page proceeds with partial data.
func (p *Pager) waitStable(ctx context.Context) {
	if err := p.drv.ScrollBottom(); err != nil {
		p.log.WithError(err).Debug("scroll failed")
	}
	p.drv.Idle(p.cfg.StableTimeout)
	if p.profile.PriceHint == "" {
		return
	}
	if err := p.drv.WaitVisible(ctx, p.profile.PriceHint, p.cfg.StableTimeout); err != nil {
		p.log.WithError(err).Debug("no price element before timeout, continuing with partial data")
	}
}

// signature is the identity key of the first card, used to tell a real page
// advance from a stalled one.
func (p *Pager) signature(cards []Node) string {
	if len(cards) == 0 {
		return ""
	}
	key, _ := IdentityKey(Extract(cards[0], p.profile.Fields))
	return key
}

// advance locates a pagination control through the ordered fallbacks and
// clicks it. Returns false when the listing exposes nothing further.
func (p *Pager) advance(target int) bool {
	pg := p.profile.Pagination

	if pg.LoadMore != "" && p.drv.Has(pg.LoadMore) {
		if err := p.drv.Click(pg.LoadMore, p.cfg.AdvanceTimeout); err == nil {
			return true
		} else {
			p.log.WithError(err).Warn("load-more click failed")
		}
	}

	if pg.PageLink != "" {
		sel := fmt.Sprintf(pg.PageLink, target)
		if p.drv.Has(sel) {
			if err := p.drv.Click(sel, p.cfg.AdvanceTimeout); err == nil {
				return true
			} else {
				p.log.WithError(err).WithField("page", target).Warn("page link click failed")
			}
		}
	}

	for _, sel := range pg.Next {
		if !p.drv.Has(sel) {
			continue
		}
		if err := p.drv.Click(sel, p.cfg.AdvanceTimeout); err == nil {
			return true
		}
	}
	return false
}
