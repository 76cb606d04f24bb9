package listing

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/dedup"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/normalize"
)

// RunConfig is everything one store run needs, passed in explicitly. There
// is no process-wide scraper state.
type RunConfig struct {
	StartURL string
	StoreID  string
	City     string

	// MaxPages bounds the walk; capped at HardPageCeiling.
	MaxPages int

	// MinDiscount drops records below the given percentage. Zero keeps
	// everything. Whether EconoDeal lists only deep cuts is a per-store
	// editorial choice, so it is configuration.
	MinDiscount int

	// PolitenessEvery and PolitenessPause throttle the walk: after every N
	// pages the run sleeps, to stay under the source site's radar.
	PolitenessEvery int
	PolitenessPause time.Duration

	Pager PagerConfig
}

// Assembler orchestrates extraction, normalization and deduplication across
// one store's listing pages. Records keep site-listing order.
type Assembler struct {
	drv     Driver
	profile Profile
	log     *logrus.Entry
}

func NewAssembler(drv Driver, profile Profile, log *logrus.Entry) *Assembler {
	return &Assembler{drv: drv, profile: profile, log: log}
}

// Run walks the listing and returns the deduplicated records plus a run
// status. Only a first-page navigation failure yields RunFailed with no
// data; a stalled pagination returns everything collected so far with
// RunStalledPartial.
func (a *Assembler) Run(ctx context.Context, cfg RunConfig) *models.RunResult {
	result := &models.RunResult{
		StoreID:   cfg.StoreID,
		City:      cfg.City,
		StartedAt: time.Now().UTC(),
	}
	tracker := dedup.New()

	pagerCfg := cfg.Pager
	pagerCfg.MaxPages = cfg.MaxPages

	pager := NewPager(a.drv, a.profile, pagerCfg, a.log)

	outcome, err := pager.Run(ctx, cfg.StartURL, func(page int, cards []Node) {
		tracker.NextPage()
		kept := a.collectPage(page, cards, cfg, tracker, result)
		a.log.WithFields(logrus.Fields{
			"page": page,
			"kept": kept,
		}).Info("listing page extracted")
		result.Pages = page

		if cfg.PolitenessEvery > 0 && page%cfg.PolitenessEvery == 0 && cfg.PolitenessPause > 0 {
			select {
			case <-time.After(cfg.PolitenessPause):
			case <-ctx.Done():
			}
		}
	})

	result.FinishedAt = time.Now().UTC()

	switch {
	case outcome == OutcomeFailed:
		result.Status = models.RunFailed
		result.Records = nil
		a.log.WithError(err).Error("store run failed")
	case outcome == OutcomeStalled:
		result.Status = models.RunStalledPartial
		a.log.WithError(err).WithField("pages", result.Pages).
			Warn("pagination stalled, keeping partial results")
	default:
		result.Status = models.RunCompleted
	}
	return result
}

// collectPage turns the page's cards into retained ProductRecords. A
// malformed card is logged and skipped; it never aborts the run.
func (a *Assembler) collectPage(page int, cards []Node, cfg RunConfig, tracker *dedup.Tracker, result *models.RunResult) int {
	kept := 0
	for _, node := range cards {
		raw := Extract(node, a.profile.Fields)
		if raw.Empty() {
			result.Skipped++
			a.log.WithField("page", page).Warn("skipping unreadable product card")
			continue
		}

		key, weak := IdentityKey(raw)
		if tracker.Seen(key, weak) {
			continue
		}
		tracker.Mark(key, weak)

		rec := a.buildRecord(raw, cfg)
		if !rec.Retainable() {
			result.Skipped++
			a.log.WithFields(logrus.Fields{"page": page, "link": raw.Link}).
				Warn("skipping card with no usable fields")
			continue
		}

		if cfg.MinDiscount > 0 {
			if rec.DiscountPercent == nil || *rec.DiscountPercent < cfg.MinDiscount {
				continue
			}
		}

		result.Records = append(result.Records, rec)
		kept++
	}
	return kept
}

func (a *Assembler) buildRecord(raw RawCard, cfg RunConfig) models.ProductRecord {
	rec := models.ProductRecord{
		Title:        raw.Title,
		ImageURL:     absoluteURL(cfg.StartURL, raw.Image),
		ProductURL:   absoluteURL(cfg.StartURL, raw.Link),
		SKU:          raw.SKU,
		Availability: raw.Availability,
		Badges:       raw.Badges,
		StoreID:      cfg.StoreID,
		City:         cfg.City,
		ScrapedAt:    time.Now().UTC(),
	}

	if sale, ok := normalize.ParsePrice(raw.SaleText); ok {
		rec.SalePrice = &sale
	}
	if regular, ok := normalize.ParsePrice(raw.RegularText); ok {
		rec.RegularPrice = &regular
	}
	if rec.SalePrice != nil && rec.RegularPrice != nil {
		if pct, ok := normalize.DiscountPercent(*rec.RegularPrice, *rec.SalePrice); ok {
			rec.DiscountPercent = &pct
		}
	}
	return rec
}

// absoluteURL resolves card links against the listing URL; retailer grids
// mix absolute and site-relative hrefs.
func absoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
