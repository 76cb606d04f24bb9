// Package enrich runs the optional detail-page pass: for each collected
// product it fetches the product page over plain HTTP and fills in fields
// the listing grid truncated or omitted. Detail pages are independent,
// read-only fetches, so unlike the sequential listing walk they are fetched
// in parallel up to a bounded concurrency.
package enrich

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/listing"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/normalize"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Config bounds the enrichment pass.
type Config struct {
	Parallelism int
	// RequestsPerSecond throttles detail fetches against the retailer.
	RequestsPerSecond float64
	Timeout           time.Duration
}

func (c Config) withDefaults() Config {
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 2
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	return c
}

// Fetcher fetches and parses product detail pages for one store profile.
type Fetcher struct {
	profile listing.Profile
	cfg     Config
	log     *logrus.Entry
}

func NewFetcher(profile listing.Profile, cfg Config, log *logrus.Entry) *Fetcher {
	return &Fetcher{profile: profile, cfg: cfg.withDefaults(), log: log}
}

// Enrich updates records in place with non-empty overrides from their detail
// pages. Failures never propagate: a product that cannot be enriched keeps
// its listing-page values. Records without a product URL are left untouched.
func (f *Fetcher) Enrich(ctx context.Context, records []models.ProductRecord) {
	if len(f.profile.Detail.Title) == 0 && len(f.profile.Detail.SalePrice) == 0 &&
		len(f.profile.Detail.SKU) == 0 && len(f.profile.Detail.Availability) == 0 {
		return
	}

	byURL := make(map[string]int, len(records))
	for i, rec := range records {
		if rec.ProductURL != "" {
			byURL[rec.ProductURL] = i
		}
	}
	if len(byURL) == 0 {
		return
	}

	limiter := rate.NewLimiter(rate.Limit(f.cfg.RequestsPerSecond), 1)

	c := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(defaultUserAgent),
	)
	c.SetRequestTimeout(f.cfg.Timeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: f.cfg.Parallelism}); err != nil {
		f.log.WithError(err).Warn("could not set enrichment limit rule")
	}

	var mu sync.Mutex

	c.OnRequest(func(r *colly.Request) {
		if err := limiter.Wait(ctx); err != nil {
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			f.log.WithError(err).WithField("url", r.Request.URL.String()).
				Warn("detail page did not parse")
			return
		}
		raw := listing.Extract(newDocNode(doc), f.profile.Detail)

		mu.Lock()
		defer mu.Unlock()
		idx, ok := byURL[r.Request.URL.String()]
		if !ok {
			return
		}
		f.apply(&records[idx], raw)
	})

	c.OnError(func(r *colly.Response, err error) {
		f.log.WithError(err).WithField("url", r.Request.URL.String()).
			Debug("detail fetch failed, keeping listing values")
	})

	for url := range byURL {
		if ctx.Err() != nil {
			break
		}
		if err := c.Visit(url); err != nil {
			f.log.WithError(err).WithField("url", url).Debug("detail visit rejected")
		}
	}
	c.Wait()
}

// apply copies non-empty detail fields over the listing values.
func (f *Fetcher) apply(rec *models.ProductRecord, raw listing.RawCard) {
	if raw.Title != "" {
		rec.Title = raw.Title
	}
	if raw.SKU != "" {
		rec.SKU = raw.SKU
	}
	if raw.Availability != "" {
		rec.Availability = raw.Availability
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
		} else {
			rec.DiscountPercent = nil
		}
	}
}
