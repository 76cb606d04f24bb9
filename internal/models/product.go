package models

import "time"

// ProductRecord is one normalized clearance listing entry, as published in the
// per-store JSON files.
type ProductRecord struct {
	Title           string    `json:"title"`
	ImageURL        string    `json:"imageUrl"`
	ProductURL      string    `json:"productUrl"`
	SalePrice       *float64  `json:"salePrice"`
	RegularPrice    *float64  `json:"regularPrice"`
	DiscountPercent *int      `json:"discountPercent"`
	SKU             string    `json:"sku,omitempty"`
	Availability    string    `json:"availability,omitempty"`
	Badges          []string  `json:"badges,omitempty"`
	StoreID         string    `json:"storeId"`
	City            string    `json:"city"`
	ScrapedAt       time.Time `json:"scrapedAt"`
}

// Retainable reports whether the record carries enough data to publish.
// A record needs at least one of title, sale price or image.
func (p ProductRecord) Retainable() bool {
	return p.Title != "" || p.SalePrice != nil || p.ImageURL != ""
}

// RunStatus describes how a store run ended.
type RunStatus string

const (
	// RunCompleted means every reachable page was extracted.
	RunCompleted RunStatus = "completed"
	// RunStalledPartial means pagination stalled and the run kept what it had.
	RunStalledPartial RunStatus = "stalled-partial"
	// RunFailed means the first page never loaded; no data was produced.
	RunFailed RunStatus = "failed"
)

// RunResult summarizes a single store scrape.
type RunResult struct {
	RunID      string          `json:"runId"`
	StoreID    string          `json:"storeId"`
	City       string          `json:"city"`
	Status     RunStatus       `json:"status"`
	Pages      int             `json:"pages"`
	Skipped    int             `json:"skipped"`
	Records    []ProductRecord `json:"records"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
}
