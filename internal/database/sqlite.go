// Package database archives finished scrape runs in SQLite. The per-store
// JSON documents are what the site consumes; the archive exists so run
// history and record counts survive across runs and can be served by the
// API.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no cgo in the scrape containers

	"github.com/Olivier-cousineau/econodeal/internal/models"
)

// Repository wraps the archive connection.
type Repository struct {
	DB *sql.DB
}

// Open initializes the archive database and its tables.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging archive: %w", err)
	}

	createRunsSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		"run_id" TEXT NOT NULL PRIMARY KEY,
		"store_id" TEXT NOT NULL,
		"city" TEXT NOT NULL,
		"status" TEXT NOT NULL,
		"pages" INTEGER,
		"skipped" INTEGER,
		"record_count" INTEGER,
		"started_at" DATETIME,
		"finished_at" DATETIME
	);`
	if _, err := db.Exec(createRunsSQL); err != nil {
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	createRecordsSQL := `
	CREATE TABLE IF NOT EXISTS records (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"run_id" TEXT NOT NULL,
		"store_id" TEXT,
		"city" TEXT,
		"title" TEXT,
		"product_url" TEXT,
		"image_url" TEXT,
		"sale_price" REAL,
		"regular_price" REAL,
		"discount_percent" INTEGER,
		"sku" TEXT,
		"availability" TEXT,
		"badges" TEXT,
		"scraped_at" DATETIME,
		FOREIGN KEY(run_id) REFERENCES runs(run_id)
	);`
	if _, err := db.Exec(createRecordsSQL); err != nil {
		return nil, fmt.Errorf("creating records table: %w", err)
	}

	return &Repository{DB: db}, nil
}

func (repo *Repository) Close() {
	repo.DB.Close()
}

// SaveRun stores a run and its records in one transaction.
func (repo *Repository) SaveRun(result *models.RunResult) error {
	tx, err := repo.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, store_id, city, status, pages, skipped, record_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.StoreID, result.City, string(result.Status),
		result.Pages, result.Skipped, len(result.Records),
		result.StartedAt, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", result.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (run_id, store_id, city, title, product_url, image_url,
			sale_price, regular_price, discount_percent, sku, availability, badges, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range result.Records {
		badgesJSON, err := json.Marshal(rec.Badges)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(
			result.RunID, rec.StoreID, rec.City, rec.Title, rec.ProductURL, rec.ImageURL,
			nullFloat(rec.SalePrice), nullFloat(rec.RegularPrice), nullInt(rec.DiscountPercent),
			rec.SKU, rec.Availability, string(badgesJSON), rec.ScrapedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ProductURL, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run history, without records.
type RunSummary struct {
	RunID       string           `json:"runId"`
	StoreID     string           `json:"storeId"`
	City        string           `json:"city"`
	Status      models.RunStatus `json:"status"`
	Pages       int              `json:"pages"`
	Skipped     int              `json:"skipped"`
	RecordCount int              `json:"recordCount"`
	StartedAt   time.Time        `json:"startedAt"`
	FinishedAt  time.Time        `json:"finishedAt"`
}

// ListRuns returns the most recent runs, newest first.
func (repo *Repository) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := repo.DB.Query(`
		SELECT run_id, store_id, city, status, pages, skipped, record_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.RunID, &r.StoreID, &r.City, &status, &r.Pages,
			&r.Skipped, &r.RecordCount, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.Status = models.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the newest run for a store, or nil when none exists.
func (repo *Repository) LatestRun(storeID string) (*RunSummary, error) {
	row := repo.DB.QueryRow(`
		SELECT run_id, store_id, city, status, pages, skipped, record_count, started_at, finished_at
		FROM runs WHERE store_id = ? ORDER BY started_at DESC LIMIT 1`, storeID)

	var r RunSummary
	var status string
	err := row.Scan(&r.RunID, &r.StoreID, &r.City, &status, &r.Pages,
		&r.Skipped, &r.RecordCount, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Status = models.RunStatus(status)
	return &r, nil
}

func nullFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
