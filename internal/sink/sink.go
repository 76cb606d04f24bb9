// Package sink persists finished store runs. Each run becomes one JSON
// document at {storeId}-{citySlug}.json, optionally mirrored as CSV. The
// orchestrator guarantees a store's path is owned by exactly one worker for
// the duration of its run; the atomic rename below protects readers (the
// HTTP API) from half-written documents, not concurrent writers.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/utils"
)

// Document is the on-disk shape consumed by the site.
type Document struct {
	StoreID     string                 `json:"storeId"`
	City        string                 `json:"city"`
	Status      models.RunStatus       `json:"status"`
	GeneratedAt string                 `json:"generatedAt"`
	Count       int                    `json:"count"`
	Products    []models.ProductRecord `json:"products"`
}

type Sink struct {
	dir string
	csv bool
	log *logrus.Entry
}

func New(dir string, csvMirror bool, log *logrus.Entry) *Sink {
	return &Sink{dir: dir, csv: csvMirror, log: log}
}

// BaseName returns the path key for a store/city pair.
func BaseName(storeID, city string) string {
	return fmt.Sprintf("%s-%s", storeID, utils.CitySlug(city))
}

// Write persists the run. Empty runs are rejected so a failed scrape never
// clobbers the previous good document.
func (s *Sink) Write(result *models.RunResult) (string, error) {
	if len(result.Records) == 0 {
		return "", models.ErrNoRecords
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	base := BaseName(result.StoreID, result.City)
	jsonPath := filepath.Join(s.dir, base+".json")

	doc := Document{
		StoreID:     result.StoreID,
		City:        result.City,
		Status:      result.Status,
		GeneratedAt: result.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		Count:       len(result.Records),
		Products:    result.Records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", base, err)
	}
	if err := atomicWrite(jsonPath, data); err != nil {
		return "", err
	}

	if s.csv {
		if err := s.writeCSV(filepath.Join(s.dir, base+".csv"), result.Records); err != nil {
			// The CSV is a convenience mirror; its failure does not undo the run.
			s.log.WithError(err).Warn("csv mirror failed")
		}
	}

	s.log.WithFields(logrus.Fields{"file": jsonPath, "count": len(result.Records)}).
		Info("store run persisted")
	return jsonPath, nil
}

// Read loads a previously persisted document.
func (s *Sink) Read(storeID, city string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, BaseName(storeID, city)+".json"))
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Sink) writeCSV(path string, records []models.ProductRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "sale_price", "regular_price", "discount_percent", "sku", "availability", "url", "image"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			formatPrice(rec.SalePrice),
			formatPrice(rec.RegularPrice),
			formatPercent(rec.DiscountPercent),
			rec.SKU,
			rec.Availability,
			rec.ProductURL,
			rec.ImageURL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func formatPercent(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
