package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olivier-cousineau/econodeal/internal/models"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func sampleRun(runID, storeID string, started time.Time) *models.RunResult {
	sale, reg := 24.99, 49.99
	disc := 50
	return &models.RunResult{
		RunID:   runID,
		StoreID: storeID,
		City:    "Montréal",
		Status:  models.RunCompleted,
		Pages:   3,
		Skipped: 1,
		Records: []models.ProductRecord{
			{
				Title:           "Perceuse sans fil 20V",
				ProductURL:      "https://example.com/p/1",
				ImageURL:        "https://example.com/i/1.jpg",
				SalePrice:       &sale,
				RegularPrice:    &reg,
				DiscountPercent: &disc,
				SKU:             "055-1234",
				Badges:          []string{"Liquidation"},
				StoreID:         storeID,
				City:            "Montréal",
				ScrapedAt:       started,
			},
			{
				Title:      "Article sans prix régulier",
				ProductURL: "https://example.com/p/2",
				ImageURL:   "https://example.com/i/2.jpg",
				SalePrice:  &sale,
				StoreID:    storeID,
				City:       "Montréal",
				ScrapedAt:  started,
			},
		},
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
	}
}

func TestSaveRunAndListRuns(t *testing.T) {
	repo := testRepo(t)
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(sampleRun("run-1", "canadian-tire", base)))
	require.NoError(t, repo.SaveRun(sampleRun("run-2", "canadian-tire", base.Add(time.Hour))))

	runs, err := repo.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 2, runs[0].RecordCount)
	assert.Equal(t, models.RunCompleted, runs[0].Status)
}

func TestLatestRun(t *testing.T) {
	repo := testRepo(t)
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(sampleRun("run-a", "best-buy", base)))
	require.NoError(t, repo.SaveRun(sampleRun("run-b", "best-buy", base.Add(time.Hour))))

	last, err := repo.LatestRun("best-buy")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "run-b", last.RunID)

	none, err := repo.LatestRun("walmart")
	require.NoError(t, err)
	assert.Nil(t, none)
}
