package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
scraper:
  workers: "2"
  headless: true
  max_pages: 10
  min_discount: 50
stores:
  - id: canadian-tire
    city: Montréal
  - id: walmart
    city: Laval
    max_pages: 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "2", cfg.Scraper.Workers)
	assert.True(t, cfg.Scraper.Headless)
	assert.Equal(t, 10, cfg.Scraper.MaxPages)
	assert.Equal(t, 50, cfg.Scraper.MinDiscount)
	require.Len(t, cfg.Stores, 2)
	assert.Equal(t, 3, cfg.Stores[1].MaxPages)

	// Defaults fill the rest.
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, "econodeal.db", cfg.Database.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Scraper.PolitenessEvery)
}

func TestLoadRejectsEmptyStores(t *testing.T) {
	_, err := Load(writeConfig(t, "scraper:\n  workers: auto\n"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ECONODEAL_OUTPUT_DIR", "/tmp/deals")
	t.Setenv("ECONODEAL_HEADLESS", "false")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deals", cfg.Output.Dir)
	assert.False(t, cfg.Scraper.Headless)
}
