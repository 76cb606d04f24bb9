package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	// Workers is a number or "auto".
	Workers  string `yaml:"workers"`
	Headless bool   `yaml:"headless"`
	MaxPages int    `yaml:"max_pages"`
	// MinDiscount drops listings below this percentage; 0 keeps everything.
	MinDiscount int `yaml:"min_discount"`
	// PolitenessEvery/PolitenessPauseMS throttle the listing walk.
	PolitenessEvery   int `yaml:"politeness_every"`
	PolitenessPauseMS int `yaml:"politeness_pause_ms"`
}

// EnrichConfig controls the optional detail-page pass.
type EnrichConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Parallelism       int     `yaml:"parallelism"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// StoreConfig is one store run: which retailer profile, which city tag, and
// optional per-store overrides.
type StoreConfig struct {
	ID       string `yaml:"id"`
	City     string `yaml:"city"`
	URL      string `yaml:"url"`
	MaxPages int    `yaml:"max_pages"`
}

// OutputConfig locates the published JSON documents.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	CSV bool   `yaml:"csv"`
}

// Config is the complete structure of config.yml.
type Config struct {
	Scraper  ScraperConfig `yaml:"scraper"`
	Enrich   EnrichConfig  `yaml:"enrich"`
	Stores   []StoreConfig `yaml:"stores"`
	Output   OutputConfig  `yaml:"output"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// Load reads config.yml, applies defaults and environment overrides. A .env
// file next to the binary is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.Workers == "" {
		c.Scraper.Workers = "auto"
	}
	if c.Scraper.MaxPages <= 0 {
		c.Scraper.MaxPages = 25
	}
	if c.Scraper.PolitenessEvery <= 0 {
		c.Scraper.PolitenessEvery = 5
	}
	if c.Scraper.PolitenessPauseMS <= 0 {
		c.Scraper.PolitenessPauseMS = 4000
	}
	if c.Enrich.Parallelism <= 0 {
		c.Enrich.Parallelism = 4
	}
	if c.Enrich.RequestsPerSecond <= 0 {
		c.Enrich.RequestsPerSecond = 2
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "outputs"
	}
	if c.Database.Path == "" {
		c.Database.Path = "econodeal.db"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

// applyEnv lets deploy environments override the file without editing it.
func (c *Config) applyEnv() {
	if v := os.Getenv("ECONODEAL_WORKERS"); v != "" {
		c.Scraper.Workers = v
	}
	if v := os.Getenv("ECONODEAL_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Scraper.Headless = b
		}
	}
	if v := os.Getenv("ECONODEAL_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("ECONODEAL_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("ECONODEAL_PORT"); v != "" {
		c.Server.Port = v
	}
}

func (c *Config) validate() error {
	if len(c.Stores) == 0 {
		return fmt.Errorf("no stores configured")
	}
	for _, s := range c.Stores {
		if s.ID == "" {
			return fmt.Errorf("store entry without id")
		}
		if s.City == "" {
			return fmt.Errorf("store %q has no city", s.ID)
		}
	}
	return nil
}
