package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olivier-cousineau/econodeal/pkg/config"
)

type fakeRunner struct {
	mu     sync.Mutex
	stores []string
	err    error
	closed bool
}

func (r *fakeRunner) run(_ context.Context, st config.StoreConfig, _ *logrus.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = append(r.stores, st.ID)
	return r.err
}

func (r *fakeRunner) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func testApp(workers string, storeIDs ...string) *App {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Scraper.Workers = workers
	for _, id := range storeIDs {
		cfg.Stores = append(cfg.Stores, config.StoreConfig{ID: id, City: "Montréal"})
	}
	return &App{Config: cfg, Log: log}
}

func TestRunScrapersFailedLaunchDoesNotStealJobs(t *testing.T) {
	a := testApp("2", "canadian-tire", "walmart", "best-buy")

	healthy := &fakeRunner{}
	var mu sync.Mutex
	calls := 0
	a.newRunner = func() (storeRunner, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return nil, errors.New("chromium not found")
		}
		return healthy, nil
	}

	err := a.RunScrapers(context.Background(), "")
	require.NoError(t, err)

	// The surviving worker must have processed the whole queue; a worker
	// that failed to launch must not have consumed any of it.
	assert.ElementsMatch(t, []string{"canadian-tire", "walmart", "best-buy"}, healthy.stores)
	assert.True(t, healthy.closed)
}

func TestRunScrapersAllLaunchesFail(t *testing.T) {
	a := testApp("2", "canadian-tire", "walmart")
	a.newRunner = func() (storeRunner, error) {
		return nil, errors.New("chromium not found")
	}

	err := a.RunScrapers(context.Background(), "")
	assert.Error(t, err)
}

func TestRunScrapersAllStoresFail(t *testing.T) {
	a := testApp("1", "canadian-tire", "walmart")
	failing := &fakeRunner{err: errors.New("net::ERR_CONNECTION_RESET")}
	a.newRunner = func() (storeRunner, error) { return failing, nil }

	err := a.RunScrapers(context.Background(), "")
	assert.Error(t, err)
	assert.Len(t, failing.stores, 2)
}

func TestRunScrapersUnknownOnlyFilter(t *testing.T) {
	a := testApp("1", "canadian-tire")
	a.newRunner = func() (storeRunner, error) { return &fakeRunner{}, nil }

	err := a.RunScrapers(context.Background(), "sears")
	assert.Error(t, err)
}
