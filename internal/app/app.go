// Package app wires configuration, browser sessions, the listing engine and
// the output layers into runnable tasks.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Olivier-cousineau/econodeal/internal/database"
	"github.com/Olivier-cousineau/econodeal/internal/enrich"
	"github.com/Olivier-cousineau/econodeal/internal/models"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/browser"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/listing"
	"github.com/Olivier-cousineau/econodeal/internal/scraper/stores"
	"github.com/Olivier-cousineau/econodeal/internal/sink"
	"github.com/Olivier-cousineau/econodeal/pkg/config"
	"github.com/Olivier-cousineau/econodeal/utils"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config *config.Config
	Repo   *database.Repository
	Log    *logrus.Logger

	// newRunner builds one worker's store runner. Production runners own a
	// browser; tests swap this out.
	newRunner func() (storeRunner, error)
}

// New creates an application instance from the given config path.
func New(cfgPath string) (*App, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	repo, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Repo: repo, Log: log}
	a.newRunner = a.newRodRunner
	return a, nil
}

// storeRunner executes store runs for one worker and releases the worker's
// resources on close.
type storeRunner interface {
	run(ctx context.Context, st config.StoreConfig, log *logrus.Entry) error
	close()
}

type rodRunner struct {
	app *App
	b   *rod.Browser
}

func (a *App) newRodRunner() (storeRunner, error) {
	b, err := browser.Launch(a.Config.Scraper.Headless)
	if err != nil {
		return nil, err
	}
	return &rodRunner{app: a, b: b}, nil
}

func (r *rodRunner) run(ctx context.Context, st config.StoreConfig, log *logrus.Entry) error {
	return r.app.runStore(ctx, r.b, st, log)
}

func (r *rodRunner) close() {
	r.b.MustClose()
}

func (a *App) Close() {
	if a.Repo != nil {
		a.Repo.Close()
	}
}

// RunScrapers walks every configured store (or just `only` when non-empty)
// through a bounded worker pool. Pages within one store are strictly
// sequential; stores run concurrently, each worker owning its own browser,
// so no browser state is shared between workers.
func (a *App) RunScrapers(ctx context.Context, only string) error {
	var targets []config.StoreConfig
	for _, st := range a.Config.Stores {
		if only == "" || st.ID == only {
			targets = append(targets, st)
		}
	}
	if len(targets) == 0 {
		return models.ErrUnknownStore
	}

	workers := utils.WorkerCount(a.Config.Scraper.Workers, a.Log)
	if workers > len(targets) {
		workers = len(targets)
	}

	jobs := make(chan config.StoreConfig, len(targets))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	launched := 0

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log := a.Log.WithField("worker", workerID)

			runner, err := a.newRunner()
			if err != nil {
				// Leave the queue alone: the channel is buffered and closed,
				// so the surviving workers pick up this worker's share.
				log.WithError(err).Error("browser launch failed, worker exiting")
				return
			}
			defer runner.close()
			mu.Lock()
			launched++
			mu.Unlock()

			for st := range jobs {
				if err := runner.run(ctx, st, log); err != nil {
					log.WithError(err).WithField("store", st.ID).Error("store run failed")
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}
		}(w)
	}

	for _, st := range targets {
		jobs <- st
	}
	close(jobs)
	wg.Wait()

	a.Log.WithFields(logrus.Fields{"stores": len(targets), "failed": failures}).
		Info("scrape pass finished")
	if launched == 0 {
		return errors.New("no worker could launch a browser")
	}
	if failures == len(targets) {
		return errors.New("every store run failed")
	}
	return nil
}

// runStore performs one full store run: scrape, optional enrichment,
// publish, archive. A stalled run still publishes its partial records; a
// failed run publishes nothing.
func (a *App) runStore(ctx context.Context, b *rod.Browser, st config.StoreConfig, log *logrus.Entry) error {
	profile, err := stores.Lookup(st.ID)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runLog := log.WithFields(logrus.Fields{"store": st.ID, "city": st.City, "run": runID})

	drv, err := browser.NewRodDriver(b, runLog)
	if err != nil {
		return err
	}
	defer drv.Close()

	cfg := a.runConfig(profile, st)

	runLog.WithField("url", cfg.StartURL).Info("store run starting")
	result := listing.NewAssembler(drv, profile, runLog).Run(ctx, cfg)
	result.RunID = runID

	if result.Status == models.RunFailed {
		if err := a.Repo.SaveRun(result); err != nil {
			runLog.WithError(err).Warn("could not archive failed run")
		}
		return models.ErrNavigation
	}

	if a.Config.Enrich.Enabled {
		fetcher := enrich.NewFetcher(profile, enrich.Config{
			Parallelism:       a.Config.Enrich.Parallelism,
			RequestsPerSecond: a.Config.Enrich.RequestsPerSecond,
		}, runLog)
		fetcher.Enrich(ctx, result.Records)
	}

	out := sink.New(a.Config.Output.Dir, a.Config.Output.CSV, runLog)
	if _, err := out.Write(result); err != nil {
		if errors.Is(err, models.ErrNoRecords) {
			runLog.Warn("run produced no retainable records, keeping previous document")
		} else {
			return err
		}
	}

	if err := a.Repo.SaveRun(result); err != nil {
		runLog.WithError(err).Warn("could not archive run")
	}

	runLog.WithFields(logrus.Fields{
		"status":  result.Status,
		"pages":   result.Pages,
		"records": len(result.Records),
		"skipped": result.Skipped,
	}).Info("store run finished")
	return nil
}

func (a *App) runConfig(profile listing.Profile, st config.StoreConfig) listing.RunConfig {
	startURL := st.URL
	if startURL == "" {
		startURL = profile.StartURL
	}
	maxPages := st.MaxPages
	if maxPages <= 0 {
		maxPages = a.Config.Scraper.MaxPages
	}
	return listing.RunConfig{
		StartURL:        startURL,
		StoreID:         st.ID,
		City:            st.City,
		MaxPages:        maxPages,
		MinDiscount:     a.Config.Scraper.MinDiscount,
		PolitenessEvery: a.Config.Scraper.PolitenessEvery,
		PolitenessPause: time.Duration(a.Config.Scraper.PolitenessPauseMS) * time.Millisecond,
	}
}
