package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Olivier-cousineau/econodeal/internal/app"
	"github.com/Olivier-cousineau/econodeal/internal/server"
)

func main() {
	task := flag.String("task", "scrape", "Task to run: scrape, serve, or all")
	cfgPath := flag.String("config", "config.yml", "Path to the configuration file")
	store := flag.String("store", "", "Limit the scrape to a single store id")
	flag.Parse()

	application, err := app.New(*cfgPath)
	if err != nil {
		// No logger exists yet when config or database bootstrap fails.
		os.Stderr.WriteString("startup failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := application.Log
	log.WithField("task", *task).Info("starting")

	switch *task {
	case "scrape":
		if err := application.RunScrapers(ctx, *store); err != nil {
			log.WithError(err).Fatal("scrape failed")
		}

	case "serve":
		srv := server.New(application.Config, application.Repo, log)
		if err := srv.Start(); err != nil {
			log.WithError(err).Fatal("server stopped")
		}

	case "all":
		if err := application.RunScrapers(ctx, *store); err != nil {
			log.WithError(err).Error("scrape failed, serving previous documents")
		}
		srv := server.New(application.Config, application.Repo, log)
		if err := srv.Start(); err != nil {
			log.WithError(err).Fatal("server stopped")
		}

	default:
		log.Fatalf("Unknown task: %s", *task)
	}
}
