package main

import (
	"flag"
	"os"

	"github.com/Olivier-cousineau/econodeal/internal/app"
	"github.com/Olivier-cousineau/econodeal/internal/server"
)

func main() {
	cfgPath := flag.String("config", "config.yml", "Path to the configuration file")
	flag.Parse()

	application, err := app.New(*cfgPath)
	if err != nil {
		os.Stderr.WriteString("startup failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer application.Close()

	srv := server.New(application.Config, application.Repo, application.Log)
	if err := srv.Start(); err != nil {
		application.Log.WithError(err).Fatal("server stopped")
	}
}
