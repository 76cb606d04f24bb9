package utils

import (
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// WorkerCount resolves the configured store-worker count. A positive number
// is taken as-is; "auto" (or anything unparseable) sizes the pool from the
// logical core count. Each worker owns a full browser instance, so the pool
// stays small: half the cores, clamped to [1, 6].
func WorkerCount(configValue string, log *logrus.Logger) int {
	if manual, err := strconv.Atoi(configValue); err == nil && manual > 0 {
		return manual
	}
	if configValue != "auto" {
		log.WithField("workers", configValue).Warn("invalid workers value, falling back to auto")
	}

	cores, err := cpu.Counts(true)
	if err != nil {
		log.WithError(err).Warn("could not detect CPU cores, defaulting to 2 workers")
		return 2
	}

	n := cores / 2
	if n < 1 {
		n = 1
	}
	if n > 6 {
		n = 6
	}
	log.WithFields(logrus.Fields{"cores": cores, "workers": n}).Info("auto-sized store worker pool")
	return n
}
