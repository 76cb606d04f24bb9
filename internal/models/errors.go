package models

import "errors"

var (
	// ErrNavigation is returned when a listing page failed to load after
	// bounded retries. Fatal only when it happens on the first page.
	ErrNavigation = errors.New("page navigation failed")

	// ErrPaginationStalled is returned when a next-page action left the
	// listing content unchanged after a corrective retry. The run keeps
	// everything collected before the stall.
	ErrPaginationStalled = errors.New("pagination stalled")

	// ErrUnknownStore is returned when no scraping profile exists for a
	// configured store id.
	ErrUnknownStore = errors.New("unknown store")

	// ErrNoRecords is returned by the sink when asked to persist an empty run.
	ErrNoRecords = errors.New("no records to persist")
)
