// Package models defines the data structures shared by the collector and the reporter.
package models

import (
	"errors"
	"time"
)

// ErrNoBooks signals that a collection run produced zero records.
var ErrNoBooks = errors.New("no books collected")

// Book is one catalog listing. Records carry no identity beyond their
// fields; duplicates across pages are kept as-is.
type Book struct {
	Title  string  `csv:"title" json:"title"`
	Price  float64 `csv:"price" json:"price"`
	Rating int     `csv:"rating" json:"rating"`
	Link   string  `csv:"link" json:"link"`
}

// ItemSkip records one listing that was dropped during extraction.
type ItemSkip struct {
	Page   int
	Reason string
}

// ScrapeResult holds the overall outcome of a collection run.
type ScrapeResult struct {
	Books        []Book
	Skips        []ItemSkip
	StartTime    time.Time
	EndTime      time.Time
	PagesFetched int
	FailedPages  []int
	RequestCount int
	RetryCount   int
	ErrorsByType map[string]int
}

// Duration returns the wall-clock time the run took.
func (r *ScrapeResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
