// Package repository defines the tally store used to count watch events.
package repository

import "context"

// Entry is one tallied key with its position in the ranking.
type Entry struct {
	Rank      int // 1-based position in TopN order
	Key       string
	Count     int
	FirstSeen int // 0-based order of first Add
}

// Store counts occurrences of string keys.
type Store interface {
	// Add records one occurrence of key.
	Add(ctx context.Context, key string)

	// TopN returns up to n entries ordered by count desc, then by first
	// appearance asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of distinct keys.
	Count(ctx context.Context) int

	// Total returns the number of Add calls.
	Total(ctx context.Context) int
}
