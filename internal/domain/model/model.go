// Package model contains domain models passed between layers.
package model

// WatchRecord is one row of the watch log. Only the title matters for
// ranking; every other column is ignored at load time.
type WatchRecord struct {
	Title string // video title, trimmed
	Line  int    // 1-based data row number, header excluded
}

// RankEntry is one bar of the chart: a title and how often it was watched.
type RankEntry struct {
	Label string
	Count int
}
