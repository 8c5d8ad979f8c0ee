// Package ranking turns watch records into the ordered entries of a
// most-watched chart.
package ranking

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/watchrank/internal/adapters/repository"
	"github.com/okian/watchrank/internal/domain/model"
)

const (
	maxSkippedLines = 5    // line numbers kept in Summary.SkippedLines
	maxCapacityHint = 4096 // distinct titles pre-allocated per build
)

// Summary describes the input a ranking was built from.
type Summary struct {
	Records  int // usable records counted
	Skipped  int // records without a title
	Distinct int // distinct titles

	// SkippedLines holds the data row numbers of the first skipped records.
	SkippedLines []int
}

// Builder counts titles and selects the most-watched ones.
type Builder struct{}

// NewBuilder creates a Builder backed by an in-memory map store.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build counts the titles of records and returns the topN most frequent
// ones ordered by count ascending, so the largest count comes last and a
// horizontal bar chart drawn bottom-up shows it on top.
//
// Ties are broken by first appearance: among equal counts the title seen
// earlier ranks higher, which in ascending order places it later.
func (b *Builder) Build(ctx context.Context, records []model.WatchRecord, topN int) ([]model.RankEntry, Summary, error) {
	if topN < 1 {
		return nil, Summary{}, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}

	var tally repository.Store = repository.NewMapStore(repository.WithCapacityHint(min(len(records), maxCapacityHint)))
	var sum Summary
	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			sum.Skipped++
			if len(sum.SkippedLines) < maxSkippedLines {
				sum.SkippedLines = append(sum.SkippedLines, r.Line)
			}
			continue
		}
		tally.Add(ctx, title)
	}
	sum.Records = tally.Total(ctx)
	sum.Distinct = tally.Count(ctx)

	if sum.Records == 0 {
		return nil, sum, ErrEmptyInput
	}

	top, err := tally.TopN(ctx, topN)
	if err != nil {
		return nil, sum, err
	}

	entries := make([]model.RankEntry, len(top))
	for i, e := range top {
		entries[i] = model.RankEntry{Label: e.Key, Count: e.Count}
	}
	slices.Reverse(entries)
	return entries, sum, nil
}
