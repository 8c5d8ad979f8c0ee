package ranking_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/watchrank/internal/domain/model"
	"github.com/okian/watchrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func records(titles ...string) []model.WatchRecord {
	out := make([]model.WatchRecord, len(titles))
	for i, t := range titles {
		out[i] = model.WatchRecord{Title: t, Line: i + 1}
	}
	return out
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a ranking builder", t, func() {
		ctx := context.Background()
		b := ranking.NewBuilder()

		Convey("When ranking A,B,A,C,B,A with top_n=2", func() {
			got, sum, err := b.Build(ctx, records("A", "B", "A", "C", "B", "A"), 2)

			Convey("Then B then A are returned in ascending order", func() {
				So(err, ShouldBeNil)
				want := []model.RankEntry{{Label: "B", Count: 2}, {Label: "A", Count: 3}}
				So(cmp.Diff(want, got), ShouldBeEmpty)
				So(sum, ShouldResemble, ranking.Summary{Records: 6, Distinct: 3})
			})
		})

		Convey("When top_n exceeds the distinct titles", func() {
			got, _, err := b.Build(ctx, records("x", "y", "x"), 15)

			Convey("Then every title is returned", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[len(got)-1], ShouldResemble, model.RankEntry{Label: "x", Count: 2})
			})
		})

		Convey("When counts tie", func() {
			got, _, err := b.Build(ctx, records("first", "second", "third", "third"), 3)

			Convey("Then the earlier title ranks higher and is drawn later", func() {
				So(err, ShouldBeNil)
				want := []model.RankEntry{
					{Label: "second", Count: 1},
					{Label: "first", Count: 1},
					{Label: "third", Count: 2},
				}
				So(cmp.Diff(want, got), ShouldBeEmpty)
			})

			Convey("And the cut keeps the first-seen title", func() {
				cut, _, err := b.Build(ctx, records("first", "second", "third", "third"), 2)
				So(err, ShouldBeNil)
				So(cmp.Diff([]model.RankEntry{{Label: "first", Count: 1}, {Label: "third", Count: 2}}, cut), ShouldBeEmpty)
			})
		})

		Convey("When titles carry whitespace or are blank", func() {
			got, sum, err := b.Build(ctx, records(" A", "A ", "", "   "), 5)

			Convey("Then titles are trimmed and blanks are skipped", func() {
				So(err, ShouldBeNil)
				So(cmp.Diff([]model.RankEntry{{Label: "A", Count: 2}}, got), ShouldBeEmpty)
				So(sum.Skipped, ShouldEqual, 2)
				So(sum.Records, ShouldEqual, 2)
			})
		})

		Convey("When there are no records", func() {
			got, _, err := b.Build(ctx, nil, 5)

			Convey("Then ErrEmptyInput is returned", func() {
				So(err, ShouldEqual, ranking.ErrEmptyInput)
				So(got, ShouldBeNil)
			})
		})

		Convey("When every record is blank", func() {
			_, sum, err := b.Build(ctx, records("", ""), 5)

			Convey("Then ErrEmptyInput is returned with the skip count", func() {
				So(err, ShouldEqual, ranking.ErrEmptyInput)
				So(sum.Skipped, ShouldEqual, 2)
				So(sum.SkippedLines, ShouldResemble, []int{1, 2})
			})
		})

		Convey("When many records are blank", func() {
			_, sum, err := b.Build(ctx, records("A", "", "", " ", "", "B", "", "", "\t"), 5)

			Convey("Then only the first skipped lines are kept", func() {
				So(err, ShouldBeNil)
				So(sum.Skipped, ShouldEqual, 7)
				So(sum.SkippedLines, ShouldResemble, []int{2, 3, 4, 5, 7})
			})
		})

		Convey("When top_n is below one", func() {
			_, _, err := b.Build(ctx, records("A"), 0)

			Convey("Then ErrInvalidTopN is returned", func() {
				So(errors.Is(err, ranking.ErrInvalidTopN), ShouldBeTrue)
			})
		})
	})
}

func TestBuilder_Properties(t *testing.T) {
	Convey("Given random inputs", t, func() {
		ctx := context.Background()
		b := ranking.NewBuilder()
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible testing

		for round := 0; round < 50; round++ {
			distinctPool := 1 + rng.Intn(30)
			n := 1 + rng.Intn(200)
			titles := make([]string, n)
			exact := map[string]int{}
			for i := range titles {
				titles[i] = fmt.Sprintf("video-%d", rng.Intn(distinctPool))
				exact[titles[i]]++
			}
			topN := 1 + rng.Intn(40)

			got, sum, err := b.Build(ctx, records(titles...), topN)
			So(err, ShouldBeNil)

			// length is min(top_n, distinct)
			So(len(got), ShouldEqual, min(topN, len(exact)))
			So(sum.Distinct, ShouldEqual, len(exact))

			// exact counts
			for _, e := range got {
				So(e.Count, ShouldEqual, exact[e.Label])
			}

			// non-decreasing
			for i := 1; i < len(got); i++ {
				So(got[i-1].Count, ShouldBeLessThanOrEqualTo, got[i].Count)
			}

			// nothing left out counts more than the smallest selected entry
			selected := map[string]bool{}
			for _, e := range got {
				selected[e.Label] = true
			}
			for title, c := range exact {
				if !selected[title] {
					So(c, ShouldBeLessThanOrEqualTo, got[0].Count)
				}
			}

			// idempotent
			again, _, err := b.Build(ctx, records(titles...), topN)
			So(err, ShouldBeNil)
			So(cmp.Diff(got, again), ShouldBeEmpty)
		}
	})
}
