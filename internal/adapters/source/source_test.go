package source_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/okian/watchrank/internal/adapters/source"
	"github.com/okian/watchrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var errDiskGone = errors.New("disk gone")

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func titles(recs []model.WatchRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestLoad_File(t *testing.T) {
	Convey("Given a watch history file", t, func() {
		ctx := context.Background()
		path := writeFile(t, "watched_at,title,channel\n"+
			"2024-01-01T10:00:00,A,ch1\n"+
			"2024-01-01T11:00:00,B,ch2\n"+
			"2024-01-02T09:30:00,\"A\",ch1\n"+
			"2024-01-02T09:31:00,\"Comma, in title\",ch3\n")

		Convey("When it is loaded", func() {
			recs, err := source.Load(ctx, source.NewFileSource(path))

			Convey("Then every data row becomes a record with its title", func() {
				So(err, ShouldBeNil)
				So(titles(recs), ShouldResemble, []string{"A", "B", "A", "Comma, in title"})
				So(recs[0].Line, ShouldEqual, 1)
				So(recs[3].Line, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a path that does not exist", t, func() {
		_, err := source.Load(context.Background(), source.NewFileSource(filepath.Join(t.TempDir(), "nope.csv")))

		Convey("Then ErrNotFound is returned", func() {
			So(errors.Is(err, source.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a directory path", t, func() {
		_, err := source.Load(context.Background(), source.NewFileSource(t.TempDir()))

		Convey("Then ErrNotFound is returned", func() {
			So(errors.Is(err, source.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "directory")
		})
	})
}

func TestLoad_Schema(t *testing.T) {
	Convey("Given input without a title column", t, func() {
		src := source.NewReaderSource("history", strings.NewReader("watched_at,name\n2024-01-01,A\n"))
		_, err := source.Load(context.Background(), src)

		Convey("Then ErrSchema names the column", func() {
			So(errors.Is(err, source.ErrSchema), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"title"`)
		})
	})

	Convey("Given a header with a BOM and padding", t, func() {
		src := source.NewReaderSource("bom", strings.NewReader("\ufefftitle , watched_at\nA,1\n"))
		recs, err := source.Load(context.Background(), src)

		Convey("Then the title column is still found", func() {
			So(err, ShouldBeNil)
			So(titles(recs), ShouldResemble, []string{"A"})
		})
	})

	Convey("Given a custom column and delimiter", t, func() {
		src := source.NewReaderSource("tsv", strings.NewReader("video\twatched_at\nX\t1\nY\t2\n"))
		recs, err := source.Load(context.Background(), src,
			source.WithColumn("video"), source.WithDelimiter('\t'))

		Convey("Then rows are split on the delimiter", func() {
			So(err, ShouldBeNil)
			So(titles(recs), ShouldResemble, []string{"X", "Y"})
		})
	})

	Convey("Given comment lines", t, func() {
		src := source.NewReaderSource("c", strings.NewReader("title\n# exported 2024-01-01\nA\n"))
		recs, err := source.Load(context.Background(), src, source.WithComment('#'))

		So(err, ShouldBeNil)
		So(titles(recs), ShouldResemble, []string{"A"})
	})
}

func TestLoad_EdgeCases(t *testing.T) {
	Convey("Given completely empty input", t, func() {
		_, err := source.Load(context.Background(), source.NewReaderSource("empty", strings.NewReader("")))

		Convey("Then ErrEmptyInput is returned", func() {
			So(errors.Is(err, source.ErrEmptyInput), ShouldBeTrue)
		})
	})

	Convey("Given a header and no rows", t, func() {
		recs, err := source.Load(context.Background(), source.NewReaderSource("header-only", strings.NewReader("watched_at,title\n")))

		Convey("Then no records and no error are returned", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})
	})

	Convey("Given ragged rows", t, func() {
		src := source.NewReaderSource("ragged", strings.NewReader("watched_at,title\n1\n2,B,extra\n"))
		recs, err := source.Load(context.Background(), src)

		Convey("Then short rows yield an empty title", func() {
			So(err, ShouldBeNil)
			So(titles(recs), ShouldResemble, []string{"", "B"})
		})
	})

	Convey("Given a title with unescaped quotes", t, func() {
		src := source.NewReaderSource("quotes", strings.NewReader("watched_at,title\n1,Reacting to \"Frozen\" again\n2,Cats\n3,A\"B\n"))
		recs, err := source.Load(context.Background(), src)

		Convey("Then the quotes are kept as part of the title", func() {
			So(err, ShouldBeNil)
			So(titles(recs), ShouldResemble, []string{`Reacting to "Frozen" again`, "Cats", `A"B`})
		})
	})

	Convey("Given a reader that fails mid-stream", t, func() {
		r := io.MultiReader(strings.NewReader("title\nA\n"), iotest.ErrReader(errDiskGone))
		_, err := source.Load(context.Background(), source.NewReaderSource("flaky", r))

		Convey("Then ErrMalformed wraps the read error", func() {
			So(errors.Is(err, source.ErrMalformed), ShouldBeTrue)
			So(errors.Is(err, errDiskGone), ShouldBeTrue)
		})
	})

	Convey("Given a delimiter the CSV reader rejects", t, func() {
		src := source.NewReaderSource("bad-delim", strings.NewReader("title\nA\n"))
		_, err := source.Load(context.Background(), src, source.WithDelimiter(';'), source.WithComment(';'))

		Convey("Then ErrMalformed is returned", func() {
			So(errors.Is(err, source.ErrMalformed), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := source.Load(ctx, source.NewReaderSource("c", strings.NewReader("title\nA\n")))

		So(err, ShouldEqual, context.Canceled)
	})

	Convey("Given stdin as the path", t, func() {
		fs := &source.FileSource{Path: source.StdinName, Stdin: strings.NewReader("title\nS\n")}
		recs, err := source.Load(context.Background(), fs)

		So(fs.Name(), ShouldEqual, "<stdin>")
		So(err, ShouldBeNil)
		So(titles(recs), ShouldResemble, []string{"S"})
	})

	Convey("Given a reader source without a reader", t, func() {
		_, err := source.Load(context.Background(), source.NewReaderSource("nil", nil))
		So(errors.Is(err, source.ErrNotFound), ShouldBeTrue)
	})
}
