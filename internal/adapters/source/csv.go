package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/watchrank/internal/domain/model"
)

// DefaultColumn is the header naming the video title.
const DefaultColumn = "title"

const utf8BOM = "\ufeff"

type decoder struct {
	column  string
	comma   rune
	comment rune
}

// Load reads every row of src as a WatchRecord. The first row is the
// header and must contain the title column; other columns are ignored.
// Rows may be ragged: a row too short to reach the title column yields
// an empty title. A quote inside an unquoted field is kept as a literal
// character.
func Load(ctx context.Context, src Source, opts ...Option) ([]model.WatchRecord, error) {
	d := decoder{column: DefaultColumn, comma: ','}
	for _, opt := range opts {
		opt(&d)
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return d.decode(ctx, src.Name(), rc)
}

func (d decoder) decode(ctx context.Context, name string, r io.Reader) ([]model.WatchRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.comma
	cr.Comment = d.comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header row", ErrEmptyInput, name)
	}
	if err != nil {
		return nil, malformed(name, err)
	}

	col := -1
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if strings.TrimSpace(h) == d.column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %s has no %q column", ErrSchema, name, d.column)
	}

	var out []model.WatchRecord
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(name, err)
		}
		var title string
		if col < len(row) {
			title = strings.TrimSpace(row[col])
		}
		out = append(out, model.WatchRecord{Title: title, Line: line})
	}
	return out, nil
}

func malformed(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %s line %d: %w", ErrMalformed, name, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
}
