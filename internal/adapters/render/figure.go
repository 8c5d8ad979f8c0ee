// Package render draws ranked entries as a horizontal bar chart.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/okian/watchrank/internal/domain/model"
)

const (
	frameCells   = 4 // rounded border + one cell of padding on each side
	minInner     = 10
	separator    = " │ "
	barRune      = "█"
	axisRune     = "─"
	axisCorner   = "└"
	ellipsis     = "…"
	noDataText   = "no data"
	separatorLen = 3
	axisIndent   = "   " // aligns ticks with the first bar cell
)

// Figure is the drawing context for one chart. It is bound to a writer
// for its lifetime and must not be used after Draw returns.
type Figure struct {
	w    io.Writer
	opts Options
	re   *lipgloss.Renderer
	cond *runewidth.Condition

	title  string
	xLabel string
	yLabel string
	bars   []model.RankEntry

	released bool
}

// Draw acquires a Figure on w, lets fn populate it, shows it and releases
// it. The figure is released even when fn fails; nothing is written then.
func Draw(w io.Writer, opts Options, fn func(f *Figure) error) error {
	f := newFigure(w, opts)
	defer f.release()

	if err := fn(f); err != nil {
		return err
	}
	return f.show()
}

func newFigure(w io.Writer, opts Options) *Figure {
	opts = opts.withDefaults()
	re := lipgloss.NewRenderer(w)
	if opts.NoColor {
		re.SetColorProfile(termenv.Ascii)
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &Figure{w: w, opts: opts, re: re, cond: cond}
}

// The setters below are no-ops once the figure is released.

// SetTitle sets the heading drawn above the chart.
func (f *Figure) SetTitle(title string) {
	if !f.released {
		f.title = printable(title)
	}
}

// SetXLabel sets the caption under the count axis.
func (f *Figure) SetXLabel(label string) {
	if !f.released {
		f.xLabel = printable(label)
	}
}

// SetYLabel sets the caption above the label column.
func (f *Figure) SetYLabel(label string) {
	if !f.released {
		f.yLabel = printable(label)
	}
}

// BarH adds one horizontal bar per entry. Entries are taken in ascending
// order and stacked bottom-up, so the last entry is drawn on top.
func (f *Figure) BarH(entries []model.RankEntry) error {
	if f.released {
		return ErrFigureClosed
	}
	for _, e := range entries {
		e.Label = printable(e.Label)
		f.bars = append(f.bars, e)
	}
	return nil
}

// printable replaces control characters, such as newlines or ESC, with
// spaces so a label always stays on its own row.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// String renders the figure without writing it.
func (f *Figure) String() string {
	inner := f.opts.Width - frameCells
	if inner < minInner {
		inner = minInner
	}

	titleStyle := f.re.NewStyle().Bold(true).Width(f.opts.Width).Align(lipgloss.Center)
	boxStyle := f.re.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(f.opts.BorderColor)).
		Padding(0, 1).
		Width(inner + 2)

	var body string
	if len(f.bars) == 0 {
		body = noDataText
	} else {
		body = f.plot(inner)
	}

	parts := make([]string, 0, 2)
	if f.title != "" {
		parts = append(parts, titleStyle.Render(f.title))
	}
	parts = append(parts, boxStyle.Render(body))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// plot lays out the bars, axis and captions inside inner columns.
func (f *Figure) plot(inner int) string {
	maxCount := 0
	labelCells := f.cond.StringWidth(f.yLabel)
	for _, b := range f.bars {
		maxCount = max(maxCount, b.Count)
		labelCells = max(labelCells, f.cond.StringWidth(b.Label))
	}
	labelCells = min(labelCells, inner/maxLabelShare, maxLabelCells)
	labelCells = max(labelCells, 1)

	countCells := len(strconv.Itoa(maxCount))
	barCells := inner - labelCells - separatorLen - 1 - countCells
	barCells = max(barCells, minBarCells)

	barStyle := f.re.NewStyle().Foreground(lipgloss.Color(f.opts.BarColor))
	headStyle := f.re.NewStyle().Bold(true)
	faint := f.re.NewStyle().Faint(true)

	var sb strings.Builder
	if f.yLabel != "" {
		sb.WriteString(headStyle.Render(f.fit(f.yLabel, labelCells)))
		sb.WriteString("\n")
	}

	for i := len(f.bars) - 1; i >= 0; i-- {
		b := f.bars[i]
		n := scale(b.Count, maxCount, barCells)
		sb.WriteString(f.fit(b.Label, labelCells))
		sb.WriteString(faint.Render(separator))
		sb.WriteString(barStyle.Render(strings.Repeat(barRune, n)))
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(b.Count))
		sb.WriteString("\n")
	}

	// Count axis: corner under the separator, ticks at 0 and maxCount.
	pad := strings.Repeat(" ", labelCells)
	sb.WriteString(pad)
	sb.WriteString(faint.Render(" " + axisCorner + axisRune + strings.Repeat(axisRune, barCells)))
	sb.WriteString("\n")

	lo, hi := "0", strconv.Itoa(maxCount)
	gap := max(barCells-len(lo)-len(hi), 1)
	sb.WriteString(pad)
	sb.WriteString(axisIndent)
	sb.WriteString(lo)
	sb.WriteString(strings.Repeat(" ", gap))
	sb.WriteString(hi)

	if f.xLabel != "" {
		sb.WriteString("\n")
		sb.WriteString(pad)
		sb.WriteString(axisIndent)
		sb.WriteString(headStyle.Render(center(f.cond, f.xLabel, barCells)))
	}
	return sb.String()
}

// fit truncates or right-pads s to exactly cells display columns.
func (f *Figure) fit(s string, cells int) string {
	if f.cond.StringWidth(s) > cells {
		s = f.cond.Truncate(s, cells, ellipsis)
	}
	return f.cond.FillRight(s, cells)
}

func center(cond *runewidth.Condition, s string, cells int) string {
	w := cond.StringWidth(s)
	if w >= cells {
		return cond.Truncate(s, cells, ellipsis)
	}
	return strings.Repeat(" ", (cells-w)/2) + s
}

// scale maps count onto [0, cells] proportionally to maxCount. Any
// positive count gets at least one cell.
func scale(count, maxCount, cells int) int {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	n := (count*cells + maxCount/2) / maxCount
	return min(max(n, minBarCells), cells)
}

func (f *Figure) show() error {
	if f.released {
		return ErrFigureClosed
	}
	if _, err := fmt.Fprintln(f.w, f.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (f *Figure) release() {
	f.released = true
	f.bars = nil
	f.w = io.Discard
}
