package render

// Default presentation values.
const (
	DefaultWidth       = 100
	DefaultBarColor    = "#87CEEB" // skyblue
	DefaultBorderColor = "#874BFD"
	minBarCells        = 1
	maxLabelShare      = 3 // labels take at most 1/maxLabelShare of the inner width
	maxLabelCells      = 48
)

// Options controls how a Figure is drawn.
type Options struct {
	// Width is the total chart width in terminal columns, border included.
	Width int
	// NoColor forces plain output even on a color terminal.
	NoColor bool
	// BarColor and BorderColor are lipgloss color strings.
	BarColor    string
	BorderColor string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.BarColor == "" {
		o.BarColor = DefaultBarColor
	}
	if o.BorderColor == "" {
		o.BorderColor = DefaultBorderColor
	}
	return o
}
