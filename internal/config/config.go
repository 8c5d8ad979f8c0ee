// Package config defines the watchrank configuration and how it is loaded.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and the environment on top.
// - External errors are wrapped with this package's sentinel errors.
package config

// Default values.
const (
	DefaultSource    = "data.csv"
	DefaultTopN      = 50
	DefaultColumn    = "title"
	DefaultDelimiter = ","
	DefaultWidth     = 100
	MinWidth         = 20
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Source is the input path used when none is given on the command line.
	// "-" reads standard input.
	Source string `koanf:"source"`

	// TopN is the number of titles drawn when none is given on the command line.
	TopN int `koanf:"top_n"`

	// Column names the CSV header holding the video title.
	Column string `koanf:"column"`

	// Delimiter is the single-character field separator.
	Delimiter string `koanf:"delimiter"`

	// Comment, when set, is a single character marking comment lines.
	Comment string `koanf:"comment"`

	// ChartTitle overrides the chart heading. "{n}" is replaced by top_n.
	ChartTitle string `koanf:"chart_title"`

	// XLabel and YLabel are the axis captions.
	XLabel string `koanf:"x_label"`
	YLabel string `koanf:"y_label"`

	// Width is the total chart width in terminal columns.
	Width int `koanf:"width"`

	// NoColor disables ANSI styling.
	NoColor bool `koanf:"no_color"`

	// MetricsTextfile, when set, receives Prometheus metrics after each run.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "warn",
		Source:     DefaultSource,
		TopN:       DefaultTopN,
		Column:     DefaultColumn,
		Delimiter:  DefaultDelimiter,
		ChartTitle: "📺 Top {n} watched videos",
		XLabel:     "views",
		YLabel:     "title",
		Width:      DefaultWidth,
	}
}

// Comma returns the delimiter as a rune. Only meaningful after Validate.
func (c *Config) Comma() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// CommentRune returns the comment character, or 0 when none is set.
func (c *Config) CommentRune() rune {
	for _, r := range c.Comment {
		return r
	}
	return 0
}
