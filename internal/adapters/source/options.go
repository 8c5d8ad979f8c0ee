package source

// Option applies a configuration option to the CSV decoder.
type Option func(*decoder)

// WithColumn sets the header name of the title column.
func WithColumn(name string) Option {
	return func(d *decoder) {
		if name != "" {
			d.column = name
		}
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(d *decoder) {
		if r != 0 {
			d.comma = r
		}
	}
}

// WithComment makes lines starting with r comments.
func WithComment(r rune) Option {
	return func(d *decoder) {
		d.comment = r
	}
}
