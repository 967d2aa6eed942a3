package safeen

import "log/slog"

// Option configures New, Load, Save and the other whole-database calls.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	verbose     bool
	format      Format
	compression Compression
}

func makeOptions(opts []Option) options {
	o := options{
		format:      FormatV1,
		compression: NoCompression,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger used for save/load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVerbose enables per-table debug logging on save and load.
func WithVerbose(verbose bool) Option {
	return func(o *options) { o.verbose = verbose }
}

// WithFormat selects the file format written by Save and Encode.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithCompression selects body compression for FormatV1. FormatLegacy has
// no compression, and encoding it with anything but NoCompression fails.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}
