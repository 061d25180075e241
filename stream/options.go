package stream

// StreamOption configures Encoder/Decoder behavior.
type StreamOption func(*streamOpts)

type streamOpts struct {
	indent  string
	shadows bool
}

func newOpts(opts []StreamOption) *streamOpts {
	res := &streamOpts{shadows: true}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// WithIndent makes the encoder break lines, indenting each level with
// indent.
func WithIndent(indent string) StreamOption {
	return func(opts *streamOpts) {
		opts.indent = indent
	}
}

// WithShadows controls shadow properties (default on). When encoding, a
// date property k is followed by "_k" holding its ISO 8601 form and an
// enum property by "_k" holding its name. When decoding, an integer
// property followed by a date shadow is read back as a date and the
// shadow dropped.
func WithShadows(v bool) StreamOption {
	return func(opts *streamOpts) {
		opts.shadows = v
	}
}
