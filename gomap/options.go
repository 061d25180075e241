package gomap

import "github.com/signadot/doctree/ir"

// Option controls mapping between Go values and document trees.
type Option func(*config)

type config struct {
	maxDepth   int
	classNames bool
	shadows    bool
	failFast   bool
}

func newConfig(opts []Option) *config {
	cfg := &config{maxDepth: ir.MaxFoldDepth}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// MaxDepth bounds the nesting of folded values (default ir.MaxFoldDepth).
func MaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithClassNames records the Go type of every folded struct under
// ir.ClassKey.
func WithClassNames(v bool) Option {
	return func(c *config) {
		c.classNames = v
	}
}

// WithShadows adds, next to each numeric or boolean field whose value is
// a fmt.Stringer, a shadow property holding its String() text. When
// unfolding into maps, such shadows are skipped.
func WithShadows(v bool) Option {
	return func(c *config) {
		c.shadows = v
	}
}

// FailFast makes the first field error abort the mapping instead of
// being recorded in the Report.
func FailFast() Option {
	return func(c *config) {
		c.failFast = true
	}
}
