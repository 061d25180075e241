package xmldoc

// Option configures reading and writing XML.
type Option func(*opts)

type opts struct {
	rootTag string
	indent  int
}

func newOpts(os []Option) *opts {
	res := &opts{indent: -1}
	for _, o := range os {
		o(res)
	}
	return res
}

// WithRootTag names the root element on output. Without it the root
// node's Name is used, or "root" when that is empty.
func WithRootTag(tag string) Option {
	return func(o *opts) {
		o.rootTag = tag
	}
}

// WithIndent indents nested elements by n spaces on output. By default
// output is compact.
func WithIndent(n int) Option {
	return func(o *opts) {
		o.indent = n
	}
}
