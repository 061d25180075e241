package codec

import (
	"fmt"
	"io"

	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
	"github.com/signadot/doctree/props"
	"github.com/signadot/doctree/stream"
	"github.com/signadot/doctree/xmldoc"
	"github.com/signadot/doctree/yamldoc"
)

// Codec reads and writes document trees in one format.
type Codec interface {
	Read(r io.Reader) (*ir.Node, error)
	Write(node *ir.Node, w io.Writer) error
}

type funcs struct {
	read  func(io.Reader) (*ir.Node, error)
	write func(*ir.Node, io.Writer) error
}

func (c funcs) Read(r io.Reader) (*ir.Node, error)     { return c.read(r) }
func (c funcs) Write(node *ir.Node, w io.Writer) error { return c.write(node, w) }

// JSON returns the streaming JSON codec.
func JSON(opts ...stream.StreamOption) Codec {
	return funcs{
		read: func(r io.Reader) (*ir.Node, error) {
			return stream.DecodeNode(r, opts...)
		},
		write: func(node *ir.Node, w io.Writer) error {
			return stream.EncodeNode(node, w, opts...)
		},
	}
}

// XML returns the XML codec.
func XML(opts ...xmldoc.Option) Codec {
	return funcs{
		read: func(r io.Reader) (*ir.Node, error) {
			return xmldoc.Decode(r, opts...)
		},
		write: func(node *ir.Node, w io.Writer) error {
			return xmldoc.Encode(node, w, opts...)
		},
	}
}

// YAML returns the YAML codec.
func YAML(opts ...yamldoc.Option) Codec {
	return funcs{
		read: yamldoc.Decode,
		write: func(node *ir.Node, w io.Writer) error {
			return yamldoc.Encode(node, w, opts...)
		},
	}
}

// Properties returns the properties codec.
func Properties() Codec {
	return funcs{read: props.Decode, write: props.Encode}
}

var registry = map[format.Format]Codec{
	format.JSONFormat:       JSON(stream.WithIndent("  ")),
	format.XMLFormat:        XML(xmldoc.WithIndent(2)),
	format.YAMLFormat:       YAML(),
	format.PropertiesFormat: Properties(),
}

// For returns the default codec of f. Text output is indented.
func For(f format.Format) (Codec, error) {
	c, ok := registry[f]
	if !ok {
		return nil, fmt.Errorf("%w: no codec for %s", format.ErrBadFormat, f)
	}
	return c, nil
}

// ForFile returns the default codec for a file name by its extension.
func ForFile(name string) (Codec, error) {
	f, err := format.FromFile(name)
	if err != nil {
		return nil, err
	}
	return For(f)
}
