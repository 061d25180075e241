package doctree

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/signadot/doctree/codec"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

// Load reads the document in file, choosing the codec by extension.
func Load(file string) (*ir.Node, error) {
	c, err := codec.ForFile(file)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	defer f.Close()
	node, err := c.Read(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return node, nil
}

// Save writes node to file, choosing the codec by extension. The file is
// only replaced once the document is fully encoded.
func Save(node *ir.Node, file string) error {
	c, err := codec.ForFile(file)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Write(node, &buf); err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	return os.WriteFile(file, buf.Bytes(), 0644)
}

// Read reads a document in format f.
func Read(r io.Reader, f format.Format) (*ir.Node, error) {
	c, err := codec.For(f)
	if err != nil {
		return nil, err
	}
	return c.Read(r)
}

// Write writes node in format f.
func Write(node *ir.Node, w io.Writer, f format.Format) error {
	c, err := codec.For(f)
	if err != nil {
		return err
	}
	return c.Write(node, w)
}

// Convert reads a document in format from and writes it in format to.
func Convert(r io.Reader, from format.Format, w io.Writer, to format.Format) error {
	node, err := Read(r, from)
	if err != nil {
		return err
	}
	return Write(node, w, to)
}
