package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

// readDoc reads file, or standard input for "-", returning the tree and
// the format it was read in.
func readDoc(cfg *MainConfig, cc *cli.Context, file string) (*ir.Node, format.Format, error) {
	var r io.Reader = cc.In
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, 0, fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	fmat := cfg.inFormat(file)
	node, err := cfg.reader(fmat).Read(r)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding %s: %w", file, err)
	}
	return node, fmat, nil
}

// eachDoc calls f on each file, or on standard input when there are none.
func eachDoc(cfg *MainConfig, cc *cli.Context, files []string, f func(*ir.Node, format.Format) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		node, fmat, err := readDoc(cfg, cc, file)
		if err != nil {
			return err
		}
		if err := f(node, fmat); err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}

func (cfg *MainConfig) writeDoc(w io.Writer, node *ir.Node, in format.Format) error {
	if err := cfg.writer(cfg.outFormat(in)).Write(node, w); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
