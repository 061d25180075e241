package doctree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/doctree/ir"
	"github.com/signadot/doctree/stream"
)

// DiffOp tells whether a line of a diff is kept, removed or added.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffDelete
	DiffInsert
)

func (op DiffOp) prefix() string {
	switch op {
	case DiffDelete:
		return "- "
	case DiffInsert:
		return "+ "
	default:
		return "  "
	}
}

// DiffLine is one line of the indented JSON form of a document.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Diff compares the indented JSON forms of a and b line by line. It
// returns nil when the documents are equal.
func Diff(a, b *ir.Node) ([]DiffLine, error) {
	if ir.Equal(a, b) {
		return nil, nil
	}
	ta, err := indented(a)
	if err != nil {
		return nil, err
	}
	tb, err := indented(b)
	if err != nil {
		return nil, err
	}
	dmp := diffmatchpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(ta, tb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)
	var res []DiffLine
	changed := false
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op, changed = DiffDelete, true
		case diffmatchpatch.DiffInsert:
			op, changed = DiffInsert, true
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			res = append(res, DiffLine{Op: op, Text: strings.TrimSuffix(ln, "\n")})
		}
	}
	if !changed {
		return nil, nil
	}
	return res, nil
}

func indented(node *ir.Node) (string, error) {
	var buf bytes.Buffer
	if err := stream.EncodeNode(node, &buf, stream.WithIndent("  ")); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteDiff writes lines with "+ ", "- " and "  " prefixes, coloring
// added and removed lines when colored is set.
func WriteDiff(w io.Writer, lines []DiffLine, colored bool) error {
	del := fmt.Sprint
	ins := fmt.Sprint
	if colored {
		del = color.New(color.FgRed).Sprint
		ins = color.New(color.FgGreen).Sprint
	}
	for _, ln := range lines {
		text := ln.Op.prefix() + ln.Text
		switch ln.Op {
		case DiffDelete:
			text = del(text)
		case DiffInsert:
			text = ins(text)
		}
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return err
		}
	}
	return nil
}
