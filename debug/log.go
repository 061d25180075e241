package debug

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/ohler55/ojg/oj"
	"github.com/signadot/doctree/ir"
)

var (
	out    io.Writer = os.Stderr
	prefix           = plainPrefix
)

func plainPrefix(format string, a ...any) string {
	return fmt.Sprintf(format, a...)
}

func init() {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		prefix = color.RGB(196, 128, 128).SprintfFunc()
	}
}

// SetOutput redirects diagnostics, returning the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Logf writes a diagnostic line. Nodes and generic JSON like arguments are
// rendered as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case map[string]any, []any:
			args[i] = indent(oj.JSON(x, &oj.Options{Indent: 2, Sort: true}))
		case *ir.Node:
			v, err := ir.ToAny(x)
			if err != nil {
				args[i] = fmt.Sprintf("[raw *ir.Node] %s", x.Path())
				continue
			}
			args[i] = indent(oj.JSON(v, &oj.Options{Indent: 2, Sort: true, TimeFormat: "2006-01-02T15:04:05.999999999Z07:00"}))
		}
	}
	line := fmt.Sprintf(msg, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	fmt.Fprint(out, prefix("doctree: ")+line)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n   |")
}
