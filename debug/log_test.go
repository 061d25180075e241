package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/doctree/ir"
)

func TestLogfRendersNodes(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	n := ir.New()
	n.SetString("a", "b")
	Logf("node %s", n)
	got := buf.String()
	if !strings.Contains(got, `"a"`) || !strings.Contains(got, `"b"`) {
		t.Errorf("node not rendered as JSON: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("missing newline")
	}
}
