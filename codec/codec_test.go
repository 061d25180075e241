package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/signadot/doctree/format"
	"github.com/signadot/doctree/ir"
)

func sample() *ir.Node {
	root := ir.New()
	root.SetString("test1", "wow")
	root.SetString("test2", "alf")
	sub := root.CreateArray("sub")
	for _, s := range []string{"1", "2", "3"} {
		elt := sub.CreateObject()
		elt.SetString("test1", "wow"+s)
		elt.SetString("test2", "alf"+s)
	}
	return root
}

func TestRoundTripAllFormats(t *testing.T) {
	for _, f := range format.AllFormats() {
		t.Run(f.String(), func(t *testing.T) {
			c, err := For(f)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := c.Write(sample(), &buf); err != nil {
				t.Fatal(err)
			}
			got, err := c.Read(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(sample(), got) {
				t.Errorf("round trip changed the tree:\n%s", got)
			}
		})
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.json", "a.xml", "a.yaml", "a.yml", "a.properties", "a.props"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	for _, name := range []string{"a.txt", "noext"} {
		if _, err := ForFile(name); !errors.Is(err, format.ErrBadFormat) {
			t.Errorf("%s: got %v, want bad format", name, err)
		}
	}
	if _, err := For(format.Format(99)); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("got %v, want bad format", err)
	}
}

func TestCrossFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := YAML().Write(sample(), &buf); err != nil {
		t.Fatal(err)
	}
	node, err := YAML().Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := JSON().Write(node, &buf); err != nil {
		t.Fatal(err)
	}
	want := `{"test1":"wow","test2":"alf","sub":[{"test1":"wow1","test2":"alf1"},{"test1":"wow2","test2":"alf2"},{"test1":"wow3","test2":"alf3"}]}`
	if got := buf.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
