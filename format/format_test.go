package format

import (
	"errors"
	"testing"
)

func TestFromFile(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"a.json", JSONFormat},
		{"dir/a.XML", XMLFormat},
		{"a.yml", YAMLFormat},
		{"a.yaml", YAMLFormat},
		{"a.props", PropertiesFormat},
		{"a.properties", PropertiesFormat},
	}
	for _, tc := range tests {
		got, err := FromFile(tc.name)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
	for _, bad := range []string{"a.txt", "noext"} {
		if _, err := FromFile(bad); !errors.Is(err, ErrBadFormat) {
			t.Errorf("%s: expected ErrBadFormat, got %v", bad, err)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("%s came back as %s", f, g)
		}
		if h, _ := FromFile("x" + f.Suffix()); h != f {
			t.Errorf("suffix of %s maps to %s", f, h)
		}
	}
}
