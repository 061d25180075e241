package stream

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/doctree/ir"
)

func sample() *ir.Node {
	root := ir.New()
	root.SetString("test1", "wow")
	root.SetString("test2", "wow2")
	sub := root.CreateArray("sub")
	for i := range 3 {
		elt := sub.CreateObject()
		elt.SetString("test1", "wow"+string(rune('a'+i)))
		elt.SetInt("n", i)
	}
	return root
}

func encode(t *testing.T, node *ir.Node, opts ...StreamOption) string {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeNode(node, &buf, opts...); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRoundTrip(t *testing.T) {
	root := sample()
	for _, opts := range [][]StreamOption{nil, {WithIndent("  ")}} {
		s := encode(t, root, opts...)
		back, err := DecodeBytes([]byte(s))
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !ir.Equal(root, back) {
			t.Errorf("round trip differs: %s", s)
		}
	}
}

func TestEncodeCompact(t *testing.T) {
	root := ir.New()
	root.SetString("a", "x")
	root.CreateArray("b").CreateObject().Set(ir.Nameless, int64(1))
	root.CreateObject("c")
	got := encode(t, root)
	want := `{"a":"x","b":[1],"c":{}}`
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestEncodeIndent(t *testing.T) {
	root := ir.New()
	root.SetString("a", "x")
	root.CreateArray("b").CreateObject().Set(ir.Nameless, true)
	got := encode(t, root, WithIndent("  "))
	want := "{\n  \"a\": \"x\",\n  \"b\": [\n    true\n  ]\n}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNumericFidelity(t *testing.T) {
	root, err := DecodeBytes([]byte(`{"i":1,"f":1.0,"big":123456789012345678901234567890,"neg":-3}`))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key  string
		want ir.ScalarType
	}{
		{"i", ir.IntType},
		{"f", ir.FloatType},
		{"big", ir.BigIntType},
		{"neg", ir.IntType},
	}
	for _, tc := range tests {
		v, _ := root.Slot(tc.key)
		if got := v.Type(); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.key, got, tc.want)
		}
	}
	out := encode(t, root)
	if !strings.Contains(out, `"f":1.0`) || !strings.Contains(out, `"i":1,`) {
		t.Errorf("kinds not preserved on output: %s", out)
	}
	if !strings.Contains(out, "123456789012345678901234567890") {
		t.Errorf("big number lost: %s", out)
	}
}

func TestTopLevelShapes(t *testing.T) {
	arr, err := DecodeBytes([]byte(`["a",[1,2],{"k":"v"}]`))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := arr.GetArray(ir.Nameless)
	if !ok || a.Len() != 3 {
		t.Fatalf("top level array not under Nameless")
	}
	if a.Get(0).GetString(ir.Nameless, "") != "a" {
		t.Errorf("scalar element not under Nameless")
	}
	inner, ok := a.Get(1).GetArray(ir.Nameless)
	if !ok || inner.Len() != 2 {
		t.Errorf("nested array not under Nameless")
	}
	if got := inner.Get(1).Path(); got != "/[1]/[1]" {
		t.Errorf("Path() = %q", got)
	}
	if a.Get(2).GetString("k", "") != "v" {
		t.Errorf("object element not filled")
	}
	if got := encode(t, arr); got != `["a",[1,2],{"k":"v"}]` {
		t.Errorf("re-encoded as %s", got)
	}

	s, err := DecodeBytes([]byte(`"just"`))
	if err != nil {
		t.Fatal(err)
	}
	if s.GetString(ir.Nameless, "") != "just" {
		t.Errorf("top level scalar not under Nameless")
	}
	if got := encode(t, s); got != `"just"` {
		t.Errorf("re-encoded as %s", got)
	}
}

func TestDuplicateKeyPromotes(t *testing.T) {
	root, err := DecodeBytes([]byte(`{"a":{"x":1},"a":{"x":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := root.GetArray("a")
	if !ok || a.Len() != 2 {
		t.Errorf("repeated object key not promoted")
	}
}

func TestShadows(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	root := ir.New()
	root.SetTime("at", when)
	root.Set("color", ir.EnumValue{Ord: 2, Label: "blue"})
	got := encode(t, root)
	want := `{"at":` + "1714979289000" + `,"_at":"2024-05-06T07:08:09Z","color":2,"_color":"blue"}`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	back, err := DecodeBytes([]byte(got))
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := back.LookupTime("at"); !ok || !d.Equal(when) {
		t.Errorf("date not folded back: %v", d)
	}
	if back.Has("_at") {
		t.Errorf("date shadow kept")
	}
	if back.GetString("_color", "") != "blue" {
		t.Errorf("enum shadow lost")
	}
	plain := encode(t, root, WithShadows(false))
	if strings.Contains(plain, "_at") {
		t.Errorf("shadow written: %s", plain)
	}
}

func TestDepthExceeded(t *testing.T) {
	deep := strings.Repeat("[", ir.MaxDepth+1) + strings.Repeat("]", ir.MaxDepth+1)
	_, err := DecodeBytes([]byte(deep))
	if !errors.Is(err, ir.ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	ok := strings.Repeat("[", ir.MaxDepth) + strings.Repeat("]", ir.MaxDepth)
	if _, err := DecodeBytes([]byte(ok)); err != nil {
		t.Errorf("depth %d rejected: %v", ir.MaxDepth, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{`{"a":`, `{"a" 1}`, `[1,]x`, ``, `{"a":1} {"b":2}`} {
		if _, err := DecodeBytes([]byte(in)); !errors.Is(err, ir.ErrParse) {
			t.Errorf("%q: expected ErrParse, got %v", in, err)
		}
	}
}

func TestEventsRoundTrip(t *testing.T) {
	in := `{"a":[1,2.5,"s",null,true],"b":{"c":{}}}`
	events, err := ReadEvents(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	types := make([]EventType, len(events))
	for i := range events {
		types[i] = events[i].Type
	}
	want := []EventType{
		EventBeginObject, EventKey, EventBeginArray,
		EventInt, EventFloat, EventString, EventNull, EventBool,
		EventEndArray, EventKey, EventBeginObject, EventKey,
		EventBeginObject, EventEndObject, EventEndObject, EventEndObject,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := range events {
		if err := enc.WriteEvent(&events[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != in {
		t.Errorf("got %s", buf.String())
	}
	node, err := EventsToNode(events)
	if err != nil {
		t.Fatal(err)
	}
	if node.GetFloat64("x", 7) != 7 || !node.IsArray("a") {
		t.Errorf("unexpected tree")
	}
}

func TestEncoderRejectsMisplaced(t *testing.T) {
	enc := NewEncoder(&bytes.Buffer{})
	if err := enc.BeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteString("no key"); err == nil {
		t.Errorf("value without key accepted")
	}
	enc = NewEncoder(&bytes.Buffer{})
	enc.BeginArray()
	if err := enc.WriteKey("k"); err == nil {
		t.Errorf("key in array accepted")
	}
	if err := enc.EndObject(); err == nil {
		t.Errorf("mismatched end accepted")
	}
}

func TestScalarKinds(t *testing.T) {
	root := ir.New()
	root.Set("i32", int32(5))
	root.Set("f32", float32(0.5))
	root.Set("bf", new(big.Float).SetFloat64(2))
	root.Set("bin", []byte("hi"))
	got := encode(t, root)
	want := `{"i32":5,"f32":0.5,"bf":2.0,"bin":"aGk="}`
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestStatePath(t *testing.T) {
	s := NewState()
	for _, ev := range []Event{
		{Type: EventBeginObject},
		{Type: EventKey, Key: "sub"},
		{Type: EventBeginArray},
		{Type: EventBeginObject},
		{Type: EventEndObject},
		{Type: EventBeginObject},
		{Type: EventKey, Key: "name"},
	} {
		if err := s.ProcessEvent(&ev); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.CurrentPath(); got != "/sub[1]/name" {
		t.Errorf("CurrentPath() = %q", got)
	}
	if k, ok := s.CurrentKey(); !ok || k != "name" {
		t.Errorf("CurrentKey() = %q %v", k, ok)
	}
}
