package ir

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCreateArrayTwice(t *testing.T) {
	root := New()
	first := root.CreateArray("a")
	first.CreateObject()
	second := root.CreateArray("a")
	got, ok := root.GetArray("a")
	if !ok {
		t.Fatal("no array at a")
	}
	if got != second {
		t.Errorf("second CreateArray did not win")
	}
	if got.Len() != 0 {
		t.Errorf("expected empty array, got %d elements", got.Len())
	}
	if first.Owner() != nil {
		t.Errorf("replaced array still owned")
	}
}

func TestCreateObjectTwicePromotes(t *testing.T) {
	root := New()
	c1 := root.CreateObject("a")
	c1.SetString("x", "1")
	if !root.IsObject("a") {
		t.Fatal("first CreateObject should give a single child")
	}
	c2 := root.CreateObject("a")
	c2.SetString("x", "2")
	if root.IsObject("a") {
		t.Fatal("second CreateObject should promote to array")
	}
	a, ok := root.GetArray("a")
	if !ok {
		t.Fatal("no array at a")
	}
	if a.Len() != 2 || a.Get(0) != c1 || a.Get(1) != c2 {
		t.Fatalf("unexpected elements %v", a.Nodes())
	}
	for i, n := range a.Nodes() {
		if n.Parent() != root || n.Array() != a || n.Name != "a" {
			t.Errorf("element %d not stamped", i)
		}
	}
	c3 := root.CreateObject("a")
	if a.Len() != 3 || a.Get(2) != c3 {
		t.Errorf("third CreateObject should append")
	}
}

func TestAddObjectRestamps(t *testing.T) {
	root := New()
	other := New()
	n := other.CreateObject("elsewhere")
	root.AddObject("here", n)
	if n.Name != "here" || n.Parent() != root || n.Array() != nil {
		t.Errorf("node not restamped: %q %v %v", n.Name, n.Parent(), n.Array())
	}
	m := NewNamed("zzz")
	root.AddObject("here", m)
	a, _ := root.GetArray("here")
	if m.Name != "here" || m.Parent() != root || m.Array() != a {
		t.Errorf("second node not stamped as element")
	}
}

func TestKindSwitchOverwrites(t *testing.T) {
	root := New()
	root.SetString("k", "v")
	child := root.CreateObject("k")
	if _, ok := root.Get("k"); ok {
		t.Errorf("scalar should be gone")
	}
	root.SetInt("k", 3)
	if root.IsObject("k") {
		t.Errorf("child should be gone")
	}
	if child.Parent() != nil {
		t.Errorf("replaced child should be detached")
	}
	if got := root.Keys(); !cmp.Equal(got, []string{"k"}) {
		t.Errorf("keys %v", got)
	}
}

func TestKeysKeepOrder(t *testing.T) {
	root := New()
	for _, k := range []string{"z", "a", "m"} {
		root.SetString(k, k)
	}
	root.SetString("a", "again")
	if diff := cmp.Diff([]string{"z", "a", "m"}, root.Keys()); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	root.Remove("z")
	if diff := cmp.Diff([]string{"a", "m"}, root.Keys()); diff != "" {
		t.Errorf("order after remove (-want +got):\n%s", diff)
	}
}

func TestTypedAccessors(t *testing.T) {
	root := New()
	root.SetString("s", "42")
	root.SetInt("i", 7)
	root.SetFloat64("f", 1.5)
	root.SetBool("b", true)
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	root.SetTime("d", when)
	root.CreateObject("o")

	if got := root.GetInt("s", 0); got != 42 {
		t.Errorf("GetInt(s) = %d", got)
	}
	if got := root.GetString("i", ""); got != "7" {
		t.Errorf("GetString(i) = %q", got)
	}
	if got := root.GetFloat64("f", 0); got != 1.5 {
		t.Errorf("GetFloat64(f) = %v", got)
	}
	if got := root.GetBool("b", false); !got {
		t.Errorf("GetBool(b) = %v", got)
	}
	if got := root.GetTime("d", time.Time{}); !got.Equal(when) {
		t.Errorf("GetTime(d) = %v", got)
	}
	if got := root.GetString("missing", "dflt"); got != "dflt" {
		t.Errorf("default not used: %q", got)
	}
	if _, ok := root.LookupInt("o"); ok {
		t.Errorf("LookupInt on a child should be absent")
	}
	if _, err := root.IntE("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	root.SetString("word", "abc")
	if _, err := root.IntE("word"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
	if got := root.GetInt("word", -1); got != -1 {
		t.Errorf("mismatch should give default, got %d", got)
	}
}

func TestArrayAccessorOnScalarIsAbsent(t *testing.T) {
	root := New()
	root.SetString("k", "v")
	if _, ok := root.GetArray("k"); ok {
		t.Errorf("GetArray on scalar should be absent")
	}
	if _, ok := root.GetObject("k"); ok {
		t.Errorf("GetObject on scalar should be absent")
	}
	if _, ok := root.GetArray("missing"); ok {
		t.Errorf("GetArray on missing should be absent")
	}
}

func TestGetAsObject(t *testing.T) {
	root := New()
	child := root.CreateObject("c")
	if root.GetAsObject("c") != child {
		t.Errorf("child not returned as is")
	}
	root.SetString("s", "v")
	wrapped := root.GetAsObject("s")
	if wrapped == nil || wrapped.GetString(Nameless, "") != "v" {
		t.Errorf("scalar not wrapped")
	}
	root.Set("m", map[string]any{"x": "y"})
	folded := root.GetAsObject("m")
	if folded.GetString("x", "") != "y" {
		t.Errorf("map not folded")
	}
	if root.GetAsObject("missing") == nil {
		t.Errorf("missing key should give a node")
	}
}

func TestGetObjectByPath(t *testing.T) {
	root := New()
	root.CreateObject("a").CreateObject("b").CreateObject("c").SetString("v", "x")
	n, ok := root.GetObjectByPath("/a/b/c")
	if !ok || n.GetString("v", "") != "x" {
		t.Errorf("path not followed")
	}
	if _, ok := root.GetObjectByPath("/a/x/c"); ok {
		t.Errorf("miss should be absent")
	}
}

func TestArrayInsertions(t *testing.T) {
	root := New()
	a := root.CreateArray("sub")
	x, y, z := NewNamed("x"), NewNamed("y"), NewNamed("z")
	a.Add(y)
	a.AddFirst(x)
	a.AddLast(z)
	w := New()
	prev := a.Set(1, w)
	if prev != y {
		t.Errorf("Set returned %v", prev)
	}
	if y.Parent() != nil || y.Array() != nil {
		t.Errorf("replaced element not released")
	}
	a.AddAll(New(), New())
	if a.Len() != 5 {
		t.Fatalf("len %d", a.Len())
	}
	for i, n := range a.All() {
		if n.Name != "sub" || n.Parent() != root || n.Array() != a {
			t.Errorf("element %d not stamped", i)
		}
	}
	if a.IndexOf(z) != 2 {
		t.Errorf("IndexOf(z) = %d", a.IndexOf(z))
	}
	if !a.RemoveNode(z) || a.IndexOf(z) != -1 {
		t.Errorf("RemoveNode failed")
	}
}

func TestArrayCreateObjectBackReferences(t *testing.T) {
	root := New()
	a := root.CreateArray("sub")
	elt := a.CreateObject()
	if elt.Parent() != root {
		t.Errorf("parent should be the owner")
	}
	if elt.Array() != a {
		t.Errorf("array should be the container")
	}
}

func TestSetArrayStampsElements(t *testing.T) {
	a := NewArray(NewNamed("p"), NewNamed("q"))
	root := New()
	root.SetArray("list", a)
	for _, n := range a.Nodes() {
		if n.Name != "list" || n.Parent() != root {
			t.Errorf("element not stamped: %q", n.Name)
		}
	}
}

func TestScalarTypes(t *testing.T) {
	root := New()
	root.Set("i", 1)
	root.Set("f", 1.0)
	root.Set("u", uint64(1<<63))
	tests := []struct {
		key  string
		want ScalarType
	}{
		{"i", IntType},
		{"f", FloatType},
		{"u", BigIntType},
	}
	for _, tc := range tests {
		v, _ := root.Slot(tc.key)
		if got := v.Type(); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.key, got, tc.want)
		}
	}
}

func TestToAnyFromAny(t *testing.T) {
	in := map[string]any{
		"a": "x",
		"b": []any{int64(1), map[string]any{"c": true}},
		"d": map[string]any{"e": 2.5},
	}
	node, err := FromAny(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToAny(node)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-in +out):\n%s", diff)
	}
}
