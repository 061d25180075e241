package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindOrCreateNodeExtendsArray(t *testing.T) {
	root := New()
	n, err := FindOrCreateNode(root, "sub[2]/name")
	if err != nil {
		t.Fatal(err)
	}
	a, ok := root.GetArray("sub")
	if !ok {
		t.Fatal("sub is not an array")
	}
	if a.Len() != 3 {
		t.Errorf("expected 3 elements, got %d", a.Len())
	}
	if got := a.Get(2).Path(); got != "/sub[2]" {
		t.Errorf("Path() = %q", got)
	}
	if got := n.Path(); got != "/sub[2]/name" {
		t.Errorf("Path() = %q", got)
	}
	again, err := FindOrCreateNode(root, "/sub[2]/name")
	if err != nil {
		t.Fatal(err)
	}
	if again != n {
		t.Errorf("second lookup created a new node")
	}
	if a.Len() != 3 {
		t.Errorf("second lookup changed the array: %d", a.Len())
	}
}

func TestFindOrCreateNodePromotesChild(t *testing.T) {
	root := New()
	child := root.CreateObject("x")
	n, err := FindOrCreateNode(root, "x[1]")
	if err != nil {
		t.Fatal(err)
	}
	a, ok := root.GetArray("x")
	if !ok || a.Len() != 2 {
		t.Fatalf("expected promotion to a 2 element array")
	}
	if a.Get(0) != child || a.Get(1) != n {
		t.Errorf("unexpected elements")
	}
}

func TestFindOrCreateNodeFirstElement(t *testing.T) {
	root := New()
	a := root.CreateArray("list")
	first := a.CreateObject()
	a.CreateObject()
	n, err := FindOrCreateNode(root, "list/leaf")
	if err != nil {
		t.Fatal(err)
	}
	if n.Parent() != first {
		t.Errorf("plain segment should use the first element")
	}
}

func TestFindOrCreateNodeErrors(t *testing.T) {
	root := New()
	for _, p := range []string{"a[x]", "a[-1]", "a[1", "a]"} {
		if _, err := FindOrCreateNode(root, p); !errors.Is(err, ErrBadPath) {
			t.Errorf("%q: expected ErrBadPath, got %v", p, err)
		}
	}
	deep := strings.Repeat("/a", MaxDepth+1)
	if _, err := FindOrCreateNode(root, deep); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	if root.Len() != 0 {
		t.Errorf("failed lookups should not create anything")
	}
}

func TestPath(t *testing.T) {
	root := New()
	if got := root.Path(); got != "/" {
		t.Errorf("root Path() = %q", got)
	}
	c := root.CreateObject("a").CreateObject("b")
	if got := c.Path(); got != "/a/b" {
		t.Errorf("Path() = %q", got)
	}
	a := c.CreateArray("items")
	a.CreateObject()
	e := a.CreateObject()
	if got := e.Path(); got != "/a/b/items[1]" {
		t.Errorf("Path() = %q", got)
	}
}

func TestParsePath(t *testing.T) {
	got, err := ParsePath("//a/b[3]/c/")
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{
		{Name: "a"},
		{Name: "b", Index: 3, HasIndex: true},
		{Name: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFindNode(t *testing.T) {
	root := New()
	if _, err := FindOrCreateNode(root, "a/b[1]/c"); err != nil {
		t.Fatal(err)
	}
	if _, ok := root.FindNode("a/b[1]/c"); !ok {
		t.Errorf("existing path not found")
	}
	if _, ok := root.FindNode("a/b[2]/c"); ok {
		t.Errorf("out of range index found")
	}
	if _, ok := root.FindNode("a/z"); ok {
		t.Errorf("missing child found")
	}
}

func TestFindValue(t *testing.T) {
	root := New()
	svc := root.CreateObject("svc")
	svc.SetString("name", "web")
	svc.CreateArray("ports").CreateObject().SetInt("n", 80)
	v, err := root.FindValue("/svc/name")
	if err != nil {
		t.Fatal(err)
	}
	if x, err := v.ToAny(); err != nil || x != "web" {
		t.Errorf("scalar: got %v, %v", x, err)
	}
	v, err = root.FindValue("/svc/ports")
	if err != nil || v.Kind != ArrayKind {
		t.Fatalf("array: got %v, %v", v.Kind, err)
	}
	x, err := v.ToAny()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{map[string]any{"n": int64(80)}}, x); diff != "" {
		t.Errorf("array (-want +got):\n%s", diff)
	}
	if v, err := root.FindValue("/svc"); err != nil || v.Child != svc {
		t.Errorf("child: got %v", err)
	}
	if _, err := root.FindValue("/svc/nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestMergeCopies(t *testing.T) {
	from := New()
	from.SetString("s", "v")
	from.Set("bin", []byte("xyz"))
	from.CreateObject("c").SetInt("n", 1)
	a := from.CreateArray("arr")
	a.CreateObject().SetString("k", "0")
	a.CreateObject().SetString("k", "1")

	to := New()
	if err := Merge(from, to); err != nil {
		t.Fatal(err)
	}
	if !Equal(from, to) {
		t.Fatalf("merge result differs")
	}
	fc, _ := from.GetObject("c")
	tc, _ := to.GetObject("c")
	if fc == tc {
		t.Errorf("child shared")
	}
	if tc.Parent() != to {
		t.Errorf("copied child not stamped")
	}
	bin, _ := from.Get("bin")
	bin.([]byte)[0] = 'X'
	if got := to.GetString("bin", ""); got != "xyz" {
		t.Errorf("binary scalar shared: %q", got)
	}
}

func TestMergeDepth(t *testing.T) {
	from := New()
	cur := from
	for range MaxDepth + 2 {
		cur = cur.CreateObject("d")
	}
	err := Merge(from, New())
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestClone(t *testing.T) {
	root := New()
	n, _ := FindOrCreateNode(root, "sub[1]/x")
	n.SetString("v", "1")
	c, err := root.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(root, c) {
		t.Errorf("clone differs")
	}
	if c.Parent() != nil {
		t.Errorf("clone not detached")
	}
}
