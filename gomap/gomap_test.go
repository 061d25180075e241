package gomap

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/doctree/ir"
)

type base struct {
	ID string `json:"id"`
}

type level int

func (l level) String() string {
	switch l {
	case 0:
		return "low"
	case 1:
		return "high"
	}
	return "unknown"
}

type item struct {
	Name  string `doctree:"name"`
	Count int    `doctree:"count,omitempty"`
}

type server struct {
	base
	Name    string            `doctree:"name"`
	Port    uint16            `json:"port"`
	Ratio   float64           `doctree:"ratio"`
	Enabled bool              `doctree:"enabled"`
	Level   level             `doctree:"level"`
	Started time.Time         `doctree:"started"`
	Data    []byte            `doctree:"data"`
	Tags    []string          `doctree:"tags"`
	Items   []*item           `doctree:"items"`
	Labels  map[string]string `doctree:"labels"`
	Owner   *item             `doctree:"owner"`
	Skipped string            `doctree:"-"`
	hidden  int
}

func testServer() *server {
	return &server{
		base:    base{ID: "s1"},
		Name:    "web",
		Port:    8080,
		Ratio:   0.5,
		Enabled: true,
		Level:   1,
		Started: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Data:    []byte{1, 2, 3},
		Tags:    []string{"a", "b"},
		Items:   []*item{nil, {Name: "x", Count: 2}},
		Labels:  map[string]string{"zone": "eu", "app": "web"},
		Owner:   &item{Name: "ops"},
	}
}

func TestRoundTrip(t *testing.T) {
	in := testServer()
	node, report, err := ToNode(in)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Fatalf("unexpected field errors: %v", report.Err())
	}
	var out server
	report, err = FromNode(node, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Fatalf("unexpected field errors: %v", report.Err())
	}
	if diff := cmp.Diff(in, &out, cmp.AllowUnexported(server{})); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestToNodeShape(t *testing.T) {
	node, _, err := ToNode(testServer())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"id", "name", "port", "ratio", "enabled", "level", "started", "data", "tags", "items", "labels", "owner"}
	if diff := cmp.Diff(want, node.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	labels, ok := node.GetObject("labels")
	if !ok {
		t.Fatal("labels is not an object")
	}
	if diff := cmp.Diff([]string{"app", "zone"}, labels.Keys()); diff != "" {
		t.Errorf("map keys (-want +got):\n%s", diff)
	}
	items, ok := node.GetArray("items")
	if !ok || items.Len() != 2 {
		t.Fatalf("items: got %v", items)
	}
	if !items.Get(0).GetBool(ir.NullKey, false) {
		t.Error("nil element should carry the null marker")
	}
	if !items.Get(1).Has("count") || items.Get(1).GetString("name", "") != "x" {
		t.Errorf("second item: %v", items.Get(1))
	}
	owner, _ := node.GetObject("owner")
	if owner.Has("count") {
		t.Error("omitempty field should be omitted")
	}
	tags, _ := node.GetArray("tags")
	if got := tags.Get(1).GetString(ir.Nameless, ""); got != "b" {
		t.Errorf("tags[1]: got %q", got)
	}
}

func TestToNodeTopLevel(t *testing.T) {
	node, _, err := ToNode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !node.GetBool(ir.NullKey, false) {
		t.Error("nil should give a null marker")
	}

	node, _, err = ToNode(42)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := node.Get(ir.Nameless); got != int64(42) {
		t.Errorf("scalar: got %v", got)
	}

	node, _, err = ToNode([]int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	var ints []int
	if _, err := FromNode(node, &ints); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ints); diff != "" {
		t.Errorf("slice (-want +got):\n%s", diff)
	}
}

func TestNullUnfoldsToNil(t *testing.T) {
	node, _, err := ToNode(nil)
	if err != nil {
		t.Fatal(err)
	}
	p := &item{Name: "old"}
	if _, err := FromNode(node, &p); err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("got %v, want nil", p)
	}
}

func TestClassNames(t *testing.T) {
	node, _, err := ToNode(item{Name: "x"}, WithClassNames(true))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.GetString(ir.ClassKey, ""); got != "gomap.item" {
		t.Errorf("class: got %q", got)
	}
	var m map[string]any
	if _, err := FromNode(node, &m); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "x"}, m); diff != "" {
		t.Errorf("map (-want +got):\n%s", diff)
	}
}

func TestShadows(t *testing.T) {
	node, _, err := ToNode(testServer(), WithShadows(true))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.GetString("_level", ""); got != "high" {
		t.Errorf("shadow: got %q", got)
	}
	if node.Has("_port") {
		t.Error("plain numbers have no shadow")
	}
	var m map[string]any
	if _, err := FromNode(node, &m, WithShadows(true)); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["_level"]; ok {
		t.Error("shadow should be skipped")
	}
	if m["level"] != int64(1) {
		t.Errorf("level: got %v", m["level"])
	}
}

type withChan struct {
	Name string   `doctree:"name"`
	C    chan int `doctree:"c"`
}

func TestUnsupportedField(t *testing.T) {
	node, report, err := ToNode(withChan{Name: "n", C: make(chan int)})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Errors) != 1 || report.Errors[0].Path != "/c" {
		t.Fatalf("report: %v", report.Err())
	}
	if !errors.Is(report.Err(), ir.ErrTypeMismatch) {
		t.Errorf("got %v, want type mismatch", report.Err())
	}
	if node.Has("c") || !node.Has("name") {
		t.Errorf("keys: %v", node.Keys())
	}

	_, _, err = ToNode(withChan{C: make(chan int)}, FailFast())
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Path != "/c" {
		t.Errorf("got %v, want field error at /c", err)
	}
}

type chain struct {
	Next *chain `doctree:"next"`
}

func TestDepthExceeded(t *testing.T) {
	var c *chain
	for range 6 {
		c = &chain{Next: c}
	}
	_, _, err := ToNode(c, MaxDepth(3))
	if !errors.Is(err, ir.ErrDepthExceeded) {
		t.Fatalf("got %v, want depth exceeded", err)
	}
	if _, _, err := ToNode(c); err != nil {
		t.Errorf("default depth: %v", err)
	}
}

func TestCircularReferences(t *testing.T) {
	var x any
	x = &x
	loop := &chain{}
	loop.Next = loop
	for name, v := range map[string]any{
		"interface field": struct{ V any }{V: x},
		"top level":       &x,
		"slice element":   []any{x},
		"struct cycle":    loop,
	} {
		if _, _, err := ToNode(v); !errors.Is(err, ir.ErrDepthExceeded) {
			t.Errorf("%s: got %v, want depth exceeded", name, err)
		}
	}
}

func TestFromNodeMismatch(t *testing.T) {
	node := ir.New()
	node.SetString("name", "x")
	node.SetString("count", "many")
	var it item
	report, err := FromNode(node, &it)
	if err != nil {
		t.Fatal(err)
	}
	if it.Name != "x" {
		t.Errorf("name: got %q", it.Name)
	}
	if len(report.Errors) != 1 || report.Errors[0].Path != "/count" {
		t.Fatalf("report: %v", report.Err())
	}
	if !errors.Is(report.Errors[0], ir.ErrTypeMismatch) {
		t.Errorf("got %v, want type mismatch", report.Errors[0])
	}

	_, err = FromNode(node, &it, FailFast())
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Path != "/count" {
		t.Errorf("got %v, want field error at /count", err)
	}
}

func TestFromNodeConversions(t *testing.T) {
	node := ir.New()
	node.SetString("count", "12")
	node.SetInt64("small", 300)
	node.SetInt64("when", 1714979289000)
	node.CreateObject("tags").SetString(ir.Nameless, "solo")

	var out struct {
		Count int       `doctree:"count"`
		Small int8      `doctree:"small"`
		When  time.Time `doctree:"when"`
		Tags  []string  `doctree:"tags"`
	}
	report, err := FromNode(node, &out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 12 {
		t.Errorf("count: got %d", out.Count)
	}
	if !out.When.Equal(time.UnixMilli(1714979289000)) {
		t.Errorf("when: got %v", out.When)
	}
	if diff := cmp.Diff([]string{"solo"}, out.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
	if len(report.Errors) != 1 || report.Errors[0].Path != "/small" {
		t.Errorf("report: %v", report.Err())
	}
}

func TestFromNodeMapSkipsMismatch(t *testing.T) {
	node := ir.New()
	node.SetString("a", "1")
	node.SetString("b", "many")
	var m map[string]int
	report, err := FromNode(node, &m)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1}, m); diff != "" {
		t.Errorf("map (-want +got):\n%s", diff)
	}
	if len(report.Errors) != 1 || report.Errors[0].Path != "/b" {
		t.Errorf("report: %v", report.Err())
	}
}

func TestFromNodeTarget(t *testing.T) {
	var it item
	if _, err := FromNode(ir.New(), it); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("got %v, want type mismatch", err)
	}
}
