package stream

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/signadot/doctree/ir"
)

// Builder is an EventSink assembling a document tree. It keeps an explicit
// stack of container frames so depth is bounded by ir.MaxDepth rather than
// by the Go stack.
//
//   - A top level object is the root. A top level array is stored under
//     ir.Nameless in the root, as is a top level scalar.
//   - Inside an object, an object start creates a child with CreateObject,
//     so a repeated key promotes to an array, and an array start replaces
//     the field with a fresh array.
//   - Inside an array, every value creates an element: objects are filled,
//     nested arrays are stored under the element's ir.Nameless key and
//     scalars under its ir.Nameless key.
type Builder struct {
	state   *State
	frames  []frame
	root    *ir.Node
	done    bool
	shadows bool
}

type frame struct {
	node  *ir.Node
	array *ir.Array
}

// NewBuilder returns a Builder. Of the options, only WithShadows applies.
func NewBuilder(opts ...StreamOption) *Builder {
	o := newOpts(opts)
	return &Builder{state: NewState(), shadows: o.shadows}
}

// WriteEvent applies ev to the tree under construction.
func (b *Builder) WriteEvent(ev *Event) error {
	if b.done && ev.IsValueStart() {
		return &Error{Msg: "more than one top level value"}
	}
	if err := b.state.ProcessEvent(ev); err != nil {
		return &Error{Msg: fmt.Sprintf("event %s: %s", ev.Type, err)}
	}
	if b.state.Depth() > ir.MaxDepth {
		return ir.DepthError("json document", ir.MaxDepth)
	}
	switch ev.Type {
	case EventBeginObject:
		b.push(frame{node: b.newNode()})
	case EventBeginArray:
		b.push(frame{array: b.newArray()})
	case EventEndObject, EventEndArray:
		b.frames = b.frames[:len(b.frames)-1]
		if len(b.frames) == 0 {
			b.done = true
		}
	case EventKey:
	default:
		v, err := scalarOf(ev)
		if err != nil {
			return err
		}
		b.setScalar(v)
	}
	return nil
}

// Root returns the completed tree.
func (b *Builder) Root() (*ir.Node, error) {
	if !b.done {
		if b.root == nil {
			return nil, &Error{Msg: "empty document"}
		}
		return nil, &Error{Msg: fmt.Sprintf("unclosed structures: %d remaining", len(b.frames))}
	}
	return b.root, nil
}

func (b *Builder) push(f frame) {
	b.frames = append(b.frames, f)
}

func (b *Builder) top() *frame {
	return &b.frames[len(b.frames)-1]
}

// key returns the key of the scalar just processed by the state.
func (b *Builder) key() string {
	return b.state.current().key
}

// newNode makes the node an object start fills. State has already pushed
// the new container, so the enclosing one is one below the top.
func (b *Builder) newNode() *ir.Node {
	if len(b.frames) == 0 {
		b.root = ir.New()
		return b.root
	}
	f := b.top()
	if f.array != nil {
		return f.array.CreateObject()
	}
	return f.node.CreateObject(b.parentKey())
}

func (b *Builder) newArray() *ir.Array {
	if len(b.frames) == 0 {
		b.root = ir.New()
		return b.root.CreateArray(ir.Nameless)
	}
	f := b.top()
	if f.array != nil {
		return f.array.CreateObject().CreateArray(ir.Nameless)
	}
	return f.node.CreateArray(b.parentKey())
}

func (b *Builder) parentKey() string {
	return b.state.stack[len(b.state.stack)-2].key
}

func (b *Builder) setScalar(v any) {
	if len(b.frames) == 0 {
		b.root = ir.FromScalar(v)
		b.done = true
		return
	}
	f := b.top()
	if f.array != nil {
		f.array.CreateObject().Set(ir.Nameless, v)
		return
	}
	k := b.key()
	if b.shadows && b.foldShadow(f.node, k, v) {
		return
	}
	f.node.Set(k, v)
}

// foldShadow turns an epoch millisecond property back into a date when it
// is followed by its ISO 8601 shadow.
func (b *Builder) foldShadow(node *ir.Node, key string, v any) bool {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(key, ir.ShadowPrefix) {
		return false
	}
	base := key[len(ir.ShadowPrefix):]
	x, ok := node.Get(base)
	if !ok {
		return false
	}
	ms, ok := x.(int64)
	if !ok {
		return false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil || t.UnixMilli() != ms {
		return false
	}
	node.Set(base, t)
	return true
}

func scalarOf(ev *Event) (any, error) {
	switch ev.Type {
	case EventString:
		return ev.String, nil
	case EventInt:
		return ev.Int, nil
	case EventFloat:
		return ev.Float, nil
	case EventBool:
		return ev.Bool, nil
	case EventNull:
		return nil, nil
	case EventNumber:
		return parseBigNumber(ev.String)
	}
	return nil, &Error{Msg: "unexpected event " + ev.Type.String()}
}

func parseBigNumber(num string) (any, error) {
	if !strings.ContainsAny(num, ".eE") {
		if i, ok := new(big.Int).SetString(num, 10); ok {
			return i, nil
		}
	}
	f, _, err := big.ParseFloat(num, 10, 256, big.ToNearestEven)
	if err != nil {
		return nil, ir.ParseError("json number", err)
	}
	return f, nil
}

// EventsToNode converts a sequence of events to a document tree.
func EventsToNode(events []Event, opts ...StreamOption) (*ir.Node, error) {
	b := NewBuilder(opts...)
	for i := range events {
		if err := b.WriteEvent(&events[i]); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return b.Root()
}
