package stream

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

// EncodeNode writes node as JSON. A node whose only key is ir.Nameless is
// written as its bare payload. Dates are written as epoch milliseconds and
// enums as ordinals, each followed by a shadow property unless
// WithShadows(false) is given.
func EncodeNode(node *ir.Node, w io.Writer, opts ...StreamOption) error {
	if debug.Encode() {
		debug.Logf("json encoding %s\n", node)
	}
	e := NewEncoder(w, opts...)
	if err := e.encodeNode(node, 0); err != nil {
		return err
	}
	if e.opts.indent != "" {
		if err := e.writeString("\n"); err != nil {
			return err
		}
	}
	return e.Flush()
}

func (e *Encoder) encodeNode(node *ir.Node, level int) error {
	if level > ir.MaxDepth {
		return ir.DepthError("json encoding", ir.MaxDepth)
	}
	if node.IsNameless() {
		v, _ := node.Slot(ir.Nameless)
		return e.encodeValue(v, level)
	}
	if err := e.BeginObject(); err != nil {
		return err
	}
	for k, v := range node.All() {
		if err := e.WriteKey(k); err != nil {
			return err
		}
		if err := e.encodeValue(v, level); err != nil {
			return err
		}
		if v.Kind != ir.ScalarKind || !e.opts.shadows {
			continue
		}
		if err := e.writeShadow(k, v.Scalar); err != nil {
			return err
		}
	}
	return e.EndObject()
}

func (e *Encoder) writeShadow(key string, x any) error {
	var shadow string
	switch v := x.(type) {
	case time.Time:
		shadow = v.UTC().Format(time.RFC3339Nano)
	case ir.Enum:
		shadow = v.Name()
	default:
		return nil
	}
	if err := e.WriteKey(ir.ShadowKey(key)); err != nil {
		return err
	}
	return e.WriteString(shadow)
}

func (e *Encoder) encodeValue(v ir.Value, level int) error {
	switch v.Kind {
	case ir.ChildKind:
		return e.encodeNode(v.Child, level+1)
	case ir.ArrayKind:
		if err := e.BeginArray(); err != nil {
			return err
		}
		for _, elt := range v.Array.Nodes() {
			if err := e.encodeNode(elt, level+1); err != nil {
				return err
			}
		}
		return e.EndArray()
	}
	return e.WriteScalar(v.Scalar)
}

// WriteScalar writes a stored scalar with the writer for its kind.
func (e *Encoder) WriteScalar(x any) error {
	switch v := x.(type) {
	case nil:
		return e.WriteNull()
	case string:
		return e.WriteString(v)
	case bool:
		return e.WriteBool(v)
	case int64:
		return e.WriteInt(v)
	case int32:
		return e.WriteInt32(v)
	case int16:
		return e.WriteInt16(v)
	case float64:
		return e.WriteFloat(v)
	case float32:
		return e.WriteFloat32(v)
	case *big.Int:
		return e.WriteBigInt(v)
	case *big.Float:
		return e.WriteBigFloat(v)
	case []byte:
		return e.WriteBinary(v)
	case time.Time:
		return e.WriteInt(v.UnixMilli())
	case ir.Enum:
		return e.WriteInt(int64(v.Ordinal()))
	case map[string]any, []any:
		return e.WriteRaw(oj.JSON(v, &oj.Options{Sort: true, HTMLUnsafe: true}))
	}
	s, err := ir.ScalarString(x)
	if err != nil {
		return fmt.Errorf("%w: cannot encode %T at %s", ir.ErrTypeMismatch, x, e.CurrentPath())
	}
	return e.WriteString(s)
}
