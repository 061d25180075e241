package yamldoc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"maps"
	"math/big"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
	"github.com/spf13/cast"
)

// Option configures writing YAML.
type Option func(*opts)

type opts struct {
	indent int
}

// WithIndent sets the number of spaces per level on output (default 2).
func WithIndent(n int) Option {
	return func(o *opts) {
		o.indent = n
	}
}

// Decode reads the first YAML document of r. Mappings become nodes in
// key order, sequences arrays, and a top level sequence or scalar is
// stored under ir.Nameless like the JSON codec does.
func Decode(r io.Reader) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, ir.ParseError("yaml", err)
	}
	root := ir.New()
	switch x := v.(type) {
	case nil:
	case yaml.MapSlice:
		err = fillMap(root, x, 0)
	case map[string]any:
		err = fillMap(root, sortedSlice(x), 0)
	case []any:
		err = fillSeq(root.CreateArray(ir.Nameless), x, 0)
	default:
		root.Set(ir.Nameless, x)
	}
	if err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("yaml decoded %s\n", root)
	}
	return root, nil
}

func sortedSlice(m map[string]any) yaml.MapSlice {
	res := make(yaml.MapSlice, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		res = append(res, yaml.MapItem{Key: k, Value: m[k]})
	}
	return res
}

func fillMap(node *ir.Node, ms yaml.MapSlice, level int) error {
	if level > ir.MaxDepth {
		return ir.DepthError("yaml document", ir.MaxDepth)
	}
	for _, item := range ms {
		key, err := cast.ToStringE(item.Key)
		if err != nil {
			return ir.ParseError("yaml", fmt.Errorf("key %v: %w", item.Key, err))
		}
		switch x := item.Value.(type) {
		case yaml.MapSlice:
			err = fillMap(node.CreateObject(key), x, level+1)
		case map[string]any:
			err = fillMap(node.CreateObject(key), sortedSlice(x), level+1)
		case []any:
			err = fillSeq(node.CreateArray(key), x, level+1)
		default:
			node.Set(key, x)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func fillSeq(a *ir.Array, xs []any, level int) error {
	if level > ir.MaxDepth {
		return ir.DepthError("yaml document", ir.MaxDepth)
	}
	for _, x := range xs {
		elt := a.CreateObject()
		var err error
		switch y := x.(type) {
		case yaml.MapSlice:
			err = fillMap(elt, y, level+1)
		case map[string]any:
			err = fillMap(elt, sortedSlice(y), level+1)
		case []any:
			err = fillSeq(elt.CreateArray(ir.Nameless), y, level+1)
		default:
			elt.Set(ir.Nameless, y)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Encode writes node as a YAML document. Dates are written as
// timestamps and enums by name.
func Encode(node *ir.Node, w io.Writer, options ...Option) error {
	o := &opts{indent: 2}
	for _, opt := range options {
		opt(o)
	}
	if debug.Encode() {
		debug.Logf("yaml encoding %s\n", node)
	}
	v, err := toYAML(node, 0)
	if err != nil {
		return err
	}
	encOpts := []yaml.EncodeOption{yaml.Indent(o.indent)}
	if _, ok := v.(yaml.MapSlice); ok {
		// nested sequences only; a top level one stays flush left
		encOpts = append(encOpts, yaml.IndentSequence(true))
	}
	d, err := yaml.MarshalWithOptions(v, encOpts...)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(d))
	return err
}

func toYAML(node *ir.Node, level int) (any, error) {
	if level > ir.MaxDepth {
		return nil, ir.DepthError("yaml encoding", ir.MaxDepth)
	}
	if node.IsNameless() {
		v, _ := node.Slot(ir.Nameless)
		return valueToYAML(v, level)
	}
	res := make(yaml.MapSlice, 0, node.Len())
	for k, v := range node.All() {
		x, err := valueToYAML(v, level)
		if err != nil {
			return nil, err
		}
		res = append(res, yaml.MapItem{Key: k, Value: x})
	}
	return res, nil
}

func valueToYAML(v ir.Value, level int) (any, error) {
	switch v.Kind {
	case ir.ChildKind:
		return toYAML(v.Child, level+1)
	case ir.ArrayKind:
		res := make([]any, 0, v.Array.Len())
		for _, elt := range v.Array.Nodes() {
			x, err := toYAML(elt, level+1)
			if err != nil {
				return nil, err
			}
			res = append(res, x)
		}
		return res, nil
	}
	return scalarToYAML(v.Scalar), nil
}

// number is a numeric literal the YAML library cannot represent natively.
type number string

func (n number) MarshalYAML() ([]byte, error) {
	return []byte(n), nil
}

func scalarToYAML(x any) any {
	switch v := x.(type) {
	case *big.Int:
		return number(v.String())
	case *big.Float:
		return number(v.Text('g', -1))
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	case ir.Enum:
		return v.Name()
	case time.Time:
		return v
	}
	return x
}
