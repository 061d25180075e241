package props

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

// Decode reads a properties file. Every key is a root relative path
// naming a scalar: "sub[2]/test1" is the property test1 of element 2 of
// the array sub, and a key ending in an indexed segment, like "tags[0]",
// sets that element's ir.Nameless value. All values are strings.
// ${...} references in values are kept literally.
func Decode(r io.Reader) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(d)
	if err != nil {
		return nil, ir.ParseError("properties", err)
	}
	root := ir.New()
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		if err := set(root, k, v); err != nil {
			return nil, err
		}
	}
	if debug.Parse() {
		debug.Logf("properties decoded %s\n", root)
	}
	return root, nil
}

// FromMap builds a tree from flat properties, in key order.
func FromMap(m map[string]string) (*ir.Node, error) {
	root := ir.New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := set(root, k, m[k]); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func set(root *ir.Node, key, value string) error {
	segs, err := ir.ParsePath(key)
	if err != nil {
		return fmt.Errorf("property %q: %w", key, err)
	}
	if len(segs) == 0 {
		root.Set(ir.Nameless, value)
		return nil
	}
	last := segs[len(segs)-1]
	if last.HasIndex {
		n, err := ir.FindOrCreateNode(root, key)
		if err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		n.Set(ir.Nameless, value)
		return nil
	}
	parent := root
	if len(segs) > 1 {
		parent, err = ir.FindOrCreateNode(root, joinSegments(segs[:len(segs)-1]))
		if err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
	}
	parent.Set(last.Name, value)
	return nil
}

func joinSegments(segs []ir.Segment) string {
	parts := make([]string, len(segs))
	for i := range segs {
		parts[i] = segs[i].String()
	}
	return strings.Join(parts, "/")
}

// Encode writes every scalar of node as one property, keyed by its path
// below node. Nulls, empty children and empty arrays have no properties
// and are not written.
func Encode(node *ir.Node, w io.Writer) error {
	if debug.Encode() {
		debug.Logf("properties encoding %s\n", node)
	}
	p := properties.NewProperties()
	p.DisableExpansion = true
	err := flatten(node, "", 0, func(k, v string) error {
		_, _, err := p.Set(k, v)
		return err
	})
	if err != nil {
		return err
	}
	_, err = p.Write(w, properties.UTF8)
	return err
}

// ToMap flattens node into properties.
func ToMap(node *ir.Node) (map[string]string, error) {
	res := map[string]string{}
	err := flatten(node, "", 0, func(k, v string) error {
		res[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func join(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "/" + seg
}

func flatten(node *ir.Node, prefix string, level int, emit func(k, v string) error) error {
	if level > ir.MaxDepth {
		return ir.DepthError("properties encoding", ir.MaxDepth)
	}
	for k, v := range node.All() {
		switch v.Kind {
		case ir.ScalarKind:
			if v.IsNull() {
				continue
			}
			s, err := ir.FormatScalar(v.Scalar)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ir.ErrTypeMismatch, join(prefix, k), err)
			}
			key := prefix
			if k != ir.Nameless {
				key = join(prefix, k)
			}
			if err := emit(key, s); err != nil {
				return err
			}
		case ir.ChildKind:
			if err := flatten(v.Child, join(prefix, k), level+1, emit); err != nil {
				return err
			}
		case ir.ArrayKind:
			for i, elt := range v.Array.All() {
				seg := k + "[" + strconv.Itoa(i) + "]"
				if err := flatten(elt, join(prefix, seg), level+1, emit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
