package gomap

import (
	"encoding"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"time"

	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
	"github.com/spf13/cast"
)

type folder struct {
	cfg    *config
	report *Report
}

// ToNode folds a Go value into a document tree.
//
// Structs and maps become nodes, slices and arrays become arrays of
// nodes with scalar elements under ir.Nameless, and scalars become
// properties. A top level slice is stored under ir.Nameless of the
// returned node, a top level scalar likewise. A nil value yields a node
// marked with ir.NullKey.
//
// Values that cannot be folded (channels, functions, complex numbers) are
// skipped and recorded in the Report. Nesting deeper than the configured
// depth fails with ir.ErrDepthExceeded.
func ToNode(v any, opts ...Option) (*ir.Node, *Report, error) {
	f := &folder{cfg: newConfig(opts), report: &Report{}}
	root := ir.New()
	val, err := indirect(reflect.ValueOf(v), "")
	if err != nil {
		return nil, f.report, err
	}
	switch {
	case isNil(val):
		root.SetBool(ir.NullKey, true)
	case isNodeKind(val):
		err = f.fill(root, val, "", 0)
	default:
		err = f.setField(root, ir.Nameless, val, "", 0)
	}
	if err != nil {
		return nil, f.report, err
	}
	return root, f.report, nil
}

// indirect follows pointers and interfaces down to the value they hold,
// stopping at nil and at values with a scalar form. Meeting a pointer
// twice fails with ir.ErrDepthExceeded.
func indirect(val reflect.Value, path string) (reflect.Value, error) {
	var seen map[uintptr]bool
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) && !val.IsNil() {
		if _, ok := scalarOf(val); ok {
			break
		}
		if val.Kind() == reflect.Pointer {
			p := val.Pointer()
			if seen[p] {
				return val, fmt.Errorf("%w: circular reference at %s", ir.ErrDepthExceeded, fieldPath(path))
			}
			if seen == nil {
				seen = make(map[uintptr]bool)
			}
			seen[p] = true
		}
		val = val.Elem()
	}
	return val, nil
}

func isNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return val.IsNil()
	}
	return false
}

// isNodeKind reports whether val folds to a node rather than a scalar or
// an array.
func isNodeKind(val reflect.Value) bool {
	if _, ok := scalarOf(val); ok {
		return false
	}
	switch val.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	}
	return false
}

var (
	bytesType = reflect.TypeFor[[]byte]()
	timeType  = reflect.TypeFor[time.Time]()
)

// scalarOf returns the stored form of values with a dedicated scalar
// representation.
func scalarOf(val reflect.Value) (any, bool) {
	if !val.IsValid() || !val.CanInterface() {
		return nil, false
	}
	switch x := val.Interface().(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *big.Int:
		if x == nil {
			return nil, false
		}
		return new(big.Int).Set(x), true
	case *big.Float:
		if x == nil {
			return nil, false
		}
		return new(big.Float).Copy(x), true
	case []byte:
		if val.Type() != bytesType || x == nil {
			break
		}
		return slices.Clone(x), true
	case ir.Enum:
		return x, true
	case encoding.TextMarshaler:
		if val.Kind() == reflect.Pointer && val.IsNil() {
			return nil, false
		}
		text, err := x.MarshalText()
		if err != nil {
			return nil, false
		}
		return string(text), true
	}
	return nil, false
}

func (f *folder) fail(path string, err error) error {
	fe := &FieldError{Path: path, Err: err}
	if f.cfg.failFast {
		return fe
	}
	if debug.GoMap() {
		debug.Logf("gomap: skipping %s\n", fe)
	}
	f.report.Errors = append(f.report.Errors, fe)
	return nil
}

// fill folds a struct or map into node.
func (f *folder) fill(node *ir.Node, val reflect.Value, path string, level int) error {
	if level > f.cfg.maxDepth {
		return ir.DepthError("fold", f.cfg.maxDepth)
	}
	switch val.Kind() {
	case reflect.Struct:
		if f.cfg.classNames {
			node.SetString(ir.ClassKey, val.Type().String())
		}
		for _, fi := range structFields(val.Type()) {
			fv, err := val.FieldByIndexErr(fi.index)
			if err != nil {
				continue
			}
			if fi.omitEmpty && fv.IsZero() {
				continue
			}
			if err := f.setField(node, fi.name, fv, path+"/"+fi.name, level); err != nil {
				return err
			}
			if f.cfg.shadows {
				f.shadow(node, fi.name, fv)
			}
		}
	case reflect.Map:
		keys := make([]string, 0, val.Len())
		byName := make(map[string]reflect.Value, val.Len())
		for it := val.MapRange(); it.Next(); {
			k, err := mapKey(it.Key())
			if err != nil {
				if err := f.fail(path, err); err != nil {
					return err
				}
				continue
			}
			keys = append(keys, k)
			byName[k] = it.Value()
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := f.setField(node, k, byName[k], path+"/"+k, level); err != nil {
				return err
			}
		}
	}
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if s, ok := scalarOf(k); ok {
		return ir.ScalarString(s)
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	return cast.ToStringE(k.Interface())
}

// shadow records the String() text of numeric and boolean fields.
func (f *folder) shadow(node *ir.Node, key string, val reflect.Value) {
	v, ok := node.Slot(key)
	if !ok || v.Kind != ir.ScalarKind {
		return
	}
	switch v.Type() {
	case ir.IntType, ir.Int32Type, ir.Int16Type, ir.FloatType, ir.Float32Type, ir.BoolType:
	default:
		return
	}
	if s, ok := val.Interface().(fmt.Stringer); ok {
		node.SetString(ir.ShadowKey(key), s.String())
	}
}

// setField folds val into node at key.
func (f *folder) setField(node *ir.Node, key string, val reflect.Value, path string, level int) error {
	if s, ok := scalarOf(val); ok {
		node.Set(key, s)
		return nil
	}
	switch val.Kind() {
	case reflect.Invalid:
		node.SetNull(key)
	case reflect.Pointer, reflect.Interface:
		ev, err := indirect(val, path)
		if err != nil {
			return err
		}
		if isNil(ev) {
			node.SetNull(key)
			return nil
		}
		return f.setField(node, key, ev, path, level)
	case reflect.String:
		node.Set(key, val.String())
	case reflect.Bool:
		node.Set(key, val.Bool())
	case reflect.Int64:
		node.Set(key, val.Int())
	case reflect.Int32:
		node.Set(key, int32(val.Int()))
	case reflect.Int16, reflect.Int8:
		node.Set(key, int16(val.Int()))
	case reflect.Int:
		node.Set(key, val.Int())
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8, reflect.Uintptr:
		node.Set(key, val.Uint())
	case reflect.Float64:
		node.Set(key, val.Float())
	case reflect.Float32:
		node.Set(key, float32(val.Float()))
	case reflect.Struct, reflect.Map:
		if val.Kind() == reflect.Map && val.IsNil() {
			node.SetNull(key)
			return nil
		}
		return f.fill(node.CreateObject(key), val, path, level+1)
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			node.SetNull(key)
			return nil
		}
		return f.fillArray(node.CreateArray(key), val, path, level+1)
	default:
		return f.fail(path, fmt.Errorf("%w: cannot fold %s", ir.ErrTypeMismatch, val.Type()))
	}
	return nil
}

func (f *folder) fillArray(a *ir.Array, val reflect.Value, path string, level int) error {
	if level > f.cfg.maxDepth {
		return ir.DepthError("fold", f.cfg.maxDepth)
	}
	for i := range val.Len() {
		epath := fmt.Sprintf("%s[%d]", path, i)
		ev, err := indirect(val.Index(i), epath)
		if err != nil {
			return err
		}
		elt := a.CreateObject()
		switch {
		case isNil(ev) && isStructLike(val.Type().Elem()):
			elt.SetBool(ir.NullKey, true)
		case isNodeKind(ev):
			err = f.fill(elt, ev, epath, level+1)
		default:
			err = f.setField(elt, ir.Nameless, ev, epath, level)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isStructLike(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return false
	}
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Map
}
