package gomap

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
	"github.com/spf13/cast"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	bigIntPtrType       = reflect.TypeFor[*big.Int]()
	bigFloatPtrType     = reflect.TypeFor[*big.Float]()
)

// FromNode unfolds node into target, which must be a non-nil pointer.
//
// Node properties fill struct fields (named as for ToNode) and map
// entries, arrays fill slices and arrays, and scalars are converted to the
// target kind. A value which does not fit its target is recorded in the
// returned Report and the field left untouched, unless FailFast is given.
func FromNode(node *ir.Node, target any, opts ...Option) (*Report, error) {
	u := &folder{cfg: newConfig(opts), report: &Report{}}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return u.report, fmt.Errorf("%w: target must be a non-nil pointer, got %T", ir.ErrTypeMismatch, target)
	}
	if debug.GoMap() {
		debug.Logf("gomap: unfolding into %T %s\n", target, node)
	}
	if err := u.unfoldNode(rv.Elem(), node, "", 0); err != nil {
		return u.report, err
	}
	return u.report, nil
}

// unfoldNode stores a whole node (an array element or the root) in dst.
func (u *folder) unfoldNode(dst reflect.Value, node *ir.Node, path string, level int) error {
	switch {
	case node.IsNameless():
		v, _ := node.Slot(ir.Nameless)
		return u.unfold(dst, v, path, level)
	case node.Len() == 1 && node.GetBool(ir.NullKey, false):
		dst.SetZero()
		return nil
	}
	return u.unfold(dst, ir.Value{Kind: ir.ChildKind, Child: node}, path, level)
}

func (u *folder) mismatch(dst reflect.Value, v ir.Value, path string) error {
	what := v.Kind.String()
	if v.Kind == ir.ScalarKind {
		what = v.Type().String()
	}
	return u.fail(fieldPath(path), fmt.Errorf("%w: cannot store %s in %s", ir.ErrTypeMismatch, what, dst.Type()))
}

func fieldPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func (u *folder) unfold(dst reflect.Value, v ir.Value, path string, level int) error {
	if level > u.cfg.maxDepth {
		return ir.DepthError("unfold", u.cfg.maxDepth)
	}
	switch dst.Type() {
	case timeType, bigIntPtrType, bigFloatPtrType:
		return u.unfoldScalar(dst, v, path)
	}
	if dst.Kind() == reflect.Pointer {
		if v.IsNull() {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return u.unfold(dst.Elem(), v, path, level)
	}
	if v.Kind == ir.ScalarKind && dst.CanAddr() && dst.Addr().Type().Implements(textUnmarshalerType) {
		if s, ok := v.Scalar.(string); ok {
			if err := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return u.fail(fieldPath(path), err)
			}
			return nil
		}
	}
	switch dst.Kind() {
	case reflect.Interface:
		return u.unfoldInterface(dst, v, path)
	case reflect.Struct:
		if v.Kind != ir.ChildKind {
			return u.mismatch(dst, v, path)
		}
		return u.unfoldStruct(dst, v.Child, path, level)
	case reflect.Map:
		if v.IsNull() {
			dst.SetZero()
			return nil
		}
		if v.Kind != ir.ChildKind || dst.Type().Key().Kind() != reflect.String {
			return u.mismatch(dst, v, path)
		}
		return u.unfoldMap(dst, v.Child, path, level)
	case reflect.Slice:
		if dst.Type() == bytesType && v.Kind == ir.ScalarKind && !v.IsNull() {
			return u.unfoldScalar(dst, v, path)
		}
		if v.IsNull() {
			dst.SetZero()
			return nil
		}
		nodes := elements(v)
		s := reflect.MakeSlice(dst.Type(), len(nodes), len(nodes))
		for i, elt := range nodes {
			if err := u.unfoldNode(s.Index(i), elt, fmt.Sprintf("%s[%d]", path, i), level+1); err != nil {
				return err
			}
		}
		dst.Set(s)
		return nil
	case reflect.Array:
		nodes := elements(v)
		if len(nodes) > dst.Len() {
			return u.fail(fieldPath(path), fmt.Errorf("%w: %d elements do not fit in %s", ir.ErrTypeMismatch, len(nodes), dst.Type()))
		}
		for i, elt := range nodes {
			if err := u.unfoldNode(dst.Index(i), elt, fmt.Sprintf("%s[%d]", path, i), level+1); err != nil {
				return err
			}
		}
		return nil
	}
	return u.unfoldScalar(dst, v, path)
}

// elements returns the nodes of an array value. A single child or scalar
// is a one element array.
func elements(v ir.Value) []*ir.Node {
	switch v.Kind {
	case ir.ArrayKind:
		return v.Array.Nodes()
	case ir.ChildKind:
		return []*ir.Node{v.Child}
	}
	return []*ir.Node{ir.FromScalar(v.Scalar)}
}

func (u *folder) unfoldInterface(dst reflect.Value, v ir.Value, path string) error {
	var x any
	switch v.Kind {
	case ir.ChildKind:
		var err error
		if x, err = ir.ToAny(v.Child); err != nil {
			return err
		}
	case ir.ArrayKind:
		xs := make([]any, 0, v.Array.Len())
		for _, elt := range v.Array.Nodes() {
			y, err := ir.ToAny(elt)
			if err != nil {
				return err
			}
			xs = append(xs, y)
		}
		x = xs
	default:
		x = v.Scalar
	}
	if x == nil {
		dst.SetZero()
		return nil
	}
	xv := reflect.ValueOf(x)
	if !xv.Type().AssignableTo(dst.Type()) {
		return u.mismatch(dst, v, path)
	}
	dst.Set(xv)
	return nil
}

func (u *folder) unfoldStruct(dst reflect.Value, node *ir.Node, path string, level int) error {
	for _, fi := range structFields(dst.Type()) {
		v, ok := node.Slot(fi.name)
		if !ok {
			continue
		}
		if err := u.unfold(dst.FieldByIndex(fi.index), v, path+"/"+fi.name, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (u *folder) unfoldMap(dst reflect.Value, node *ir.Node, path string, level int) error {
	if dst.IsNil() {
		dst.Set(reflect.MakeMapWithSize(dst.Type(), node.Len()))
	}
	elemType := dst.Type().Elem()
	for k, v := range node.All() {
		if u.skipKey(node, k) {
			continue
		}
		elem := reflect.New(elemType).Elem()
		skipped := len(u.report.Errors)
		if err := u.unfold(elem, v, path+"/"+k, level+1); err != nil {
			return err
		}
		if len(u.report.Errors) > skipped {
			continue
		}
		dst.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
	}
	return nil
}

// skipKey reports whether k is bookkeeping rather than data.
func (u *folder) skipKey(node *ir.Node, k string) bool {
	switch k {
	case ir.ClassKey, ir.NullKey:
		return true
	}
	return u.cfg.shadows && strings.HasPrefix(k, ir.ShadowPrefix) && node.Has(strings.TrimPrefix(k, ir.ShadowPrefix))
}

func (u *folder) unfoldScalar(dst reflect.Value, v ir.Value, path string) error {
	if v.Kind != ir.ScalarKind {
		return u.mismatch(dst, v, path)
	}
	if v.IsNull() {
		dst.SetZero()
		return nil
	}
	x, err := convertScalar(dst.Type(), v.Scalar)
	if err != nil {
		return u.fail(fieldPath(path), err)
	}
	dst.Set(x)
	return nil
}

// convertScalar converts a stored scalar to a value of type typ.
func convertScalar(typ reflect.Type, x any) (reflect.Value, error) {
	bad := func(err error) (reflect.Value, error) {
		if err == nil {
			err = fmt.Errorf("cannot convert %s", ir.ScalarTypeOf(x))
		}
		return reflect.Value{}, fmt.Errorf("%w: %s: %w", ir.ErrTypeMismatch, typ, err)
	}
	switch typ {
	case timeType:
		t, err := toTime(x)
		if err != nil {
			return bad(err)
		}
		return reflect.ValueOf(t), nil
	case bigIntPtrType:
		n, ok := toBigInt(x)
		if !ok {
			return bad(nil)
		}
		return reflect.ValueOf(n), nil
	case bigFloatPtrType:
		f, ok := toBigFloat(x)
		if !ok {
			return bad(nil)
		}
		return reflect.ValueOf(f), nil
	case bytesType:
		switch b := x.(type) {
		case []byte:
			return reflect.ValueOf(append([]byte(nil), b...)), nil
		case string:
			d, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return bad(err)
			}
			return reflect.ValueOf(d), nil
		}
		return bad(nil)
	}
	res := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		s, err := scalarText(x)
		if err != nil {
			return bad(err)
		}
		res.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(x)
		if err != nil {
			return bad(err)
		}
		res.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(x)
		if err != nil {
			return bad(err)
		}
		if res.OverflowInt(n) {
			return bad(fmt.Errorf("%d overflows", n))
		}
		res.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := toUint64(x)
		if err != nil {
			return bad(err)
		}
		if res.OverflowUint(n) {
			return bad(fmt.Errorf("%d overflows", n))
		}
		res.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(x)
		if err != nil {
			return bad(err)
		}
		if res.OverflowFloat(f) {
			return bad(fmt.Errorf("%g overflows", f))
		}
		res.SetFloat(f)
	case reflect.Interface:
		xv := reflect.ValueOf(x)
		if !xv.Type().AssignableTo(typ) {
			return bad(nil)
		}
		res.Set(xv)
	default:
		return bad(nil)
	}
	return res, nil
}

func scalarText(x any) (string, error) {
	switch v := x.(type) {
	case ir.Enum:
		return v.Name(), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	}
	return ir.FormatScalar(x)
}

func toInt64(x any) (int64, error) {
	switch v := x.(type) {
	case ir.Enum:
		return int64(v.Ordinal()), nil
	case time.Time:
		return v.UnixMilli(), nil
	case *big.Int:
		if !v.IsInt64() {
			return 0, fmt.Errorf("%s overflows", v)
		}
		return v.Int64(), nil
	case float64, float32:
		f := cast.ToFloat64(v)
		if f != float64(int64(f)) {
			return 0, fmt.Errorf("%g is not integral", f)
		}
		return int64(f), nil
	}
	return cast.ToInt64E(x)
}

func toUint64(x any) (uint64, error) {
	if v, ok := x.(*big.Int); ok {
		if !v.IsUint64() {
			return 0, fmt.Errorf("%s overflows", v)
		}
		return v.Uint64(), nil
	}
	n, err := toInt64(x)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return uint64(n), nil
}

func toFloat64(x any) (float64, error) {
	switch v := x.(type) {
	case *big.Float:
		f, _ := v.Float64()
		return f, nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	}
	return cast.ToFloat64E(x)
}

// toTime accepts dates, epoch milliseconds and date strings.
func toTime(x any) (time.Time, error) {
	switch v := x.(type) {
	case time.Time:
		return v, nil
	case int64, int32, int16:
		return time.UnixMilli(cast.ToInt64(v)).UTC(), nil
	case string:
		return cast.ToTimeE(v)
	}
	return time.Time{}, fmt.Errorf("cannot convert %s to a date", ir.ScalarTypeOf(x))
}

func toBigInt(x any) (*big.Int, bool) {
	switch v := x.(type) {
	case *big.Int:
		return new(big.Int).Set(v), true
	case int64, int32, int16:
		return big.NewInt(cast.ToInt64(v)), true
	case string:
		return new(big.Int).SetString(v, 10)
	}
	return nil, false
}

func toBigFloat(x any) (*big.Float, bool) {
	switch v := x.(type) {
	case *big.Float:
		return new(big.Float).Copy(v), true
	case *big.Int:
		return new(big.Float).SetInt(v), true
	case int64, int32, int16:
		return new(big.Float).SetInt64(cast.ToInt64(v)), true
	case float64, float32:
		return big.NewFloat(cast.ToFloat64(v)), true
	case string:
		f, _, err := big.ParseFloat(v, 10, 0, big.ToNearestEven)
		return f, err == nil
	}
	return nil, false
}
