package ir

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cast"
)

// Scalar accessors come in three forms:
//
//	GetX(key, def)   the value or def
//	LookupX(key)     the value and whether it is present and convertible
//	XE(key)          the value or ErrNotFound / ErrTypeMismatch

func (node *Node) scalar(key string) (any, error) {
	v, ok := node.Slot(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if v.Kind != ScalarKind {
		return nil, fmt.Errorf("%w: %q holds %s", ErrTypeMismatch, key, v.Kind)
	}
	return v.Scalar, nil
}

func mismatch(key string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrTypeMismatch, key, err)
}

// StringE returns the scalar at key rendered as a string.
func (node *Node) StringE(key string) (string, error) {
	x, err := node.scalar(key)
	if err != nil {
		return "", err
	}
	s, err := ScalarString(x)
	if err != nil {
		return "", mismatch(key, err)
	}
	return s, nil
}

func (node *Node) LookupString(key string) (string, bool) {
	s, err := node.StringE(key)
	return s, err == nil
}

func (node *Node) GetString(key, def string) string {
	if s, ok := node.LookupString(key); ok {
		return s
	}
	return def
}

func (node *Node) SetString(key, v string) {
	node.Set(key, v)
}

// ScalarString renders a stored scalar as text. Null renders as "".
func ScalarString(x any) (string, error) {
	switch v := x.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case *big.Int:
		return v.String(), nil
	case *big.Float:
		return v.Text('g', -1), nil
	case Enum:
		return v.Name(), nil
	}
	return cast.ToStringE(x)
}

// FormatScalar renders a stored scalar for text formats: like
// ScalarString, but binary values are base64 encoded.
func FormatScalar(x any) (string, error) {
	if b, ok := x.([]byte); ok {
		return base64.StdEncoding.EncodeToString(b), nil
	}
	return ScalarString(x)
}

// IntE returns the scalar at key as an int.
func (node *Node) IntE(key string) (int, error) {
	x, err := node.scalar(key)
	if err != nil {
		return 0, err
	}
	if e, ok := x.(Enum); ok {
		return e.Ordinal(), nil
	}
	i, err := cast.ToIntE(x)
	if err != nil {
		return 0, mismatch(key, err)
	}
	return i, nil
}

func (node *Node) LookupInt(key string) (int, bool) {
	i, err := node.IntE(key)
	return i, err == nil
}

func (node *Node) GetInt(key string, def int) int {
	if i, ok := node.LookupInt(key); ok {
		return i
	}
	return def
}

func (node *Node) SetInt(key string, v int) {
	node.Set(key, int64(v))
}

// Int64E returns the scalar at key as an int64.
func (node *Node) Int64E(key string) (int64, error) {
	x, err := node.scalar(key)
	if err != nil {
		return 0, err
	}
	switch v := x.(type) {
	case *big.Int:
		if !v.IsInt64() {
			return 0, mismatch(key, fmt.Errorf("%s overflows int64", v))
		}
		return v.Int64(), nil
	case time.Time:
		return v.UnixMilli(), nil
	}
	i, err := cast.ToInt64E(x)
	if err != nil {
		return 0, mismatch(key, err)
	}
	return i, nil
}

func (node *Node) LookupInt64(key string) (int64, bool) {
	i, err := node.Int64E(key)
	return i, err == nil
}

func (node *Node) GetInt64(key string, def int64) int64 {
	if i, ok := node.LookupInt64(key); ok {
		return i
	}
	return def
}

func (node *Node) SetInt64(key string, v int64) {
	node.Set(key, v)
}

// Float64E returns the scalar at key as a float64.
func (node *Node) Float64E(key string) (float64, error) {
	x, err := node.scalar(key)
	if err != nil {
		return 0, err
	}
	switch v := x.(type) {
	case *big.Float:
		f, _ := v.Float64()
		return f, nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	}
	f, err := cast.ToFloat64E(x)
	if err != nil {
		return 0, mismatch(key, err)
	}
	return f, nil
}

func (node *Node) LookupFloat64(key string) (float64, bool) {
	f, err := node.Float64E(key)
	return f, err == nil
}

func (node *Node) GetFloat64(key string, def float64) float64 {
	if f, ok := node.LookupFloat64(key); ok {
		return f
	}
	return def
}

func (node *Node) SetFloat64(key string, v float64) {
	node.Set(key, v)
}

// Float32E returns the scalar at key as a float32.
func (node *Node) Float32E(key string) (float32, error) {
	x, err := node.scalar(key)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat32E(x)
	if err != nil {
		return 0, mismatch(key, err)
	}
	return f, nil
}

func (node *Node) LookupFloat32(key string) (float32, bool) {
	f, err := node.Float32E(key)
	return f, err == nil
}

func (node *Node) GetFloat32(key string, def float32) float32 {
	if f, ok := node.LookupFloat32(key); ok {
		return f
	}
	return def
}

func (node *Node) SetFloat32(key string, v float32) {
	node.Set(key, v)
}

// BoolE returns the scalar at key as a bool.
func (node *Node) BoolE(key string) (bool, error) {
	x, err := node.scalar(key)
	if err != nil {
		return false, err
	}
	b, err := cast.ToBoolE(x)
	if err != nil {
		return false, mismatch(key, err)
	}
	return b, nil
}

func (node *Node) LookupBool(key string) (bool, bool) {
	b, err := node.BoolE(key)
	return b, err == nil
}

func (node *Node) GetBool(key string, def bool) bool {
	if b, ok := node.LookupBool(key); ok {
		return b
	}
	return def
}

func (node *Node) SetBool(key string, v bool) {
	node.Set(key, v)
}

// TimeE returns the scalar at key as a time. Integral values are epoch
// milliseconds, strings are parsed in any layout cast understands.
func (node *Node) TimeE(key string) (time.Time, error) {
	x, err := node.scalar(key)
	if err != nil {
		return time.Time{}, err
	}
	switch v := x.(type) {
	case time.Time:
		return v, nil
	case int64:
		return time.UnixMilli(v), nil
	case int32:
		return time.UnixMilli(int64(v)), nil
	}
	t, err := cast.ToTimeE(x)
	if err != nil {
		return time.Time{}, mismatch(key, err)
	}
	return t, nil
}

func (node *Node) LookupTime(key string) (time.Time, bool) {
	t, err := node.TimeE(key)
	return t, err == nil
}

func (node *Node) GetTime(key string, def time.Time) time.Time {
	if t, ok := node.LookupTime(key); ok {
		return t
	}
	return def
}

func (node *Node) SetTime(key string, v time.Time) {
	node.Set(key, v)
}
