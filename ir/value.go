package ir

import (
	"math"
	"math/big"
	"time"
)

// Reserved keys.
const (
	// Nameless holds a node's own unwrapped scalar or array payload.
	Nameless = ""
	// NullKey marks a folded nil value.
	NullKey = "_null"
	// ClassKey records the type a node was folded from.
	ClassKey = "_class"
	// ShadowPrefix prefixes human readable companions of machine oriented
	// values, e.g. "_created" next to "created".
	ShadowPrefix = "_"
)

// Depth limits for recursive operations.
const (
	MaxDepth              = 100
	MaxFoldDepth          = 10
	MaxInterpolationDepth = 10
)

// ShadowKey returns the shadow property key for key.
func ShadowKey(key string) string {
	return ShadowPrefix + key
}

// Enum is an enumeration value: written as its ordinal with a name shadow.
type Enum interface {
	Ordinal() int
	Name() string
}

// EnumValue is a plain Enum.
type EnumValue struct {
	Ord   int
	Label string
}

func (e EnumValue) Ordinal() int   { return e.Ord }
func (e EnumValue) Name() string   { return e.Label }
func (e EnumValue) String() string { return e.Label }

// Value is the content of a Node slot. Exactly one of Scalar, Child and
// Array is meaningful, as selected by Kind.
type Value struct {
	Kind   Kind
	Scalar any
	Child  *Node
	Array  *Array
}

func scalarValue(v any) Value {
	return Value{Kind: ScalarKind, Scalar: normalize(v)}
}

func childValue(n *Node) Value {
	return Value{Kind: ChildKind, Child: n}
}

func arrayValue(a *Array) Value {
	return Value{Kind: ArrayKind, Array: a}
}

// IsNull reports whether v is a null scalar.
func (v Value) IsNull() bool {
	return v.Kind == ScalarKind && v.Scalar == nil
}

// Type returns the scalar type of v, NullType for non scalars.
func (v Value) Type() ScalarType {
	if v.Kind != ScalarKind {
		return NullType
	}
	return ScalarTypeOf(v.Scalar)
}

// ScalarTypeOf classifies a stored scalar.
func ScalarTypeOf(v any) ScalarType {
	switch v.(type) {
	case nil:
		return NullType
	case string:
		return StringType
	case bool:
		return BoolType
	case int64:
		return IntType
	case int32:
		return Int32Type
	case int16:
		return Int16Type
	case float64:
		return FloatType
	case float32:
		return Float32Type
	case *big.Int:
		return BigIntType
	case *big.Float:
		return BigFloatType
	case time.Time:
		return DateType
	case []byte:
		return BinaryType
	case Enum:
		return EnumType
	default:
		return OtherType
	}
}

// normalize maps Go scalar kinds onto the stored set: platform sized and
// unsigned integers become int64 (or *big.Int when they do not fit).
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int16(x)
	case uint8:
		return int16(x)
	case uint16:
		return int32(x)
	case uint32:
		return int64(x)
	case uint:
		return normalizeUint(uint64(x))
	case uint64:
		return normalizeUint(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	default:
		return v
	}
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return new(big.Int).SetUint64(u)
	}
	return int64(u)
}

// cloneScalar copies scalars that share memory.
func cloneScalar(v any) any {
	switch x := v.(type) {
	case []byte:
		return append([]byte(nil), x...)
	case *big.Int:
		return new(big.Int).Set(x)
	case *big.Float:
		return new(big.Float).Copy(x)
	default:
		return v
	}
}
