package ir

import "fmt"

// Kind is the tag of a Value held in a Node slot.
type Kind int

const (
	ScalarKind Kind = iota
	ChildKind
	ArrayKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		ScalarKind: "Scalar",
		ChildKind:  "Child",
		ArrayKind:  "Array",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Scalar": ScalarKind,
		"Child":  ChildKind,
		"Array":  ArrayKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

// ScalarType classifies the Go value stored in a scalar slot.
type ScalarType int

const (
	NullType ScalarType = iota
	StringType
	BoolType
	IntType
	Int32Type
	Int16Type
	FloatType
	Float32Type
	BigIntType
	BigFloatType
	DateType
	BinaryType
	EnumType
	OtherType
)

func (t ScalarType) String() string {
	s, ok := map[ScalarType]string{
		NullType:     "Null",
		StringType:   "String",
		BoolType:     "Bool",
		IntType:      "Int",
		Int32Type:    "Int32",
		Int16Type:    "Int16",
		FloatType:    "Float",
		Float32Type:  "Float32",
		BigIntType:   "BigInt",
		BigFloatType: "BigFloat",
		DateType:     "Date",
		BinaryType:   "Binary",
		EnumType:     "Enum",
		OtherType:    "Other",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t ScalarType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func ScalarTypes() []ScalarType {
	return []ScalarType{
		NullType,
		StringType,
		BoolType,
		IntType,
		Int32Type,
		Int16Type,
		FloatType,
		Float32Type,
		BigIntType,
		BigFloatType,
		DateType,
		BinaryType,
		EnumType,
		OtherType,
	}
}

// IsNumber reports whether t is one of the integral or floating types.
func (t ScalarType) IsNumber() bool {
	switch t {
	case IntType, Int32Type, Int16Type, FloatType, Float32Type, BigIntType, BigFloatType:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether t holds a whole number.
func (t ScalarType) IsIntegral() bool {
	switch t {
	case IntType, Int32Type, Int16Type, BigIntType:
		return true
	default:
		return false
	}
}
