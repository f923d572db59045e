package mimic

import (
	"bytes"
	"fmt"
	"math"
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// Kind tags the primitive wire type of a boxed value or method slot.
//
// Kinds at or above KindStruct are struct kinds: each call to
// Chain.RegisterLayout mints a fresh one bound to a byte layout.
type Kind uint8

const (
	// KindVoid marks a method with no return value. It never tags an argument.
	KindVoid Kind = iota
	KindObject
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64

	// KindStruct is the first struct kind. Struct kinds are allocated
	// dynamically per layout; see Chain.RegisterLayout.
	KindStruct
)

var kindNames = map[Kind]string{
	KindVoid:    "void",
	KindObject:  "object",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("struct#%d", uint8(k-KindStruct))
}

// IsStruct reports whether k is a layout-bound struct kind.
func (k Kind) IsStruct() bool { return k >= KindStruct }

func (k Kind) isSigned() bool   { return k >= KindInt8 && k <= KindInt64 }
func (k Kind) isUnsigned() bool { return k >= KindUint8 && k <= KindUint64 }
func (k Kind) isFloat() bool    { return k == KindFloat32 || k == KindFloat64 }

// Value is the boxed representation every component of the engine trades in:
// a tagged union over object references, integers of any width and signedness,
// floating point, raw struct bytes, and "no value".
//
// Numeric payloads are stored as 64-bit patterns, so boxing is exact for the
// full range of every supported kind: a uint64 boxed for later comparison
// round-trips bit-for-bit.
type Value struct {
	kind Kind
	obj  any
	bits uint64
	raw  []byte
}

// NoValue is the absent value: the return slot of an invocation before an
// answer ran, and the result of a void method.
func NoValue() Value { return Value{kind: KindVoid} }

// ObjectValue boxes an arbitrary Go value as an object reference.
func ObjectValue(v any) Value { return Value{kind: KindObject, obj: v} }

// BoolValue boxes a bool.
func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// IntValue boxes a signed integer under the given signed kind.
// The value must fit the kind's width; see Chain.Box for checked boxing.
func IntValue(k Kind, v int64) Value {
	return Value{kind: k, bits: uint64(v)}
}

// UintValue boxes an unsigned integer under the given unsigned kind.
func UintValue(k Kind, v uint64) Value {
	return Value{kind: k, bits: v}
}

// FloatValue boxes a floating point number under KindFloat32 or KindFloat64.
func FloatValue(k Kind, v float64) Value {
	return Value{kind: k, bits: math.Float64bits(v)}
}

// StructValue boxes a verbatim copy of raw struct bytes under a struct kind.
func StructValue(k Kind, b []byte) Value {
	raw := make([]byte, len(b))
	copy(raw, b)
	return Value{kind: k, raw: raw}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is the absent value.
func (v Value) IsNone() bool { return v.kind == KindVoid }

// Object returns the boxed object reference. Valid only for KindObject.
func (v Value) Object() any { return v.obj }

// Bool returns the boxed bool. Valid only for KindBool.
func (v Value) Bool() bool { return v.bits != 0 }

// Int returns the boxed signed integer, sign-extended to 64 bits.
func (v Value) Int() int64 { return int64(v.bits) }

// Uint returns the boxed unsigned integer.
func (v Value) Uint() uint64 { return v.bits }

// Float returns the boxed floating point number.
func (v Value) Float() float64 { return math.Float64frombits(v.bits) }

// Bytes returns the boxed struct bytes. The slice is the value's own copy;
// callers must not mutate it.
func (v Value) Bytes() []byte { return v.raw }

// Equal reports value equality: tags must match, numeric payloads compare
// bit-for-bit, struct bytes compare verbatim, and object references compare
// with reflect.DeepEqual.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch {
	case v.kind == KindVoid:
		return true
	case v.kind == KindObject:
		return reflect.DeepEqual(v.obj, o.obj)
	case v.kind.IsStruct():
		return bytes.Equal(v.raw, o.raw)
	default:
		return v.bits == o.bits
	}
}

// dumpConf renders object payloads in diagnostics without pointer noise, so
// the same failure prints the same text run to run.
var dumpConf = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (v Value) String() string {
	switch {
	case v.kind == KindVoid:
		return "<none>"
	case v.kind == KindObject:
		return dumpConf.Sprintf("%#v", v.obj)
	case v.kind == KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case v.kind.isSigned():
		return fmt.Sprintf("%d", v.Int())
	case v.kind.isUnsigned():
		return fmt.Sprintf("%d", v.Uint())
	case v.kind.isFloat():
		return fmt.Sprintf("%g", v.Float())
	default:
		return fmt.Sprintf("%s{% x}", v.kind, v.raw)
	}
}
