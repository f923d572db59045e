package mimic

import (
	"fmt"
	"math"
)

// Converter reads one exact Kind out of a native call slot into a boxed Value
// and writes a boxed Value back into a native return slot. Converters make up
// the marshaling chain; each declares the single kind it handles.
type Converter interface {
	// Kind is the exact tag this converter handles.
	Kind() Kind

	// Box converts a native argument into a boxed value. Boxing is checked:
	// a native value that does not fit the kind (wrong type, out of range,
	// precision loss on narrowing) is an error, never a silent truncation.
	Box(native any) (Value, error)

	// Unbox converts a boxed value back into the native representation the
	// kind maps to (int32 for KindInt32, []byte for struct kinds, and so on).
	Unbox(v Value) (any, error)

	// Zero is the kind's zero value, used when no stub answers a call.
	Zero() Value
}

// Layout describes the exact byte layout of a struct kind. The chain copies
// bytes verbatim and assumes nothing about internal field alignment beyond
// Size.
type Layout struct {
	Name string
	Size int
}

// Chain is the ordered marshaling chain. A lookup walks the converters in
// registration order until one declares the requested kind; no match is the
// fatal UnsupportedTypeError, never silently ignored.
type Chain struct {
	converters []Converter
	nextStruct Kind
}

// DefaultChain returns a chain handling every scalar kind: bool, signed and
// unsigned integers of all four widths, both float widths, object references,
// and void returns. Struct kinds are added per layout with RegisterLayout.
func DefaultChain() *Chain {
	c := &Chain{nextStruct: KindStruct}
	for _, conv := range []Converter{
		objectConverter{},
		boolConverter{},
		intConverter{kind: KindInt8, min: math.MinInt8, max: math.MaxInt8},
		intConverter{kind: KindInt16, min: math.MinInt16, max: math.MaxInt16},
		intConverter{kind: KindInt32, min: math.MinInt32, max: math.MaxInt32},
		intConverter{kind: KindInt64, min: math.MinInt64, max: math.MaxInt64},
		uintConverter{kind: KindUint8, max: math.MaxUint8},
		uintConverter{kind: KindUint16, max: math.MaxUint16},
		uintConverter{kind: KindUint32, max: math.MaxUint32},
		uintConverter{kind: KindUint64, max: math.MaxUint64},
		floatConverter{kind: KindFloat32},
		floatConverter{kind: KindFloat64},
		voidConverter{},
	} {
		c.Register(conv)
	}
	return c
}

// Register appends a converter to the chain. Earlier registrations win on
// kind collisions (first match in walk order).
func (c *Chain) Register(conv Converter) {
	c.converters = append(c.converters, conv)
}

// RegisterLayout mints a fresh struct kind bound to the given byte layout and
// registers its converter. The returned kind is what Method descriptors use
// for arguments and returns of that struct type.
func (c *Chain) RegisterLayout(layout Layout) Kind {
	k := c.nextStruct
	c.nextStruct++
	c.Register(structConverter{kind: k, layout: layout})
	return k
}

// Lookup walks the chain for the converter declaring k.
func (c *Chain) Lookup(k Kind) (Converter, error) {
	for _, conv := range c.converters {
		if conv.Kind() == k {
			return conv, nil
		}
	}
	return nil, &UnsupportedTypeError{Kind: k}
}

// Box boxes a native value under kind k via the chain.
func (c *Chain) Box(k Kind, native any) (Value, error) {
	conv, err := c.Lookup(k)
	if err != nil {
		return NoValue(), err
	}
	return conv.Box(native)
}

// Unbox writes a boxed value back to its native representation via the chain.
func (c *Chain) Unbox(v Value) (any, error) {
	conv, err := c.Lookup(v.Kind())
	if err != nil {
		return nil, err
	}
	return conv.Unbox(v)
}

// Zero returns the zero value for kind k via the chain.
func (c *Chain) Zero(k Kind) (Value, error) {
	conv, err := c.Lookup(k)
	if err != nil {
		return NoValue(), err
	}
	return conv.Zero(), nil
}

type objectConverter struct{}

func (objectConverter) Kind() Kind { return KindObject }

func (objectConverter) Box(native any) (Value, error) {
	return ObjectValue(native), nil
}

func (objectConverter) Unbox(v Value) (any, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("mimic: cannot unbox %s as object", v.Kind())
	}
	return v.Object(), nil
}

func (objectConverter) Zero() Value { return ObjectValue(nil) }

type boolConverter struct{}

func (boolConverter) Kind() Kind { return KindBool }

func (boolConverter) Box(native any) (Value, error) {
	b, ok := native.(bool)
	if !ok {
		return NoValue(), fmt.Errorf("mimic: cannot box %T as bool", native)
	}
	return BoolValue(b), nil
}

func (boolConverter) Unbox(v Value) (any, error) {
	if v.Kind() != KindBool {
		return nil, fmt.Errorf("mimic: cannot unbox %s as bool", v.Kind())
	}
	return v.Bool(), nil
}

func (boolConverter) Zero() Value { return BoolValue(false) }

// intConverter handles one signed width. Any signed Go integer is accepted
// at the boundary, range-checked against the declared width.
type intConverter struct {
	kind     Kind
	min, max int64
}

func (c intConverter) Kind() Kind { return c.kind }

func (c intConverter) Box(native any) (Value, error) {
	var n int64
	switch v := native.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	default:
		return NoValue(), fmt.Errorf("mimic: cannot box %T as %s", native, c.kind)
	}
	if n < c.min || n > c.max {
		return NoValue(), fmt.Errorf("mimic: %d overflows %s", n, c.kind)
	}
	return IntValue(c.kind, n), nil
}

func (c intConverter) Unbox(v Value) (any, error) {
	if v.Kind() != c.kind {
		return nil, fmt.Errorf("mimic: cannot unbox %s as %s", v.Kind(), c.kind)
	}
	n := v.Int()
	switch c.kind {
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	default:
		return n, nil
	}
}

func (c intConverter) Zero() Value { return IntValue(c.kind, 0) }

// uintConverter handles one unsigned width. Non-negative signed integers are
// also accepted for call-site convenience (an untyped literal arrives as int).
type uintConverter struct {
	kind Kind
	max  uint64
}

func (c uintConverter) Kind() Kind { return c.kind }

func (c uintConverter) Box(native any) (Value, error) {
	var n uint64
	switch v := native.(type) {
	case uint:
		n = uint64(v)
	case uint8:
		n = uint64(v)
	case uint16:
		n = uint64(v)
	case uint32:
		n = uint64(v)
	case uint64:
		n = v
	case int:
		if v < 0 {
			return NoValue(), fmt.Errorf("mimic: %d is negative, cannot box as %s", v, c.kind)
		}
		n = uint64(v)
	case int64:
		if v < 0 {
			return NoValue(), fmt.Errorf("mimic: %d is negative, cannot box as %s", v, c.kind)
		}
		n = uint64(v)
	default:
		return NoValue(), fmt.Errorf("mimic: cannot box %T as %s", native, c.kind)
	}
	if n > c.max {
		return NoValue(), fmt.Errorf("mimic: %d overflows %s", n, c.kind)
	}
	return UintValue(c.kind, n), nil
}

func (c uintConverter) Unbox(v Value) (any, error) {
	if v.Kind() != c.kind {
		return nil, fmt.Errorf("mimic: cannot unbox %s as %s", v.Kind(), c.kind)
	}
	n := v.Uint()
	switch c.kind {
	case KindUint8:
		return uint8(n), nil
	case KindUint16:
		return uint16(n), nil
	case KindUint32:
		return uint32(n), nil
	default:
		return n, nil
	}
}

func (c uintConverter) Zero() Value { return UintValue(c.kind, 0) }

type floatConverter struct {
	kind Kind
}

func (c floatConverter) Kind() Kind { return c.kind }

func (c floatConverter) Box(native any) (Value, error) {
	switch v := native.(type) {
	case float32:
		return FloatValue(c.kind, float64(v)), nil
	case float64:
		if c.kind == KindFloat32 && !math.IsNaN(v) && float64(float32(v)) != v {
			return NoValue(), fmt.Errorf("mimic: %g loses precision as float32", v)
		}
		return FloatValue(c.kind, v), nil
	default:
		return NoValue(), fmt.Errorf("mimic: cannot box %T as %s", native, c.kind)
	}
}

func (c floatConverter) Unbox(v Value) (any, error) {
	if v.Kind() != c.kind {
		return nil, fmt.Errorf("mimic: cannot unbox %s as %s", v.Kind(), c.kind)
	}
	if c.kind == KindFloat32 {
		return float32(v.Float()), nil
	}
	return v.Float(), nil
}

func (c floatConverter) Zero() Value { return FloatValue(c.kind, 0) }

// structConverter copies bytes verbatim for one registered layout.
type structConverter struct {
	kind   Kind
	layout Layout
}

func (c structConverter) Kind() Kind { return c.kind }

func (c structConverter) Box(native any) (Value, error) {
	b, ok := native.([]byte)
	if !ok {
		return NoValue(), fmt.Errorf("mimic: cannot box %T as struct %q", native, c.layout.Name)
	}
	if len(b) != c.layout.Size {
		return NoValue(), fmt.Errorf("mimic: struct %q is %d bytes, got %d",
			c.layout.Name, c.layout.Size, len(b))
	}
	return StructValue(c.kind, b), nil
}

func (c structConverter) Unbox(v Value) (any, error) {
	if v.Kind() != c.kind {
		return nil, fmt.Errorf("mimic: cannot unbox %s as struct %q", v.Kind(), c.layout.Name)
	}
	out := make([]byte, len(v.Bytes()))
	copy(out, v.Bytes())
	return out, nil
}

func (c structConverter) Zero() Value {
	return StructValue(c.kind, make([]byte, c.layout.Size))
}

type voidConverter struct{}

func (voidConverter) Kind() Kind { return KindVoid }

func (voidConverter) Box(native any) (Value, error) {
	if native != nil {
		return NoValue(), fmt.Errorf("mimic: cannot box %T as void", native)
	}
	return NoValue(), nil
}

func (voidConverter) Unbox(Value) (any, error) { return nil, nil }

func (voidConverter) Zero() Value { return NoValue() }
