package mimic

import "fmt"

// UnsupportedTypeError reports a Kind no converter in the chain handles.
// It is a fatal configuration error: the chain was asked to marshal a type
// the proxy layer never registered. Test logic must not catch it.
type UnsupportedTypeError struct {
	Kind Kind
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("mimic: no converter handles kind %s", e.Kind)
}

// MismatchedArityError reports a pattern or raw-argument list whose length
// does not equal the method's declared arity. It is caught at stub
// registration or verification time, never deferred to call time.
type MismatchedArityError struct {
	Method Method
	Got    int
}

func (e *MismatchedArityError) Error() string {
	return fmt.Sprintf("mimic: %s takes %d argument(s), got %d",
		e.Method.Signature(), e.Method.Arity(), e.Got)
}

// KindMismatchError reports a boxed value whose tag disagrees with the kind
// the method identity declares at that slot. This is a programming error in
// the stub or answer, not a test failure.
type KindMismatchError struct {
	Method Method
	Want   Kind
	Got    Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("mimic: %s declares %s, answer produced %s",
		e.Method.Signature(), e.Want, e.Got)
}
