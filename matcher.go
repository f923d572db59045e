package mimic

import (
	"fmt"
	"reflect"
)

// Matcher decides whether one boxed argument satisfies a pattern position.
// The engine only requires the predicate and a description; richer matcher
// families (comparison, string patterns) plug in from outside.
type Matcher interface {
	Matches(v Value) bool
	String() string
}

// Eq returns a matcher accepting exactly the given boxed value. Primitives
// compare bit-for-bit, object references by reflect.DeepEqual. This is the
// wrapper literal arguments are resolved into.
func Eq(want Value) Matcher { return eqMatcher{want: want} }

type eqMatcher struct {
	want Value
}

func (m eqMatcher) Matches(v Value) bool { return m.want.Equal(v) }

func (m eqMatcher) String() string { return fmt.Sprintf("equal to %s", m.want) }

// Anything returns a matcher accepting every value.
func Anything() Matcher { return anythingMatcher{} }

type anythingMatcher struct{}

func (anythingMatcher) Matches(Value) bool { return true }

func (anythingMatcher) String() string { return "anything" }

// Captor is a capturing matcher: it accepts every value and remembers each
// one it was asked about, in match order. Captured values accumulate for the
// captor's lifetime; re-running a verification scan appends the same matches
// again rather than resetting. A Captor is not safe for concurrent use.
type Captor struct {
	values []Value
}

// NewCaptor returns an empty capturing matcher.
func NewCaptor() *Captor { return &Captor{} }

// Matches records v and accepts it.
func (c *Captor) Matches(v Value) bool {
	c.values = append(c.values, v)
	return true
}

func (c *Captor) String() string { return "captured" }

// Last returns the most recently captured value, if any.
func (c *Captor) Last() (Value, bool) {
	if len(c.values) == 0 {
		return NoValue(), false
	}
	return c.values[len(c.values)-1], true
}

// All returns every captured value in match order.
func (c *Captor) All() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// resolveMatchers fixes the matcher for every position of a pattern under
// construction. Resolution order per position: the override table wins, then
// a Matcher supplied at the call site, then the literal wrapped in Eq after
// boxing it under the method's declared kind for that slot.
//
// An argument list or override position that disagrees with the method's
// arity is the fatal MismatchedArityError, caught here at registration or
// verification time.
func resolveMatchers(chain *Chain, method Method, args []any, overrides map[int]Matcher) ([]Matcher, error) {
	if len(args) != method.Arity() {
		return nil, &MismatchedArityError{Method: method, Got: len(args)}
	}
	for pos := range overrides {
		if pos < 0 || pos >= method.Arity() {
			return nil, &MismatchedArityError{Method: method, Got: pos + 1}
		}
	}

	matchers := make([]Matcher, len(args))
	for i, arg := range args {
		if m, ok := overrides[i]; ok {
			matchers[i] = m
			continue
		}
		if m, ok := arg.(Matcher); ok {
			matchers[i] = m
			continue
		}
		boxed, err := chain.Box(method.Params[i], arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, method.Signature(), err)
		}
		matchers[i] = Eq(boxed)
	}
	return matchers, nil
}

// matchersEqual compares two resolved matcher lists for pattern identity.
// Pointer matchers (a *Captor, stateful externals) compare by identity;
// everything else by deep equality.
func matchersEqual(a, b []Matcher) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		av, bv := reflect.ValueOf(a[i]), reflect.ValueOf(b[i])
		if av.Kind() == reflect.Ptr || bv.Kind() == reflect.Ptr {
			if av.Kind() != bv.Kind() || av.Pointer() != bv.Pointer() {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
