package mimic

import (
	"fmt"
	"strings"
)

// Answer is the behavior applied when a stubbed call resolves: a fixed boxed
// value, raw struct bytes, an error to raise, or a custom computation over
// the invocation record.
type Answer interface {
	answer(inv *Invocation) (Value, error)
}

type returnAnswer struct {
	v Value
}

func (a returnAnswer) answer(*Invocation) (Value, error) { return a.v, nil }

type errorAnswer struct {
	err error
}

func (a errorAnswer) answer(*Invocation) (Value, error) { return NoValue(), a.err }

type doAnswer struct {
	fn func(inv *Invocation) (Value, error)
}

func (a doAnswer) answer(inv *Invocation) (Value, error) { return a.fn(inv) }

// pattern is a fixed invocation pattern: a method identity plus one resolved
// matcher per parameter slot. It drives both stub resolution and verification.
type pattern struct {
	method   Method
	matchers []Matcher
}

// matches reports whether the record has the pattern's method identity and
// every argument satisfies its positional matcher. Matching runs left to
// right, so a capturing matcher sees arguments in position order.
func (p pattern) matches(inv *Invocation) bool {
	if !p.method.equal(inv.method) {
		return false
	}
	for i, m := range p.matchers {
		if !m.Matches(inv.Arg(i)) {
			return false
		}
	}
	return true
}

func (p pattern) equal(o pattern) bool {
	return p.method.equal(o.method) && matchersEqual(p.matchers, o.matchers)
}

func (p pattern) String() string {
	parts := make([]string, len(p.matchers))
	for i, m := range p.matchers {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s(%s)", p.method.Name, strings.Join(parts, ", "))
}

// stubEntry pairs a pattern with its ordered answer queue.
//
// The queue is the consecutive-call state machine: each resolve consumes the
// next answer until one remains, and that last answer then repeats for every
// later call.
type stubEntry struct {
	pat     pattern
	answers []Answer
	next    int
}

func (e *stubEntry) add(a Answer) {
	e.answers = append(e.answers, a)
}

func (e *stubEntry) take() Answer {
	a := e.answers[e.next]
	if e.next < len(e.answers)-1 {
		e.next++
	}
	return a
}

// stubRegistry maps patterns to answer queues for one substitute.
type stubRegistry struct {
	entries []*stubEntry
}

// register appends the answer to the entry with an identical pattern, or
// creates a new entry. The returned entry lets a fluent stubbing keep
// appending consecutive answers.
func (r *stubRegistry) register(p pattern, a Answer) *stubEntry {
	for _, e := range r.entries {
		if e.pat.equal(p) {
			e.add(a)
			return e
		}
	}
	e := &stubEntry{pat: p, answers: []Answer{a}}
	r.entries = append(r.entries, e)
	return e
}

// resolve finds the answer for a record. The most-recently-registered
// matching entry wins, so a broader matcher stubbed later overrides an
// earlier narrower one. No matching entry means no stub: the coordinator
// falls back to the return kind's zero value.
func (r *stubRegistry) resolve(inv *Invocation) (Answer, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].pat.matches(inv) {
			return r.entries[i].take(), true
		}
	}
	return nil, false
}

func (r *stubRegistry) len() int { return len(r.entries) }

func (r *stubRegistry) reset() { r.entries = nil }

// Stubbing is a stub pattern under construction and, once the first answer
// is attached, a handle onto its registered entry for chaining consecutive
// answers.
//
// Matcher overrides must land before the first Then* call fixes the pattern.
// Configuration mistakes (wrong arity, unboxable literal, override after the
// pattern is fixed) panic with the underlying typed error: they are
// programming errors in the test itself and fail fast at setup.
type Stubbing struct {
	sub       *Substitute
	method    Method
	args      []any
	overrides map[int]Matcher
	entry     *stubEntry
}

// MatchingAt forces the matcher for one argument position, overriding
// whatever the call site supplied there. This is the side channel for
// positions whose native type cannot carry a Matcher directly.
func (st *Stubbing) MatchingAt(pos int, m Matcher) *Stubbing {
	if st.entry != nil {
		panic(fmt.Errorf("mimic: matcher override after pattern for %s was fixed", st.method.Signature()))
	}
	if st.overrides == nil {
		st.overrides = make(map[int]Matcher)
	}
	st.overrides[pos] = m
	return st
}

// ThenReturn attaches a fixed return answer, boxing the native value under
// the method's declared return kind.
func (st *Stubbing) ThenReturn(native any) *Stubbing {
	boxed, err := st.sub.chain.Box(st.method.Returns, native)
	if err != nil {
		panic(fmt.Errorf("mimic: stubbing %s: %w", st.method.Signature(), err))
	}
	return st.then(returnAnswer{v: boxed})
}

// ThenReturnValue attaches a fixed return answer from an already-boxed value.
func (st *Stubbing) ThenReturnValue(v Value) *Stubbing {
	if v.Kind() != st.method.Returns {
		panic(&KindMismatchError{Method: st.method, Want: st.method.Returns, Got: v.Kind()})
	}
	return st.then(returnAnswer{v: v})
}

// ThenReturnBytes attaches a fixed raw-struct return answer. The method's
// return kind must be a registered struct kind.
func (st *Stubbing) ThenReturnBytes(b []byte) *Stubbing {
	boxed, err := st.sub.chain.Box(st.method.Returns, b)
	if err != nil {
		panic(fmt.Errorf("mimic: stubbing %s: %w", st.method.Signature(), err))
	}
	return st.then(returnAnswer{v: boxed})
}

// ThenError attaches an answer that raises err from the intercepted call,
// synchronously, exactly once per matching call.
func (st *Stubbing) ThenError(err error) *Stubbing {
	return st.then(errorAnswer{err: err})
}

// ThenDo attaches a custom computation. It runs inline with the intercepted
// call, receives the invocation record, and may re-enter any substitute.
// Its boxed result is marshaled exactly like a fixed return value.
func (st *Stubbing) ThenDo(fn func(inv *Invocation) (Value, error)) *Stubbing {
	return st.then(doAnswer{fn: fn})
}

func (st *Stubbing) then(a Answer) *Stubbing {
	if st.entry != nil {
		st.entry.add(a)
		return st
	}
	matchers, err := resolveMatchers(st.sub.chain, st.method, st.args, st.overrides)
	if err != nil {
		panic(fmt.Errorf("mimic: stubbing %s: %w", st.method.Signature(), err))
	}
	p := pattern{method: st.method, matchers: matchers}
	st.entry = st.sub.stubs.register(p, a)
	st.sub.log.Debug("stub registered",
		"substitute", st.sub.name,
		"pattern", p.String(),
		"answers", len(st.entry.answers))
	return st
}
