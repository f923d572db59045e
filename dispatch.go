package mimic

import (
	"log/slog"

	"github.com/google/uuid"
)

// Substitute is one test double. It exclusively owns its call log, its stub
// registry, and (by default) a shared marshaling chain, and is the single
// dispatch target the proxy layer routes intercepted calls into.
//
// A Substitute is single-threaded by contract; see the package documentation.
type Substitute struct {
	id    uuid.UUID
	name  string
	chain *Chain
	log   *slog.Logger

	rec   recorder
	stubs stubRegistry
	inert bool

	dispatched int
	answered   int
	defaulted  int
}

// Option configures a Substitute at construction.
type Option func(*Substitute)

// WithLogger routes the substitute's debug logging to l instead of
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Substitute) { s.log = l }
}

// WithChain replaces the default marshaling chain, e.g. with one carrying
// registered struct layouts. The chain must outlive the substitute.
func WithChain(c *Chain) Option {
	return func(s *Substitute) { s.chain = c }
}

// NewSubstitute creates a substitute with an empty call log and stub
// registry. The name appears in logs and verification failures.
func NewSubstitute(name string, opts ...Option) *Substitute {
	s := &Substitute{
		id:    uuid.New(),
		name:  name,
		chain: DefaultChain(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID is the substitute's identity token, used to correlate log records and
// invocation targets across substitutes.
func (s *Substitute) ID() uuid.UUID { return s.id }

// Name is the substitute's human-readable name.
func (s *Substitute) Name() string { return s.name }

// Chain exposes the substitute's marshaling chain, letting the proxy layer
// register struct layouts against the default chain.
func (s *Substitute) Chain() *Chain { return s.chain }

// When starts a stubbing for the given method and call-site arguments.
// Literal arguments become equality matchers, Matcher arguments pass
// through, and MatchingAt overrides positions before the first Then* call.
func (s *Substitute) When(m Method, args ...any) *Stubbing {
	return &Stubbing{sub: s, method: m, args: args}
}

// Expect starts a verification query for the given method and arguments.
func (s *Substitute) Expect(m Method, args ...any) *Query {
	return &Query{sub: s, method: m, args: args}
}

// Dispatch is the entry point for every intercepted call. The proxy layer
// supplies the method identity and the raw native argument slots; Dispatch
// returns the native return value (or nil for void) and any raised stub
// error.
//
// The invocation record is appended before the answer runs, so a custom
// answer re-entering this or another substitute logs its nested calls after
// the in-progress one, in true temporal order.
func (s *Substitute) Dispatch(m Method, raw ...any) (any, error) {
	if s.inert {
		s.log.Debug("dispatch on inert substitute", "substitute", s.name, "method", m.Signature())
		return s.defaultReturn(m)
	}
	if len(raw) != m.Arity() {
		return nil, &MismatchedArityError{Method: m, Got: len(raw)}
	}

	args := make([]Value, len(raw))
	for i, r := range raw {
		boxed, err := s.chain.Box(m.Params[i], r)
		if err != nil {
			return nil, err
		}
		args[i] = boxed
	}

	inv := newInvocation(s.id, s.name, m, args)
	s.rec.append(inv)
	s.dispatched++

	ans, ok := s.stubs.resolve(inv)
	s.log.Debug("dispatch",
		"substitute", s.name,
		"id", s.id,
		"call", inv.String(),
		"stubbed", ok)

	if !ok {
		s.defaulted++
		return s.applyDefault(m, inv)
	}
	s.answered++

	v, err := ans.answer(inv)
	if err != nil {
		// Raised stub error: the call aborts with it, return slot untouched.
		return nil, err
	}
	return s.marshalReturn(m, inv, v)
}

// applyDefault answers an unstubbed call with the return kind's zero value.
// It never raises: an unstubbed call is ordinary, not an error.
func (s *Substitute) applyDefault(m Method, inv *Invocation) (any, error) {
	if m.Returns == KindVoid {
		return nil, inv.SetReturn(NoValue())
	}
	zero, err := s.chain.Zero(m.Returns)
	if err != nil {
		return nil, err
	}
	return s.marshalReturn(m, inv, zero)
}

// marshalReturn validates the answer's tag against the declared return kind,
// writes the record's return slot, and unboxes into the native return value.
func (s *Substitute) marshalReturn(m Method, inv *Invocation, v Value) (any, error) {
	if m.Returns == KindVoid {
		return nil, inv.SetReturn(NoValue())
	}
	if v.Kind() != m.Returns {
		return nil, &KindMismatchError{Method: m, Want: m.Returns, Got: v.Kind()}
	}
	if err := inv.SetReturn(v); err != nil {
		return nil, err
	}
	return s.chain.Unbox(v)
}

// defaultReturn is the inert-substitute answer: native zero, nothing
// recorded, nothing resolved.
func (s *Substitute) defaultReturn(m Method) (any, error) {
	if m.Returns == KindVoid {
		return nil, nil
	}
	zero, err := s.chain.Zero(m.Returns)
	if err != nil {
		return nil, err
	}
	return s.chain.Unbox(zero)
}

// Calls returns the recorded invocations in call order, as a snapshot copy.
func (s *Substitute) Calls() []*Invocation { return s.rec.snapshot() }

// Reset clears the call log and the stub registry and marks the substitute
// inert: later dispatches answer with zero values and record nothing. Use it
// at teardown to cut reference cycles through captured objects.
func (s *Substitute) Reset() {
	if s.inert {
		s.log.Warn("reset on already-inert substitute", "substitute", s.name, "id", s.id)
	}
	s.rec.reset()
	s.stubs.reset()
	s.inert = true
	s.log.Debug("substitute reset", "substitute", s.name, "id", s.id)
}

// Stats reports operational counters for the substitute.
func (s *Substitute) Stats() map[string]any {
	return map[string]any{
		"id":               s.id.String(),
		"name":             s.name,
		"calls_dispatched": s.dispatched,
		"calls_answered":   s.answered,
		"calls_defaulted":  s.defaulted,
		"calls_recorded":   s.rec.len(),
		"stub_entries":     s.stubs.len(),
		"inert":            s.inert,
	}
}
