package mimic

import (
	"fmt"
	"strings"
)

// Unbounded marks a count predicate with no upper bound.
const Unbounded = -1

// CountPredicate is the quantifier of a verification query: the observed
// match count must satisfy Min <= count <= Max, with Max == Unbounded
// meaning no upper limit.
type CountPredicate struct {
	Min int
	Max int
}

// Times expects exactly n matching calls.
func Times(n int) CountPredicate { return CountPredicate{Min: n, Max: n} }

// Never expects zero matching calls.
func Never() CountPredicate { return Times(0) }

// AtLeast expects n or more matching calls.
func AtLeast(n int) CountPredicate { return CountPredicate{Min: n, Max: Unbounded} }

// AtMost expects at most n matching calls.
func AtMost(n int) CountPredicate { return CountPredicate{Min: 0, Max: n} }

// Between expects between lo and hi matching calls inclusive.
func Between(lo, hi int) CountPredicate { return CountPredicate{Min: lo, Max: hi} }

// AnyTimes accepts any number of matching calls, including zero.
func AnyTimes() CountPredicate { return CountPredicate{Min: 0, Max: Unbounded} }

// Contains reports whether n satisfies the predicate.
func (p CountPredicate) Contains(n int) bool {
	if n < p.Min {
		return false
	}
	return p.Max == Unbounded || n <= p.Max
}

func (p CountPredicate) String() string {
	switch {
	case p.Max == Unbounded && p.Min == 0:
		return "any number of calls"
	case p.Max == Unbounded:
		return fmt.Sprintf("at least %d call(s)", p.Min)
	case p.Min == p.Max:
		return fmt.Sprintf("exactly %d call(s)", p.Min)
	case p.Min == 0:
		return fmt.Sprintf("at most %d call(s)", p.Max)
	default:
		return fmt.Sprintf("between %d and %d call(s)", p.Min, p.Max)
	}
}

// VerificationResult is the structured outcome of one verification query.
// A failed result carries a full diagnostic description; rendering it at the
// right source location is the test-reporting layer's job (see Report).
type VerificationResult struct {
	OK         bool
	Substitute string
	Pattern    string
	Expected   CountPredicate
	Actual     int
	Message    string
}

// Query is a verification pattern under construction, mirroring Stubbing:
// literal arguments resolve to equality matchers, call-site Matchers pass
// through, and MatchingAt overrides a position outright.
type Query struct {
	sub       *Substitute
	method    Method
	args      []any
	overrides map[int]Matcher
}

// MatchingAt forces the matcher for one argument position of the query.
func (q *Query) MatchingAt(pos int, m Matcher) *Query {
	if q.overrides == nil {
		q.overrides = make(map[int]Matcher)
	}
	q.overrides[pos] = m
	return q
}

// Verify scans the substitute's call log and checks the match count against
// the predicate.
//
// Verification is a pure read: it never mutates the log and never consumes
// stub answers, so repeating the same query over an unchanged log yields the
// same result. The one deliberate side effect is on capturing matchers, which
// append every value they match, scan after scan.
//
// A query whose arity disagrees with the method panics with the typed
// configuration error, same as stub registration.
func (q *Query) Verify(p CountPredicate) *VerificationResult {
	matchers, err := resolveMatchers(q.sub.chain, q.method, q.args, q.overrides)
	if err != nil {
		panic(fmt.Errorf("mimic: verifying %s: %w", q.method.Signature(), err))
	}
	pat := pattern{method: q.method, matchers: matchers}

	matched := 0
	var sameMethod []*Invocation
	for _, inv := range q.sub.rec.snapshot() {
		if !q.method.equal(inv.Method()) {
			continue
		}
		sameMethod = append(sameMethod, inv)
		if pat.matches(inv) {
			matched++
		}
	}

	res := &VerificationResult{
		OK:         p.Contains(matched),
		Substitute: q.sub.name,
		Pattern:    pat.String(),
		Expected:   p,
		Actual:     matched,
	}
	if !res.OK {
		res.Message = failureMessage(q.sub, pat, p, matched, sameMethod)
	}

	q.sub.log.Debug("verify",
		"substitute", q.sub.name,
		"pattern", res.Pattern,
		"expected", p.String(),
		"actual", matched,
		"ok", res.OK)
	return res
}

// failureMessage renders the diagnostic for a failed verification: the
// pattern, the expected range, the actual count, and every recorded
// invocation of the same method identity, matched or not.
func failureMessage(sub *Substitute, pat pattern, p CountPredicate, actual int, sameMethod []*Invocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "substitute %q (%s):\n", sub.name, sub.id)
	fmt.Fprintf(&b, "  expected %s matching %s\n", p.String(), pat.String())
	fmt.Fprintf(&b, "  actual: %d call(s)\n", actual)
	if len(sameMethod) == 0 {
		fmt.Fprintf(&b, "  no invocations of %s were recorded", pat.method.Signature())
		return b.String()
	}
	fmt.Fprintf(&b, "  all invocations of %s:", pat.method.Signature())
	for i, inv := range sameMethod {
		fmt.Fprintf(&b, "\n    %d. %s", i+1, inv.String())
	}
	return b.String()
}
