package mimic

import "fmt"

// TestingT is the slice of *testing.T the reporting bridge needs. The engine
// itself never aborts a process; it hands the structured failure to whatever
// implements this.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
}

// Report renders the result on the test: a failed verification becomes a
// test error carrying the full diagnostic description, a passed one a log
// line. Returns OK so call sites can chain.
func (r *VerificationResult) Report(t TestingT) bool {
	t.Helper()

	if !r.OK {
		t.Errorf("verification failed:\n%s", r.Message)
		return false
	}
	t.Logf("✓ %s: %s matching %s", r.Substitute, r.Expected.String(), r.Pattern)
	return true
}

// AssertCalled verifies the pattern against the predicate and reports the
// outcome on t. Literal arguments compare by equality, Matcher arguments
// pass through.
func AssertCalled(t TestingT, s *Substitute, p CountPredicate, m Method, args ...any) bool {
	t.Helper()
	return s.Expect(m, args...).Verify(p).Report(t)
}

// AssertNotCalled verifies that no call matching the pattern was recorded.
func AssertNotCalled(t TestingT, s *Substitute, m Method, args ...any) bool {
	t.Helper()
	return s.Expect(m, args...).Verify(Never()).Report(t)
}

// PrintCalls dumps the full call log of the substitute to the test log, in
// call order, for debugging a failing verification.
func PrintCalls(t TestingT, s *Substitute) {
	t.Helper()

	calls := s.Calls()
	t.Logf("=== %s: %d recorded call(s) ===", s.Name(), len(calls))
	for i, inv := range calls {
		ret := "<pending>"
		if v, ok := inv.Return(); ok {
			ret = v.String()
		}
		t.Logf("  %s -> %s", fmt.Sprintf("%d. %s", i+1, inv.String()), ret)
	}
}
