package mimic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountPredicate_Contains(t *testing.T) {
	cases := []struct {
		name string
		p    CountPredicate
		in   []int
		out  []int
	}{
		{"times 2", Times(2), []int{2}, []int{0, 1, 3}},
		{"never", Never(), []int{0}, []int{1, 2}},
		{"at least 1", AtLeast(1), []int{1, 2, 100}, []int{0}},
		{"at most 2", AtMost(2), []int{0, 1, 2}, []int{3}},
		{"between 1 and 3", Between(1, 3), []int{1, 2, 3}, []int{0, 4}},
		{"any times", AnyTimes(), []int{0, 1, 1000}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, n := range tc.in {
				assert.True(t, tc.p.Contains(n), "%s should contain %d", tc.p, n)
			}
			for _, n := range tc.out {
				assert.False(t, tc.p.Contains(n), "%s should not contain %d", tc.p, n)
			}
		})
	}
}

func TestVerify_CountsByPatternAndArguments(t *testing.T) {
	addObject := NewMethod("addObject", KindVoid, KindObject)
	sub := NewSubstitute("list")

	mustDispatch(t, sub, addObject, "once")
	mustDispatch(t, sub, addObject, "twice")
	mustDispatch(t, sub, addObject, "twice")

	assert.True(t, sub.Expect(addObject, "once").Verify(Times(1)).OK)
	assert.True(t, sub.Expect(addObject, "twice").Verify(Times(2)).OK)
	assert.True(t, sub.Expect(addObject, "nonexistent").Verify(Never()).OK)

	res := sub.Expect(addObject, "twice").Verify(Times(1))
	require.False(t, res.OK)
	assert.Equal(t, 2, res.Actual)
}

func TestVerify_FailureDescriptionIsComplete(t *testing.T) {
	addObject := NewMethod("addObject", KindVoid, KindObject)
	sub := NewSubstitute("list")

	mustDispatch(t, sub, addObject, "once")
	mustDispatch(t, sub, addObject, "twice")
	mustDispatch(t, sub, addObject, "twice")

	res := sub.Expect(addObject, "twice").Verify(Times(1))
	require.False(t, res.OK)

	// The description names the pattern, the expected range, the actual
	// count, and every recorded invocation of the method - matched or not.
	assert.Contains(t, res.Message, "exactly 1 call(s)")
	assert.Contains(t, res.Message, "actual: 2")
	assert.Contains(t, res.Message, "addObject")
	assert.Contains(t, res.Message, "once", "unmatched sibling calls appear for context")
	assert.Contains(t, res.Message, `substitute "list"`)

	empty := sub.Expect(NewMethod("clear", KindVoid)).Verify(Times(1))
	require.False(t, empty.OK)
	assert.Contains(t, empty.Message, "no invocations of clear()")
}

func TestVerify_IsAPureRead(t *testing.T) {
	next := NewMethod("next", KindObject)
	sub := NewSubstitute("seq")
	sub.When(next).ThenReturn("a").ThenReturn("b")

	mustDispatch(t, sub, next)

	for i := 0; i < 5; i++ {
		res := sub.Expect(next).Verify(Times(1))
		assert.True(t, res.OK, "repeat %d over an unchanged log", i)
	}
	assert.Len(t, sub.Calls(), 1, "verification never appends to the log")

	// Stub state was not consumed by verifying: the queue is still on "b".
	v, err := sub.Dispatch(next)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestVerify_CaptorSeesMatchedArguments(t *testing.T) {
	add := NewMethod("add", KindVoid, KindInt32)
	sub := NewSubstitute("calc")

	for _, n := range []int{10, 20, 30} {
		mustDispatch(t, sub, add, n)
	}

	captor := NewCaptor()
	res := sub.Expect(add, captor).Verify(Times(3))
	require.True(t, res.OK)

	all := captor.All()
	require.Len(t, all, 3)
	for i, want := range []int64{10, 20, 30} {
		assert.Equal(t, want, all[i].Int(), "captured in scan order")
	}
	last, ok := captor.Last()
	require.True(t, ok)
	assert.Equal(t, int64(30), last.Int())

	// Re-running the scan appends the same matches again: captors
	// accumulate for their lifetime, they do not reset per verify.
	sub.Expect(add, captor).Verify(Times(3))
	assert.Len(t, captor.All(), 6)
}

func TestVerify_OverrideMatcherInQuery(t *testing.T) {
	at := NewMethod("objectAt", KindObject, KindInt32)
	sub := NewSubstitute("store")

	mustDispatch(t, sub, at, 3)
	mustDispatch(t, sub, at, 7)

	res := sub.Expect(at, 0).MatchingAt(0, Anything()).Verify(Times(2))
	assert.True(t, res.OK, "override makes the literal at position 0 irrelevant")
}

func TestVerify_ArityMismatchPanics(t *testing.T) {
	at := NewMethod("objectAt", KindObject, KindInt32)
	sub := NewSubstitute("store")

	assert.Panics(t, func() {
		sub.Expect(at, 1, 2).Verify(Times(1))
	})
}

func mustDispatch(t *testing.T, s *Substitute, m Method, args ...any) {
	t.Helper()
	_, err := s.Dispatch(m, args...)
	require.NoError(t, err)
}
