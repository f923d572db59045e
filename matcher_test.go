package mimic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEq_PrimitiveAndObjectEquality(t *testing.T) {
	eq := Eq(IntValue(KindInt32, 7))
	assert.True(t, eq.Matches(IntValue(KindInt32, 7)))
	assert.False(t, eq.Matches(IntValue(KindInt32, 8)))
	assert.False(t, eq.Matches(IntValue(KindInt64, 7)), "kind is part of equality")

	type order struct{ ID int }
	objEq := Eq(ObjectValue(order{ID: 1}))
	assert.True(t, objEq.Matches(ObjectValue(order{ID: 1})), "objects compare by value")
	assert.False(t, objEq.Matches(ObjectValue(order{ID: 2})))
}

func TestCaptor_AccumulatesInMatchOrder(t *testing.T) {
	c := NewCaptor()

	for _, n := range []int64{1, 2, 3} {
		assert.True(t, c.Matches(IntValue(KindInt64, n)))
	}

	all := c.All()
	require.Len(t, all, 3)
	for i, n := range []int64{1, 2, 3} {
		assert.Equal(t, n, all[i].Int())
	}

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, int64(3), last.Int())

	// Captured values accumulate for the captor's lifetime.
	c.Matches(IntValue(KindInt64, 4))
	assert.Len(t, c.All(), 4)
}

func TestCaptor_EmptyLast(t *testing.T) {
	c := NewCaptor()
	_, ok := c.Last()
	assert.False(t, ok)
	assert.Empty(t, c.All())
}

func TestResolveMatchers_LiteralsBecomeEquality(t *testing.T) {
	chain := DefaultChain()
	m := NewMethod("put", KindVoid, KindObject, KindInt32)

	matchers, err := resolveMatchers(chain, m, []any{"key", 5}, nil)
	require.NoError(t, err)
	require.Len(t, matchers, 2)

	assert.True(t, matchers[0].Matches(ObjectValue("key")))
	assert.False(t, matchers[0].Matches(ObjectValue("other")))
	assert.True(t, matchers[1].Matches(IntValue(KindInt32, 5)))
}

func TestResolveMatchers_MatcherPassesThrough(t *testing.T) {
	chain := DefaultChain()
	m := NewMethod("put", KindVoid, KindObject)

	matchers, err := resolveMatchers(chain, m, []any{Anything()}, nil)
	require.NoError(t, err)
	assert.True(t, matchers[0].Matches(ObjectValue("whatever")))
}

func TestResolveMatchers_OverrideBeatsLiteral(t *testing.T) {
	chain := DefaultChain()
	m := NewMethod("at", KindObject, KindInt32)

	// The call site could only pass a literal for the int slot; the override
	// table forces a matcher onto that position anyway.
	matchers, err := resolveMatchers(chain, m, []any{0}, map[int]Matcher{0: Anything()})
	require.NoError(t, err)

	assert.True(t, matchers[0].Matches(IntValue(KindInt32, 999)))
	t.Logf("✓ override at position 0 replaced the literal equality matcher")
}

func TestResolveMatchers_ArityChecked(t *testing.T) {
	chain := DefaultChain()
	m := NewMethod("at", KindObject, KindInt32)

	_, err := resolveMatchers(chain, m, []any{1, 2}, nil)
	var arity *MismatchedArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 2, arity.Got)

	_, err = resolveMatchers(chain, m, []any{1}, map[int]Matcher{3: Anything()})
	require.ErrorAs(t, err, &arity, "override position outside arity is a config error")
}

func TestResolveMatchers_UnboxableLiteral(t *testing.T) {
	chain := DefaultChain()
	m := NewMethod("at", KindObject, KindInt8)

	_, err := resolveMatchers(chain, m, []any{4096}, nil)
	require.Error(t, err, "literal must fit the declared kind")
}

func TestMatchersEqual(t *testing.T) {
	eqA := Eq(ObjectValue("x"))
	eqB := Eq(ObjectValue("x"))
	assert.True(t, matchersEqual([]Matcher{eqA}, []Matcher{eqB}), "value matchers compare by value")

	c1, c2 := NewCaptor(), NewCaptor()
	assert.True(t, matchersEqual([]Matcher{c1}, []Matcher{c1}))
	assert.False(t, matchersEqual([]Matcher{c1}, []Matcher{c2}), "stateful matchers compare by identity")

	assert.False(t, matchersEqual([]Matcher{eqA}, []Matcher{eqA, eqB}))
	assert.False(t, matchersEqual([]Matcher{c1}, []Matcher{eqA}))
}
