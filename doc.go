// Package mimic is a test-double engine: it captures method invocations sent
// to a substitute object, records them, answers them from pre-programmed
// stubs, and lets a test verify which invocations occurred.
//
// # Overview
//
// mimic is the invocation core only. It does not generate substitute types;
// a proxy layer (hand-written fake, code generator, or reflection shim) routes
// every intercepted call into Substitute.Dispatch together with a Method
// descriptor. Everything downstream of that entry point is generic over the
// descriptor:
//
//   - value.go      - Kind tags and the boxed Value union
//   - marshal.go    - converter chain between native values and boxed values
//   - matcher.go    - argument matchers and matcher resolution
//   - invocation.go - Method identity, Invocation records, the call log
//   - stub.go       - stub registry, answers, consecutive-call semantics
//   - verify.go     - count predicates and the verification scan
//   - dispatch.go   - the Substitute and its dispatch entry point
//   - assert.go     - bridge from verification results to *testing.T
//
// # Quick Start
//
// Describe the collaborator's method once, then stub and verify against it:
//
//	objectAt := mimic.NewMethod("objectAt", mimic.KindObject, mimic.KindInt32)
//
//	store := mimic.NewSubstitute("store")
//	store.When(objectAt, 0).ThenReturn("first")
//	store.When(objectAt, 1).ThenError(errors.New("index out of bounds"))
//
//	v, _ := store.Dispatch(objectAt, 0)   // "first"
//	_, err := store.Dispatch(objectAt, 1) // index out of bounds
//	v, _ = store.Dispatch(objectAt, 99)   // nil (unstubbed -> zero value)
//
//	store.Expect(objectAt, 0).Verify(mimic.Times(1)).Report(t)
//
// Consecutive answers on one stubbing repeat the last answer forever:
//
//	store.When(objectAt, 7).
//		ThenError(errTransient).
//		ThenReturn("recovered") // 2nd, 3rd, 4th... call all return "recovered"
//
// # Matchers
//
// A literal argument is wrapped in an equality matcher. A Matcher passed in
// its place is used directly, and MatchingAt forces a matcher onto a position
// regardless of what the call site supplied:
//
//	store.When(objectAt, 0).MatchingAt(0, mimic.Anything()).ThenReturn("any")
//
//	captor := mimic.NewCaptor()
//	store.Expect(objectAt, 0).MatchingAt(0, captor).Verify(mimic.AtLeast(1))
//	last, _ := captor.Last()
//
// # Threading Contract
//
// The engine is single-threaded by contract. Interception, stubbing, and
// verification are expected on the same goroutine as the test, synchronously
// with the intercepted call. Custom answers run inline and may re-enter any
// substitute, including their own; reentrant calls are recorded in true
// temporal order. No locking is performed. Do not share a Substitute or a
// Captor across goroutines without external synchronization.
//
// # Lifecycle
//
// A Substitute exclusively owns its call log and stub registry. Reset clears
// both and marks the substitute inert: further dispatches answer with zero
// values and record nothing. Use Reset at teardown to cut reference cycles
// between the substitute and captured objects instead of relying on garbage
// collection timing.
package mimic
