package mimic

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Method identifies one interceptable method: a name, the kind of every
// parameter slot in order, and the kind of the return slot. Two methods are
// the same identity when all three agree; the proxy layer is expected to
// build each descriptor once and reuse it.
type Method struct {
	Name    string
	Params  []Kind
	Returns Kind
}

// NewMethod builds a method identity.
func NewMethod(name string, returns Kind, params ...Kind) Method {
	return Method{Name: name, Params: params, Returns: returns}
}

// Arity is the declared number of parameters.
func (m Method) Arity() int { return len(m.Params) }

// Signature renders the identity for diagnostics, e.g. "objectAt(int32) object".
func (m Method) Signature() string {
	parts := make([]string, len(m.Params))
	for i, k := range m.Params {
		parts[i] = k.String()
	}
	sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(parts, ", "))
	if m.Returns != KindVoid {
		sig += " " + m.Returns.String()
	}
	return sig
}

func (m Method) equal(o Method) bool {
	if m.Name != o.Name || m.Returns != o.Returns || len(m.Params) != len(o.Params) {
		return false
	}
	for i, k := range m.Params {
		if o.Params[i] != k {
			return false
		}
	}
	return true
}

// Invocation is the immutable snapshot of one intercepted call: who was
// called, which method, and the boxed arguments in order. The only mutable
// part is the return slot, written at most once when an answer runs.
type Invocation struct {
	target     uuid.UUID
	targetName string
	method     Method
	args       []Value
	ret        Value
	retSet     bool
}

func newInvocation(target uuid.UUID, targetName string, m Method, args []Value) *Invocation {
	snap := make([]Value, len(args))
	copy(snap, args)
	return &Invocation{
		target:     target,
		targetName: targetName,
		method:     m,
		args:       snap,
		ret:        NoValue(),
	}
}

// Target is the identity token of the substitute that received the call.
func (inv *Invocation) Target() uuid.UUID { return inv.target }

// TargetName is the substitute's human-readable name.
func (inv *Invocation) TargetName() string { return inv.targetName }

// Method is the identity of the intercepted method.
func (inv *Invocation) Method() Method { return inv.method }

// Args returns a copy of the boxed arguments in call order.
func (inv *Invocation) Args() []Value {
	out := make([]Value, len(inv.args))
	copy(out, inv.args)
	return out
}

// Arg returns the boxed argument at position i.
func (inv *Invocation) Arg(i int) Value { return inv.args[i] }

// SetReturn writes the return slot. The slot is write-once; a second write
// is a programming error.
func (inv *Invocation) SetReturn(v Value) error {
	if inv.retSet {
		return fmt.Errorf("mimic: return slot of %s already written", inv.method.Signature())
	}
	inv.ret = v
	inv.retSet = true
	return nil
}

// Return reports the return slot value and whether it has been written.
func (inv *Invocation) Return() (Value, bool) { return inv.ret, inv.retSet }

func (inv *Invocation) String() string {
	parts := make([]string, len(inv.args))
	for i, a := range inv.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", inv.method.Name, strings.Join(parts, ", "))
}

// recorder is the append-only ordered call log of one substitute. Reads go
// through a snapshot copy, so a verification scan stays valid even when a
// custom answer re-enters the substitute and appends mid-scan.
type recorder struct {
	calls []*Invocation
}

func (r *recorder) append(inv *Invocation) {
	r.calls = append(r.calls, inv)
}

func (r *recorder) snapshot() []*Invocation {
	out := make([]*Invocation, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) len() int { return len(r.calls) }

func (r *recorder) reset() { r.calls = nil }
