package interop

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

// ErrNoOverload is returned when no overload accepts the arguments.
var ErrNoOverload = errors.New("interop: no matching overload")

// Dispatcher calls the first overload of a group whose arity matches and whose
// parameters accept every argument. Overloads are tried in group order.
type Dispatcher struct {
	coercer members.Coercer
}

// NewDispatcher returns a dispatcher coercing arguments with c, or with the
// default Coercer when c is nil.
func NewDispatcher(c members.Coercer) *Dispatcher {
	if c == nil {
		c = NewCoercer()
	}
	return &Dispatcher{coercer: c}
}

// Call invokes the selected overload on recv. Constructor groups ignore recv.
func (d *Dispatcher) Call(_ members.Scope, group *members.CallableGroup, recv any, args []any) (any, error) {
	for i := 0; i < group.Len(); i++ {
		params := group.Params(i)
		if len(params) != len(args) {
			continue
		}
		native, ok := d.coerceAll(params, args)
		if !ok {
			continue
		}
		if group.IsConstructor() {
			return group.Constructors()[i].New(native)
		}
		return group.Methods()[i].Invoke(recv, native)
	}
	return nil, fmt.Errorf("%w: %s with %d argument(s)", ErrNoOverload, group.Name(), len(args))
}

func (d *Dispatcher) coerceAll(params []hosttype.Type, args []any) ([]any, bool) {
	native := make([]any, len(args))
	for i, p := range params {
		v, err := d.coercer.Coerce(args[i], p)
		if err != nil {
			return nil, false
		}
		native[i] = v
	}
	return native, true
}
