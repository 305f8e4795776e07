package interop

import (
	"fmt"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

// HostObject is a host value seen from script code.
type HostObject struct {
	Value any
	// Type is the declared host type the value was read as
	Type hosttype.Type
}

// String implements fmt.Stringer.
func (h *HostObject) String() string {
	if h.Type == nil {
		return fmt.Sprintf("[host %v]", h.Value)
	}
	return fmt.Sprintf("[host %s %v]", h.Type.Name(), h.Value)
}

// Wrapper boxes host values that have no script representation.
type Wrapper struct{}

// NewWrapper returns a Wrapper.
func NewWrapper() *Wrapper { return &Wrapper{} }

// Wrap returns scalars and strings unchanged and boxes everything else in a
// *HostObject carrying the declared type.
func (w *Wrapper) Wrap(_ members.Scope, value any, declared hosttype.Type) any {
	switch value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return value
	case *HostObject:
		return value
	}
	return &HostObject{Value: value, Type: declared}
}
