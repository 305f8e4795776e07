package members

import (
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Scope is the script scope a value is read or written in. The bridge never
// inspects it; it is handed through to the Wrapper and Dispatcher.
type Scope any

// VisibilityGate decides whether a host type may be exposed to scripts at all.
// Implementations must be safe for concurrent use.
type VisibilityGate interface {
	VisibleToScripts(typeName string) bool
}

// GateFunc adapts a function to VisibilityGate.
type GateFunc func(typeName string) bool

// VisibleToScripts calls f(typeName).
func (f GateFunc) VisibleToScripts(typeName string) bool { return f(typeName) }

// Coercer converts a script value into a native value of the target type.
type Coercer interface {
	Coerce(value any, target hosttype.Type) (any, error)
}

// Wrapper converts a native value into a script value, using the declared
// type as the conversion hint.
type Wrapper interface {
	Wrap(scope Scope, value any, declared hosttype.Type) any
}

// Dispatcher resolves the best overload of a group for raw script arguments
// and invokes it, coercing per candidate.
type Dispatcher interface {
	Call(scope Scope, group *CallableGroup, recv any, args []any) (any, error)
}

// TrustContext identifies the caller's reflective privilege scope. It must be
// comparable. A nil TrustContext means unrestricted privilege.
type TrustContext any

// TrustSource exposes the ambient privilege of the current caller.
type TrustSource interface {
	CurrentContext() TrustContext
	HasAllPrivileges() bool
}

// EffectiveTrust returns the cache partition for src. Callers holding every
// privilege share the nil partition.
func EffectiveTrust(src TrustSource) TrustContext {
	if src == nil || src.HasAllPrivileges() {
		return nil
	}
	return src.CurrentContext()
}

// passthrough is the Coercer and Wrapper used when none is configured.
type passthrough struct{}

func (passthrough) Coerce(value any, _ hosttype.Type) (any, error) { return value, nil }

func (passthrough) Wrap(_ Scope, value any, _ hosttype.Type) any { return value }
