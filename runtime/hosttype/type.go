// Package hosttype defines the host-side type model consumed by the bridge.
//
// A host type is a nominal class or interface with declared methods, fields and
// constructors. Providers (model, goreflect, gotypes) implement these interfaces
// over their own type source; the bridge in runtime/members only ever sees the
// interfaces defined here.
package hosttype

import (
	"errors"
	"strings"
)

// Modifier is a bit set of member and type modifiers.
type Modifier uint16

const (
	// Public marks a member or type as accessible from anywhere
	Public Modifier = 1 << iota
	// Protected marks a member as accessible to subtypes
	Protected
	// Private marks a member as accessible only to its declaring type
	Private
	// Static marks a member as belonging to the type rather than an instance
	Static
	// Final marks a field as immutable after construction
	Final
	// Abstract marks a type or method as having no implementation
	Abstract
)

// IsPublic reports whether the Public bit is set.
func (m Modifier) IsPublic() bool { return m&Public != 0 }

// IsProtected reports whether the Protected bit is set.
func (m Modifier) IsProtected() bool { return m&Protected != 0 }

// IsPrivate reports whether the Private bit is set.
func (m Modifier) IsPrivate() bool { return m&Private != 0 }

// IsStatic reports whether the Static bit is set.
func (m Modifier) IsStatic() bool { return m&Static != 0 }

// IsFinal reports whether the Final bit is set.
func (m Modifier) IsFinal() bool { return m&Final != 0 }

// String renders the modifiers in declaration order, e.g. "public static final".
func (m Modifier) String() string {
	var parts []string
	switch {
	case m.IsPublic():
		parts = append(parts, "public")
	case m.IsProtected():
		parts = append(parts, "protected")
	case m.IsPrivate():
		parts = append(parts, "private")
	}
	if m&Abstract != 0 {
		parts = append(parts, "abstract")
	}
	if m.IsStatic() {
		parts = append(parts, "static")
	}
	if m.IsFinal() {
		parts = append(parts, "final")
	}
	return strings.Join(parts, " ")
}

var (
	// ErrAccessDenied is returned by member enumeration when the host platform
	// refuses reflective access to a type.
	ErrAccessDenied = errors.New("reflective access denied")

	// ErrIllegalAccess is returned by Field.Set/Get and Method.Invoke when the
	// member is not accessible or the field is final.
	ErrIllegalAccess = errors.New("illegal access")

	// ErrIllegalArgument is returned when a value does not fit the declared
	// field or parameter type.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrNotInvocable is returned by providers that describe types statically
	// and cannot run member bodies.
	ErrNotInvocable = errors.New("member is not invocable")
)

// Type is a native class, interface, array or primitive type.
//
// Implementations must be comparable and interned: a provider returns the same
// Type value for the same native type, so Type can be used as a map key.
type Type interface {
	// Name is the fully qualified type name.
	Name() string
	// SimpleName is the unqualified name used for constructor groups.
	SimpleName() string
	Modifiers() Modifier
	IsInterface() bool
	IsArray() bool
	// Elem is the component type of an array type, nil otherwise.
	Elem() Type
	IsVoid() bool
	// Super is the superclass, nil for interfaces, primitives and roots.
	Super() Type
	Interfaces() []Type
	// AssignableFrom reports whether a value of type other can be used where
	// this type is expected.
	AssignableFrom(other Type) bool
	// Exported reports whether the host platform opens the type to reflection.
	Exported() bool

	// Methods returns the public methods of the type, including inherited ones.
	Methods() ([]Method, error)
	// DeclaredMethods returns every method declared on the type itself.
	DeclaredMethods() ([]Method, error)
	// Fields returns the public fields of the type, including inherited ones.
	Fields() ([]Field, error)
	// DeclaredFields returns every field declared on the type itself.
	DeclaredFields() ([]Field, error)
	// Constructors returns the public constructors.
	Constructors() ([]Constructor, error)
	// DeclaredConstructors returns every constructor.
	DeclaredConstructors() ([]Constructor, error)
}

// Member is a method, field or constructor declaration.
type Member interface {
	Name() string
	DeclaringType() Type
	Modifiers() Modifier
}

// Method is a callable member with a return type.
type Method interface {
	Member
	Params() []Type
	Return() Type
	Invoke(recv any, args []any) (any, error)
}

// Constructor creates instances of its declaring type.
type Constructor interface {
	Member
	Params() []Type
	New(args []any) (any, error)
}

// Field is a stored member.
type Field interface {
	Member
	Type() Type
	Get(recv any) (any, error)
	Set(recv any, value any) error
}

// Opener is implemented by members that can be made accessible regardless of
// their declared visibility.
type Opener interface {
	Open() error
}

// Capabilities is an optional provider interface queried once at startup to
// pick the access strategy.
type Capabilities interface {
	StrictReflectiveAccess() bool
}
