package members

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// EntryKind tags the variant held by an Entry.
type EntryKind string

const (
	// KindField is a plain field
	KindField EntryKind = "field"
	// KindMethods is a method family
	KindMethods EntryKind = "methods"
	// KindBean is a synthesized bean property
	KindBean EntryKind = "bean"
	// KindFieldAndMethods is a name that is both a field and a method family
	KindFieldAndMethods EntryKind = "field+methods"
)

// Entry is one named member of a table. Exactly the fields matching Kind are
// set: Field for KindField, Group for KindMethods, Bean for KindBean, and
// Field, Group and Composite for KindFieldAndMethods.
type Entry struct {
	Kind      EntryKind
	Field     hosttype.Field
	Group     *CallableGroup
	Bean      *BeanProperty
	Composite *FieldAndMethods
}

// FieldAndMethods is a field sharing its name with a method family. Reading
// the name yields the methods bound to a receiver; writing it sets the field.
type FieldAndMethods struct {
	Group *CallableGroup
	Field hosttype.Field
}

// BoundFieldAndMethods is a FieldAndMethods bound to a receiver.
type BoundFieldAndMethods struct {
	*FieldAndMethods
	Recv any
}

// Value reads the field from the bound receiver.
func (b *BoundFieldAndMethods) Value() (any, error) {
	if b.Field.Modifiers().IsStatic() {
		return b.Field.Get(nil)
	}
	return b.Field.Get(b.Recv)
}

type notFound struct{}

func (notFound) String() string { return "NOT_FOUND" }

// NotFound is returned by Get when a name resolves to nothing.
var NotFound any = notFound{}

// side is the static or the instance half of a table.
type side struct {
	entries    map[string]*Entry
	composites map[string]*FieldAndMethods
}

func newSide() side {
	return side{entries: make(map[string]*Entry)}
}

// Table is the immutable member table of one host type.
//
// A Table is safe for concurrent use. Its maps are never written after Build
// returns; explicit-signature resolutions are memoized in a separate index.
type Table struct {
	typ      hosttype.Type
	static   side
	instance side
	ctors    *CallableGroup
	env      env

	explicit sync.Map // explicitKey -> *CallableGroup
}

func (t *Table) half(isStatic bool) *side {
	if isStatic {
		return &t.static
	}
	return &t.instance
}

// Type returns the host type the table was built for.
func (t *Table) Type() hosttype.Type { return t.typ }

// Constructors returns the constructor group, or nil when the type has no
// accessible constructor.
func (t *Table) Constructors() *CallableGroup { return t.ctors }

// lookup finds the direct entry for name. Instance lookups fall back to the
// static side.
func (t *Table) lookup(name string, isStatic bool) *Entry {
	if e, ok := t.half(isStatic).entries[name]; ok {
		return e
	}
	if !isStatic {
		return t.static.entries[name]
	}
	return nil
}

// Entry returns a copy of the direct entry for name.
func (t *Table) Entry(name string, isStatic bool) (Entry, bool) {
	e := t.lookup(name, isStatic)
	if e == nil {
		return Entry{}, false
	}
	return *e, true
}

// Has reports whether name resolves directly or as an explicit signature.
func (t *Table) Has(name string, isStatic bool) bool {
	if t.lookup(name, isStatic) != nil {
		return true
	}
	return t.Explicit(name, isStatic) != nil
}

// IDs returns the sorted names of the direct entries on one side.
func (t *Table) IDs(isStatic bool) []string {
	entries := t.half(isStatic).entries
	ids := make([]string, 0, len(entries))
	for name := range entries {
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids
}

// Get reads name from recv and returns a script value, or NotFound.
func (t *Table) Get(scope Scope, name string, recv any, isStatic bool) (any, error) {
	e := t.lookup(name, isStatic)
	if e == nil {
		if g := t.Explicit(name, isStatic); g != nil {
			return g, nil
		}
		return NotFound, nil
	}

	switch e.Kind {
	case KindMethods:
		return e.Group, nil

	case KindFieldAndMethods:
		return &BoundFieldAndMethods{FieldAndMethods: e.Composite, Recv: recv}, nil

	case KindBean:
		getter := e.Bean.Getter
		if getter == nil {
			return NotFound, nil
		}
		v, err := getter.Invoke(recv, nil)
		if err != nil {
			return nil, t.invocationError(getter.Name(), err)
		}
		return t.env.wrapper.Wrap(scope, v, getter.Return()), nil

	case KindField:
		f := e.Field
		var target any
		if !f.Modifiers().IsStatic() {
			target = recv
		}
		v, err := f.Get(target)
		if err != nil {
			return nil, t.invocationError(f.Name(), err)
		}
		return t.env.wrapper.Wrap(scope, v, f.Type()), nil
	}
	return nil, fmt.Errorf("members: unknown entry kind %q", e.Kind)
}

// Put writes value to name on recv.
func (t *Table) Put(scope Scope, name string, recv any, value any, isStatic bool) error {
	e := t.lookup(name, isStatic)
	if e == nil {
		return t.memberNotFound(name)
	}

	switch e.Kind {
	case KindField, KindFieldAndMethods:
		return t.putField(e.Field, recv, value)

	case KindBean:
		return t.putBean(scope, name, e.Bean, recv, value)

	case KindMethods:
		return report(t.env.reporter, CodeMethodAssign, t.typ.Name(), name, name)
	}
	return fmt.Errorf("members: unknown entry kind %q", e.Kind)
}

func (t *Table) putBean(scope Scope, name string, bp *BeanProperty, recv, value any) error {
	if bp.Setter == nil {
		return t.memberNotFound(name)
	}

	// With several setters only the dispatcher can pick one for a non-nil value
	if bp.Setters != nil && value != nil && t.env.dispatcher != nil {
		_, err := t.env.dispatcher.Call(scope, bp.Setters, recv, []any{value})
		return err
	}

	target := bp.Setter.Params()[0]
	arg, err := t.env.coercer.Coerce(value, target)
	if err != nil {
		return report(t.env.reporter, CodeCoercion, t.typ.Name(), name,
			valueType(value), hosttype.TypeSignature(target)).
			WithTypes(hosttype.TypeSignature(target), valueType(value)).
			WithCause(err)
	}
	if _, err := bp.Setter.Invoke(recv, []any{arg}); err != nil {
		return t.invocationError(bp.Setter.Name(), err)
	}
	return nil
}

func (t *Table) putField(f hosttype.Field, recv, value any) error {
	fieldType := hosttype.TypeSignature(f.Type())
	mismatch := func(cause error) error {
		return report(t.env.reporter, CodeTypeMismatch, t.typ.Name(), f.Name(),
			valueType(value), f.Name(), fieldType).
			WithTypes(fieldType, valueType(value)).
			WithCause(cause)
	}

	v, err := t.env.coercer.Coerce(value, f.Type())
	if err != nil {
		return mismatch(err)
	}
	var target any
	if !f.Modifiers().IsStatic() {
		target = recv
	}

	err = f.Set(target, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hosttype.ErrIllegalAccess):
		// Final fields are read-only to scripts
		if f.Modifiers().IsFinal() {
			return nil
		}
		return report(t.env.reporter, CodeIllegalAccessOnWrite, t.typ.Name(), f.Name(),
			f.Name(), t.typ.Name()).WithCause(err)
	case errors.Is(err, hosttype.ErrIllegalArgument):
		return mismatch(err)
	default:
		return t.invocationError(f.Name(), err)
	}
}

// FieldAndMethods returns the field-and-methods composites of one side, each
// bound to recv. It returns nil when the side has none.
func (t *Table) FieldAndMethods(recv any, isStatic bool) map[string]*BoundFieldAndMethods {
	composites := t.half(isStatic).composites
	if len(composites) == 0 {
		return nil
	}
	out := make(map[string]*BoundFieldAndMethods, len(composites))
	for name, fam := range composites {
		out[name] = &BoundFieldAndMethods{FieldAndMethods: fam, Recv: recv}
	}
	return out
}

func (t *Table) memberNotFound(name string) *Error {
	return report(t.env.reporter, CodeMemberNotFound, t.typ.Name(), name, t.typ.Name(), name)
}

func (t *Table) invocationError(member string, err error) *Error {
	return report(t.env.reporter, CodeInvocation, t.typ.Name(), member,
		t.typ.Name(), member, err).WithCause(err)
}

// valueType names the Go type of a script value for error messages.
func valueType(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
