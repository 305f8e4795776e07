package goreflect

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Method is a Go method, or a registered static func.
type Method struct {
	decl   *Type
	name   string
	goName string
	mods   hosttype.Modifier
	sig    signature
	fn     reflect.Value // static funcs only
}

var _ hosttype.Method = (*Method)(nil)

func (m *Method) Name() string                 { return m.name }
func (m *Method) DeclaringType() hosttype.Type { return m.decl }
func (m *Method) Modifiers() hosttype.Modifier { return m.mods }
func (m *Method) Params() []hosttype.Type      { return m.sig.params }
func (m *Method) Return() hosttype.Type        { return m.sig.ret }

// Invoke calls the method on recv. Instance methods are looked up by name on
// recv, so embedding types dispatch to their own implementation.
func (m *Method) Invoke(recv any, args []any) (any, error) {
	if m.mods.IsStatic() {
		return m.sig.call(m.name, m.fn, args)
	}
	rv := reflect.ValueOf(recv)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil receiver for %s.%s", hosttype.ErrIllegalArgument, m.decl.name, m.name)
	}
	mv := rv.MethodByName(m.goName)
	if !mv.IsValid() && rv.Kind() != reflect.Pointer {
		// A struct value lacks the pointer methods; call them on a copy
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		mv = ptr.MethodByName(m.goName)
	}
	if !mv.IsValid() {
		return nil, fmt.Errorf("%w: receiver %T has no method %s", hosttype.ErrIllegalArgument, recv, m.goName)
	}
	return m.sig.call(m.name, mv, args)
}

// Field is a struct field, or a registered static variable or constant.
type Field struct {
	decl  *Type
	name  string
	mods  hosttype.Modifier
	rtype reflect.Type
	typ   hosttype.Type
	index int

	open atomic.Bool

	mu       sync.RWMutex  // guards static variables
	ptr      reflect.Value // static variable
	constant reflect.Value // static constant
}

var (
	_ hosttype.Field  = (*Field)(nil)
	_ hosttype.Opener = (*Field)(nil)
)

func (f *Field) Name() string                 { return f.name }
func (f *Field) DeclaringType() hosttype.Type { return f.decl }
func (f *Field) Modifiers() hosttype.Modifier { return f.mods }
func (f *Field) Type() hosttype.Type          { return f.typ }

// Open makes an unexported field accessible. Strict hosts and internal
// packages refuse.
func (f *Field) Open() error {
	if f.mods.IsPublic() {
		return nil
	}
	if f.decl.p.strict {
		return fmt.Errorf("%w: %s.%s on a strict host", hosttype.ErrAccessDenied, f.decl.name, f.name)
	}
	if !f.decl.Exported() {
		return fmt.Errorf("%w: %s.%s", hosttype.ErrAccessDenied, f.decl.name, f.name)
	}
	f.open.Store(true)
	return nil
}

func (f *Field) accessible() bool {
	return f.mods.IsPublic() || f.open.Load()
}

// Get reads the field of recv. Static fields ignore recv.
func (f *Field) Get(recv any) (any, error) {
	switch {
	case f.constant.IsValid():
		return f.constant.Interface(), nil
	case f.ptr.IsValid():
		f.mu.RLock()
		defer f.mu.RUnlock()
		return f.ptr.Elem().Interface(), nil
	}
	if !f.accessible() {
		return nil, fmt.Errorf("%w: field %s.%s", hosttype.ErrIllegalAccess, f.decl.name, f.name)
	}
	v, err := f.decl.view(recv)
	if err != nil {
		return nil, err
	}
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}
	return f.value(v).Interface(), nil
}

// Set writes the field of recv, which must be a pointer. Final fields always
// fail with ErrIllegalAccess.
func (f *Field) Set(recv any, value any) error {
	if f.mods.IsFinal() || !f.accessible() {
		return fmt.Errorf("%w: field %s.%s", hosttype.ErrIllegalAccess, f.decl.name, f.name)
	}
	nv, err := native(value, f.rtype)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	if f.ptr.IsValid() {
		f.mu.Lock()
		f.ptr.Elem().Set(nv)
		f.mu.Unlock()
		return nil
	}
	v, err := f.decl.view(recv)
	if err != nil {
		return err
	}
	if !v.CanAddr() {
		return fmt.Errorf("%w: %s receiver must be a pointer, got %T", hosttype.ErrIllegalArgument, f.decl.name, recv)
	}
	f.value(v).Set(nv)
	return nil
}

// value returns the settable field of the addressable struct v.
func (f *Field) value(v reflect.Value) reflect.Value {
	fv := v.Field(f.index)
	if !f.mods.IsPublic() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	return fv
}

// view returns the part of recv that is a t, walking embedded superclasses.
func (t *Type) view(recv any) (reflect.Value, error) {
	v := reflect.ValueOf(recv)
	for {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: nil receiver for %s", hosttype.ErrIllegalArgument, t.name)
			}
			v = v.Elem()
		}
		if !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: receiver %T is not a %s", hosttype.ErrIllegalArgument, recv, t.name)
		}
		if v.Type() == t.rt {
			return v, nil
		}
		o := t.p.Type(v.Type())
		if o.superType() == nil {
			return reflect.Value{}, fmt.Errorf("%w: receiver %T is not a %s", hosttype.ErrIllegalArgument, recv, t.name)
		}
		v = v.Field(o.superIndex)
	}
}

// Constructor is a registered constructor func, or the implicit constructor
// of a struct without registered ones.
type Constructor struct {
	decl     *Type
	sig      signature
	fn       reflect.Value
	implicit bool
}

var _ hosttype.Constructor = (*Constructor)(nil)

func (c *Constructor) Name() string                 { return c.decl.simple }
func (c *Constructor) DeclaringType() hosttype.Type { return c.decl }
func (c *Constructor) Modifiers() hosttype.Modifier { return hosttype.Public }

func (c *Constructor) Params() []hosttype.Type {
	if c.implicit {
		return nil
	}
	return c.sig.params
}

// New returns a pointer to a new instance.
func (c *Constructor) New(args []any) (any, error) {
	if c.implicit {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: new %s takes no arguments", hosttype.ErrIllegalArgument, c.decl.name)
		}
		return reflect.New(c.decl.rt).Interface(), nil
	}
	v, err := c.sig.call(c.decl.simple, c.fn, args)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface(), nil
	}
	return v, nil
}
