package model

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Body implements a method. recv is nil for static methods.
type Body func(recv any, args []any) (any, error)

// ConstructorBody implements a constructor.
type ConstructorBody func(args []any) (any, error)

type memberBase struct {
	name string
	decl *Class
	mods hosttype.Modifier
	open atomic.Bool
}

func (m *memberBase) Name() string                 { return m.name }
func (m *memberBase) DeclaringType() hosttype.Type { return m.decl }
func (m *memberBase) Modifiers() hosttype.Modifier { return m.mods }

// Open makes a non-public member accessible. Members of classes closed to
// reflection cannot be opened.
func (m *memberBase) Open() error {
	if !m.decl.exported {
		return fmt.Errorf("%w: %s.%s", hosttype.ErrAccessDenied, m.decl.name, m.name)
	}
	m.open.Store(true)
	return nil
}

func (m *memberBase) accessible() bool {
	return m.mods.IsPublic() || m.open.Load()
}

func (m *memberBase) setMods(mods hosttype.Modifier) {
	const visibility = hosttype.Public | hosttype.Protected | hosttype.Private
	if mods&visibility != 0 {
		m.mods &^= visibility
	}
	m.mods |= mods
}

// Method is a declared method.
type Method struct {
	memberBase
	params []hosttype.Type
	ret    *Class
	body   Body
}

// Params returns the parameter types.
func (m *Method) Params() []hosttype.Type { return m.params }

// Return returns the return type.
func (m *Method) Return() hosttype.Type { return m.ret }

// Do sets the method body.
func (m *Method) Do(body Body) *Method {
	m.body = body
	return m
}

// With adds modifiers. A visibility bit replaces the default public visibility.
func (m *Method) With(mods hosttype.Modifier) *Method {
	m.setMods(mods)
	return m
}

// Invoke checks access and argument types, then runs the body.
func (m *Method) Invoke(recv any, args []any) (any, error) {
	if !m.accessible() {
		return nil, fmt.Errorf("%w: method %s.%s", hosttype.ErrIllegalAccess, m.decl.name, m.name)
	}
	if err := checkArgs(m.params, args); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.decl.name, m.name, err)
	}
	body := m.body
	if !m.mods.IsStatic() {
		inst, ok := recv.(*Instance)
		if !ok || !m.decl.AssignableFrom(inst.class) {
			return nil, fmt.Errorf("%w: receiver %T is not a %s", hosttype.ErrIllegalArgument, recv, m.decl.name)
		}
		if impl := inst.class.override(m); impl != nil {
			body = impl.body
		}
	}
	if body == nil {
		return nil, nil
	}
	return body(recv, args)
}

// override finds the most derived implementation of m on c's superclass chain.
func (c *Class) override(m *Method) *Method {
	for k := c; k != nil; k = k.super {
		for _, o := range k.methods {
			if o.body != nil && o.name == m.name && !o.mods.IsStatic() && hosttype.SameParams(o.params, m.params) {
				return o
			}
		}
		if k == Object {
			break
		}
	}
	return nil
}

// Field is a declared field. Static field values live on the field itself;
// instance values live on each Instance.
type Field struct {
	memberBase
	typ *Class

	mu     sync.RWMutex
	static any
}

// Type returns the declared field type.
func (f *Field) Type() hosttype.Type { return f.typ }

// With adds modifiers. A visibility bit replaces the default public visibility.
func (f *Field) With(mods hosttype.Modifier) *Field {
	f.setMods(mods)
	return f
}

// Init sets the value of a static field, bypassing access checks.
func (f *Field) Init(v any) *Field {
	f.mu.Lock()
	f.static = v
	f.mu.Unlock()
	return f
}

// Get reads the field from recv, or the static value.
func (f *Field) Get(recv any) (any, error) {
	if !f.accessible() {
		return nil, fmt.Errorf("%w: field %s.%s", hosttype.ErrIllegalAccess, f.decl.name, f.name)
	}
	if f.mods.IsStatic() {
		f.mu.RLock()
		defer f.mu.RUnlock()
		return f.static, nil
	}
	inst, err := f.instance(recv)
	if err != nil {
		return nil, err
	}
	return inst.get(f), nil
}

// Set writes the field. Final fields always fail with ErrIllegalAccess.
func (f *Field) Set(recv any, v any) error {
	if f.mods.IsFinal() || !f.accessible() {
		return fmt.Errorf("%w: field %s.%s", hosttype.ErrIllegalAccess, f.decl.name, f.name)
	}
	if !Conforms(f.typ, v) {
		return fmt.Errorf("%w: %T for field %s of type %s", hosttype.ErrIllegalArgument, v, f.name, f.typ.name)
	}
	if f.mods.IsStatic() {
		f.mu.Lock()
		f.static = v
		f.mu.Unlock()
		return nil
	}
	inst, err := f.instance(recv)
	if err != nil {
		return err
	}
	inst.set(f, v)
	return nil
}

func (f *Field) instance(recv any) (*Instance, error) {
	inst, ok := recv.(*Instance)
	if !ok || !f.decl.AssignableFrom(inst.class) {
		return nil, fmt.Errorf("%w: receiver %T is not a %s", hosttype.ErrIllegalArgument, recv, f.decl.name)
	}
	return inst, nil
}

// Constructor is a declared constructor.
type Constructor struct {
	memberBase
	params []hosttype.Type
	body   ConstructorBody
}

// Params returns the parameter types.
func (c *Constructor) Params() []hosttype.Type { return c.params }

// Do sets the constructor body.
func (c *Constructor) Do(body ConstructorBody) *Constructor {
	c.body = body
	return c
}

// With adds modifiers. A visibility bit replaces the default public visibility.
func (c *Constructor) With(mods hosttype.Modifier) *Constructor {
	c.setMods(mods)
	return c
}

// New runs the constructor. Without a body it returns a fresh Instance.
func (c *Constructor) New(args []any) (any, error) {
	if !c.accessible() {
		return nil, fmt.Errorf("%w: constructor %s", hosttype.ErrIllegalAccess, c.decl.name)
	}
	if err := checkArgs(c.params, args); err != nil {
		return nil, fmt.Errorf("new %s: %w", c.decl.name, err)
	}
	if c.body == nil {
		return c.decl.New(), nil
	}
	return c.body(args)
}

func checkArgs(params []hosttype.Type, args []any) error {
	if len(params) != len(args) {
		return fmt.Errorf("%w: expected %d arguments, got %d", hosttype.ErrIllegalArgument, len(params), len(args))
	}
	for i, p := range params {
		if !Conforms(p, args[i]) {
			return fmt.Errorf("%w: argument %d (%T) is not a %s", hosttype.ErrIllegalArgument, i, args[i], p.Name())
		}
	}
	return nil
}

// Method declares a public instance method.
func (c *Class) Method(name string, ret *Class, params ...*Class) *Method {
	if ret == nil {
		ret = Void
	}
	m := &Method{
		memberBase: memberBase{name: name, decl: c, mods: hosttype.Public},
		params:     types(params),
		ret:        ret,
	}
	if c.iface {
		m.mods |= hosttype.Abstract
	}
	c.methods = append(c.methods, m)
	return m
}

// StaticMethod declares a public static method.
func (c *Class) StaticMethod(name string, ret *Class, params ...*Class) *Method {
	return c.Method(name, ret, params...).With(hosttype.Static)
}

// Field declares a public instance field.
func (c *Class) Field(name string, typ *Class) *Field {
	f := &Field{
		memberBase: memberBase{name: name, decl: c, mods: hosttype.Public},
		typ:        typ,
	}
	c.fields = append(c.fields, f)
	return f
}

// StaticField declares a public static field.
func (c *Class) StaticField(name string, typ *Class) *Field {
	return c.Field(name, typ).With(hosttype.Static)
}

// Constructor declares a public constructor.
func (c *Class) Constructor(params ...*Class) *Constructor {
	k := &Constructor{
		memberBase: memberBase{name: c.simple, decl: c, mods: hosttype.Public},
		params:     types(params),
	}
	c.ctors = append(c.ctors, k)
	return k
}

func types(cs []*Class) []hosttype.Type {
	out := make([]hosttype.Type, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}
