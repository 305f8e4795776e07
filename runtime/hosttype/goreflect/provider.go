// Package goreflect is a host type provider over Go's reflect package.
//
// A struct type is a host class whose instances are pointers to the struct.
// Its first embedded struct is the superclass, registered interfaces that the
// pointer type implements are its interfaces, and the method set of the
// pointer type gives its methods. Script-visible names are lowerCamelCase.
//
// Go has no static members or constructors, so those are registered on the
// provider:
//
//	p := goreflect.New()
//	p.RegisterInterface((*Shape)(nil))
//	p.Constructor(NewCircle)
//	p.StaticConst((*Circle)(nil), "UNIT", 1.0)
//	t := p.TypeOf(&Circle{})
//
// Register members before the first table of the owner type is built.
package goreflect

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

var (
	anyType   = reflect.TypeOf((*any)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	listType  = reflect.TypeOf([]any(nil))
)

// Option configures a Provider.
type Option func(*Provider)

// WithStrictAccess marks the host as enforcing reflective access boundaries.
// Strict hosts never open unexported fields.
func WithStrictAccess() Option {
	return func(p *Provider) { p.strict = true }
}

// Provider interns host types for Go types. It is safe for concurrent use.
type Provider struct {
	strict bool
	void   *Type

	mu      sync.RWMutex
	types   map[reflect.Type]*Type
	ifaces  []reflect.Type
	statics map[reflect.Type]*statics
}

// statics holds the members registered for one struct type.
type statics struct {
	methods []hosttype.Method
	fields  []hosttype.Field
	ctors   []hosttype.Constructor
}

var _ hosttype.Capabilities = (*Provider)(nil)

// New creates a provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		types:   make(map[reflect.Type]*Type),
		statics: make(map[reflect.Type]*statics),
	}
	p.void = &Type{p: p, name: "void", simple: "void"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StrictReflectiveAccess implements hosttype.Capabilities.
func (p *Provider) StrictReflectiveAccess() bool { return p.strict }

// Void returns the void type used for methods without results.
func (p *Provider) Void() *Type { return p.void }

// Any returns the type of the empty interface, the root of every type.
func (p *Provider) Any() *Type { return p.Type(anyType) }

// TypeOf returns the host type of v. Pointers to structs map to the struct
// type; nil maps to Any.
func (p *Provider) TypeOf(v any) *Type {
	if v == nil {
		return p.Any()
	}
	return p.Type(reflect.TypeOf(v))
}

// Type returns the interned host type of rt.
func (p *Provider) Type(rt reflect.Type) *Type {
	rt = canonical(rt)

	p.mu.RLock()
	t, ok := p.types[rt]
	p.mu.RUnlock()
	if ok {
		return t
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.types[rt]; ok {
		return t
	}
	t = newType(p, rt)
	p.types[rt] = t
	return t
}

// canonical strips one pointer from pointer-to-struct types.
func canonical(rt reflect.Type) reflect.Type {
	if rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct {
		return rt.Elem()
	}
	return rt
}

// RegisterInterface makes iface, given as a nil pointer such as
// (*Shape)(nil), visible as an interface of every type implementing it.
func (p *Provider) RegisterInterface(iface any) error {
	rt := reflect.TypeOf(iface)
	if rt == nil || rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Interface {
		return fmt.Errorf("goreflect: RegisterInterface wants a nil interface pointer, got %T", iface)
	}
	rt = rt.Elem()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.ifaces {
		if r == rt {
			return nil
		}
	}
	p.ifaces = append(p.ifaces, rt)
	return nil
}

func (p *Provider) interfaces() []reflect.Type {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]reflect.Type(nil), p.ifaces...)
}

// Static registers fn as a static method of owner's type. Registering a name
// twice adds an overload.
func (p *Provider) Static(owner any, name string, fn any) error {
	t, err := p.owner(owner)
	if err != nil {
		return err
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("goreflect: static method %s.%s must be a func, got %T", t.name, name, fn)
	}
	m := &Method{
		decl: t,
		name: name,
		mods: hosttype.Public | hosttype.Static,
		sig:  p.signatureOf(fv.Type(), 0),
		fn:   fv,
	}
	p.register(t, func(s *statics) { s.methods = append(s.methods, m) })
	return nil
}

// StaticVar registers the variable ptr points to as a static field of
// owner's type.
func (p *Provider) StaticVar(owner any, name string, ptr any) error {
	t, err := p.owner(owner)
	if err != nil {
		return err
	}
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("goreflect: static field %s.%s needs a non-nil pointer, got %T", t.name, name, ptr)
	}
	f := &Field{
		decl:  t,
		name:  name,
		mods:  hosttype.Public | hosttype.Static,
		rtype: pv.Type().Elem(),
		typ:   p.Type(pv.Type().Elem()),
		ptr:   pv,
	}
	p.register(t, func(s *statics) { s.fields = append(s.fields, f) })
	return nil
}

// StaticConst registers value as a final static field of owner's type.
func (p *Provider) StaticConst(owner any, name string, value any) error {
	t, err := p.owner(owner)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("goreflect: constant %s.%s has no type", t.name, name)
	}
	cv := reflect.ValueOf(value)
	f := &Field{
		decl:     t,
		name:     name,
		mods:     hosttype.Public | hosttype.Static | hosttype.Final,
		rtype:    cv.Type(),
		typ:      p.Type(cv.Type()),
		constant: cv,
	}
	p.register(t, func(s *statics) { s.fields = append(s.fields, f) })
	return nil
}

// Constructor registers fn as a constructor of the struct type it returns.
// fn returns T, *T, or either followed by an error.
func (p *Provider) Constructor(fn any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("goreflect: constructor must be a func, got %T", fn)
	}
	sig := p.signatureOf(fv.Type(), 0)
	if len(sig.outs) != 1 || canonical(sig.outs[0]).Kind() != reflect.Struct {
		return fmt.Errorf("goreflect: constructor %s must return a struct or struct pointer", fv.Type())
	}
	t := p.Type(sig.outs[0])
	c := &Constructor{decl: t, sig: sig, fn: fv}
	p.register(t, func(s *statics) { s.ctors = append(s.ctors, c) })
	return nil
}

func (p *Provider) owner(owner any) (*Type, error) {
	if owner == nil {
		return nil, fmt.Errorf("goreflect: owner must be a struct value or pointer")
	}
	t := p.TypeOf(owner)
	if t.rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("goreflect: owner %s is not a struct type", t.name)
	}
	return t, nil
}

func (p *Provider) register(t *Type, add func(*statics)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.statics[t.rt]
	if !ok {
		s = &statics{}
		p.statics[t.rt] = s
	}
	add(s)
}

// registered returns a copy of the members registered for t.
func (p *Provider) registered(t *Type) statics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.statics[t.rt]
	if !ok {
		return statics{}
	}
	return statics{
		methods: append([]hosttype.Method(nil), s.methods...),
		fields:  append([]hosttype.Field(nil), s.fields...),
		ctors:   append([]hosttype.Constructor(nil), s.ctors...),
	}
}
