package goreflect

import (
	"go/token"
	"reflect"
	"strings"
	"sync"

	utilstrings "github.com/conduit-lang/hostbridge/internal/util/strings"
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Type is the host type of one Go type.
type Type struct {
	p      *Provider
	rt     reflect.Type // nil for void
	name   string
	simple string

	superOnce  sync.Once
	super      *Type
	superIndex int

	methodsOnce sync.Once
	declared    []*Method

	fieldsOnce sync.Once
	fields     []*Field

	zero *Constructor
}

var _ hosttype.Type = (*Type)(nil)

func newType(p *Provider, rt reflect.Type) *Type {
	t := &Type{p: p, rt: rt, name: typeName(rt), simple: simpleTypeName(rt)}
	if rt.Kind() == reflect.Struct {
		t.zero = &Constructor{decl: t, implicit: true}
	}
	return t
}

func typeName(rt reflect.Type) string {
	switch {
	case rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array:
		return typeName(rt.Elem()) + "[]"
	case rt.Name() != "" && rt.PkgPath() != "":
		return rt.PkgPath() + "." + rt.Name()
	default:
		return rt.String()
	}
}

func simpleTypeName(rt reflect.Type) string {
	switch {
	case rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array:
		return simpleTypeName(rt.Elem()) + "[]"
	case rt.Name() != "":
		return rt.Name()
	default:
		return rt.String()
	}
}

// Reflect returns the Go type, or nil for void.
func (t *Type) Reflect() reflect.Type { return t.rt }

func (t *Type) Name() string       { return t.name }
func (t *Type) SimpleName() string { return t.simple }
func (t *Type) String() string     { return t.name }
func (t *Type) IsVoid() bool       { return t.rt == nil }

func (t *Type) IsInterface() bool {
	return t.rt != nil && t.rt.Kind() == reflect.Interface
}

func (t *Type) IsArray() bool {
	return t.rt != nil && (t.rt.Kind() == reflect.Slice || t.rt.Kind() == reflect.Array)
}

func (t *Type) Elem() hosttype.Type {
	if !t.IsArray() {
		return nil
	}
	return t.p.Type(t.rt.Elem())
}

// Modifiers reports exported and builtin types as public.
func (t *Type) Modifiers() hosttype.Modifier {
	if t.rt == nil {
		return hosttype.Public | hosttype.Final
	}
	var mods hosttype.Modifier
	if t.rt.PkgPath() == "" || token.IsExported(t.rt.Name()) {
		mods |= hosttype.Public
	}
	switch {
	case t.IsInterface():
		mods |= hosttype.Abstract
	case t.IsArray():
		mods |= hosttype.Final
	}
	return mods
}

// Exported reports false for types of internal packages, which the Go
// toolchain closes to importers.
func (t *Type) Exported() bool {
	rt := t.rt
	for rt != nil && (rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array) {
		rt = rt.Elem()
	}
	if rt == nil {
		return true
	}
	return !isInternal(rt.PkgPath())
}

func isInternal(pkgPath string) bool {
	return pkgPath == "internal" ||
		strings.HasPrefix(pkgPath, "internal/") ||
		strings.HasSuffix(pkgPath, "/internal") ||
		strings.Contains(pkgPath, "/internal/")
}

// Super returns the first embedded struct, or nil.
func (t *Type) Super() hosttype.Type {
	if s := t.superType(); s != nil {
		return s
	}
	return nil
}

func (t *Type) superType() *Type {
	t.superOnce.Do(func() {
		t.superIndex = -1
		if t.rt == nil || t.rt.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.rt.NumField(); i++ {
			sf := t.rt.Field(i)
			if sf.Anonymous && canonical(sf.Type).Kind() == reflect.Struct {
				t.super = t.p.Type(sf.Type)
				t.superIndex = i
				return
			}
		}
	})
	return t.super
}

// Interfaces returns the registered interfaces the type implements.
func (t *Type) Interfaces() []hosttype.Type {
	if t.rt == nil {
		return nil
	}
	recv := receiver(t.rt)
	var out []hosttype.Type
	for _, it := range t.p.interfaces() {
		if it != t.rt && recv.Implements(it) {
			out = append(out, t.p.Type(it))
		}
	}
	return out
}

// receiver is the Go type whose method set holds the type's methods.
func receiver(rt reflect.Type) reflect.Type {
	if rt.Kind() == reflect.Struct {
		return reflect.PointerTo(rt)
	}
	return rt
}

func (t *Type) AssignableFrom(other hosttype.Type) bool {
	o, ok := other.(*Type)
	if !ok || o.p != t.p {
		return false
	}
	if t == o {
		return true
	}
	if t.rt == nil || o.rt == nil {
		return false
	}
	if t.rt == anyType {
		return true
	}
	switch {
	case t.IsInterface():
		return receiver(o.rt).Implements(t.rt)
	case t.rt.Kind() == reflect.Struct:
		for s := o.superType(); s != nil; s = s.superType() {
			if s == t {
				return true
			}
		}
	}
	return false
}

// DeclaredMethods returns the methods declared on the type itself, excluding
// those promoted from embedded fields.
func (t *Type) DeclaredMethods() ([]hosttype.Method, error) {
	t.methodsOnce.Do(t.loadMethods)
	out := make([]hosttype.Method, 0, len(t.declared))
	for _, m := range t.declared {
		out = append(out, m)
	}
	return append(out, t.p.registered(t).methods...), nil
}

// Methods returns the method set of the type. A promoted method keeps the
// embedded type as its declaring type, and so does a method that redeclares a
// promoted name; invocation still dispatches on the receiver.
func (t *Type) Methods() ([]hosttype.Method, error) {
	if t.rt == nil {
		return nil, nil
	}
	recv := receiver(t.rt)
	out := make([]hosttype.Method, 0, recv.NumMethod())
	for i := 0; i < recv.NumMethod(); i++ {
		if m := t.method(recv.Method(i).Name); m != nil {
			out = append(out, m)
		}
	}
	return append(out, t.p.registered(t).methods...), nil
}

// method resolves the Go method goName to the type that declares it.
func (t *Type) method(goName string) *Method {
	for owner := t; owner != nil; {
		if promoted := owner.promotedFrom(goName); promoted != nil {
			owner = t.p.Type(promoted)
			continue
		}
		owner.methodsOnce.Do(owner.loadMethods)
		for _, m := range owner.declared {
			if m.goName == goName {
				return m
			}
		}
		return nil
	}
	return nil
}

// promotedFrom returns the type of the embedded field goName is promoted
// from, or nil when the type declares it.
func (t *Type) promotedFrom(goName string) reflect.Type {
	if t.rt == nil || t.rt.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.rt.NumField(); i++ {
		sf := t.rt.Field(i)
		if !sf.Anonymous {
			continue
		}
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if _, ok := receiver(ft).MethodByName(goName); ok {
			return ft
		}
	}
	return nil
}

func (t *Type) loadMethods() {
	if t.rt == nil {
		return
	}
	recv := receiver(t.rt)
	skip := 1
	if t.IsInterface() {
		skip = 0
	}
	for i := 0; i < recv.NumMethod(); i++ {
		rm := recv.Method(i)
		if t.promotedFrom(rm.Name) != nil {
			continue
		}
		t.declared = append(t.declared, &Method{
			decl:   t,
			name:   utilstrings.LowerCamel(rm.Name),
			goName: rm.Name,
			mods:   hosttype.Public,
			sig:    t.p.signatureOf(rm.Type, skip),
		})
	}
}

// DeclaredFields returns the fields of the struct, except embedded ones, and
// the registered static fields.
func (t *Type) DeclaredFields() ([]hosttype.Field, error) {
	t.fieldsOnce.Do(t.loadFields)
	out := make([]hosttype.Field, 0, len(t.fields))
	for _, f := range t.fields {
		out = append(out, f)
	}
	return append(out, t.p.registered(t).fields...), nil
}

// Fields returns the public fields of the type and its superclasses.
func (t *Type) Fields() ([]hosttype.Field, error) {
	var out []hosttype.Field
	for k := t; k != nil; k = k.superType() {
		declared, err := k.DeclaredFields()
		if err != nil {
			return nil, err
		}
		for _, f := range declared {
			if f.Modifiers().IsPublic() {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func (t *Type) loadFields() {
	if t.rt == nil || t.rt.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.rt.NumField(); i++ {
		sf := t.rt.Field(i)
		if sf.Anonymous {
			continue
		}
		mods := hosttype.Private
		if sf.IsExported() {
			mods = hosttype.Public
		}
		if hasTagOption(sf.Tag.Get("hostbridge"), "final") {
			mods |= hosttype.Final
		}
		t.fields = append(t.fields, &Field{
			decl:  t,
			name:  utilstrings.LowerCamel(sf.Name),
			mods:  mods,
			rtype: sf.Type,
			typ:   t.p.Type(sf.Type),
			index: i,
		})
	}
}

func hasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}

// Constructors returns the registered constructors. A struct without any
// gets an implicit constructor returning a pointer to its zero value.
func (t *Type) Constructors() ([]hosttype.Constructor, error) {
	ctors := t.p.registered(t).ctors
	if len(ctors) == 0 && t.zero != nil {
		return []hosttype.Constructor{t.zero}, nil
	}
	return ctors, nil
}

// DeclaredConstructors equals Constructors; Go constructors are plain funcs.
func (t *Type) DeclaredConstructors() ([]hosttype.Constructor, error) {
	return t.Constructors()
}
