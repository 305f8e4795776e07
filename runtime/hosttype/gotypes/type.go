package gotypes

import (
	"go/types"
	"reflect"
	"strings"
	"sync"

	utilstrings "github.com/conduit-lang/hostbridge/internal/util/strings"
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Type is the host type of one go/types type.
type Type struct {
	u      *universe
	t      types.Type // nil for void
	name   string
	simple string

	once     sync.Once
	super    *Type
	declared []hosttype.Method
	fields   []hosttype.Field
	ctors    []hosttype.Constructor
}

var _ hosttype.Type = (*Type)(nil)

func newType(u *universe, t types.Type) *Type {
	return &Type{u: u, t: t, name: typeName(t), simple: simpleTypeName(t)}
}

func typeName(t types.Type) string {
	switch tt := t.(type) {
	case *types.Slice:
		return typeName(tt.Elem()) + "[]"
	case *types.Array:
		return typeName(tt.Elem()) + "[]"
	case *types.Named:
		if obj := tt.Obj(); obj.Pkg() != nil {
			return obj.Pkg().Path() + "." + obj.Name()
		}
		return tt.Obj().Name()
	case *types.Basic:
		return tt.Name()
	}
	return types.TypeString(t, nil)
}

func simpleTypeName(t types.Type) string {
	switch tt := t.(type) {
	case *types.Slice:
		return simpleTypeName(tt.Elem()) + "[]"
	case *types.Array:
		return simpleTypeName(tt.Elem()) + "[]"
	case *types.Named:
		return tt.Obj().Name()
	}
	return typeName(t)
}

// Go returns the go/types type, or nil for void.
func (t *Type) Go() types.Type { return t.t }

func (t *Type) Name() string       { return t.name }
func (t *Type) SimpleName() string { return t.simple }
func (t *Type) String() string     { return t.name }
func (t *Type) IsVoid() bool       { return t.t == nil }

func (t *Type) IsInterface() bool {
	return t.t != nil && types.IsInterface(t.t)
}

func (t *Type) IsArray() bool {
	switch t.t.(type) {
	case *types.Slice, *types.Array:
		return true
	}
	return false
}

func (t *Type) Elem() hosttype.Type {
	switch tt := t.t.(type) {
	case *types.Slice:
		return t.u.typ(tt.Elem())
	case *types.Array:
		return t.u.typ(tt.Elem())
	}
	return nil
}

func (t *Type) Modifiers() hosttype.Modifier {
	var mods hosttype.Modifier
	named, ok := t.t.(*types.Named)
	if !ok || named.Obj().Exported() || named.Obj().Pkg() == nil {
		mods |= hosttype.Public
	}
	switch {
	case t.IsInterface():
		mods |= hosttype.Abstract
	case t.IsArray() || t.t == nil:
		mods |= hosttype.Final
	}
	return mods
}

// Exported reports false for types of internal packages.
func (t *Type) Exported() bool {
	named, ok := t.t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return true
	}
	path := named.Obj().Pkg().Path()
	return !(path == "internal" ||
		strings.HasPrefix(path, "internal/") ||
		strings.HasSuffix(path, "/internal") ||
		strings.Contains(path, "/internal/"))
}

// Super returns the first embedded struct, or nil.
func (t *Type) Super() hosttype.Type {
	if s := t.superType(); s != nil {
		return s
	}
	return nil
}

func (t *Type) superType() *Type {
	t.once.Do(t.load)
	return t.super
}

// Interfaces returns the non-empty interfaces of the type's own package that
// the type implements.
func (t *Type) Interfaces() []hosttype.Type {
	named, ok := t.t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return nil
	}
	recv := receiver(t.t)
	scope := named.Obj().Pkg().Scope()
	var out []hosttype.Type
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.Type() == t.t {
			continue
		}
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok || iface.NumMethods() == 0 {
			continue
		}
		if types.Implements(recv, iface) {
			out = append(out, t.u.typ(obj.Type()))
		}
	}
	return out
}

// receiver is the type whose method set holds the type's methods.
func receiver(t types.Type) types.Type {
	if _, ok := t.Underlying().(*types.Struct); ok {
		return types.NewPointer(t)
	}
	return t
}

func (t *Type) AssignableFrom(other hosttype.Type) bool {
	o, ok := other.(*Type)
	if !ok || o.u != t.u {
		return false
	}
	if t == o {
		return true
	}
	if t.t == nil || o.t == nil {
		return false
	}
	if iface, ok := t.t.Underlying().(*types.Interface); ok {
		return types.Implements(receiver(o.t), iface)
	}
	for s := o.superType(); s != nil; s = s.superType() {
		if s == t {
			return true
		}
	}
	return types.AssignableTo(o.t, t.t)
}

func (t *Type) load() {
	if t.t == nil {
		return
	}
	if st, ok := t.t.Underlying().(*types.Struct); ok {
		t.loadFields(st)
	}
	t.loadMethods()
	t.loadConstructors()
}

func (t *Type) loadFields(st *types.Struct) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			if t.super == nil {
				if _, ok := canonical(f.Type()).Underlying().(*types.Struct); ok {
					t.super = t.u.typ(f.Type())
				}
			}
			continue
		}
		mods := hosttype.Private
		name := f.Name()
		if f.Exported() {
			mods = hosttype.Public
			name = utilstrings.LowerCamel(name)
		}
		if hasTagOption(reflect.StructTag(st.Tag(i)).Get("hostbridge"), "final") {
			mods |= hosttype.Final
		}
		t.fields = append(t.fields, &Field{
			decl: t,
			name: name,
			mods: mods,
			typ:  t.u.typ(f.Type()),
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

func (t *Type) loadMethods() {
	switch tt := t.t.(type) {
	case *types.Named:
		if iface, ok := tt.Underlying().(*types.Interface); ok {
			t.loadInterfaceMethods(iface)
			return
		}
		for i := 0; i < tt.NumMethods(); i++ {
			t.declared = append(t.declared, t.u.method(tt.Method(i), t))
		}
	case *types.Interface:
		t.loadInterfaceMethods(tt)
	}
}

func (t *Type) loadInterfaceMethods(iface *types.Interface) {
	for i := 0; i < iface.NumMethods(); i++ {
		t.declared = append(t.declared, t.u.method(iface.Method(i), t))
	}
}

// loadConstructors collects the package functions whose name starts with
// New and whose first result is the type or a pointer to it.
func (t *Type) loadConstructors() {
	named, ok := t.t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return
	}
	scope := named.Obj().Pkg().Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !strings.HasPrefix(name, "New") {
			continue
		}
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 || canonical(sig.Results().At(0).Type()) != t.t {
			continue
		}
		t.ctors = append(t.ctors, &Constructor{
			decl:   t,
			fn:     fn,
			params: t.u.params(sig),
		})
	}
}

func (t *Type) DeclaredMethods() ([]hosttype.Method, error) {
	t.once.Do(t.load)
	return append([]hosttype.Method(nil), t.declared...), nil
}

// Methods returns the exported method set. Promoted methods keep the
// embedded type as their declaring type.
func (t *Type) Methods() ([]hosttype.Method, error) {
	if t.t == nil {
		return nil, nil
	}
	if t.IsInterface() {
		return t.DeclaredMethods()
	}
	mset := types.NewMethodSet(receiver(t.t))
	out := make([]hosttype.Method, 0, mset.Len())
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		out = append(out, t.u.method(fn, nil))
	}
	return out, nil
}

func (t *Type) DeclaredFields() ([]hosttype.Field, error) {
	t.once.Do(t.load)
	return append([]hosttype.Field(nil), t.fields...), nil
}

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

// Constructors returns the exported New functions.
func (t *Type) Constructors() ([]hosttype.Constructor, error) {
	t.once.Do(t.load)
	var out []hosttype.Constructor
	for _, c := range t.ctors {
		if c.Modifiers().IsPublic() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (t *Type) DeclaredConstructors() ([]hosttype.Constructor, error) {
	t.once.Do(t.load)
	return append([]hosttype.Constructor(nil), t.ctors...), nil
}
