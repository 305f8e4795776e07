package gotypes

import (
	"fmt"
	"go/types"

	utilstrings "github.com/conduit-lang/hostbridge/internal/util/strings"
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

type methodKey struct {
	fn   *types.Func
	decl *Type
}

// method returns the interned Method of fn declared on decl. A nil decl is
// resolved from the receiver of fn.
func (u *universe) method(fn *types.Func, decl *Type) *Method {
	sig := fn.Type().(*types.Signature)
	if decl == nil {
		recv := sig.Recv().Type()
		if ptr, ok := recv.(*types.Pointer); ok {
			recv = ptr.Elem()
		}
		decl = u.typ(recv)
	}
	params := u.params(sig)
	ret := u.result(sig)

	key := methodKey{fn: fn, decl: decl}
	u.mu.Lock()
	defer u.mu.Unlock()
	if m, ok := u.methods[key]; ok {
		return m
	}

	mods := hosttype.Private
	name := fn.Name()
	if fn.Exported() {
		mods = hosttype.Public
		name = utilstrings.LowerCamel(name)
	}
	m := &Method{decl: decl, name: name, mods: mods, params: params, ret: ret, fn: fn}
	u.methods[key] = m
	return m
}

func (u *universe) params(sig *types.Signature) []hosttype.Type {
	var out []hosttype.Type
	for i := 0; i < sig.Params().Len(); i++ {
		out = append(out, u.typ(sig.Params().At(i).Type()))
	}
	return out
}

// result folds the results of sig like the goreflect provider: a trailing
// error is dropped, several results become a list.
func (u *universe) result(sig *types.Signature) hosttype.Type {
	n := sig.Results().Len()
	if n > 0 && isError(sig.Results().At(n-1).Type()) {
		n--
	}
	switch n {
	case 0:
		return u.void
	case 1:
		return u.typ(sig.Results().At(0).Type())
	}
	return u.typ(types.NewSlice(types.NewInterfaceType(nil, nil)))
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// Method is a method described by go/types.
type Method struct {
	decl   *Type
	name   string
	mods   hosttype.Modifier
	params []hosttype.Type
	ret    hosttype.Type
	fn     *types.Func
}

var _ hosttype.Method = (*Method)(nil)

func (m *Method) Name() string                 { return m.name }
func (m *Method) DeclaringType() hosttype.Type { return m.decl }
func (m *Method) Modifiers() hosttype.Modifier { return m.mods }
func (m *Method) Params() []hosttype.Type      { return m.params }
func (m *Method) Return() hosttype.Type        { return m.ret }

// Func returns the go/types function object.
func (m *Method) Func() *types.Func { return m.fn }

func (m *Method) Invoke(any, []any) (any, error) {
	return nil, fmt.Errorf("%w: %s.%s", hosttype.ErrNotInvocable, m.decl.name, m.name)
}

// Open succeeds; static descriptions have nothing to open.
func (m *Method) Open() error { return nil }

// Field is a struct field described by go/types.
type Field struct {
	decl *Type
	name string
	mods hosttype.Modifier
	typ  hosttype.Type
}

var _ hosttype.Field = (*Field)(nil)

func (f *Field) Name() string                 { return f.name }
func (f *Field) DeclaringType() hosttype.Type { return f.decl }
func (f *Field) Modifiers() hosttype.Modifier { return f.mods }
func (f *Field) Type() hosttype.Type          { return f.typ }

func (f *Field) Get(any) (any, error) {
	return nil, fmt.Errorf("%w: %s.%s", hosttype.ErrNotInvocable, f.decl.name, f.name)
}

func (f *Field) Set(any, any) error {
	return fmt.Errorf("%w: %s.%s", hosttype.ErrNotInvocable, f.decl.name, f.name)
}

func (f *Field) Open() error { return nil }

// Constructor is a New function of a type's package.
type Constructor struct {
	decl   *Type
	fn     *types.Func
	params []hosttype.Type
}

var _ hosttype.Constructor = (*Constructor)(nil)

func (c *Constructor) Name() string                 { return c.decl.simple }
func (c *Constructor) DeclaringType() hosttype.Type { return c.decl }
func (c *Constructor) Params() []hosttype.Type      { return c.params }

func (c *Constructor) Modifiers() hosttype.Modifier {
	if c.fn.Exported() {
		return hosttype.Public
	}
	return hosttype.Private
}

// Func returns the constructor function, e.g. NewCircle.
func (c *Constructor) Func() *types.Func { return c.fn }

func (c *Constructor) New([]any) (any, error) {
	return nil, fmt.Errorf("%w: %s", hosttype.ErrNotInvocable, c.fn.FullName())
}
