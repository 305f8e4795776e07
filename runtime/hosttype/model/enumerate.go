package model

import (
	"fmt"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

func (c *Class) denied(d Deny) error {
	if c.deny&d != 0 {
		return fmt.Errorf("%w: %s", hosttype.ErrAccessDenied, c.name)
	}
	return nil
}

// DeclaredMethods returns every method declared on c, in declaration order.
func (c *Class) DeclaredMethods() ([]hosttype.Method, error) {
	if err := c.denied(DenyDeclared); err != nil {
		return nil, err
	}
	out := make([]hosttype.Method, len(c.methods))
	for i, m := range c.methods {
		out[i] = m
	}
	return out, nil
}

// Methods returns the public methods of c and its ancestors. An inherited
// method is hidden by a method of the same name and parameters declared
// closer to c.
func (c *Class) Methods() ([]hosttype.Method, error) {
	if err := c.denied(DenyPublic); err != nil {
		return nil, err
	}
	var out []hosttype.Method
	seen := func(m *Method) bool {
		for _, o := range out {
			if o.Name() == m.name && hosttype.SameParams(o.Params(), m.params) {
				return true
			}
		}
		return false
	}
	var visit func(k *Class, inherited bool)
	visit = func(k *Class, inherited bool) {
		for _, m := range k.methods {
			if !m.mods.IsPublic() {
				continue
			}
			if inherited && seen(m) {
				continue
			}
			out = append(out, m)
		}
		for _, it := range k.ifaces {
			visit(it, true)
		}
		if k.super != nil && k != Object {
			visit(k.super, true)
		}
	}
	visit(c, false)
	return out, nil
}

// DeclaredFields returns every field declared on c, in declaration order.
func (c *Class) DeclaredFields() ([]hosttype.Field, error) {
	if err := c.denied(DenyDeclared); err != nil {
		return nil, err
	}
	out := make([]hosttype.Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = f
	}
	return out, nil
}

// Fields returns the public fields of c and its superclasses, most derived first.
func (c *Class) Fields() ([]hosttype.Field, error) {
	if err := c.denied(DenyPublic); err != nil {
		return nil, err
	}
	var out []hosttype.Field
	for k := c; k != nil; k = k.super {
		for _, f := range k.fields {
			if f.mods.IsPublic() {
				out = append(out, f)
			}
		}
		if k == Object {
			break
		}
	}
	return out, nil
}

// DeclaredConstructors returns every constructor of c.
func (c *Class) DeclaredConstructors() ([]hosttype.Constructor, error) {
	if err := c.denied(DenyDeclared); err != nil {
		return nil, err
	}
	out := make([]hosttype.Constructor, len(c.ctors))
	for i, k := range c.ctors {
		out[i] = k
	}
	return out, nil
}

// Constructors returns the public constructors of c.
func (c *Class) Constructors() ([]hosttype.Constructor, error) {
	if err := c.denied(DenyPublic); err != nil {
		return nil, err
	}
	var out []hosttype.Constructor
	for _, k := range c.ctors {
		if k.mods.IsPublic() {
			out = append(out, k)
		}
	}
	return out, nil
}
