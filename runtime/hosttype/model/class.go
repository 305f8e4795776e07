// Package model is an in-memory host type provider.
//
// Classes and interfaces are declared with a small builder API and member
// bodies are plain Go closures. The model can express everything the bridge
// has to reconcile: overloads, covariant return duplicates, field shadowing,
// protected and private members, final fields and platforms that deny
// reflective enumeration.
package model

import (
	"sync"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Deny selects which enumerations of a class fail with ErrAccessDenied.
type Deny uint8

const (
	// DenyDeclared fails DeclaredMethods, DeclaredFields and DeclaredConstructors.
	DenyDeclared Deny = 1 << iota
	// DenyPublic fails Methods, Fields and Constructors.
	DenyPublic
)

// DenyAll fails every enumeration.
const DenyAll = DenyDeclared | DenyPublic

// Class is a host class, interface, array or primitive type.
type Class struct {
	name      string
	simple    string
	mods      hosttype.Modifier
	iface     bool
	primitive bool
	void      bool
	elem      *Class
	super     *Class
	ifaces    []*Class
	exported  bool
	deny      Deny

	methods []*Method
	fields  []*Field
	ctors   []*Constructor

	arrayOnce sync.Once
	arrayType *Class
}

var _ hosttype.Type = (*Class)(nil)

var (
	// Object is the universal base class.
	Object = &Class{name: "host.Object", simple: "Object", mods: hosttype.Public, exported: true}

	Void    = primitive("void")
	Boolean = primitive("boolean")
	Int     = primitive("int")
	Long    = primitive("long")
	Double  = primitive("double")

	// String is the host string class; its values are Go strings.
	String = NewClass("host.String")
	// Number is the abstract base of Integer.
	Number = NewClass("host.Number").WithModifiers(hosttype.Public | hosttype.Abstract)
	// Integer is the boxed int class; its values are Go ints.
	Integer = NewClass("host.Integer").Extends(Number)
)

func primitive(name string) *Class {
	return &Class{
		name:      name,
		simple:    name,
		mods:      hosttype.Public | hosttype.Final,
		primitive: true,
		void:      name == "void",
		exported:  true,
	}
}

// NewClass declares a public class extending Object.
func NewClass(name string) *Class {
	return &Class{
		name:     name,
		simple:   simpleName(name),
		mods:     hosttype.Public,
		super:    Object,
		exported: true,
	}
}

// NewInterface declares a public interface.
func NewInterface(name string) *Class {
	return &Class{
		name:     name,
		simple:   simpleName(name),
		mods:     hosttype.Public | hosttype.Abstract,
		iface:    true,
		exported: true,
	}
}

// Array returns the interned array type of t with the given number of dimensions.
func Array(t *Class, dims int) *Class {
	for i := 0; i < dims; i++ {
		t = t.arrayOf()
	}
	return t
}

func (c *Class) arrayOf() *Class {
	c.arrayOnce.Do(func() {
		c.arrayType = &Class{
			name:     c.name + "[]",
			simple:   c.simple + "[]",
			mods:     hosttype.Public | hosttype.Final,
			elem:     c,
			super:    Object,
			exported: c.exported,
		}
	})
	return c.arrayType
}

func simpleName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// Extends sets the superclass.
func (c *Class) Extends(super *Class) *Class {
	c.super = super
	return c
}

// Implements adds interfaces to the class, or super-interfaces to an interface.
func (c *Class) Implements(ifaces ...*Class) *Class {
	c.ifaces = append(c.ifaces, ifaces...)
	return c
}

// WithModifiers replaces the type modifiers.
func (c *Class) WithModifiers(mods hosttype.Modifier) *Class {
	c.mods = mods
	return c
}

// Unexport marks the class as closed to reflection by the host platform.
func (c *Class) Unexport() *Class {
	c.exported = false
	return c
}

// Deny makes the selected enumerations fail with ErrAccessDenied.
func (c *Class) Deny(d Deny) *Class {
	c.deny = d
	return c
}

// New creates a fresh instance without running a constructor.
func (c *Class) New() *Instance {
	return &Instance{class: c, values: make(map[*Field]any)}
}

func (c *Class) Name() string                 { return c.name }
func (c *Class) SimpleName() string           { return c.simple }
func (c *Class) Modifiers() hosttype.Modifier { return c.mods }
func (c *Class) IsInterface() bool            { return c.iface }
func (c *Class) IsArray() bool                { return c.elem != nil }
func (c *Class) IsVoid() bool                 { return c.void }
func (c *Class) IsPrimitive() bool            { return c.primitive }
func (c *Class) Exported() bool               { return c.exported }
func (c *Class) String() string               { return c.name }

// Elem returns the component type of an array class.
func (c *Class) Elem() hosttype.Type {
	if c.elem == nil {
		return nil
	}
	return c.elem
}

// Super returns the superclass, or nil.
func (c *Class) Super() hosttype.Type {
	if c.super == nil || c == Object {
		return nil
	}
	return c.super
}

// Interfaces returns the directly implemented interfaces.
func (c *Class) Interfaces() []hosttype.Type {
	out := make([]hosttype.Type, len(c.ifaces))
	for i, it := range c.ifaces {
		out[i] = it
	}
	return out
}

// AssignableFrom follows subtype rules: identity for primitives, covariance for
// arrays, and the superclass and interface graph for everything else.
func (c *Class) AssignableFrom(other hosttype.Type) bool {
	o, ok := other.(*Class)
	if !ok || o == nil {
		return false
	}
	if c == o {
		return true
	}
	if c.primitive || o.primitive {
		return false
	}
	if c == Object {
		return true
	}
	if c.elem != nil {
		return o.elem != nil && !c.elem.primitive && c.elem.AssignableFrom(o.elem)
	}
	return o.inherits(c)
}

func (c *Class) inherits(target *Class) bool {
	for k := c; k != nil; k = k.super {
		if k == target {
			return true
		}
		for _, it := range k.ifaces {
			if it.inherits(target) {
				return true
			}
		}
		if k == Object {
			break
		}
	}
	return false
}
