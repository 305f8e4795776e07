package members

import (
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// discovery collects the raw members of one type under a visibility policy.
type discovery struct {
	includeProtected bool
	includePrivate   bool
	strategy         Strategy
	logger           *zap.Logger
	warned           *sync.Map
}

// nonPublic reports whether declared enumeration is needed at all.
func (d *discovery) nonPublic() bool {
	return d.includeProtected || d.includePrivate
}

// degraded logs a denied enumeration once per type name.
func (d *discovery) degraded(t hosttype.Type, err error) {
	if _, loaded := d.warned.LoadOrStore(t.Name(), struct{}{}); loaded {
		return
	}
	d.logger.Warn("reflective enumeration denied, falling back to public members",
		zap.String("type", t.Name()),
		zap.Error(err),
	)
}

// admit decides whether a declared member is part of the table and opens it
// when it is not public.
func (d *discovery) admit(m hosttype.Member) bool {
	mods := m.Modifiers()
	switch {
	case mods.IsPublic():
		return true
	case mods.IsProtected():
		if !d.nonPublic() {
			return false
		}
	case !d.includePrivate:
		return false
	}
	if err := d.strategy.Open(m); err != nil {
		d.logger.Warn("skipping inaccessible member",
			zap.String("type", m.DeclaringType().Name()),
			zap.String("member", m.Name()),
			zap.String("strategy", d.strategy.Name()),
			zap.Error(err),
		)
		return false
	}
	return true
}

// methods returns the accessible methods of t, upcast to accessible
// declarations where t itself is not public.
func (d *discovery) methods(t hosttype.Type) []hosttype.Method {
	set := newMethodSet()
	d.walkMethods(t, set)
	return set.items
}

func (d *discovery) walkMethods(t hosttype.Type, set *methodSet) {
	if t.Modifiers().IsPublic() || d.includePrivate {
		err := d.collectMethods(t, set)
		if err == nil {
			return
		}
		d.degraded(t, err)
	}

	// Not accessible itself: take the same methods from its ancestors
	for _, it := range t.Interfaces() {
		d.walkMethods(it, set)
	}
	if s := t.Super(); s != nil {
		d.walkMethods(s, set)
	}
}

func (d *discovery) collectMethods(t hosttype.Type, set *methodSet) error {
	if !d.nonPublic() {
		return d.publicMethods(t, set)
	}
	for c := t; c != nil; c = c.Super() {
		declared, err := c.DeclaredMethods()
		if err != nil {
			// The public form already includes everything inherited
			d.degraded(c, err)
			return d.publicMethods(c, set)
		}
		for _, m := range declared {
			if d.admit(m) {
				set.register(m)
			}
		}
		for _, it := range c.Interfaces() {
			d.walkMethods(it, set)
		}
	}
	return nil
}

func (d *discovery) publicMethods(t hosttype.Type, set *methodSet) error {
	methods, err := d.strategy.PublicMethods(t)
	if err != nil {
		return err
	}
	for _, m := range methods {
		set.register(m)
	}
	return nil
}

// fields returns the accessible fields of t along its superclass chain, most
// derived first. An error means even the public enumeration was denied.
func (d *discovery) fields(t hosttype.Type) ([]hosttype.Field, error) {
	if d.nonPublic() {
		out, err := d.declaredFields(t)
		if err == nil {
			return out, nil
		}
		d.degraded(t, err)
	}
	return t.Fields()
}

func (d *discovery) declaredFields(t hosttype.Type) ([]hosttype.Field, error) {
	var out []hosttype.Field
	for c := t; c != nil; c = c.Super() {
		declared, err := c.DeclaredFields()
		if err != nil {
			return nil, err
		}
		for _, f := range declared {
			if d.admit(f) {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// constructors returns the accessible constructors of t.
func (d *discovery) constructors(t hosttype.Type) ([]hosttype.Constructor, error) {
	if d.includePrivate {
		declared, err := t.DeclaredConstructors()
		if err == nil {
			out := make([]hosttype.Constructor, 0, len(declared))
			for _, k := range declared {
				if d.admit(k) {
					out = append(out, k)
				}
			}
			return out, nil
		}
		d.degraded(t, err)
	}
	return t.Constructors()
}
