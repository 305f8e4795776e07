package members

import (
	"sort"
	"strings"

	utilstrings "github.com/conduit-lang/hostbridge/internal/util/strings"
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// BeanProperty is a virtual property backed by get/is/set accessor methods.
// At least one of Getter and Setter is set.
type BeanProperty struct {
	// Getter is the zero-argument, non-void accessor
	Getter hosttype.Method
	// Setter is the single-argument mutator matching the getter's type
	Setter hosttype.Method
	// Setters is the whole setter family when it has more than one overload
	Setters *CallableGroup
}

// Type is the property type: the getter's return type, else the setter's
// parameter type.
func (p *BeanProperty) Type() hosttype.Type {
	if p.Getter != nil {
		return p.Getter.Return()
	}
	return p.Setter.Params()[0]
}

// accessorSuffix splits an accessor name into its property suffix.
func accessorSuffix(name string) (string, bool) {
	for _, prefix := range []string{"get", "set", "is"} {
		if strings.HasPrefix(name, prefix) {
			return name[len(prefix):], true
		}
	}
	return "", false
}

// synthesizeBeans adds bean properties to one side of a table under
// construction. Names are scanned in sorted order.
func synthesizeBeans(entries map[string]*Entry, isStatic, includePrivate bool) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	toAdd := make(map[string]*Entry)
	for _, name := range names {
		suffix, ok := accessorSuffix(name)
		if !ok || suffix == "" {
			continue
		}
		prop := utilstrings.Decapitalize(suffix)
		if _, dup := toAdd[prop]; dup {
			continue
		}
		if cur, exists := entries[prop]; exists && !masksPrivate(cur, includePrivate) {
			continue
		}

		getter := findGetter(entries, "get"+suffix, isStatic)
		if getter == nil {
			getter = findGetter(entries, "is"+suffix, isStatic)
		}

		var setter hosttype.Method
		var setters *CallableGroup
		if g := methodGroup(entries["set"+suffix]); g != nil {
			if getter != nil {
				setter = extractSetter(getter.Return(), g.methods, isStatic)
			} else {
				setter = extractAnySetter(g.methods, isStatic)
			}
			if g.Len() > 1 {
				setters = g
			}
		}
		if getter == nil && setter == nil {
			continue
		}
		toAdd[prop] = &Entry{
			Kind: KindBean,
			Bean: &BeanProperty{Getter: getter, Setter: setter, Setters: setters},
		}
	}

	for name, e := range toAdd {
		entries[name] = e
	}
}

// masksPrivate reports whether a bean property may take the place of cur.
func masksPrivate(cur *Entry, includePrivate bool) bool {
	return includePrivate && cur.Kind == KindField && cur.Field.Modifiers().IsPrivate()
}

// methodGroup returns the method family of e, including the methods of a
// field-and-methods composite.
func methodGroup(e *Entry) *CallableGroup {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindMethods, KindFieldAndMethods:
		return e.Group
	}
	return nil
}

func findGetter(entries map[string]*Entry, name string, isStatic bool) hosttype.Method {
	g := methodGroup(entries[name])
	if g == nil {
		return nil
	}
	for _, m := range g.methods {
		if len(m.Params()) != 0 || (isStatic && !m.Modifiers().IsStatic()) {
			continue
		}
		// Only the first zero-argument overload is considered
		if r := m.Return(); r != nil && !r.IsVoid() {
			return m
		}
		break
	}
	return nil
}

// extractSetter prefers an exact parameter match for typ, then the first
// overload whose parameter accepts typ.
func extractSetter(typ hosttype.Type, methods []hosttype.Method, isStatic bool) hosttype.Method {
	var acceptable hosttype.Method
	for _, m := range methods {
		if isStatic && !m.Modifiers().IsStatic() {
			continue
		}
		params := m.Params()
		if len(params) != 1 {
			continue
		}
		if params[0] == typ {
			return m
		}
		if acceptable == nil && params[0].AssignableFrom(typ) {
			acceptable = m
		}
	}
	return acceptable
}

// extractAnySetter returns the first void single-argument overload.
func extractAnySetter(methods []hosttype.Method, isStatic bool) hosttype.Method {
	for _, m := range methods {
		if isStatic && !m.Modifiers().IsStatic() {
			continue
		}
		if r := m.Return(); (r == nil || r.IsVoid()) && len(m.Params()) == 1 {
			return m
		}
	}
	return nil
}
