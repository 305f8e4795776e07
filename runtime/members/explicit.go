package members

import (
	"strings"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

type explicitKey struct {
	name     string
	isStatic bool
}

// Explicit resolves an explicit-signature query such as "add(int,int)", or
// "(int,int)" for a constructor on the static side. The part from the first
// "(" must equal the canonical signature of exactly one overload. It returns
// nil when nothing matches.
//
// A match in a family of several overloads yields a group holding only that
// overload, named by the query. A single-method family resolves to itself.
// Resolutions are memoized per table.
func (t *Table) Explicit(name string, isStatic bool) *CallableGroup {
	key := explicitKey{name: name, isStatic: isStatic}
	if g, ok := t.explicit.Load(key); ok {
		return g.(*CallableGroup)
	}
	g := t.findExplicit(name, isStatic)
	if g == nil {
		return nil
	}
	actual, _ := t.explicit.LoadOrStore(key, g)
	return actual.(*CallableGroup)
}

func (t *Table) findExplicit(name string, isStatic bool) *CallableGroup {
	open := strings.IndexByte(name, '(')
	if open < 0 {
		return nil
	}
	sig := name[open:]

	if isStatic && open == 0 {
		if t.ctors == nil {
			return nil
		}
		i := t.ctors.find(sig)
		if i < 0 {
			return nil
		}
		return newConstructorGroup(t.ctors.name+sig, []hosttype.Constructor{t.ctors.ctors[i]})
	}

	g := methodGroup(t.lookup(name[:open], isStatic))
	if g == nil {
		return nil
	}
	i := g.find(sig)
	switch {
	case i < 0:
		return nil
	case g.Len() == 1:
		return g
	}
	return newMethodGroup(name, []hosttype.Method{g.methods[i]})
}
