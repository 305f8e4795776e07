package members

import (
	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// CallableGroup is an overload set: methods or constructors sharing a name.
// It is the callable script value returned for method and constructor names.
// A group is immutable once built.
type CallableGroup struct {
	name    string
	methods []hosttype.Method
	ctors   []hosttype.Constructor
}

func newMethodGroup(name string, methods []hosttype.Method) *CallableGroup {
	return &CallableGroup{name: name, methods: methods}
}

func newConstructorGroup(name string, ctors []hosttype.Constructor) *CallableGroup {
	return &CallableGroup{name: name, ctors: ctors}
}

// Name is the script-visible name of the group. For a group bound by an
// explicit-signature query it is the full query, e.g. "add(int,int)".
func (g *CallableGroup) Name() string { return g.name }

// IsConstructor reports whether the group holds constructors.
func (g *CallableGroup) IsConstructor() bool { return g.ctors != nil }

// Len returns the number of overloads.
func (g *CallableGroup) Len() int {
	if g.ctors != nil {
		return len(g.ctors)
	}
	return len(g.methods)
}

// Methods returns the method overloads in discovery order. The slice must not
// be modified.
func (g *CallableGroup) Methods() []hosttype.Method { return g.methods }

// Constructors returns the constructor overloads. The slice must not be modified.
func (g *CallableGroup) Constructors() []hosttype.Constructor { return g.ctors }

// Params returns the parameter types of overload i.
func (g *CallableGroup) Params(i int) []hosttype.Type {
	if g.ctors != nil {
		return g.ctors[i].Params()
	}
	return g.methods[i].Params()
}

// Member returns overload i.
func (g *CallableGroup) Member(i int) hosttype.Member {
	if g.ctors != nil {
		return g.ctors[i]
	}
	return g.methods[i]
}

// Signature returns the canonical parameter signature of overload i.
func (g *CallableGroup) Signature(i int) string {
	return hosttype.ParamSignature(g.Params(i))
}

// Signatures returns the canonical signatures of all overloads.
func (g *CallableGroup) Signatures() []string {
	out := make([]string, g.Len())
	for i := range out {
		out[i] = g.Signature(i)
	}
	return out
}

// find returns the index of the overload whose canonical signature equals sig.
func (g *CallableGroup) find(sig string) int {
	for i := 0; i < g.Len(); i++ {
		if g.Signature(i) == sig {
			return i
		}
	}
	return -1
}

// methodSet collects discovered methods keyed by name and parameter types,
// keeping insertion order.
type methodSet struct {
	index map[string]int
	items []hosttype.Method
}

func newMethodSet() *methodSet {
	return &methodSet{index: make(map[string]int)}
}

// register adds m, or resolves a collision with an already registered method
// of the same signature, and returns the method kept.
func (s *methodSet) register(m hosttype.Method) hosttype.Method {
	key := m.Name() + hosttype.ParamSignature(m.Params())
	if i, ok := s.index[key]; ok {
		s.items[i] = moreConcrete(s.items[i], m)
		return s.items[i]
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, m)
	return m
}

// moreConcrete picks between two methods differing only in return type. The
// candidate wins only when its return type is strictly more specific.
func moreConcrete(existing, candidate hosttype.Method) hosttype.Method {
	er, cr := existing.Return(), candidate.Return()
	if er == cr || er == nil || cr == nil {
		return existing
	}
	if er.AssignableFrom(cr) {
		return candidate
	}
	return existing
}
