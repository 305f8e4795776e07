package members

import (
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Builder builds member tables for one visibility policy. A Builder is safe
// for concurrent use; every Build works on private state until it returns.
type Builder struct {
	opts   Options
	warned sync.Map // type name -> struct{}, degraded enumeration already logged
}

// NewBuilder returns a builder for opts. Unset collaborators get defaults.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts.withDefaults()}
}

// Options returns the effective options, defaults included.
func (b *Builder) Options() Options { return b.opts }

// Build discovers the members of t and returns its frozen table.
//
// It fails with ErrTypeNotVisible when the gate rejects t, and with
// ErrAccessDenied (wrapping hosttype.ErrAccessDenied) when not even the public
// fields or constructors of t can be enumerated.
func (b *Builder) Build(t hosttype.Type) (*Table, error) {
	r := b.opts.Reporter
	if g := b.opts.Gate; g != nil && !g.VisibleToScripts(t.Name()) {
		return nil, report(r, CodeTypeNotVisible, t.Name(), "", t.Name())
	}

	d := &discovery{
		includeProtected: b.opts.IncludeProtected,
		includePrivate:   b.opts.IncludePrivate,
		strategy:         b.opts.Strategy,
		logger:           b.opts.Logger,
		warned:           &b.warned,
	}

	table := &Table{
		typ:      t,
		static:   newSide(),
		instance: newSide(),
		env: env{
			coercer:    b.opts.Coercer,
			wrapper:    b.opts.Wrapper,
			dispatcher: b.opts.Dispatcher,
			reporter:   r,
		},
	}

	// Methods go first so that a field sharing a method's name becomes a
	// composite rather than hiding the methods.
	addMethods(table, d.methods(t))

	fields, err := d.fields(t)
	if err != nil {
		return nil, report(r, CodeAccessDenied, t.Name(), "", t.Name()).WithCause(err)
	}
	for _, f := range fields {
		addField(table.half(f.Modifiers().IsStatic()), f)
	}

	synthesizeBeans(table.static.entries, true, b.opts.IncludePrivate)
	synthesizeBeans(table.instance.entries, false, b.opts.IncludePrivate)

	ctors, err := d.constructors(t)
	if err != nil {
		return nil, report(r, CodeAccessDenied, t.Name(), "", t.Name()).WithCause(err)
	}
	if len(ctors) > 0 {
		table.ctors = newConstructorGroup(t.SimpleName(), ctors)
	}

	b.opts.Logger.Debug("built member table",
		zap.String("type", t.Name()),
		zap.String("strategy", b.opts.Strategy.Name()),
		zap.Int("static", len(table.static.entries)),
		zap.Int("instance", len(table.instance.entries)),
		zap.Int("constructors", len(ctors)),
	)
	return table, nil
}

// addMethods groups methods per name and side, keeping discovery order.
func addMethods(table *Table, methods []hosttype.Method) {
	type family struct {
		name    string
		methods []hosttype.Method
	}
	var order [2][]*family
	index := [2]map[string]*family{{}, {}}

	for _, m := range methods {
		s := 0
		if m.Modifiers().IsStatic() {
			s = 1
		}
		f, ok := index[s][m.Name()]
		if !ok {
			f = &family{name: m.Name()}
			index[s][m.Name()] = f
			order[s] = append(order[s], f)
		}
		f.methods = append(f.methods, m)
	}

	for s, families := range order {
		entries := table.half(s == 1).entries
		for _, f := range families {
			entries[f.name] = &Entry{Kind: KindMethods, Group: newMethodGroup(f.name, f.methods)}
		}
	}
}

// addField enters f, turning a method family of the same name into a
// composite. Of two fields with one name the more derived declaration wins.
func addField(s *side, f hosttype.Field) {
	name := f.Name()
	cur, ok := s.entries[name]
	if !ok {
		s.entries[name] = &Entry{Kind: KindField, Field: f}
		return
	}

	switch cur.Kind {
	case KindMethods:
		s.putComposite(name, cur.Group, f)
	case KindFieldAndMethods:
		if shadows(f, cur.Field) {
			s.putComposite(name, cur.Group, f)
		}
	case KindField:
		if shadows(f, cur.Field) {
			s.entries[name] = &Entry{Kind: KindField, Field: f}
		}
	}
}

func (s *side) putComposite(name string, g *CallableGroup, f hosttype.Field) {
	if s.composites == nil {
		s.composites = make(map[string]*FieldAndMethods)
	}
	fam := &FieldAndMethods{Group: g, Field: f}
	s.composites[name] = fam
	s.entries[name] = &Entry{Kind: KindFieldAndMethods, Field: f, Group: g, Composite: fam}
}

// shadows reports whether f is declared on old's declaring type or below it
// on the superclass chain. Fields are only discovered along that chain.
func shadows(f, old hosttype.Field) bool {
	return hosttype.IsAncestor(old.DeclaringType(), f.DeclaringType())
}
