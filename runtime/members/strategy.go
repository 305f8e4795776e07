package members

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// Mode selects how the access strategy is chosen.
type Mode string

const (
	// ModeAuto asks the host platform once and picks a strategy
	ModeAuto Mode = "auto"
	// ModePermissive forces the Permissive strategy
	ModePermissive Mode = "permissive"
	// ModeRestricted forces the Restricted strategy
	ModeRestricted Mode = "restricted"
)

// ParseMode parses a strategy mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModePermissive, ModeRestricted:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown access strategy %q (want auto, permissive or restricted)", s)
	}
}

// Strategy is the platform-dependent part of member discovery.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// PublicMethods returns the publicly reachable methods of t.
	PublicMethods(t hosttype.Type) ([]hosttype.Method, error)
	// Open makes a non-public member accessible, or refuses.
	Open(m hosttype.Member) error
}

// Permissive trusts the host platform to hand out any member reflectively.
var Permissive Strategy = permissive{}

// Restricted is for hosts that only allow reflection on exported types.
var Restricted Strategy = restricted{}

// SelectStrategy picks the discovery strategy. In ModeAuto the Restricted
// strategy is chosen when the module was built with the hostbridge_strict tag
// or when host reports strict reflective access.
func SelectStrategy(mode Mode, host any) Strategy {
	switch mode {
	case ModePermissive:
		return Permissive
	case ModeRestricted:
		return Restricted
	}
	if buildStrict {
		return Restricted
	}
	if caps, ok := host.(hosttype.Capabilities); ok && caps.StrictReflectiveAccess() {
		return Restricted
	}
	return Permissive
}

type permissive struct{}

func (permissive) Name() string { return string(ModePermissive) }

func (permissive) PublicMethods(t hosttype.Type) ([]hosttype.Method, error) {
	return t.Methods()
}

func (permissive) Open(m hosttype.Member) error {
	return open(m)
}

type restricted struct{}

func (restricted) Name() string { return string(ModeRestricted) }

// PublicMethods replaces each method declared on a non-exported type by the
// same-signature method of the nearest exported interface or superclass.
// Methods without such a replacement are dropped.
func (restricted) PublicMethods(t hosttype.Type) ([]hosttype.Method, error) {
	methods, err := t.Methods()
	if err != nil {
		return nil, err
	}
	out := make([]hosttype.Method, 0, len(methods))
	for _, m := range methods {
		if m.DeclaringType().Exported() {
			out = append(out, m)
			continue
		}
		if r := exportedCounterpart(t, m, map[hosttype.Type]bool{}); r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (restricted) Open(m hosttype.Member) error {
	if !m.DeclaringType().Exported() {
		return fmt.Errorf("%w: %s is not exported", hosttype.ErrAccessDenied, m.DeclaringType().Name())
	}
	return open(m)
}

func exportedCounterpart(t hosttype.Type, m hosttype.Method, seen map[hosttype.Type]bool) hosttype.Method {
	var parents []hosttype.Type
	parents = append(parents, t.Interfaces()...)
	if s := t.Super(); s != nil {
		parents = append(parents, s)
	}
	for _, p := range parents {
		if seen[p] {
			continue
		}
		seen[p] = true
		if p.Exported() && p.Modifiers().IsPublic() {
			if declared, err := p.DeclaredMethods(); err == nil {
				for _, c := range declared {
					if c.Modifiers().IsPublic() && c.Name() == m.Name() && hosttype.SameParams(c.Params(), m.Params()) {
						return c
					}
				}
			}
		}
		if r := exportedCounterpart(p, m, seen); r != nil {
			return r
		}
	}
	return nil
}

func open(m hosttype.Member) error {
	if o, ok := m.(hosttype.Opener); ok {
		return o.Open()
	}
	if m.Modifiers().IsPublic() {
		return nil
	}
	return fmt.Errorf("%w: %s cannot be opened", hosttype.ErrAccessDenied, m.Name())
}
