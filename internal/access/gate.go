// Package access implements the visibility gate that decides which host
// types scripts may see.
package access

import (
	"sort"
	"strings"
)

// Gate admits type names by prefix. Deny rules win over allow rules; an empty
// allow list admits every type that is not denied.
type Gate struct {
	allow []string
	deny  []string
}

// NewGate builds a gate from allow and deny prefixes. Blank prefixes are
// ignored. A prefix ending in "." or "/" matches only whole segments.
func NewGate(allow, deny []string) *Gate {
	return &Gate{allow: normalize(allow), deny: normalize(deny)}
}

func normalize(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	// Longest first so that Match reports the most specific rule
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// VisibleToScripts reports whether scripts may see typeName.
func (g *Gate) VisibleToScripts(typeName string) bool {
	if _, ok := match(g.deny, typeName); ok {
		return false
	}
	if len(g.allow) == 0 {
		return true
	}
	_, ok := match(g.allow, typeName)
	return ok
}

// Explain returns the rule that decides typeName, for diagnostics.
func (g *Gate) Explain(typeName string) string {
	if p, ok := match(g.deny, typeName); ok {
		return "denied by " + p
	}
	if len(g.allow) == 0 {
		return "allowed by default"
	}
	if p, ok := match(g.allow, typeName); ok {
		return "allowed by " + p
	}
	return "not in allow list"
}

// Empty reports whether the gate has no rules.
func (g *Gate) Empty() bool { return len(g.allow) == 0 && len(g.deny) == 0 }

func match(prefixes []string, name string) (string, bool) {
	for _, p := range prefixes {
		if name == p || strings.HasPrefix(name, p) && segmentBoundary(p, name) {
			return p, true
		}
	}
	return "", false
}

// segmentBoundary reports whether prefix p ends on a name segment of name:
// "net/http" matches "net/http.Client" but not "net/httptest.Server".
func segmentBoundary(p, name string) bool {
	last := p[len(p)-1]
	if last == '.' || last == '/' {
		return true
	}
	next := name[len(p)]
	return next == '.' || next == '/'
}
