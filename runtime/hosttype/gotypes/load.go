// Package gotypes is a static host type provider over go/types.
//
// Packages are loaded with golang.org/x/tools/go/packages and described
// without running any code: member enumeration works as for the goreflect
// provider, but every body fails with hosttype.ErrNotInvocable. The CLI uses
// it to inspect the member tables of arbitrary packages.
package gotypes

import (
	"errors"
	"fmt"
	"go/types"
	"sort"
	"sync"

	"golang.org/x/tools/go/packages"
)

// ErrTypeNotFound is returned when a package has no type of the given name.
var ErrTypeNotFound = errors.New("type not found")

// Package is one loaded package.
type Package struct {
	u   *universe
	pkg *types.Package
}

// Load loads the packages matching patterns, resolved relative to dir. The
// returned packages share one type universe.
func Load(dir string, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %v", patterns)
	}

	u := newUniverse()
	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, fmt.Errorf("package %s: %v", p.PkgPath, p.Errors[0])
		}
		if p.Types == nil {
			return nil, fmt.Errorf("type information not available for %s", p.PkgPath)
		}
		out = append(out, &Package{u: u, pkg: p.Types})
	}
	return out, nil
}

// FromTypes wraps an already type-checked package.
func FromTypes(pkg *types.Package) *Package {
	return &Package{u: newUniverse(), pkg: pkg}
}

// Path is the import path.
func (p *Package) Path() string { return p.pkg.Path() }

// Name is the package name.
func (p *Package) Name() string { return p.pkg.Name() }

// Type returns the named type name declared in the package.
func (p *Package) Type(name string) (*Type, error) {
	obj, ok := p.pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrTypeNotFound, p.pkg.Path(), name)
	}
	return p.u.typ(obj.Type()), nil
}

// TypeNames returns the exported type names of the package, sorted.
func (p *Package) TypeNames() []string {
	var out []string
	scope := p.pkg.Scope()
	for _, name := range scope.Names() {
		if obj, ok := scope.Lookup(name).(*types.TypeName); ok && obj.Exported() && !obj.IsAlias() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Any returns the empty interface, the root of every type.
func (p *Package) Any() *Type { return p.u.typ(types.NewInterfaceType(nil, nil)) }

// universe interns the types of one load.
type universe struct {
	void *Type

	mu      sync.Mutex
	types   map[string]*Type
	methods map[methodKey]*Method
}

func newUniverse() *universe {
	u := &universe{
		types:   make(map[string]*Type),
		methods: make(map[methodKey]*Method),
	}
	u.void = &Type{u: u, name: "void", simple: "void"}
	return u
}

// typ returns the interned Type of t. Pointers to named structs map to the
// struct type.
func (u *universe) typ(t types.Type) *Type {
	t = canonical(t)
	key := types.TypeString(t, nil)

	u.mu.Lock()
	defer u.mu.Unlock()
	if it, ok := u.types[key]; ok {
		return it
	}
	it := newType(u, t)
	u.types[key] = it
	return it
}

func canonical(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		if named, ok := ptr.Elem().(*types.Named); ok {
			if _, ok := named.Underlying().(*types.Struct); ok {
				return named
			}
		}
	}
	return t
}
