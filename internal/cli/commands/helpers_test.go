package commands

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/hostbridge/runtime/hosttype/gotypes"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

const shapesSrc = `package shapes

type Shape interface {
	Area() float64
}

type Base struct {
	ID int
}

func (b *Base) Describe() string { return "" }

type Circle struct {
	Base
	Radius float64
}

func NewCircle(r float64) *Circle { return &Circle{Radius: r} }

func (c *Circle) Area() float64         { return 0 }
func (c *Circle) GetTitle() string      { return "" }
func (c *Circle) SetTitle(s string)     {}
func (c *Circle) Scale(f float64) error { return nil }
`

func loadShapes(t *testing.T) *gotypes.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shapes.go", shapesSrc, 0)
	require.NoError(t, err)
	pkg, err := (&types.Config{}).Check("example.com/shapes", fset, []*ast.File{f}, nil)
	require.NoError(t, err)
	return gotypes.FromTypes(pkg)
}

func shapesTable(t *testing.T, name string) (*gotypes.Package, *members.Table) {
	t.Helper()
	pkg := loadShapes(t)
	typ, err := pkg.Type(name)
	require.NoError(t, err)
	table, err := members.NewCache(members.Options{RootType: pkg.Any()}).Lookup(typ, nil, nil)
	require.NoError(t, err)
	return pkg, table
}

func entry(entries []members.EntryInfo, name string) (members.EntryInfo, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return members.EntryInfo{}, false
}

// testDir is the package directory, inside the module.
func testDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return dir
}
