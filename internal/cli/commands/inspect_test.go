package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/hostbridge/runtime/hosttype/gotypes"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

func TestBuildReports(t *testing.T) {
	pkg := loadShapes(t)
	var types []*gotypes.Type
	for _, name := range []string{"Circle", "Base", "Shape"} {
		typ, err := pkg.Type(name)
		require.NoError(t, err)
		types = append(types, typ)
	}

	cache := members.NewCache(members.Options{RootType: pkg.Any(), Strategy: members.Restricted})
	reports, err := buildReports(context.Background(), cache, types)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, 3, cache.Len())

	circle := reports[0]
	assert.Equal(t, "example.com/shapes.Circle", circle.Type)
	assert.Equal(t, "example.com/shapes.Base", circle.Super)
	assert.Equal(t, "restricted", circle.Strategy)
	assert.Equal(t, []string{"example.com/shapes.Shape"}, circle.Interfaces)
	assert.Equal(t, []string{"Circle(float64)"}, circle.Constructors)
	assert.Empty(t, circle.Static)

	radius, ok := entry(circle.Instance, "radius")
	require.True(t, ok)
	assert.Equal(t, members.KindField, radius.Kind)

	_, ok = entry(circle.Instance, "id")
	assert.True(t, ok, "fields of the embedded struct are inherited")

	title, ok := entry(circle.Instance, "title")
	require.True(t, ok)
	assert.Equal(t, members.KindBean, title.Kind)
	assert.True(t, title.Readable)
	assert.True(t, title.Writable)

	area, ok := entry(circle.Instance, "area")
	require.True(t, ok)
	assert.Equal(t, members.KindMethods, area.Kind)

	assert.Equal(t, "example.com/shapes.Base", reports[1].Type)
	assert.Empty(t, reports[1].Super)
	assert.Equal(t, "example.com/shapes.Shape", reports[2].Type)
}

func TestBuildReportsCancelled(t *testing.T) {
	pkg := loadShapes(t)
	typ, err := pkg.Type("Circle")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = buildReports(ctx, members.NewCache(members.Options{}), []*gotypes.Type{typ})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntryLabel(t *testing.T) {
	tests := []struct {
		name string
		e    members.EntryInfo
		want string
	}{
		{"field", members.EntryInfo{Kind: members.KindField, Type: "int"}, "int"},
		{"methods", members.EntryInfo{Kind: members.KindMethods, Signatures: []string{"int add(int,int)", "double add(double,double)"}}, "int add(int,int); double add(double,double)"},
		{"read-only bean", members.EntryInfo{Kind: members.KindBean, Type: "string", Readable: true}, "string (r)"},
		{"bean", members.EntryInfo{Kind: members.KindBean, Type: "string", Readable: true, Writable: true}, "string (rw)"},
		{"write-only bean", members.EntryInfo{Kind: members.KindBean, Type: "string", Writable: true}, "string (w)"},
		{"field and methods", members.EntryInfo{Kind: members.KindFieldAndMethods, Type: "int", Signatures: []string{"int size()"}}, "int; int size()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryLabel(tt.e))
		})
	}
}

func TestOutputReports(t *testing.T) {
	_, table := shapesTable(t, "Circle")
	reports := []typeReport{newReport(table)}
	reports[0].Strategy = "permissive"

	var buf bytes.Buffer
	out, err := newOutput("table", &buf, true)
	require.NoError(t, err)
	require.NoError(t, out.reports(reports))

	text := buf.String()
	assert.Contains(t, text, "example.com/shapes.Circle")
	assert.Contains(t, text, "extends:")
	assert.Contains(t, text, "strategy:")
	assert.Contains(t, text, "Circle(float64)")
	assert.Contains(t, text, "INSTANCE")
	assert.Contains(t, text, "radius")
	assert.NotContains(t, text, "STATIC")

	buf.Reset()
	out, err = newOutput("JSON", &buf, true)
	require.NoError(t, err)
	require.NoError(t, out.reports(reports))

	var decoded []typeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, reports[0].Type, decoded[0].Type)
	assert.Equal(t, len(reports[0].Instance), len(decoded[0].Instance))
}

func TestOutputTypeNames(t *testing.T) {
	pkg := loadShapes(t)

	var buf bytes.Buffer
	out, err := newOutput("table", &buf, true)
	require.NoError(t, err)
	require.NoError(t, out.typeNames(pkg.Path(), pkg.TypeNames()))
	assert.Contains(t, buf.String(), "example.com/shapes\n")
	assert.Contains(t, buf.String(), "Circle\n")

	_, err = newOutput("xml", &buf, true)
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go toolchain")
	}
	dir := testDir(t)
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", "--no-color", "--format", "json", "--dir", dir,
		"github.com/conduit-lang/hostbridge/runtime/hosttype/model", "Class"})
	require.NoError(t, root.Execute())

	var reports []typeReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 1)
	_, ok := entry(reports[0].Instance, "method")
	assert.True(t, ok)
}

func TestInspectUnknownType(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go toolchain")
	}

	var stderr bytes.Buffer
	root := NewRootCommand()
	root.SetErr(&stderr)
	root.SetArgs([]string{"inspect", "--no-color", "--dir", testDir(t),
		"github.com/conduit-lang/hostbridge/runtime/hosttype/model", "Clas"})
	err := root.Execute()
	require.Error(t, err)

	var reported *reportedError
	assert.ErrorAs(t, err, &reported)
	assert.ErrorIs(t, err, gotypes.ErrTypeNotFound)
	assert.Contains(t, stderr.String(), "Did you mean: ")
	assert.Contains(t, stderr.String(), "Class")
}
