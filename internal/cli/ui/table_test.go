package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "NAME", "KIND", "TYPE")
	table.AddRow("radius", "field", "float64")
	table.AddRow("area", "methods")
	table.AddRow("x", "field", "int", "ignored")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"NAME    KIND     TYPE",
		"──────  ───────  ───────",
		"radius  field    float64",
		"area    methods",
		"x       field    int",
	}, lines)
	assert.Equal(t, 3, table.Len())
}

func TestTableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true)
	table.AddRow("a")
	table.Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("type", "demo.Circle")
	kv.AddRow("strategy", "permissive")
	kv.Render()

	assert.Equal(t, "type:     demo.Circle\nstrategy: permissive\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Instance members", true)
	assert.Equal(t, "Instance members\n"+strings.Repeat("─", 16)+"\n", buf.String())
}
