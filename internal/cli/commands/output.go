package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/hostbridge/internal/cli/ui"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

// output renders command results as tables or JSON
type output struct {
	w       io.Writer
	json    bool
	noColor bool
}

func newOutput(format string, w io.Writer, noColor bool) (*output, error) {
	switch strings.ToLower(format) {
	case "json":
		return &output{w: w, json: true}, nil
	case "table", "":
		return &output{w: w, noColor: noColor}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func (o *output) encode(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *output) typeNames(pkg string, names []string) error {
	if o.json {
		return o.encode(struct {
			Package string   `json:"package"`
			Types   []string `json:"types"`
		}{pkg, names})
	}

	ui.Header(o.w, pkg, o.noColor)
	for _, n := range names {
		fmt.Fprintln(o.w, n)
	}
	return nil
}

func (o *output) reports(reports []typeReport) error {
	if o.json {
		return o.encode(reports)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		o.report(r)
	}
	return nil
}

func (o *output) report(r typeReport) {
	ui.Header(o.w, r.Type, o.noColor)

	kv := ui.NewKeyValueTable(o.w, o.noColor)
	if r.Strategy != "" {
		kv.AddRow("strategy", r.Strategy)
	}
	if r.Super != "" {
		kv.AddRow("extends", r.Super)
	}
	if len(r.Interfaces) > 0 {
		kv.AddRow("implements", strings.Join(r.Interfaces, ", "))
	}
	if len(r.Constructors) > 0 {
		kv.AddRow("constructors", strings.Join(r.Constructors, ", "))
	}
	kv.Render()

	o.entries("static", r.Static)
	o.entries("instance", r.Instance)
}

func (o *output) entries(side string, entries []members.EntryInfo) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(o.w)
	table := ui.NewTable(o.w, o.noColor, strings.ToUpper(side), "KIND", "MODIFIERS", "TYPE")
	for _, e := range entries {
		table.AddRow(e.Name, string(e.Kind), e.Modifiers, entryLabel(e))
	}
	table.Render()
}
