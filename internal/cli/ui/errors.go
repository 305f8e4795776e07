package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a diagnostic
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Diagnostic is a structured CLI message with optional suggestions
type Diagnostic struct {
	Level       Level
	Context     string
	Problem     string
	Suggestions []string
	Help        []string
	NoColor     bool
}

// Format renders the diagnostic.
//
// Example output:
//
//	✗ TYPE NOT FOUND: Cirle
//	   No type Cirle in example.com/shapes.
//
//	   Did you mean: Circle?
//
//	   → List types: hostbridge inspect example.com/shapes
func (d Diagnostic) Format() string {
	var b strings.Builder

	var attr color.Attribute
	var symbol string
	switch d.Level {
	case LevelWarning:
		attr, symbol = color.FgYellow, "!"
	case LevelInfo:
		attr, symbol = color.FgCyan, "i"
	default:
		attr, symbol = color.FgRed, "✗"
	}
	head := newColor(d.NoColor, attr, color.Bold)
	body := newColor(d.NoColor, attr)

	if d.Context != "" {
		head.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(d.Context))
		body.Fprintf(&b, "   %s\n", d.Problem)
	} else {
		head.Fprintf(&b, "%s %s\n", symbol, d.Problem)
	}

	if len(d.Suggestions) > 0 {
		b.WriteString("\n")
		newColor(d.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(d.Suggestions, ", "))
	}

	if len(d.Help) > 0 {
		b.WriteString("\n")
		cyan := newColor(d.NoColor, color.FgCyan)
		for _, h := range d.Help {
			cyan.Fprintf(&b, "   → %s\n", h)
		}
	}
	return b.String()
}

// Write writes the formatted diagnostic
func (d Diagnostic) Write(w io.Writer) {
	fmt.Fprint(w, d.Format())
}

// TypeNotFound reports a type missing from a package
func TypeNotFound(pkg, name string, candidates []string, noColor bool) Diagnostic {
	return Diagnostic{
		Context:     "type not found",
		Problem:     fmt.Sprintf("No type %s in %s.", name, pkg),
		Suggestions: FindSimilar(name, candidates, 0),
		Help:        []string{"List types: hostbridge inspect " + pkg},
		NoColor:     noColor,
	}
}

// SignatureNotFound reports an explicit-signature query that matched nothing
func SignatureNotFound(query string, candidates []string, noColor bool) Diagnostic {
	return Diagnostic{
		Context:     "signature not found",
		Problem:     fmt.Sprintf("No member matches %s.", query),
		Suggestions: FindSimilar(query, candidates, 0),
		Help:        []string{"Show members: hostbridge inspect <package> <Type>"},
		NoColor:     noColor,
	}
}

// ConfigError reports an invalid configuration
func ConfigError(err error, noColor bool) Diagnostic {
	return Diagnostic{
		Context: "configuration error",
		Problem: err.Error(),
		Help:    []string{"View config: cat hostbridge.yaml"},
		NoColor: noColor,
	}
}

// Warning builds a warning without context
func Warning(message string, noColor bool) Diagnostic {
	return Diagnostic{Level: LevelWarning, Problem: message, NoColor: noColor}
}
