package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/hostbridge/internal/cli/ui"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

func newSignatureCommand(opts *globalOptions) *cobra.Command {
	var static bool
	var dir string

	cmd := &cobra.Command{
		Use:   "signature <package> <Type> <query>",
		Short: "Resolve an explicit-signature query",
		Long: `Resolve a query such as "add(int,int)" against the member table of a type,
the way a script selects one overload by its signature. On the static side
"(int)" names a constructor.`,
		Example: `  hostbridge signature strings Builder "writeString(string)"
  hostbridge signature --static example.com/shapes Circle "(float64)"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage(dir, args[0])
			if err != nil {
				return err
			}
			types, err := resolveTypes(cmd, pkg, args[1:2], opts.noColor)
			if err != nil {
				return err
			}
			cache, logger, err := newCache(cmd, opts, pkg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			table, err := cache.Lookup(types[0], nil, nil)
			if err != nil {
				return err
			}
			return resolveSignature(cmd, table, args[2], static, opts.noColor)
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Resolve on the static side")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory the package pattern is resolved in")
	return cmd
}

func resolveSignature(cmd *cobra.Command, table *members.Table, query string, static, noColor bool) error {
	g := table.Explicit(query, static)
	if g == nil {
		ui.SignatureNotFound(query, candidateSignatures(table, static), noColor).Write(cmd.ErrOrStderr())
		return &reportedError{fmt.Errorf("no member matches %s", query)}
	}

	kv := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor)
	kv.AddRow("type", table.Type().Name())
	kv.AddRow("group", g.Name())
	kind := "method"
	if g.IsConstructor() {
		kind = "constructor"
	}
	kv.AddRow("kind", kind)
	kv.AddRow("overloads", strings.Join(g.Signatures(), " "))
	kv.Render()
	return nil
}

// candidateSignatures lists every explicit query the side would accept.
func candidateSignatures(table *members.Table, static bool) []string {
	var out []string
	for _, name := range table.IDs(static) {
		e, _ := table.Entry(name, static)
		if e.Group == nil {
			continue
		}
		for _, sig := range e.Group.Signatures() {
			out = append(out, name+sig)
		}
	}
	if static && table.Constructors() != nil {
		out = append(out, table.Constructors().Signatures()...)
	}
	return out
}
