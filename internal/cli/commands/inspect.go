package commands

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/hostbridge/internal/cli/ui"
	"github.com/conduit-lang/hostbridge/runtime/hosttype/gotypes"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	var format string
	var dir string

	cmd := &cobra.Command{
		Use:   "inspect <package> [Type...]",
		Short: "Show the member tables of package types",
		Long: `Load a Go package and print the member table a script would see for each
named type: static and instance entries, bean properties and constructors.

Without type names the exported types of the package are listed.`,
		Example: `  # List the types of a package
  hostbridge inspect net/url

  # Show the member table of one type
  hostbridge inspect net/url URL

  # Include unexported members, as JSON
  hostbridge inspect --private --format json ./internal/model User`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newOutput(format, cmd.OutOrStdout(), opts.noColor)
			if err != nil {
				return err
			}

			pkg, err := loadPackage(dir, args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return out.typeNames(pkg.Path(), pkg.TypeNames())
			}

			types, err := resolveTypes(cmd, pkg, args[1:], opts.noColor)
			if err != nil {
				return err
			}

			cache, logger, err := newCache(cmd, opts, pkg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			reports, err := buildReports(cmd.Context(), cache, types)
			if err != nil {
				return err
			}
			return out.reports(reports)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: json or table")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory the package pattern is resolved in")
	return cmd
}

func loadPackage(dir, pattern string) (*gotypes.Package, error) {
	pkgs, err := gotypes.Load(dir, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("pattern %s matches %d packages, want one", pattern, len(pkgs))
	}
	return pkgs[0], nil
}

func resolveTypes(cmd *cobra.Command, pkg *gotypes.Package, names []string, noColor bool) ([]*gotypes.Type, error) {
	out := make([]*gotypes.Type, 0, len(names))
	for _, name := range names {
		t, err := pkg.Type(name)
		if err != nil {
			ui.TypeNotFound(pkg.Path(), name, pkg.TypeNames(), noColor).Write(cmd.ErrOrStderr())
			return nil, &reportedError{err}
		}
		out = append(out, t)
	}
	return out, nil
}

func newCache(cmd *cobra.Command, opts *globalOptions, pkg *gotypes.Package) (*members.Cache, *zap.Logger, error) {
	bopts, logger, err := opts.bridgeOptions(cmd, nil)
	if err != nil {
		ui.ConfigError(err, opts.noColor).Write(cmd.ErrOrStderr())
		return nil, nil, &reportedError{err}
	}
	bopts.RootType = pkg.Any()
	return members.NewCache(bopts), logger, nil
}

// typeReport is the printable member table of one type
type typeReport struct {
	Type         string              `json:"type"`
	Strategy     string              `json:"strategy"`
	Super        string              `json:"super,omitempty"`
	Interfaces   []string            `json:"interfaces,omitempty"`
	Constructors []string            `json:"constructors,omitempty"`
	Static       []members.EntryInfo `json:"static"`
	Instance     []members.EntryInfo `json:"instance"`
}

// buildReports looks up the tables of types concurrently. Reports keep the
// order of types.
func buildReports(ctx context.Context, cache *members.Cache, types []*gotypes.Type) ([]typeReport, error) {
	reports := make([]typeReport, len(types))
	strategy := cache.Builder().Options().Strategy.Name()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := cache.Lookup(t, nil, nil)
			if err != nil {
				return fmt.Errorf("building member table of %s: %w", t.Name(), err)
			}
			reports[i] = newReport(table)
			reports[i].Strategy = strategy
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func newReport(table *members.Table) typeReport {
	t := table.Type()
	r := typeReport{
		Type:     t.Name(),
		Static:   table.Describe(true),
		Instance: table.Describe(false),
	}
	if s := t.Super(); s != nil {
		r.Super = s.Name()
	}
	for _, iface := range t.Interfaces() {
		r.Interfaces = append(r.Interfaces, iface.Name())
	}
	if ctors := table.Constructors(); ctors != nil {
		for _, sig := range ctors.Signatures() {
			r.Constructors = append(r.Constructors, ctors.Name()+sig)
		}
	}
	return r
}

// entryLabel renders the type column of one entry.
func entryLabel(e members.EntryInfo) string {
	switch e.Kind {
	case members.KindMethods:
		return strings.Join(e.Signatures, "; ")
	case members.KindBean:
		access := "r"
		if e.Writable {
			access = "rw"
			if !e.Readable {
				access = "w"
			}
		}
		return e.Type + " (" + access + ")"
	case members.KindFieldAndMethods:
		return e.Type + "; " + strings.Join(e.Signatures, "; ")
	}
	return e.Type
}
