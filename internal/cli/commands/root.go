package commands

import (
	"errors"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hostbridge",
		Short: "Inspect the script-visible members of Go types",
		Long: color.CyanString(`hostbridge - reflective member tables for Go types

hostbridge shows how a scripting runtime sees a host type: the fields,
overloaded methods, bean properties and constructors of its member table,
split into the static and instance side.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: nearest hostbridge.yaml)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.protected, "protected", false, "Include protected members")
	flags.BoolVar(&opts.private, "private", false, "Include private members")
	flags.StringVar(&opts.strategy, "strategy", "", "Access strategy: auto, permissive or restricted")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newSignatureCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout())
		},
	}
}

func writeVersion(w io.Writer) {
	titleColor := color.New(color.FgCyan, color.Bold)
	for _, kv := range [][2]string{
		{"hostbridge version", Version},
		{"Git commit", GitCommit},
		{"Build date", BuildDate},
		{"Go version", runtime.Version()},
	} {
		titleColor.Fprint(w, kv[0]+": ")
		color.New(color.FgWhite).Fprintln(w, kv[1])
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// Diagnostics already written by the command are not repeated
		var reported *reportedError
		if !errors.As(err, &reported) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// reportedError marks an error whose diagnostic was already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
