package commands

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/hostbridge/runtime/members"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "hostbridge", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"version", "inspect", "signature"})

	for _, flag := range []string{"config", "no-color", "protected", "private", "strategy"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	color.NoColor = true
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "hostbridge version: 1.0.0-test")
	assert.Contains(t, out.String(), "Git commit: abc123")
	assert.Contains(t, out.String(), "Go version: go")
}

func flagCommand(opts *globalOptions, args ...string) (*cobra.Command, error) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "")
	cmd.Flags().BoolVar(&opts.protected, "protected", false, "")
	cmd.Flags().BoolVar(&opts.private, "private", false, "")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "")
	return cmd, cmd.Flags().Parse(args)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	opts := &globalOptions{}
	cmd, err := flagCommand(opts, "--private", "--strategy", "restricted")
	require.NoError(t, err)

	cfg, err := opts.loadConfig(cmd)
	require.NoError(t, err)
	assert.True(t, cfg.Bridge.IncludePrivate)
	assert.False(t, cfg.Bridge.IncludeProtected)
	assert.Equal(t, "restricted", cfg.Bridge.Strategy)

	bopts, logger, err := opts.bridgeOptions(cmd, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, members.Restricted, bopts.Strategy)
	assert.True(t, bopts.IncludePrivate)
}

func TestLoadConfigRejectsBadStrategy(t *testing.T) {
	t.Chdir(t.TempDir())

	opts := &globalOptions{}
	cmd, err := flagCommand(opts, "--strategy", "lax")
	require.NoError(t, err)

	_, err = opts.loadConfig(cmd)
	assert.Error(t, err)
}

func TestExecuteCommandErrors(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"signature", "only-one-arg"})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}
