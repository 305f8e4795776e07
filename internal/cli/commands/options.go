package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/hostbridge/internal/cli/config"
	"github.com/conduit-lang/hostbridge/internal/logging"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

// globalOptions holds the persistent root flags
type globalOptions struct {
	configPath string
	noColor    bool
	protected  bool
	private    bool
	strategy   string
}

// loadConfig reads the config file and applies the flags set on cmd.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		// A missing file is fine; defaults apply
		if found, err := config.FindConfig("."); err == nil {
			path = found
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("protected") {
		cfg.Bridge.IncludeProtected = o.protected
	}
	if flags.Changed("private") {
		cfg.Bridge.IncludePrivate = o.private
	}
	if flags.Changed("strategy") {
		if _, err := members.ParseMode(o.strategy); err != nil {
			return nil, err
		}
		cfg.Bridge.Strategy = o.strategy
	}
	return cfg, nil
}

// bridgeOptions builds the member table options for host.
func (o *globalOptions) bridgeOptions(cmd *cobra.Command, host any) (members.Options, *zap.Logger, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return members.Options{}, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return members.Options{}, nil, err
	}

	opts, err := cfg.BridgeOptions(host, logger)
	if err != nil {
		return members.Options{}, nil, err
	}
	return opts, logger, nil
}
