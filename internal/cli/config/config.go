package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/conduit-lang/hostbridge/internal/access"
	"github.com/conduit-lang/hostbridge/runtime/members"
)

// FileName is the base name of the configuration file, without extension.
const FileName = "hostbridge"

// EnvPrefix prefixes the environment variables that override the file,
// e.g. HOSTBRIDGE_BRIDGE_STRATEGY.
const EnvPrefix = "HOSTBRIDGE"

// Config represents the hostbridge configuration
type Config struct {
	Bridge   BridgeConfig `mapstructure:"bridge"`
	Access   AccessConfig `mapstructure:"access"`
	Log      LogConfig    `mapstructure:"log"`
	Language string       `mapstructure:"language"`
}

// BridgeConfig configures member discovery and the table cache
type BridgeConfig struct {
	IncludeProtected bool   `mapstructure:"include_protected"`
	IncludePrivate   bool   `mapstructure:"include_private"`
	Caching          bool   `mapstructure:"caching"`
	Strategy         string `mapstructure:"strategy"`
	// CacheSize bounds the cache with an LRU store; 0 is unbounded.
	CacheSize int `mapstructure:"cache_size"`
}

// AccessConfig lists the type-name prefixes of the visibility gate
type AccessConfig struct {
	Allow []string `mapstructure:"allow"`
	Deny  []string `mapstructure:"deny"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration. An empty path searches hostbridge.yaml in
// the current directory; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("bridge.include_protected", false)
	v.SetDefault("bridge.include_private", false)
	v.SetDefault("bridge.caching", true)
	v.SetDefault("bridge.strategy", string(members.ModeAuto))
	v.SetDefault("bridge.cache_size", 0)
	v.SetDefault("access.allow", []string{})
	v.SetDefault("access.deny", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("language", "en")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig walks up from dir to the nearest directory holding
// hostbridge.yaml or hostbridge.yml and returns the file path.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yaml", ".yml"} {
			candidate := filepath.Join(dir, FileName+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yaml found", FileName)
		}
		dir = parent
	}
}

func validate(cfg *Config) error {
	if _, err := members.ParseMode(cfg.Bridge.Strategy); err != nil {
		return fmt.Errorf("bridge.strategy: %w", err)
	}
	if cfg.Bridge.CacheSize < 0 {
		return fmt.Errorf("bridge.cache_size must not be negative, got: %d", cfg.Bridge.CacheSize)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := language.Parse(cfg.Language); err != nil {
		return fmt.Errorf("language %q: %w", cfg.Language, err)
	}
	return nil
}

// Gate returns the visibility gate of the access rules, or nil when there
// are none.
func (c *Config) Gate() members.VisibilityGate {
	g := access.NewGate(c.Access.Allow, c.Access.Deny)
	if g.Empty() {
		return nil
	}
	return g
}

// BridgeOptions maps the configuration onto builder options. host is the
// host type provider consulted by the automatic strategy.
func (c *Config) BridgeOptions(host any, logger *zap.Logger) (members.Options, error) {
	mode, err := members.ParseMode(c.Bridge.Strategy)
	if err != nil {
		return members.Options{}, err
	}
	tag, err := language.Parse(c.Language)
	if err != nil {
		return members.Options{}, err
	}

	opts := members.Options{
		IncludeProtected: c.Bridge.IncludeProtected,
		IncludePrivate:   c.Bridge.IncludePrivate,
		Strategy:         members.SelectStrategy(mode, host),
		Gate:             c.Gate(),
		Language:         tag,
		Logger:           logger,
		CachingDisabled:  !c.Bridge.Caching,
	}
	if c.Bridge.CacheSize > 0 {
		store, err := members.NewLRUStore(c.Bridge.CacheSize)
		if err != nil {
			return members.Options{}, err
		}
		opts.Store = store
	}
	return opts, nil
}
