package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/conduit-lang/hostbridge/runtime/members"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "hostbridge.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	// No config file: defaults apply
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if !cfg.Bridge.Caching {
		t.Error("expected caching to be enabled by default")
	}
	if cfg.Bridge.Strategy != "auto" {
		t.Errorf("expected default strategy 'auto', got %s", cfg.Bridge.Strategy)
	}
	if cfg.Bridge.IncludePrivate || cfg.Bridge.IncludeProtected {
		t.Error("expected only public members by default")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level 'warn', got %s", cfg.Log.Level)
	}
	if cfg.Language != "en" {
		t.Errorf("expected default language 'en', got %s", cfg.Language)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeConfig(t, dir, `
bridge:
  include_private: true
  strategy: restricted
  cache_size: 64
access:
  allow:
    - example.com/app/
  deny:
    - example.com/app/internal
log:
  level: debug
  development: true
language: de
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !cfg.Bridge.IncludePrivate {
		t.Error("expected include_private to be true")
	}
	if cfg.Bridge.Strategy != "restricted" {
		t.Errorf("expected strategy 'restricted', got %s", cfg.Bridge.Strategy)
	}
	if cfg.Bridge.CacheSize != 64 {
		t.Errorf("expected cache_size 64, got %d", cfg.Bridge.CacheSize)
	}
	if len(cfg.Access.Allow) != 1 || cfg.Access.Allow[0] != "example.com/app/" {
		t.Errorf("unexpected allow list %v", cfg.Access.Allow)
	}
	if !cfg.Log.Development {
		t.Error("expected development logging")
	}
	if cfg.Language != "de" {
		t.Errorf("expected language 'de', got %s", cfg.Language)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bridge:\n  caching: false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Bridge.Caching {
		t.Error("expected caching to be disabled")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "bridge:\n  strategy: restricted\n")
	t.Setenv("HOSTBRIDGE_BRIDGE_STRATEGY", "permissive")
	t.Setenv("HOSTBRIDGE_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Bridge.Strategy != "permissive" {
		t.Errorf("expected env to override strategy, got %s", cfg.Bridge.Strategy)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override log level, got %s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "bridge:\n  strategy: permissive\n", false},
		{"unknown strategy", "bridge:\n  strategy: lax\n", true},
		{"negative cache size", "bridge:\n  cache_size: -1\n", true},
		{"bad log level", "log:\n  level: loud\n", true},
		{"bad language", "language: \"!!\"\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	want := writeConfig(t, root, "language: en\n")

	got, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("expected to find config, got %v", err)
	}
	// t.TempDir may sit behind a symlink; compare resolved paths
	wantResolved, _ := filepath.EvalSymlinks(want)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("expected %s, got %s", wantResolved, gotResolved)
	}
}

func TestBridgeOptions(t *testing.T) {
	cfg := &Config{
		Bridge: BridgeConfig{
			IncludeProtected: true,
			Strategy:         "restricted",
			CacheSize:        8,
		},
		Access:   AccessConfig{Deny: []string{"os"}},
		Log:      LogConfig{Level: "info"},
		Language: "de",
	}

	opts, err := cfg.BridgeOptions(nil, zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !opts.IncludeProtected || opts.IncludePrivate {
		t.Error("unexpected member visibility")
	}
	if opts.Strategy != members.Restricted {
		t.Errorf("expected restricted strategy, got %s", opts.Strategy.Name())
	}
	if !opts.CachingDisabled {
		t.Error("expected caching to be disabled when bridge.caching is false")
	}
	if _, ok := opts.Store.(*members.LRUStore); !ok {
		t.Errorf("expected an LRU store, got %T", opts.Store)
	}
	if opts.Gate == nil || opts.Gate.VisibleToScripts("os.File") {
		t.Error("expected the gate to deny os.File")
	}
	if opts.Language != language.German {
		t.Errorf("expected German, got %s", opts.Language)
	}
}

func TestBridgeOptionsDefaults(t *testing.T) {
	cfg := &Config{Bridge: BridgeConfig{Caching: true}, Language: "en"}

	opts, err := cfg.BridgeOptions(nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.Gate != nil {
		t.Error("expected no gate without access rules")
	}
	if opts.Store != nil {
		t.Error("expected the default store when cache_size is 0")
	}
	if opts.Strategy != members.Permissive {
		t.Errorf("expected the permissive strategy, got %s", opts.Strategy.Name())
	}
}
