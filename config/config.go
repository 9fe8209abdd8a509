// Package config resolves sage's configuration from YAML files and the
// environment. Precedence, lowest to highest: defaults, the user file at
// ~/.config/sage/config.yaml, .sage.yaml at the repository root, SAGE_*
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	AI      AIConfig      `koanf:"ai"`
	Push    PushConfig    `koanf:"push"`
	Journal JournalConfig `koanf:"journal"`
}

type AIConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type PushConfig struct {
	DefaultRemote string `koanf:"default_remote"`
}

type JournalConfig struct {
	Ceiling int `koanf:"ceiling"`
}

// Enabled reports whether AI message generation is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// Load resolves the configuration for the working copy at repoPath.
// Missing config files are fine; the environment always wins.
func Load(repoPath string) (*Config, error) {
	k := koanf.New(".")

	if home, err := os.UserHomeDir(); err == nil {
		loadFileIfExists(k, filepath.Join(home, ".config", "sage", "config.yaml"))
	}
	loadFileIfExists(k, filepath.Join(repoPath, ".sage.yaml"))

	// SAGE_AI_MODEL -> ai.model, SAGE_PUSH_DEFAULT_REMOTE -> push.default_remote.
	// Only the first underscore becomes a delimiter; the rest belong to the key.
	if err := k.Load(env.Provider("SAGE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SAGE_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	if !k.Exists("ai.model") {
		k.Set("ai.model", "gpt-4o-mini")
	}
	if !k.Exists("push.default_remote") {
		k.Set("push.default_remote", "origin")
	}
	if !k.Exists("journal.ceiling") {
		k.Set("journal.ceiling", 10000)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	// Ignore parse failures of optional files rather than blocking every
	// command; the config command surfaces the resolved values.
	_ = k.Load(file.Provider(path), yaml.Parser())
}
