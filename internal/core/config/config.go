// Package config provides the NexusFlow configuration loader.
// Config is loaded by merging nexusflow.yaml → ~/.nexusflow/config.yaml → NEXUSFLOW_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the project config file discovered by walking up from the CWD.
const FileName = "nexusflow.yaml"

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"log.level":           "info",
	"log.format":          "text",
	"log.file":            "",
	"check.parallel":      false,
	"check.repeat":        1,
	"check.shuffle":       false,
	"check.seed":          int64(0),
	"state.path":          "",
	"state.history_limit": 100,
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded configuration.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Check CheckConfig `mapstructure:"check"`
	State StateConfig `mapstructure:"state"`

	// Source is the project config file that was merged, if any.
	Source string `mapstructure:"-"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// CheckConfig holds the default self-check scheduling options.
type CheckConfig struct {
	Parallel bool  `mapstructure:"parallel"`
	Repeat   int   `mapstructure:"repeat"`
	Shuffle  bool  `mapstructure:"shuffle"`
	Seed     int64 `mapstructure:"seed"`
}

// StateConfig locates the check-run journal.
type StateConfig struct {
	Path         string `mapstructure:"path"`          // defaults to ~/.nexusflow/state.db
	HistoryLimit int    `mapstructure:"history_limit"` // 0 keeps everything
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load merges defaults, the global config, the project config and the
// environment. An explicitPath that cannot be read is an error; a missing
// discovered file is not.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// NEXUSFLOW_CHECK_REPEAT → check.repeat
	v.SetEnvPrefix("NEXUSFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	globalCfg := filepath.Join(Home(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	source := explicitPath
	if source == "" {
		if path, err := discoverProjectConfig(); err == nil {
			source = path
		}
	}
	if source != "" {
		v.SetConfigFile(source)
		if err := v.MergeInConfig(); err != nil {
			if explicitPath != "" {
				return nil, fmt.Errorf("read project config %q: %w", explicitPath, err)
			}
			source = ""
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Source = source
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
	cfg.State.Path = os.ExpandEnv(cfg.State.Path)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// StatePath returns the journal path, falling back to ~/.nexusflow/state.db.
func (c *Config) StatePath() string {
	if c.State.Path != "" {
		return c.State.Path
	}
	return filepath.Join(Home(), "state.db")
}

// LogFile returns the log file path, falling back to ~/.nexusflow/logs/nexusflow.log.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(Home(), "logs", "nexusflow.log")
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// discoverProjectConfig walks up from the CWD looking for nexusflow.yaml.
func discoverProjectConfig() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := start; ; {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found (searched up from %s)", FileName, start)
}

func validate(cfg *Config) error {
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	if cfg.Check.Repeat < 1 {
		return fmt.Errorf("check.repeat must be at least 1, got %d", cfg.Check.Repeat)
	}
	if cfg.State.HistoryLimit < 0 {
		return fmt.Errorf("state.history_limit must not be negative, got %d", cfg.State.HistoryLimit)
	}
	return nil
}

// Home returns the NexusFlow home directory. NEXUSFLOW_HOME overrides ~/.nexusflow.
func Home() string {
	if h := os.Getenv("NEXUSFLOW_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexusflow"
	}
	return filepath.Join(home, ".nexusflow")
}

// DefaultConfigTemplate is the content written by `nexusflow init`.
const DefaultConfigTemplate = `# nexusflow.yaml
log:
  level: info     # debug | info | warn | error
  format: text    # text | json
  # file: ~/.nexusflow/logs/nexusflow.log

check:
  parallel: false
  repeat: 1
  shuffle: false
  # seed: 42

state:
  # path: ~/.nexusflow/state.db
  history_limit: 100
`
