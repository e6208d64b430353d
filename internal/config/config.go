package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/prabalesh/tasktop/internal/collector"
	"github.com/prabalesh/tasktop/internal/models"
)

// Duration wraps time.Duration for string parsing ("5s", "1m") in both TOML
// and YAML files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config carries runtime options for tasktop.
type Config struct {
	RefreshInterval Duration      `toml:"refresh_interval" yaml:"refresh_interval"`
	CaptureTimeout  Duration      `toml:"capture_timeout" yaml:"capture_timeout"`
	Source          string        `toml:"source" yaml:"source"`
	Locale          string        `toml:"locale" yaml:"locale"`
	LogFile         string        `toml:"log_file" yaml:"log_file"`
	LogLevel        string        `toml:"log_level" yaml:"log_level"`
	Sort            SortConfig    `toml:"sort" yaml:"sort"`
	Exclude         ExcludeConfig `toml:"exclude" yaml:"exclude"`
	Command         CommandConfig `toml:"command" yaml:"command"`
}

type SortConfig struct {
	Key      models.SortKey `toml:"key" yaml:"key"`
	Inverted bool           `toml:"inverted" yaml:"inverted"`
}

// ExcludeConfig hides noisy rows. Prefixes match the start of a row, patterns
// are regular expressions matched anywhere in it.
type ExcludeConfig struct {
	Prefixes []string `toml:"prefixes" yaml:"prefixes"`
	Patterns []string `toml:"patterns" yaml:"patterns"`
}

// CommandConfig overrides the listing and kill commands of the "command"
// source. "{pid}" in Terminate is replaced by the process id.
type CommandConfig struct {
	Capture   []string `toml:"capture" yaml:"capture"`
	Terminate []string `toml:"terminate" yaml:"terminate"`
}

func Default() *Config {
	cfg := &Config{
		RefreshInterval: Duration{5 * time.Second},
		Sort:            SortConfig{Key: models.SortByName},
		Exclude:         ExcludeConfig{Prefixes: []string{"svchost.exe"}},
	}
	setDefaults(cfg)
	return cfg
}

// Load reads a TOML or YAML file, chosen by extension, over the defaults,
// then applies environment overrides. Keys missing from the file keep their
// default; an explicit "0s" refresh_interval disables periodic refresh.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml", "":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults if path is empty or the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, ApplyEnv(cfg)
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		return cfg, ApplyEnv(cfg)
	}
	return cfg, err
}

// DefaultPath is $XDG_CONFIG_HOME/tasktop/config.toml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tasktop", "config.toml")
}

// setDefaults fills string options a file may have left empty.
func setDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = collector.SourceAuto
	}
	if cfg.Locale == "" {
		cfg.Locale = "und"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// ApplyEnv overrides cfg from TASKTOP_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("TASKTOP_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are seconds.
			parsed, err = time.ParseDuration(v + "s")
		}
		if err != nil {
			return fmt.Errorf("TASKTOP_INTERVAL: invalid duration %q", v)
		}
		cfg.RefreshInterval.Duration = parsed
	}
	if v := os.Getenv("TASKTOP_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("TASKTOP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// Validate checks values that cannot be fixed by defaults.
func Validate(cfg *Config) error {
	if cfg.RefreshInterval.Duration < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}
	if cfg.CaptureTimeout.Duration < 0 {
		return fmt.Errorf("capture_timeout must not be negative")
	}
	switch collector.ResolveSource(cfg.Source) {
	case collector.SourceCommand, collector.SourceProcess:
	default:
		return fmt.Errorf("unknown source %q", cfg.Source)
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if len(cfg.Command.Terminate) > 0 && !hasPlaceholder(cfg.Command.Terminate) {
		return fmt.Errorf("command.terminate must contain %s", collector.PIDPlaceholder)
	}
	return nil
}

func hasPlaceholder(args []string) bool {
	for _, arg := range args {
		if strings.Contains(arg, collector.PIDPlaceholder) {
			return true
		}
	}
	return false
}

// LanguageTag returns the collation locale; Validate has already checked it.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}
