// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gemchat.
//
// Configuration file location:
//   - $GEMCHAT_HOME/config.toml, or ~/.gemchat/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gemchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemchat configuration.
type Config struct {
	// DataDir holds conversations, the theme preference, the log file and
	// the REPL history. Empty means the config directory.
	DataDir string `toml:"data_dir" json:"data_dir"`

	Storage    StorageConfig    `toml:"storage" json:"storage"`
	Completion CompletionConfig `toml:"completion" json:"completion"`
	UI         UIConfig         `toml:"ui" json:"ui"`
	History    HistoryConfig    `toml:"history" json:"history"`
	Logging    LoggingConfig    `toml:"logging" json:"logging"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend"`
}

// CompletionConfig selects and tunes the reply backend.
type CompletionConfig struct {
	// Backend is "simulator", "gemini" or "openai".
	Backend string `toml:"backend" json:"backend"`

	APIKey     string   `toml:"api_key" json:"api_key"`
	BaseURL    string   `toml:"base_url" json:"base_url"`
	Model      string   `toml:"model" json:"model"`
	Timeout    Duration `toml:"timeout" json:"timeout"`
	MaxRetries int      `toml:"max_retries" json:"max_retries"`

	// Simulator tuning.
	MinDelay          Duration `toml:"min_delay" json:"min_delay"`
	MaxDelay          Duration `toml:"max_delay" json:"max_delay"`
	RequestsPerMinute float64  `toml:"requests_per_minute" json:"requests_per_minute"`
	Burst             int      `toml:"burst" json:"burst"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is the default when no preference has been stored yet.
	Theme string `toml:"theme" json:"theme"`

	SidebarWidth   int      `toml:"sidebar_width" json:"sidebar_width"`
	BannerDuration Duration `toml:"banner_duration" json:"banner_duration"`
	ShowSidebar    bool     `toml:"show_sidebar" json:"show_sidebar"`
}

// HistoryConfig bounds stored conversation history.
type HistoryConfig struct {
	// MaxMessages caps messages per conversation. 0 = unlimited.
	MaxMessages int `toml:"max_messages" json:"max_messages"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`

	// File is relative to DataDir unless absolute.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration written as a string ("1.5s") in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText parses "5s", "1m30s", or a bare number of seconds.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText writes the duration in Go notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
		},
		Completion: CompletionConfig{
			Backend:           "simulator",
			Timeout:           Duration{60 * time.Second},
			MaxRetries:        2,
			MinDelay:          Duration{1 * time.Second},
			MaxDelay:          Duration{2 * time.Second},
			RequestsPerMinute: 0,
			Burst:             1,
		},
		UI: UIConfig{
			Theme:          "dark",
			SidebarWidth:   28,
			BannerDuration: Duration{5 * time.Second},
			ShowSidebar:    true,
		},
		History: HistoryConfig{
			MaxMessages: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "gemchat.log",
		},
	}
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}

	if cfg.Completion.Backend == "" {
		cfg.Completion.Backend = defaults.Completion.Backend
	}
	if cfg.Completion.Timeout.Duration == 0 {
		cfg.Completion.Timeout = defaults.Completion.Timeout
	}
	if cfg.Completion.Burst == 0 {
		cfg.Completion.Burst = defaults.Completion.Burst
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.SidebarWidth == 0 {
		cfg.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if cfg.UI.BannerDuration.Duration == 0 {
		cfg.UI.BannerDuration = defaults.UI.BannerDuration
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaults.Logging.File
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the gemchat configuration directory: $GEMCHAT_HOME when set,
// otherwise ~/.gemchat.
func Dir() (string, error) {
	if home := os.Getenv("GEMCHAT_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemchat"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolveDataDir returns DataDir, defaulting to the config directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return expandHome(c.DataDir), nil
	}
	return Dir()
}

// LogPath returns the absolute log file path.
func (c *Config) LogPath() (string, error) {
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Logging.File), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file at path (the default location when path is
// empty). A missing file yields the defaults. Environment overrides are
// applied last, then the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := PathTOML()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg and fills missing values with defaults.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// SaveTOML writes cfg to path with owner-only permissions.
// SECURITY: the file may contain an API key.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# gemchat configuration file\n")
	buf.WriteString("# Durations use Go notation: \"1.5s\", \"2m\".\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	clone := *c
	if clone.Completion.APIKey != "" {
		clone.Completion.APIKey = fmt.Sprintf("[REDACTED, length=%d]", len(c.Completion.APIKey))
	}
	return &clone
}

// String renders the redacted config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	switch strings.ToLower(c.Completion.Backend) {
	case "simulator", "gemini", "openai":
	default:
		errs = append(errs, ValidationError{
			Field:   "completion.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: simulator, gemini, openai", c.Completion.Backend),
		})
	}

	if c.Completion.BaseURL != "" {
		if u, err := url.Parse(c.Completion.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "completion.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Completion.BaseURL),
			})
		}
	}

	if c.Completion.MinDelay.Duration < 0 || c.Completion.MaxDelay.Duration < 0 {
		errs = append(errs, ValidationError{Field: "completion.min_delay", Message: "delays cannot be negative"})
	}
	if c.Completion.MaxDelay.Duration < c.Completion.MinDelay.Duration {
		errs = append(errs, ValidationError{
			Field:   "completion.max_delay",
			Message: fmt.Sprintf("max_delay %s is below min_delay %s", c.Completion.MaxDelay, c.Completion.MinDelay),
		})
	}
	if c.Completion.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "completion.requests_per_minute", Message: "cannot be negative"})
	}
	if c.Completion.MaxRetries < 0 || c.Completion.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "completion.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.Completion.MaxRetries),
		})
	}

	if t := strings.ToLower(c.UI.Theme); t != "dark" && t != "light" {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be dark or light", c.UI.Theme),
		})
	}
	if c.UI.SidebarWidth < 12 || c.UI.SidebarWidth > 80 {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: fmt.Sprintf("must be 12-80, got %d", c.UI.SidebarWidth),
		})
	}
	if c.UI.BannerDuration.Duration <= 0 {
		errs = append(errs, ValidationError{Field: "ui.banner_duration", Message: "must be positive"})
	}

	if c.History.MaxMessages < 0 {
		errs = append(errs, ValidationError{Field: "history.max_messages", Message: "cannot be negative"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, disabled", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies GEMCHAT_* environment variables. Provider keys
// GEMINI_API_KEY and OPENAI_API_KEY fill the API key for their backend when
// none is configured.
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("GEMCHAT_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if backend := os.Getenv("GEMCHAT_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}
	if backend := os.Getenv("GEMCHAT_BACKEND"); backend != "" {
		c.Completion.Backend = backend
	}
	if model := os.Getenv("GEMCHAT_MODEL"); model != "" {
		c.Completion.Model = model
	}
	if baseURL := os.Getenv("GEMCHAT_BASE_URL"); baseURL != "" {
		c.Completion.BaseURL = baseURL
	}
	if key := os.Getenv("GEMCHAT_API_KEY"); key != "" {
		c.Completion.APIKey = key
	}
	if theme := os.Getenv("GEMCHAT_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	if level := os.Getenv("GEMCHAT_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if c.Completion.APIKey == "" {
		switch strings.ToLower(c.Completion.Backend) {
		case "gemini":
			c.Completion.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			c.Completion.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}
