// Package config loads the clump configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clump-cli/internal/logging"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingServer   = errors.New("server.url is required (set it in config.yaml, CLUMP_SERVER or --server)")
	ErrInvalidServer   = errors.New("server.url must be an absolute http(s) URL")
	ErrInvalidTimeout  = errors.New("server.timeout must be non-negative")
	ErrInvalidFormat   = errors.New("output.format must be 'json' or 'yaml'")
	ErrInvalidGlyphSet = errors.New("tui.glyphs must be 'unicode' or 'ascii'")
)

const (
	DefaultSessionCookie = "session"
	DefaultFormat        = "json"
)

// Config is the on-disk configuration (config.yaml).
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Output OutputConfig `json:"output" yaml:"output"`
	TUI    TUIConfig    `json:"tui" yaml:"tui"`
	State  StateConfig  `json:"state" yaml:"state"`
}

// ServerConfig points the client at the events web application.
type ServerConfig struct {
	URL string `json:"url" yaml:"url"`
	// Session is the value of the server's session cookie for a logged-in user.
	// Empty means browse anonymously.
	Session       string `json:"session,omitempty" yaml:"session,omitempty"`
	SessionCookie string `json:"session_cookie,omitempty" yaml:"session_cookie,omitempty"`
	// Timeout bounds each request. Zero disables the bound.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// File receives TUI logs. Defaults to clump.log in the config dir.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Pretty bool   `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

type TUIConfig struct {
	Glyphs string `json:"glyphs,omitempty" yaml:"glyphs,omitempty"`
	// Theme forces "light" or "dark"; empty follows the terminal.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// StateConfig locates the local SQLite database holding the action journal
// and the TUI's last position.
type StateConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// Disabled turns off the journal and state restore.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Dir returns the config directory: $CLUMP_CONFIG_DIR or ~/.clump.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CLUMP_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clump"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns a config with defaults applied and no server.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path. A missing file is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes cfg to path, creating the directory. The file may hold a
// session cookie, so it is written owner-only.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *Config) applyDefaults() {
	if c.Server.SessionCookie == "" {
		c.Server.SessionCookie = DefaultSessionCookie
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
}

// ApplyEnv overlays CLUMP_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CLUMP_SERVER")); v != "" {
		c.Server.URL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("CLUMP_SESSION")); v != "" {
		c.Server.Session = v
	}
	if v := strings.TrimSpace(os.Getenv("CLUMP_FORMAT")); v != "" {
		c.Output.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("CLUMP_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CLUMP_TUI_GLYPHS")); v != "" && c.TUI.Glyphs == "" {
		c.TUI.Glyphs = v
	}
}

// LogFile returns the configured log file or the default under Dir.
func (c *Config) LogFile() (string, error) {
	if strings.TrimSpace(c.Log.File) != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "clump.log"), nil
}

// StateFile returns the configured state database or the default under Dir.
func (c *Config) StateFile() (string, error) {
	if strings.TrimSpace(c.State.File) != "" {
		return c.State.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "clump.sqlite"), nil
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return ErrMissingServer
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidServer
	}
	if c.Server.Timeout < 0 {
		return ErrInvalidTimeout
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return ErrInvalidFormat
	}
	switch strings.ToLower(c.TUI.Glyphs) {
	case "", "unicode", "utf8", "ascii":
	default:
		return ErrInvalidGlyphSet
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
