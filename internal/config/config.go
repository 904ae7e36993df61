// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/vibecoder-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete vibecoder configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend API configuration
	Backend BackendConfig `toml:"backend"`

	// Development proxy configuration
	Proxy ProxyConfig `toml:"proxy"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Editor mirror configuration
	Workspace WorkspaceConfig `toml:"workspace"`
}

// BackendConfig describes the API the client talks to.
type BackendConfig struct {
	// URL is the backend origin, e.g. http://localhost:8000
	URL string `toml:"url"`
	// APIPrefix is prepended to every endpoint path ("" direct, "/api" via proxy)
	APIPrefix string `toml:"api_prefix"`
	// UserID is sent with every chat request
	UserID string `toml:"user_id"`
	// TimeoutSecs bounds each request; 0 waits indefinitely
	TimeoutSecs int `toml:"timeout_secs"`
}

// ProxyConfig configures `vibecoder proxy`.
type ProxyConfig struct {
	Port           int      `toml:"port"`
	Prefix         string   `toml:"prefix"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// UIConfig contains terminal rendering preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme"`
	// CodeStyle is a chroma style name for the editor pane
	CodeStyle string `toml:"code_style"`
	// ShowTimestamps prints message times in the chat pane
	ShowTimestamps bool `toml:"show_timestamps"`
	// RenderMarkdown renders message content with glamour
	RenderMarkdown bool `toml:"render_markdown"`
}

// WorkspaceConfig controls the on-disk editor mirror.
type WorkspaceConfig struct {
	// Dir is where project folders are created; empty disables mirroring
	Dir string `toml:"dir"`
	// Watch picks up external edits to mirrored files
	Watch bool `toml:"watch"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default values.
const (
	DefaultVersion    = "1"
	DefaultBackendURL = "http://localhost:8000"
	DefaultProxyPort  = 5173
	DefaultPrefix     = "/api"
	DefaultAppID      = "default_app_id"
	DefaultTheme      = "auto"
	DefaultCodeStyle  = "monokai"
	demoUserSuffix    = "_demo_user"
)

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Version: DefaultVersion,
		Backend: BackendConfig{
			URL:         DefaultBackendURL,
			APIPrefix:   "",
			UserID:      DemoUserID(DefaultAppID),
			TimeoutSecs: 0,
		},
		Proxy: ProxyConfig{
			Port:           DefaultProxyPort,
			Prefix:         DefaultPrefix,
			AllowedOrigins: []string{"*"},
		},
		UI: UIConfig{
			Theme:          DefaultTheme,
			CodeStyle:      DefaultCodeStyle,
			ShowTimestamps: true,
			RenderMarkdown: true,
		},
		Workspace: WorkspaceConfig{
			Watch: true,
		},
	}
}

// DemoUserID derives the demo user identifier from an application ID.
func DemoUserID(appID string) string {
	return appID + demoUserSuffix
}

// APIBaseURL is the backend URL with the API prefix applied.
func (c *Config) APIBaseURL() string {
	base := strings.TrimSuffix(c.Backend.URL, "/")
	prefix := strings.Trim(c.Backend.APIPrefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

// Timeout returns the per-request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// ProxyAddr returns the listen address of the development proxy.
func (c *Config) ProxyAddr() string {
	return ":" + strconv.Itoa(c.Proxy.Port)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the vibecoder configuration directory path.
// VIBECODER_HOME overrides the default of ~/.vibecoder.
func ConfigDir() (string, error) {
	if dir := os.Getenv("VIBECODER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibecoder"), nil
}

func pathInConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	return pathInConfigDir("config.toml")
}

// LogPath returns the path of the TUI debug log.
func LogPath() (string, error) {
	return pathInConfigDir("vibecoder.log")
}

// HistoryPath returns the path of the REPL line history.
func HistoryPath() (string, error) {
	return pathInConfigDir("history")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// Load loads configuration from the default config file, falling back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadTOML decodes a TOML file into cfg and fills missing values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Backend
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.Backend.UserID == "" {
		cfg.Backend.UserID = defaults.Backend.UserID
	}

	// Proxy
	if cfg.Proxy.Port == 0 {
		cfg.Proxy.Port = defaults.Proxy.Port
	}
	if cfg.Proxy.Prefix == "" {
		cfg.Proxy.Prefix = defaults.Proxy.Prefix
	}
	if len(cfg.Proxy.AllowedOrigins) == 0 {
		cfg.Proxy.AllowedOrigins = defaults.Proxy.AllowedOrigins
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.CodeStyle == "" {
		cfg.UI.CodeStyle = defaults.UI.CodeStyle
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# vibecoder configuration file\n")
	buf.WriteString("# Environment variables (VIBECODER_*) override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validThemes = map[string]bool{"auto": true, "dark": true, "light": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "backend.url", Message: fmt.Sprintf("must be an http(s) URL, got %q", c.Backend.URL)})
	}
	if c.Backend.APIPrefix != "" && !strings.HasPrefix(c.Backend.APIPrefix, "/") {
		errs = append(errs, ValidationError{Field: "backend.api_prefix", Message: "must start with /"})
	}
	if strings.TrimSpace(c.Backend.UserID) == "" {
		errs = append(errs, ValidationError{Field: "backend.user_id", Message: "must not be empty"})
	}
	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout_secs", Message: "must be >= 0"})
	}

	if c.Proxy.Port < 1 || c.Proxy.Port > 65535 {
		errs = append(errs, ValidationError{Field: "proxy.port", Message: fmt.Sprintf("must be 1-65535, got %d", c.Proxy.Port)})
	}
	if !strings.HasPrefix(c.Proxy.Prefix, "/") || c.Proxy.Prefix == "/" {
		errs = append(errs, ValidationError{Field: "proxy.prefix", Message: "must be a path like /api"})
	}

	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{Field: "ui.theme", Message: fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - VIBECODER_BACKEND_URL / VITE_BACKEND_URL: overrides backend.url
//   - VIBECODER_API_PREFIX: overrides backend.api_prefix
//   - FIREBASE_APP_ID / VITE_FIREBASE_APP_ID: derives backend.user_id
//   - VIBECODER_USER_ID: overrides backend.user_id (wins over the app ID)
//   - VIBECODER_TIMEOUT_SECS: overrides backend.timeout_secs
//   - VIBECODER_FRONTEND_PORT / VITE_FRONTEND_PORT: overrides proxy.port
//   - VIBECODER_WORKSPACE: overrides workspace.dir
//   - VIBECODER_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := firstEnv("VIBECODER_BACKEND_URL", "VITE_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("VIBECODER_API_PREFIX"); v != "" {
		c.Backend.APIPrefix = v
	}
	if v := firstEnv("FIREBASE_APP_ID", "VITE_FIREBASE_APP_ID"); v != "" {
		c.Backend.UserID = DemoUserID(v)
	}
	if v := os.Getenv("VIBECODER_USER_ID"); v != "" {
		c.Backend.UserID = v
	}
	if v := os.Getenv("VIBECODER_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		}
	}
	if v := firstEnv("VIBECODER_FRONTEND_PORT", "VITE_FRONTEND_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Proxy.Port = n
		}
	}
	if v := os.Getenv("VIBECODER_WORKSPACE"); v != "" {
		c.Workspace.Dir = v
	}
	if v := os.Getenv("VIBECODER_THEME"); v != "" {
		c.UI.Theme = v
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value using its TOML key in dot notation (e.g. "backend.url").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value given as a string using dot notation.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", key, err)
		}
		field.SetBool(b)
	case reflect.Slice:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("cannot set %s", key)
	}
	return nil
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := prefix + f.Tag.Get("toml")
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, name+".")
				continue
			}
			keys = append(keys, name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Proxy.AllowedOrigins = append([]string(nil), c.Proxy.AllowedOrigins...)
	return &clone
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
