// Package config loads showcase settings with Viper from .showcase.yml,
// SHOWCASE_ prefixed environment variables and command-line flags.
//
// Load applies defaults for anything left unset and validates the result
// before any command uses it.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/showcase/internal/validation"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Site        SiteConfig        `mapstructure:"site" yaml:"site"`
	Tokens      TokensConfig      `mapstructure:"tokens" yaml:"tokens"`
	Build       BuildConfig       `mapstructure:"build" yaml:"build"`
	Diagram     DiagramConfig     `mapstructure:"diagram" yaml:"diagram"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Environment    string   `mapstructure:"environment" yaml:"environment"`
}

type SiteConfig struct {
	Fixtures string `mapstructure:"fixtures" yaml:"fixtures"`
	Locale   string `mapstructure:"locale" yaml:"locale"`
	Title    string `mapstructure:"title" yaml:"title"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
}

type TokensConfig struct {
	// File is an optional TOML file merged over the default tokens.
	File string `mapstructure:"file" yaml:"file"`
}

type BuildConfig struct {
	Output string `mapstructure:"output" yaml:"output"`
	Clean  bool   `mapstructure:"clean" yaml:"clean"`
}

type DiagramConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type DevelopmentConfig struct {
	HotReload bool `mapstructure:"hot_reload" yaml:"hot_reload"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.open", false)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.environment", "development")
	v.SetDefault("site.fixtures", "fixtures")
	v.SetDefault("site.locale", "en")
	v.SetDefault("site.title", "Showcase")
	v.SetDefault("site.base_url", "/")
	v.SetDefault("tokens.file", "")
	v.SetDefault("build.output", "dist")
	v.SetDefault("build.clean", false)
	v.SetDefault("diagram.enabled", true)
	v.SetDefault("development.hot_reload", true)
}

// Load unmarshals the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v, filling in defaults for unset keys.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// viper leaves an explicitly empty slice as nil
	if config.Server.AllowedOrigins == nil {
		config.Server.AllowedOrigins = []string{}
	}
	if !strings.HasSuffix(config.Site.BaseURL, "/") {
		config.Site.BaseURL += "/"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr is the listen address of the preview server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validatePath(config.Site.Fixtures); err != nil {
		return fmt.Errorf("site config: invalid fixtures path '%s': %w", config.Site.Fixtures, err)
	}

	if config.Tokens.File != "" {
		if err := validatePath(config.Tokens.File); err != nil {
			return fmt.Errorf("tokens config: invalid file '%s': %w", config.Tokens.File, err)
		}
	}

	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// 0 lets the OS pick a port in tests
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	switch config.Environment {
	case "", "development", "production":
	default:
		return fmt.Errorf("unknown environment %q", config.Environment)
	}

	return nil
}

func validateBuildConfig(config *BuildConfig) error {
	if config.Output == "" {
		return fmt.Errorf("output directory is required")
	}

	cleanPath := filepath.Clean(config.Output)
	if cleanPath == "." || cleanPath == "/" {
		return fmt.Errorf("output must be a subdirectory: %s", config.Output)
	}
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("output contains path traversal: %s", config.Output)
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	return validation.ValidatePath(path)
}
