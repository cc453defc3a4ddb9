package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "fixtures", cfg.Site.Fixtures)
	assert.Equal(t, "en", cfg.Site.Locale)
	assert.Equal(t, "/", cfg.Site.BaseURL)
	assert.Equal(t, "dist", cfg.Build.Output)
	assert.True(t, cfg.Diagram.Enabled)
	assert.True(t, cfg.Development.HotReload)
	assert.NotNil(t, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(v *viper.Viper)
		check  func(t *testing.T, cfg *Config)
		errMsg string
	}{
		{
			name: "custom server",
			setup: func(v *viper.Viper) {
				v.Set("server.port", 3000)
				v.Set("server.host", "0.0.0.0")
				v.Set("server.allowed_origins", []string{"http://localhost:3000"})
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
			},
		},
		{
			name:  "base url gets trailing slash",
			setup: func(v *viper.Viper) { v.Set("site.base_url", "/docs") },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/docs/", cfg.Site.BaseURL)
			},
		},
		{
			name:  "hot reload off",
			setup: func(v *viper.Viper) { v.Set("development.hot_reload", false) },
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Development.HotReload)
			},
		},
		{
			name:   "invalid port type",
			setup:  func(v *viper.Viper) { v.Set("server.port", "invalid_port") },
			errMsg: "",
		},
		{
			name:   "port out of range",
			setup:  func(v *viper.Viper) { v.Set("server.port", 70000) },
			errMsg: "not in valid range",
		},
		{
			name:   "dangerous host",
			setup:  func(v *viper.Viper) { v.Set("server.host", "localhost;rm") },
			errMsg: "dangerous character",
		},
		{
			name:   "unknown environment",
			setup:  func(v *viper.Viper) { v.Set("server.environment", "staging") },
			errMsg: "unknown environment",
		},
		{
			name:   "fixtures traversal",
			setup:  func(v *viper.Viper) { v.Set("site.fixtures", "../secrets") },
			errMsg: "traversal",
		},
		{
			name:   "output is cwd",
			setup:  func(v *viper.Viper) { v.Set("build.output", ".") },
			errMsg: "subdirectory",
		},
		{
			name:   "tokens file traversal",
			setup:  func(v *viper.Viper) { v.Set("tokens.file", "../../tokens.toml") },
			errMsg: "traversal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v)

			cfg, err := LoadFrom(v)
			if tt.check == nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".showcase.yml")
	content := `server:
  port: 9090
  environment: production
site:
  locale: zh-CN
  title: 对比
tokens:
  file: tokens.toml
build:
  output: public
  clean: true
diagram:
  enabled: false
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "zh-CN", cfg.Site.Locale)
	assert.Equal(t, "对比", cfg.Site.Title)
	assert.Equal(t, "tokens.toml", cfg.Tokens.File)
	assert.Equal(t, "public", cfg.Build.Output)
	assert.True(t, cfg.Build.Clean)
	assert.False(t, cfg.Diagram.Enabled)
}

func TestLoadUsesGlobalViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("server.port", 4000)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}
