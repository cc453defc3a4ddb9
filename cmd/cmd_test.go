package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/showcase/internal/config"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/logging"
	"github.com/conneroisu/showcase/internal/tokens"
	"github.com/conneroisu/showcase/internal/version"
)

const plans = `
title: Hosting plans
description: Compare the big three
sections:
  - id: intro
    kind: header
    header: {title: Plans}
  - id: plans
    kind: table
    table:
      columns: [{key: provider}, {key: price, type: number}]
      rows: [{provider: Vercel, price: 20}]
  - id: more
    kind: table
    table:
      columns: [{key: provider}]
      rows: []
`

func fixtureDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func loadStore(t *testing.T, dir string) *fixtures.Store {
	t.Helper()
	store := fixtures.NewStore(dir)
	require.NoError(t, store.Reload())
	return store
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	valid := []string{"table", "json", "yaml"}

	assert.NoError(t, ValidateFormatWithSuggestion("json", valid))

	err := ValidateFormatWithSuggestion("js", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"`)

	err = ValidateFormatWithSuggestion("csv", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table, json, yaml")
}

func TestCollectList(t *testing.T) {
	dir := fixtureDir(t, map[string]string{"plans.yml": plans, "broken.yml": "title: ["})
	out := collectList(loadStore(t, dir))

	require.Len(t, out.Fixtures, 1)
	e := out.Fixtures[0]
	assert.Equal(t, "plans", e.Name)
	assert.Equal(t, 3, e.Sections)
	assert.Equal(t, []string{"header", "table"}, e.Kinds)

	require.Len(t, out.Failures, 1)
	assert.Equal(t, "broken.yml", out.Failures[0].File)
}

func TestWriteList(t *testing.T) {
	dir := fixtureDir(t, map[string]string{"plans.yml": plans})
	out := collectList(loadStore(t, dir))

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, out, "json"))
		var decoded listOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, out.Fixtures, decoded.Fixtures)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, out, "yaml"))
		var decoded listOutput
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "Hosting plans", decoded.Fixtures[0].Title)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, out, "table"))
		assert.Contains(t, buf.String(), "Hosting plans")
		assert.Contains(t, buf.String(), "header, table")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, listOutput{}, "table"))
		assert.Contains(t, buf.String(), "No fixtures found.")
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, writeList(&bytes.Buffer{}, out, "csv"))
	})
}

func TestWriteTokens(t *testing.T) {
	tok := tokens.Default()

	var css bytes.Buffer
	require.NoError(t, writeTokens(&css, tok, "css", false))
	assert.Contains(t, css.String(), ":root {")

	var tailwind bytes.Buffer
	require.NoError(t, writeTokens(&tailwind, tok, "tailwind", false))
	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal(tailwind.Bytes(), &cfg))

	var swatches bytes.Buffer
	require.NoError(t, writeTokens(&swatches, tok, "css", true))
	assert.Contains(t, swatches.String(), "accent")

	assert.Error(t, writeTokens(&bytes.Buffer{}, tok, "scss", false))
}

func TestLoadTokens(t *testing.T) {
	tok, err := loadTokens(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, tokens.Default().Color("accent"), tok.Color("accent"))

	path := filepath.Join(t.TempDir(), "tokens.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colors]\naccent = \"#abcdef\"\n"), 0o644))
	tok, err = loadTokens(&config.Config{Tokens: config.TokensConfig{File: path}})
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", tok.Color("accent"))
}

func TestWriteVersion(t *testing.T) {
	info := version.BuildInfo{Version: "v1.2.0", GitCommit: "0123456789abcdef", GoVersion: "go1.24", Platform: "linux/amd64"}

	var short bytes.Buffer
	require.NoError(t, writeVersion(&short, info, "text", true))
	assert.Equal(t, "v1.2.0 (0123456)\n", short.String())

	var js bytes.Buffer
	require.NoError(t, writeVersion(&js, info, "json", false))
	assert.Contains(t, js.String(), `"version": "v1.2.0"`)

	assert.Error(t, writeVersion(&bytes.Buffer{}, info, "xml", false))
}

func buildConfig(t *testing.T, fixtures string) *config.Config {
	return &config.Config{
		Site:  config.SiteConfig{Fixtures: fixtures, Title: "Showcase", BaseURL: "/", Locale: "en"},
		Build: config.BuildConfig{Output: filepath.Join(t.TempDir(), "dist")},
	}
}

func testCommand(out *bytes.Buffer) *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(out)
	return c
}

func TestBuildSite(t *testing.T) {
	cfg := buildConfig(t, fixtureDir(t, map[string]string{"plans.yml": plans}))

	var out bytes.Buffer
	require.NoError(t, buildSite(testCommand(&out), cfg, logging.Discard()))

	assert.FileExists(t, filepath.Join(cfg.Build.Output, "plans.html"))
	assert.FileExists(t, filepath.Join(cfg.Build.Output, "index.html"))
	assert.Contains(t, out.String(), "Hosting plans · Showcase")
	assert.Contains(t, out.String(), "1 page(s)")
}

func TestBuildSiteReportsFailures(t *testing.T) {
	cfg := buildConfig(t, fixtureDir(t, map[string]string{"plans.yml": plans, "broken.yml": "title: ["}))

	err := buildSite(testCommand(&bytes.Buffer{}), cfg, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 fixture(s) failed")
	assert.Contains(t, err.Error(), "broken.yml")
	assert.FileExists(t, filepath.Join(cfg.Build.Output, "plans.html"))
}

func TestBuildSiteMissingFixtures(t *testing.T) {
	cfg := buildConfig(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, buildSite(testCommand(&bytes.Buffer{}), cfg, logging.Discard()))
}

func TestNoReloadFlag(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	c := &cobra.Command{}
	AddStandardFlags(c, "server")
	require.NoError(t, c.Flags().Parse([]string{"--no-reload"}))

	assert.False(t, viper.GetBool("development.hot_reload"))
}

func TestNewLogger(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("log-level", "debug")
	viper.Set("log-format", "json")
	logger, err := newLogger(testCommand(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.NotNil(t, logger)

	viper.Set("log-level", "loud")
	_, err = newLogger(testCommand(&bytes.Buffer{}))
	assert.Error(t, err)

	viper.Set("log-level", "info")
	viper.Set("log-format", "xml")
	_, err = newLogger(testCommand(&bytes.Buffer{}))
	assert.Error(t, err)
}
