//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/viper"
)

func validBase() *Config {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestServerConfigProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("port validation", prop.ForAll(
		func(port int) bool {
			cfg := validBase()
			cfg.Server.Port = port
			err := validateConfig(cfg)
			if port >= 0 && port <= 65535 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-1000, 70000),
	))

	properties.Property("host validation", prop.ForAll(
		func(host string) bool {
			cfg := validBase()
			cfg.Server.Host = host
			err := validateConfig(cfg)
			if strings.ContainsAny(host, ";|&`$()<>\"'\\") {
				return err != nil
			}
			return err == nil
		},
		gen.OneConstOf("localhost", "127.0.0.1", "0.0.0.0", "", "host;rm -rf /", "a|b", "example.com"),
	))

	properties.TestingRun(t)
}

func TestPathProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("plain relative paths are accepted", prop.ForAll(
		func(path string) bool {
			return validatePath(path) == nil
		},
		gen.RegexMatch(`^[a-z][a-z0-9_/]{0,20}$`),
	))

	properties.Property("traversal is always rejected", prop.ForAll(
		func(suffix string) bool {
			return validatePath("../"+suffix) != nil
		},
		gen.RegexMatch(`^[a-z]{0,10}$`),
	))

	properties.Property("path validation is deterministic", prop.ForAll(
		func(path string) bool {
			a := validatePath(path) == nil
			b := validatePath(path) == nil
			return a == b
		},
		gen.OneConstOf("./fixtures", "../fixtures", "/etc/passwd", "fixtures", ".", ""),
	))

	properties.TestingRun(t)
}
