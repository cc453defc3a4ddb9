package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"no commit", BuildInfo{Version: "dev", GitCommit: "unknown"}, "dev"},
		{"short commit", BuildInfo{Version: "v1.2.0", GitCommit: "abc"}, "v1.2.0"},
		{"full commit", BuildInfo{Version: "v1.2.0", GitCommit: "0123456789abcdef"}, "v1.2.0 (0123456)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Short())
		})
	}
}

func TestString(t *testing.T) {
	info := BuildInfo{
		Version:   "v0.3.0",
		GitCommit: "deadbeef",
		Dirty:     true,
		BuildTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}
	out := info.String()
	assert.Contains(t, out, "Version: v0.3.0")
	assert.Contains(t, out, "Commit: deadbeef (dirty)")
	assert.Contains(t, out, "Built: 2025-01-02T03:04:05Z")
	assert.Contains(t, out, "Platform: linux/amd64")
}

func TestIsRelease(t *testing.T) {
	assert.False(t, BuildInfo{Version: "dev"}.IsRelease())
	assert.False(t, BuildInfo{Version: "dev-abc1234"}.IsRelease())
	assert.True(t, BuildInfo{Version: "v1.0.0"}.IsRelease())
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("garbage").IsZero())
	assert.Equal(t, 2024, parseTime("2024-05-06T07:08:09Z").Year())
	assert.Equal(t, 6, parseTime("2024-05-06 07:08:09").Day())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
