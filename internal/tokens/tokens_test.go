package tokens

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTokensValidate(t *testing.T) {
	tok := Default()
	require.NoError(t, tok.Validate())
	assert.Equal(t, "#0071e3", tok.Color("accent"))
	assert.Empty(t, tok.Color("missing"))
}

func TestValidateRejectsBadColor(t *testing.T) {
	tok := Default()
	tok.Colors["accent"] = "blue; background: url(x)"
	assert.Error(t, tok.Validate())
}

func TestValidateRequiresSemanticColors(t *testing.T) {
	tok := Default()
	delete(tok.Colors, "success")
	err := tok.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "success")
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFileMergesOverrides(t *testing.T) {
	path := writeFile(t, `
[colors]
accent = "#ff0000"
brand-dark = "#111111"

[radius]
sm = "4px"

[diagram]
line_color = "#123456"
`)

	tok, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "#ff0000", tok.Color("accent"))
	assert.Equal(t, "#111111", tok.Color("brand-dark"))
	assert.Equal(t, "#1d1d1f", tok.Color("secondary"))
	assert.Equal(t, "4px", tok.Radius["sm"])
	assert.Equal(t, "12px", tok.Radius["md"])
	assert.Equal(t, "#123456", tok.Diagram.LineColor)
	assert.Equal(t, "#f5cbc5", tok.Diagram.PrimaryColor)

	// The defaults must not be mutated by a merge.
	assert.Equal(t, "#0071e3", Default().Color("accent"))
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, `
[colours]
accent = "#ff0000"
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colours")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestVariables(t *testing.T) {
	css := Default().Variables()
	assert.Contains(t, css, "--color-accent: #0071e3;")
	assert.Contains(t, css, "--radius-lg: 18px;")
	assert.Contains(t, css, `--font-sans: -apple-system, BlinkMacSystemFont, "SF Pro Display"`)
}

func TestStylesheetHasComponentClasses(t *testing.T) {
	css := Default().Stylesheet()
	for _, class := range []string{".best-value", ".support-cell", ".comparison-card", ".tab-button.active", ".modal-overlay", ".diagram-error", ".text-text-secondary", ".bg-bg-secondary"} {
		assert.Contains(t, css, class)
	}
}

func TestTailwindConfigGroupsColors(t *testing.T) {
	raw, err := Default().TailwindConfig()
	require.NoError(t, err)

	var cfg struct {
		Theme struct {
			Extend struct {
				Colors       map[string]interface{} `json:"colors"`
				BorderRadius map[string]string      `json:"borderRadius"`
			} `json:"extend"`
		} `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(raw, &cfg))

	colors := cfg.Theme.Extend.Colors
	assert.Equal(t, "#000000", colors["primary"])

	accent, ok := colors["accent"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "#0071e3", accent["DEFAULT"])
	assert.Equal(t, "#bf5af2", accent["purple"])

	bg, ok := colors["bg"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "#f5f5f7", bg["secondary"])

	assert.Equal(t, "18px", cfg.Theme.Extend.BorderRadius["lg"])
}

func TestSwatchesListsEveryColor(t *testing.T) {
	out := Default().Swatches()
	for name := range Default().Colors {
		assert.Contains(t, out, name)
	}
}
