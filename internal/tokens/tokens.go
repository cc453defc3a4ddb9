// Package tokens defines the design-token set shared by every component:
// named colors, font stacks, spacing, radii, shadows, prose typography and
// the diagram theme.
//
// Components never embed literal style values. They reference the semantic
// class names emitted by Stylesheet, so a different token set can be swapped
// in by loading an override file without touching component code.
package tokens

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Tokens is a complete design-token set
type Tokens struct {
	Colors  map[string]string `toml:"colors" json:"colors"`
	Fonts   Fonts             `toml:"fonts" json:"fonts"`
	Spacing map[string]string `toml:"spacing" json:"spacing"`
	Radius  map[string]string `toml:"radius" json:"radius"`
	Shadow  map[string]string `toml:"shadow" json:"shadow"`
	Prose   map[string]string `toml:"prose" json:"prose"`
	Diagram DiagramTheme      `toml:"diagram" json:"diagram"`
}

// Fonts holds the font-family stacks
type Fonts struct {
	Sans []string `toml:"sans" json:"sans"`
	Mono []string `toml:"mono" json:"mono"`
}

// DiagramTheme configures the diagram engine's default node, edge and graph
// attributes.
type DiagramTheme struct {
	PrimaryColor       string  `toml:"primary_color" json:"primary_color"`
	PrimaryTextColor   string  `toml:"primary_text_color" json:"primary_text_color"`
	PrimaryBorderColor string  `toml:"primary_border_color" json:"primary_border_color"`
	SecondaryColor     string  `toml:"secondary_color" json:"secondary_color"`
	ClusterBackground  string  `toml:"cluster_background" json:"cluster_background"`
	ClusterBorder      string  `toml:"cluster_border" json:"cluster_border"`
	LineColor          string  `toml:"line_color" json:"line_color"`
	Background         string  `toml:"background" json:"background"`
	FontFamily         string  `toml:"font_family" json:"font_family"`
	FontSize           float64 `toml:"font_size" json:"font_size"`
	NodeSpacing        float64 `toml:"node_spacing" json:"node_spacing"`
	RankSpacing        float64 `toml:"rank_spacing" json:"rank_spacing"`
}

// Default returns the site's stock token set
func Default() Tokens {
	return Tokens{
		Colors: map[string]string{
			"primary":        "#000000",
			"secondary":      "#1d1d1f",
			"accent":         "#0071e3",
			"accent-purple":  "#bf5af2",
			"accent-pink":    "#ff2d55",
			"accent-orange":  "#ff9500",
			"bg-primary":     "#ffffff",
			"bg-secondary":   "#f5f5f7",
			"bg-tertiary":    "#fbfbfd",
			"text-primary":   "#1d1d1f",
			"text-secondary": "#86868b",
			"text-tertiary":  "#6e6e73",
			"success":        "#34c759",
			"warning":        "#ff9500",
			"error":          "#ff3b30",
		},
		Fonts: Fonts{
			Sans: []string{"-apple-system", "BlinkMacSystemFont", "SF Pro Display", "SF Pro Text", "Helvetica Neue", "sans-serif"},
			Mono: []string{"SF Mono", "Menlo", "Monaco", "Courier New", "monospace"},
		},
		Spacing: map[string]string{
			"18":  "4.5rem",
			"88":  "22rem",
			"112": "28rem",
			"128": "32rem",
		},
		Radius: map[string]string{
			"sm": "8px",
			"md": "12px",
			"lg": "18px",
			"xl": "24px",
		},
		Shadow: map[string]string{
			"sm": "0 1px 3px rgba(0, 0, 0, 0.06)",
			"md": "0 4px 12px rgba(0, 0, 0, 0.08)",
			"lg": "0 12px 32px rgba(0, 0, 0, 0.12)",
			"xl": "0 24px 48px rgba(0, 0, 0, 0.16)",
		},
		Prose: map[string]string{
			"body":        "#1d1d1f",
			"headings":    "#1d1d1f",
			"links":       "#0071e3",
			"links-hover": "#bf5af2",
			"bold":        "#1d1d1f",
			"code":        "#0071e3",
			"code-bg":     "#f5f5f7",
			"quotes":      "#86868b",
			"pre-bg":      "#f5f5f7",
			"pre-border":  "#e5e5e5",
			"h2-border":   "#0071e3",
		},
		Diagram: DiagramTheme{
			PrimaryColor:       "#f5cbc5",
			PrimaryTextColor:   "#1d1d1f",
			PrimaryBorderColor: "#b3272c",
			SecondaryColor:     "#d3f9b5",
			ClusterBackground:  "#f5cbc5",
			ClusterBorder:      "#b3272c",
			LineColor:          "#772d8b",
			Background:         "transparent",
			FontFamily:         "Helvetica Neue",
			FontSize:           16,
			NodeSpacing:        0.8,
			RankSpacing:        0.8,
		},
	}
}

// Color returns the named color, or the empty string when undefined
func (t Tokens) Color(name string) string {
	return t.Colors[name]
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|rgba?\([0-9., %]+\)|transparent)$`)

// Validate checks that every color is a literal CSS color and that the
// semantic colors the components depend on are present.
func (t Tokens) Validate() error {
	for _, name := range sortedKeys(t.Colors) {
		if !colorPattern.MatchString(t.Colors[name]) {
			return fmt.Errorf("color %q: invalid value %q", name, t.Colors[name])
		}
	}
	for _, name := range requiredColors {
		if _, ok := t.Colors[name]; !ok {
			return fmt.Errorf("missing required color %q", name)
		}
	}
	for _, name := range []string{t.Diagram.PrimaryColor, t.Diagram.LineColor} {
		if name != "" && !colorPattern.MatchString(name) {
			return fmt.Errorf("diagram color: invalid value %q", name)
		}
	}
	return nil
}

var requiredColors = []string{"primary", "accent", "bg-primary", "bg-secondary", "text-primary", "text-secondary", "success", "warning", "error"}

// LoadFile reads a TOML override file and merges it onto the defaults.
// Keys the file does not mention keep their default values.
func LoadFile(path string) (Tokens, error) {
	base := Default()

	var overlay Tokens
	md, err := toml.DecodeFile(path, &overlay)
	if err != nil {
		return base, fmt.Errorf("decoding tokens %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return base, fmt.Errorf("unknown token keys in %s: %s", path, strings.Join(keys, ", "))
	}

	merged := base.merge(overlay)
	if err := merged.Validate(); err != nil {
		return base, fmt.Errorf("tokens %s: %w", path, err)
	}
	return merged, nil
}

func (t Tokens) merge(o Tokens) Tokens {
	out := t.clone()
	maps.Copy(out.Colors, o.Colors)
	maps.Copy(out.Spacing, o.Spacing)
	maps.Copy(out.Radius, o.Radius)
	maps.Copy(out.Shadow, o.Shadow)
	maps.Copy(out.Prose, o.Prose)
	if len(o.Fonts.Sans) > 0 {
		out.Fonts.Sans = slices.Clone(o.Fonts.Sans)
	}
	if len(o.Fonts.Mono) > 0 {
		out.Fonts.Mono = slices.Clone(o.Fonts.Mono)
	}
	out.Diagram = mergeDiagram(out.Diagram, o.Diagram)
	return out
}

func mergeDiagram(base, o DiagramTheme) DiagramTheme {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&base.PrimaryColor, o.PrimaryColor)
	pick(&base.PrimaryTextColor, o.PrimaryTextColor)
	pick(&base.PrimaryBorderColor, o.PrimaryBorderColor)
	pick(&base.SecondaryColor, o.SecondaryColor)
	pick(&base.ClusterBackground, o.ClusterBackground)
	pick(&base.ClusterBorder, o.ClusterBorder)
	pick(&base.LineColor, o.LineColor)
	pick(&base.Background, o.Background)
	pick(&base.FontFamily, o.FontFamily)
	if o.FontSize > 0 {
		base.FontSize = o.FontSize
	}
	if o.NodeSpacing > 0 {
		base.NodeSpacing = o.NodeSpacing
	}
	if o.RankSpacing > 0 {
		base.RankSpacing = o.RankSpacing
	}
	return base
}

func (t Tokens) clone() Tokens {
	return Tokens{
		Colors:  maps.Clone(t.Colors),
		Fonts:   Fonts{Sans: slices.Clone(t.Fonts.Sans), Mono: slices.Clone(t.Fonts.Mono)},
		Spacing: maps.Clone(t.Spacing),
		Radius:  maps.Clone(t.Radius),
		Shadow:  maps.Clone(t.Shadow),
		Prose:   maps.Clone(t.Prose),
		Diagram: t.Diagram,
	}
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
