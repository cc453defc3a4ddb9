package tokens

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Variables renders the token set as CSS custom properties on :root
func (t Tokens) Variables() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range sortedKeys(t.Colors) {
		fmt.Fprintf(&b, "  --color-%s: %s;\n", name, t.Colors[name])
	}
	fmt.Fprintf(&b, "  --font-sans: %s;\n", fontStack(t.Fonts.Sans))
	fmt.Fprintf(&b, "  --font-mono: %s;\n", fontStack(t.Fonts.Mono))
	for _, name := range sortedKeys(t.Spacing) {
		fmt.Fprintf(&b, "  --space-%s: %s;\n", name, t.Spacing[name])
	}
	for _, name := range sortedKeys(t.Radius) {
		fmt.Fprintf(&b, "  --radius-%s: %s;\n", name, t.Radius[name])
	}
	for _, name := range sortedKeys(t.Shadow) {
		fmt.Fprintf(&b, "  --shadow-%s: %s;\n", name, t.Shadow[name])
	}
	for _, name := range sortedKeys(t.Prose) {
		fmt.Fprintf(&b, "  --prose-%s: %s;\n", name, t.Prose[name])
	}
	b.WriteString("}\n")
	return b.String()
}

// Utilities renders one semantic utility class per color token:
// text-<name>, bg-<name> and border-<name>.
func (t Tokens) Utilities() string {
	var b strings.Builder
	for _, name := range sortedKeys(t.Colors) {
		fmt.Fprintf(&b, ".%s { color: var(--color-%s); }\n", utilityName("text", name), name)
		fmt.Fprintf(&b, ".%s { background-color: var(--color-%s); }\n", utilityName("bg", name), name)
		fmt.Fprintf(&b, ".%s { border-color: var(--color-%s); }\n", utilityName("border", name), name)
	}
	return b.String()
}

// utilityName keeps tailwind's naming, so bg-primary yields bg-bg-primary
// and text-secondary yields text-text-secondary.
func utilityName(prefix, name string) string {
	return prefix + "-" + name
}

// Stylesheet returns the complete stylesheet: variables, utilities and the
// component classes.
func (t Tokens) Stylesheet() string {
	return t.Variables() + "\n" + t.Utilities() + "\n" + componentCSS
}

func fontStack(fonts []string) string {
	quoted := make([]string, 0, len(fonts))
	for _, f := range fonts {
		if strings.ContainsRune(f, ' ') {
			quoted = append(quoted, fmt.Sprintf("%q", f))
			continue
		}
		quoted = append(quoted, f)
	}
	return strings.Join(quoted, ", ")
}

// TailwindConfig returns the theme.extend section of a tailwind config as
// JSON. Dashed color names are grouped, so accent and accent-purple become
// accent.DEFAULT and accent.purple.
func (t Tokens) TailwindConfig() ([]byte, error) {
	extend := map[string]interface{}{
		"colors": groupColors(t.Colors),
		"fontFamily": map[string][]string{
			"sans": t.Fonts.Sans,
			"mono": t.Fonts.Mono,
		},
		"spacing":      t.Spacing,
		"borderRadius": t.Radius,
		"boxShadow":    t.Shadow,
		"typography": map[string]interface{}{
			"DEFAULT": map[string]interface{}{
				"css": proseCSS(t.Prose),
			},
		},
	}
	return json.MarshalIndent(map[string]interface{}{
		"theme": map[string]interface{}{"extend": extend},
	}, "", "  ")
}

func groupColors(colors map[string]string) map[string]interface{} {
	grouped := make(map[string]interface{})
	groups := make(map[string]map[string]string)

	for _, name := range sortedKeys(colors) {
		group, shade, dashed := strings.Cut(name, "-")
		if !dashed {
			continue
		}
		if groups[group] == nil {
			groups[group] = make(map[string]string)
		}
		groups[group][shade] = colors[name]
	}

	for _, name := range sortedKeys(colors) {
		if strings.Contains(name, "-") {
			continue
		}
		if g, ok := groups[name]; ok {
			g["DEFAULT"] = colors[name]
			continue
		}
		grouped[name] = colors[name]
	}
	for group, shades := range groups {
		grouped[group] = shades
	}
	return grouped
}

func proseCSS(prose map[string]string) map[string]interface{} {
	css := map[string]interface{}{"maxWidth": "none"}
	for _, key := range []string{"body", "headings", "links", "bold", "code", "quotes"} {
		if v, ok := prose[key]; ok {
			css["--tw-prose-"+key] = v
		}
	}
	if v, ok := prose["links"]; ok {
		a := map[string]interface{}{"color": v}
		if hover, ok := prose["links-hover"]; ok {
			a["&:hover"] = map[string]string{"color": hover}
		}
		css["a"] = a
	}
	if v, ok := prose["code"]; ok {
		css["code"] = map[string]string{
			"color":           v,
			"backgroundColor": prose["code-bg"],
			"padding":         "0.2rem 0.4rem",
			"borderRadius":    "0.25rem",
			"fontWeight":      "600",
		}
	}
	if v, ok := prose["pre-bg"]; ok {
		css["pre"] = map[string]string{
			"backgroundColor": v,
			"border":          "1px solid " + prose["pre-border"],
		}
	}
	if v, ok := prose["h2-border"]; ok {
		css["h2"] = map[string]string{
			"fontWeight":    "700",
			"borderBottom":  "2px solid " + v,
			"paddingBottom": "0.5rem",
		}
	}
	return css
}

const componentCSS = `body { margin: 0; font-family: var(--font-sans); color: var(--color-text-primary); background: var(--color-bg-primary); }
.container-custom { max-width: 72rem; margin: 0 auto; padding: 0 1.5rem; }
.section { padding: 2rem 0; }
.section-text { color: var(--color-text-secondary); }

@keyframes entrance { from { opacity: 0; transform: translateY(20px); } to { opacity: 1; transform: none; } }
@keyframes fade-in { from { opacity: 0; } to { opacity: 1; } }
.animate-entrance { animation: entrance 0.5s ease-out both; }
.animate-fade-in { animation: fade-in 0.5s ease-out both; }

.page-header { padding: 4rem 0; border-bottom: 1px solid #e5e5e5; }
.page-header-title { font-size: 3rem; font-weight: 700; margin: 0 0 1rem; }
.page-header-subtitle { font-size: 1.25rem; margin: 0 0 1.5rem; }
.page-header-actions { display: flex; flex-wrap: wrap; gap: 1rem; }

.comparison-table-wrapper { overflow-x: auto; border-radius: var(--radius-md); box-shadow: var(--shadow-sm); }
.comparison-table { width: 100%; border-collapse: collapse; }
.comparison-table th { background: var(--color-bg-secondary); text-align: left; padding: 0.75rem 1rem; }
.comparison-table th.sortable { cursor: pointer; }
.comparison-table th.sorted { color: var(--color-accent); }
.comparison-table th a { color: inherit; text-decoration: none; }
.comparison-table td { padding: 0.75rem 1rem; border-top: 1px solid var(--color-bg-secondary); }
.comparison-table td.center { text-align: center; }
.comparison-table td.right { text-align: right; }
.comparison-table td.best-value { color: var(--color-success); font-weight: 600; }
.th-content { display: flex; align-items: center; gap: 0.5rem; }
.sort-icon { color: var(--color-text-secondary); }
.interactive-row:hover, tr.highlighted { background: var(--color-bg-tertiary); }

.feature-grid-container { overflow-x: auto; }
.feature-grid-header, .feature-grid-row { display: flex; }
.feature-grid-cell { flex: 1; padding: 0.75rem; border-bottom: 1px solid var(--color-bg-secondary); }
.feature-grid-cell.header-cell { font-weight: 600; background: var(--color-bg-secondary); }
.feature-grid-row:hover, .feature-grid-row.selected { background: var(--color-bg-tertiary); }
.feature-description { color: var(--color-text-secondary); font-size: 0.875rem; }
.support-cell { text-align: center; }
.supported { color: var(--color-success); }
.partial { color: var(--color-warning); }
.not-supported { color: var(--color-error); }
.support-note { display: block; font-size: 0.75rem; color: var(--color-text-secondary); }
.feature-grid-legend { display: flex; gap: 1.5rem; margin-top: 1rem; }

.comparison-card { border-radius: var(--radius-lg); box-shadow: var(--shadow-md); padding: 1.5rem; border-top: 4px solid var(--card-color, var(--color-accent)); }
.comparison-card.highlight { box-shadow: var(--shadow-lg); }
.comparison-card-logo { font-size: 2rem; }
.comparison-card-tagline { color: var(--color-text-secondary); }
.comparison-card-metrics { display: grid; grid-template-columns: repeat(2, 1fr); gap: 0.5rem; }
.metric-label { display: block; color: var(--color-text-secondary); font-size: 0.75rem; }
.metric-value { font-weight: 600; }
.comparison-card-features ul { list-style: none; padding: 0; }
.feature-icon { color: var(--card-color, var(--color-accent)); margin-right: 0.5rem; }
.comparison-card-toggle { display: inline-block; color: var(--color-accent); }

.tab-comparison-header { display: flex; gap: 0.5rem; border-bottom: 1px solid var(--color-bg-secondary); }
.tab-button { padding: 0.5rem 1rem; color: var(--color-text-secondary); text-decoration: none; border-bottom: 2px solid transparent; }
.tab-button.active { color: var(--tab-color, var(--color-accent)); border-bottom-color: var(--tab-color, var(--color-accent)); }
.tab-icon { margin-right: 0.25rem; }
.tab-comparison-content { padding: 1.5rem 0; }

.modal-overlay { position: fixed; inset: 0; background: rgba(0, 0, 0, 0.75); display: flex; align-items: center; justify-content: center; z-index: 50; }
.modal-content { position: relative; background: var(--color-bg-primary); border-radius: var(--radius-lg); max-width: 90vw; max-height: 90vh; overflow: hidden; }
.modal-close { position: absolute; top: 0.75rem; right: 0.75rem; color: var(--color-text-primary); }
.modal-zoom-indicator { position: absolute; top: 0.75rem; left: 0.75rem; color: var(--color-text-secondary); font-size: 0.875rem; }
.modal-zoom-controls { position: absolute; bottom: 0.75rem; left: 0.75rem; display: flex; gap: 0.5rem; }
.modal-body { overflow: auto; max-height: 90vh; padding: 3rem 1rem 1rem; }
.modal-trigger { cursor: zoom-in; }

.diagram { display: flex; justify-content: center; align-items: center; }
.diagram-error { padding: 1rem; border: 1px solid var(--color-error); border-radius: var(--radius-sm); color: var(--color-error); }
.diagram-source { overflow-x: auto; padding: 1rem; background: var(--color-bg-secondary); border-radius: var(--radius-sm); }

.fixture-list { list-style: none; padding: 0; }
.fixture-list li { padding: 0.75rem 0; border-bottom: 1px solid var(--color-bg-secondary); }
.section-error { padding: 1rem; border-left: 4px solid var(--color-error); color: var(--color-error); }
.error-overlay { margin: 1rem 0; padding: 1rem 1.5rem; border-radius: var(--radius-md); background: #fff1f0; color: var(--color-error); }
.error-time { color: var(--color-text-secondary); font-family: var(--font-mono); }
`
