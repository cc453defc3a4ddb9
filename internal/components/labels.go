package components

import (
	"fmt"

	"golang.org/x/text/language"
)

// Labels holds the user-visible strings the components render
type Labels struct {
	FeatureCorner  string
	FullSupport    string
	PartialSupport string
	NoSupport      string
	CoreFeatures   string
	Collapse       string
	expandAll      string
	zoomHint       string
	Close          string
	ZoomIn         string
	ZoomOut        string
	DiagramFailed  string
}

// ExpandAll returns the toggle label for a list of n features
func (l Labels) ExpandAll(n int) string {
	return fmt.Sprintf(l.expandAll, n)
}

// ZoomHint returns the zoom indicator text for a percentage
func (l Labels) ZoomHint(percent int) string {
	return fmt.Sprintf(l.zoomHint, percent)
}

var (
	english = Labels{
		FeatureCorner:  "Features",
		FullSupport:    "Full support",
		PartialSupport: "Partial support",
		NoSupport:      "Not supported",
		CoreFeatures:   "Core features",
		Collapse:       "Show less",
		expandAll:      "View all %d features",
		zoomHint:       "Scroll to zoom %d%%",
		Close:          "Close",
		ZoomIn:         "Zoom in",
		ZoomOut:        "Zoom out",
		DiagramFailed:  "Failed to render diagram",
	}

	chinese = Labels{
		FeatureCorner:  "功能特性",
		FullSupport:    "完全支持",
		PartialSupport: "部分支持",
		NoSupport:      "不支持",
		CoreFeatures:   "核心特性",
		Collapse:       "收起",
		expandAll:      "查看全部 %d 项特性",
		zoomHint:       "滚动缩放 %d%%",
		Close:          "关闭",
		ZoomIn:         "放大",
		ZoomOut:        "缩小",
		DiagramFailed:  "Failed to render diagram",
	}

	supported = []language.Tag{language.English, language.SimplifiedChinese}
	matcher   = language.NewMatcher(supported)
)

// LabelsFor returns the label set that best matches tag, falling back to
// English.
func LabelsFor(tag language.Tag) Labels {
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return english
	}
	if supported[index] == language.SimplifiedChinese {
		return chinese
	}
	return english
}

// ParseLocale parses a BCP 47 tag, returning English for an empty or
// malformed value.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
