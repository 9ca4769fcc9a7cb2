package tui

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
)

var colorTag = regexp.MustCompile(`<color=#([0-9A-Fa-f]{6})>(.*?)</color>`)

// RenderMarkup turns <color=#RRGGBB>text</color> spans into terminal colors.
// Anything outside a complete span is written as is.
func RenderMarkup(s string) string {
	var (
		b    strings.Builder
		last int
	)
	for _, m := range colorTag.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		hex, text := s[m[2]:m[3]], s[m[4]:m[5]]
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#" + hex)).Render(text))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
