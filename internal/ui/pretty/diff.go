package pretty

import (
	"strings"
)

// FormatDiff colors a unified diff line by line.
func (s *Styles) FormatDiff(text string) string {
	var builder strings.Builder

	for line := range strings.Lines(text) {
		body, newline := strings.CutSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = s.Bold.Render(body)
		case strings.HasPrefix(body, "@@"):
			body = s.Shortcut.Render(body)
		case strings.HasPrefix(body, "+"):
			body = s.Success.Render(body)
		case strings.HasPrefix(body, "-"):
			body = s.Error.Render(body)
		}
		builder.WriteString(body)
		if newline {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
