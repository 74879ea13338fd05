// ABOUTME: Deterministic transform from assistant reply text to display markup
// ABOUTME: Inline emphasis runs before line-level list detection, order matters

package markup

import (
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile("\\*\\*(.*?)\\*\\*")
	italicRe = regexp.MustCompile("\\*(.*?)\\*")
	codeRe   = regexp.MustCompile("`(.*?)`")
	bulletRe = regexp.MustCompile(`^[•·-]\s+(.+)$`)
	numberRe = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// ToHTML converts a reply to HTML-style markup: bold, emphasis, inline code,
// line breaks, and bullet or numbered lines as list items. Inline transforms
// are applied first so inserted tags never disturb the line-start anchors of
// the list patterns.
func ToHTML(text string) string {
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")
	text = codeRe.ReplaceAllString(text, "<code>$1</code>")

	lines := strings.Split(text, "\n")
	items := make([]bool, len(lines))
	for i, line := range lines {
		switch {
		case bulletRe.MatchString(line):
			lines[i] = bulletRe.ReplaceAllString(line, "<li>$1</li>")
			items[i] = true
		case numberRe.MatchString(line):
			lines[i] = numberRe.ReplaceAllString(line, "<li>$1</li>")
			items[i] = true
		}
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			// list items carry their own separation
			if !items[i] && !items[i-1] {
				sb.WriteString("<br>")
			}
		}
		sb.WriteString(line)
	}
	return sb.String()
}
