// ABOUTME: Renders reply markup as styled terminal text
// ABOUTME: Translates strong/em/code/br/li tags into lipgloss-styled output

package markup

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	strongStyle = lipgloss.NewStyle().Bold(true)
	emStyle     = lipgloss.NewStyle().Italic(true)
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE"))

	strongTagRe = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emTagRe     = regexp.MustCompile(`<em>(.*?)</em>`)
	codeTagRe   = regexp.MustCompile("<code>(.*?)</code>")
	liTagRe     = regexp.MustCompile(`<li>(.*?)</li>`)
	tagRe       = regexp.MustCompile(`</?[a-z][^>]*>`)
)

// Render converts markup produced by ToHTML into terminal text.
func Render(markup string) string {
	out := liTagRe.ReplaceAllString(markup, "\n  • $1")
	out = strings.ReplaceAll(out, "<br>", "\n")

	out = replaceStyled(out, strongTagRe, strongStyle)
	out = replaceStyled(out, emTagRe, emStyle)
	out = replaceStyled(out, codeTagRe, codeStyle)

	// Anything left over is markup we do not style
	out = tagRe.ReplaceAllString(out, "")
	return strings.TrimPrefix(out, "\n")
}

// RenderText is the full text-to-terminal pipeline for one reply.
func RenderText(text string) string {
	return Render(ToHTML(text))
}

func replaceStyled(s string, re *regexp.Regexp, style lipgloss.Style) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		inner := re.FindStringSubmatch(match)[1]
		return style.Render(inner)
	})
}
