package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// bannerRule is drawn under the banner when the terminal is wide enough.
const bannerRule = "─"

// wideThreshold is the minimum terminal width for the ruled banner.
const wideThreshold = 60

// RenderBanner returns the run banner ("🔄 syncgit · <repo>") centered for width.
// Narrow or unknown widths get the plain line without a rule.
func RenderBanner(repoName string, width int) string {
	text := "🔄 syncgit"
	if repoName != "" {
		text += " · " + repoName
	}
	styled := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(text)
	if width < wideThreshold {
		return styled
	}

	line := centerText(styled, text, width)
	ruleWidth := runewidth.StringWidth(text) + 4
	rule := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat(bannerRule, ruleWidth))
	return line + "\n" + centerText(rule, strings.Repeat(bannerRule, ruleWidth), width)
}

// centerText centers styled text using the display width of original, the
// same text without ANSI codes. Emoji count as two cells.
func centerText(styled, original string, totalWidth int) string {
	textWidth := runewidth.StringWidth(original)
	if totalWidth <= 0 || textWidth >= totalWidth {
		return styled
	}
	padding := (totalWidth - textWidth) / 2
	if padding <= 0 {
		return styled
	}
	return strings.Repeat(" ", padding) + styled
}

// GetTerminalWidth returns the current terminal width, or 0 when stdout is
// not a terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
