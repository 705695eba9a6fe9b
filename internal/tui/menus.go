package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is the number of characters to leave between
	// menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the minimum usable width for menu content.
	MinMenuWidth = 40

	// DefaultMenuWidth is used when the terminal width is unknown.
	DefaultMenuWidth = 100
)

// ErrMenuCanceled is returned when the user aborts a prompt with Esc or Ctrl+C.
var ErrMenuCanceled = syncerrors.ErrMenuCanceled

// MenuConfig holds configuration for menu components.
type MenuConfig struct {
	// Width is the maximum width for the menu. If 0, adapts to terminal width.
	Width int
	// Accessible enables accessible mode for screen readers.
	Accessible bool
}

// NewMenuConfig creates a MenuConfig, enabling accessible mode when the
// ACCESSIBLE environment variable is set.
func NewMenuConfig() *MenuConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &MenuConfig{
		Width:      DefaultMenuWidth,
		Accessible: accessible,
	}
}

// adaptWidth returns maxWidth clamped to the terminal, leaving a margin.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultMenuWidth
		}
		return maxWidth
	}

	availableWidth := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < availableWidth {
		return maxWidth
	}
	if availableWidth < MinMenuWidth {
		return MinMenuWidth
	}
	return availableWidth
}

// runForm runs a single-field form. Without a terminal on stdin the form
// would block forever, so it reports ErrMenuCanceled instead.
func runForm(field huh.Field, cfg *MenuConfig, errorContext string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrMenuCanceled
	}

	CheckNoColor()

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(SyncgitTheme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(true)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// SyncgitTheme returns a Huh theme using the colors from styles.go.
func SyncgitTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)

	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)

	return t
}

// Confirm presents a yes/no prompt preset to defaultYes.
func Confirm(message string, defaultYes bool, cfg *MenuConfig) (bool, error) {
	confirmed := defaultYes

	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runForm(field, cfg, "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Input presents a single-line text prompt.
func Input(prompt string, cfg *MenuConfig) (string, error) {
	var value string

	field := huh.NewInput().
		Title(prompt).
		Value(&value)

	if err := runForm(field, cfg, "input prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}
