package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal
// backgrounds, so colors are adaptive pairs and "faint" styling is only
// applied on dark backgrounds (faint on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorDim     lipgloss.TerminalColor = ac("245", "240")
	colorPrimary lipgloss.TerminalColor = ac("235", "252")
	colorAccent  lipgloss.TerminalColor = ac("26", "39")
	colorScope   lipgloss.TerminalColor = ac("97", "140")
	colorBorder  lipgloss.TerminalColor = ac("250", "238")
	colorOK      lipgloss.TerminalColor = ac("28", "40")
	colorWarn    lipgloss.TerminalColor = ac("130", "214")
	colorBad     lipgloss.TerminalColor = ac("124", "203")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleDim   = faintIfDark(lipgloss.NewStyle().Foreground(colorDim))
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleScope = lipgloss.NewStyle().Foreground(colorScope)

	styleTabActive = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleTabIdle   = lipgloss.NewStyle().Foreground(colorMuted)
	// Tab under the cursor while the tab bar holds focus.
	styleTabFocused = lipgloss.NewStyle().Bold(true).Reverse(true)

	styleSelected = lipgloss.NewStyle().Bold(true).Reverse(true)

	styleColumnBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	styleColumnBoxActive = styleColumnBox.
				BorderForeground(colorAccent)

	styleOverlayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

// applyColorProfilePreference sets Lip Gloss's color profile before the
// program starts. Only NO_COLOR disables colors; otherwise the terminal's
// advertised capabilities win over termenv's probe, which can under-report
// on terminals that answer color queries slowly or not at all.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

func connectionStyle(c connState) lipgloss.Style {
	switch c {
	case connConnected:
		return lipgloss.NewStyle().Foreground(colorOK)
	case connDisconnected:
		return lipgloss.NewStyle().Foreground(colorBad)
	}
	return lipgloss.NewStyle().Foreground(colorWarn)
}
