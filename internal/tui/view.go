package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	header := m.renderHeader()
	status := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	var body string
	switch {
	case m.overlay != nil:
		body = m.renderOverlay(bodyHeight)
	case m.loading:
		body = lipgloss.Place(m.contentWidth(), bodyHeight, lipgloss.Center, lipgloss.Center,
			styleMuted.Render("Loading…"))
	default:
		switch m.view {
		case viewBoard:
			body = m.renderBoard(bodyHeight)
		case viewPrompts:
			body = m.renderResourceList(m.prompts, m.promptIdx, bodyHeight)
		case viewDocuments:
			body = m.renderResourceList(m.documents, m.documentIdx, bodyHeight)
		case viewActivity:
			body = m.renderActivity(bodyHeight)
		}
	}

	return strings.Join([]string{header, body, status}, "\n")
}

func (m appModel) contentWidth() int {
	if m.width < 40 {
		return 40
	}
	return m.width
}

// renderHeader draws the product name plus numbered view tabs. While
// the tab bar holds focus the active tab is rendered reversed so the
// cursor position is visible.
func (m appModel) renderHeader() string {
	tabFocused := m.focus == focusTabBar && m.overlay == nil

	parts := []string{styleTitle.Render(" mdboard ")}
	for i, v := range allViews {
		label := fmt.Sprintf(" %d %s ", i+1, v.label())
		switch {
		case v == m.view && tabFocused:
			parts = append(parts, styleTabFocused.Render(label))
		case v == m.view:
			parts = append(parts, styleTabActive.Render(label))
		default:
			parts = append(parts, styleTabIdle.Render(label))
		}
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	rule := styleMuted.Render(strings.Repeat("─", m.contentWidth()))
	return line + "\n" + rule
}

func (m appModel) renderStatusBar() string {
	left := " "
	if m.version != nil {
		left += m.version.Project
		if m.version.Version != "" {
			left += " v" + m.version.Version
		}
	}

	conn := connectionStyle(m.connection).Render("● " + m.connection.String())
	segments := []string{left, conn}

	if !m.lastSync.IsZero() {
		segments = append(segments, styleDim.Render("synced "+relativeTime(m.lastSync)))
	}
	if m.notice != "" {
		segments = append(segments, styleDim.Render(truncate(m.notice, 48)))
	}

	hints := styleMuted.Render(m.contextHints())
	bar := strings.Join(segments, styleMuted.Render("  │  "))

	gap := m.contentWidth() - xansi.StringWidth(bar) - xansi.StringWidth(hints) - 1
	if gap < 1 {
		gap = 1
	}
	return bar + strings.Repeat(" ", gap) + hints
}

func (m appModel) contextHints() string {
	switch {
	case m.overlay != nil:
		if _, ok := m.overlay.(*resourceOverlay); ok {
			return "j/k scroll  [/] revisions  esc close"
		}
		return "j/k scroll  esc close"
	case m.focus == focusTabBar:
		return "h/l switch  enter select"
	default:
		return "1-4 views  enter open  ? help  q quit"
	}
}

func truncate(s string, w int) string {
	if w <= 1 || xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// relativeMtime renders an activity entry's unix mtime.
func relativeMtime(mtime float64) string {
	if mtime <= 0 {
		return ""
	}
	return relativeTime(time.Unix(int64(mtime), 0))
}
