package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderOverlay draws the open modal centered over the content area.
// The scroll offset is clipped to the rendered content height here, so
// the reducer's "jump to bottom" sentinel lands on the last page.
func (m appModel) renderOverlay(height int) string {
	boxWidth := m.contentWidth() * 8 / 10
	if boxWidth < 40 {
		boxWidth = 40
	}
	boxHeight := height * 9 / 10
	if boxHeight < 6 {
		boxHeight = 6
	}
	innerWidth := boxWidth - 6
	innerHeight := boxHeight - 4

	var content string
	switch o := m.overlay.(type) {
	case *taskOverlay:
		content = m.renderTaskOverlay(o, innerWidth, innerHeight)
	case *resourceOverlay:
		content = m.renderResourceOverlay(o, innerWidth, innerHeight)
	case *helpOverlay:
		content = m.renderHelpOverlay(o, innerWidth, innerHeight)
	default:
		return ""
	}

	box := styleOverlayBox.Width(boxWidth).Render(content)
	return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) renderTaskOverlay(o *taskOverlay, width, height int) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(truncate(o.task.Title(), width)))
	b.WriteString("\n")

	meta := make([]string, 0, 6)
	if o.task.Column != "" {
		meta = append(meta, "column:"+o.task.Column)
	}
	if o.task.Meta.Assignee != "" {
		meta = append(meta, "assignee:"+o.task.Meta.Assignee)
	}
	if o.task.Meta.Due != "" {
		meta = append(meta, "due:"+o.task.Meta.Due)
	}
	if o.task.Meta.Branch != "" {
		meta = append(meta, "branch:"+o.task.Meta.Branch)
	}
	if o.task.Meta.Created != "" {
		meta = append(meta, "created:"+o.task.Meta.Created)
	}
	if o.task.Meta.Completed != "" {
		meta = append(meta, "completed:"+o.task.Meta.Completed)
	}
	if len(meta) > 0 {
		b.WriteString(styleDim.Render(truncate(strings.Join(meta, "  "), width)))
		b.WriteString("\n")
	}
	for _, scope := range o.task.Meta.Scopes {
		b.WriteString(styleScope.Render("[" + scope + "] "))
	}
	b.WriteString("\n\n")

	b.WriteString(renderMarkdown(o.task.Body, width))

	if len(o.comments) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleTitle.Render(fmt.Sprintf("Comments (%d)", len(o.comments))))
		for _, c := range o.comments {
			b.WriteString("\n\n")
			header := c.Meta.Author
			if c.Meta.Created != "" {
				header += "  " + c.Meta.Created
			}
			b.WriteString(styleMuted.Render(truncate(header, width)))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(c.Body, width))
		}
	}

	return scrollWindow(b.String(), o.scroll, height)
}

func (m appModel) renderResourceOverlay(o *resourceOverlay, width, height int) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(truncate(o.kind.Label()+": "+o.resource.Title(), width)))
	b.WriteString("\n")

	meta := make([]string, 0, 3)
	if o.resource.Meta.Revision != nil {
		meta = append(meta, fmt.Sprintf("rev:%d", *o.resource.Meta.Revision))
	}
	if o.resource.Meta.Created != "" {
		meta = append(meta, "created:"+o.resource.Meta.Created)
	}
	if o.resource.Meta.Updated != "" {
		meta = append(meta, "updated:"+o.resource.Meta.Updated)
	}
	if len(meta) > 0 {
		b.WriteString(styleDim.Render(truncate(strings.Join(meta, "  "), width)))
		b.WriteString("\n")
	}
	for _, scope := range o.resource.Meta.Scopes {
		b.WriteString(styleScope.Render("[" + scope + "] "))
	}
	b.WriteString("\n")

	// Banner while a historical revision is displayed.
	if o.rev >= 0 && o.rev < len(o.revisions) {
		banner := fmt.Sprintf("viewing revision %d of %d — ] newer  [ older", o.rev+1, len(o.revisions))
		b.WriteString("\n")
		b.WriteString(connectionStyle(connConnecting).Render(truncate(banner, width)))
		b.WriteString("\n")
	} else if len(o.revisions) > 0 {
		b.WriteString("\n")
		b.WriteString(styleDim.Render(fmt.Sprintf("current version — %d stored revisions, [ to browse", len(o.revisions))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderMarkdown(o.body(), width))

	return scrollWindow(b.String(), o.scroll, height)
}

func (m appModel) renderHelpOverlay(o *helpOverlay, width, height int) string {
	k := m.keys
	rows := []struct{ keys, desc string }{
		{"1-4", "switch view"},
		{"tab / shift+tab", "cycle views"},
		{k.Up.Help().Key + " / " + k.Down.Help().Key, "move selection"},
		{k.Left.Help().Key + " / " + k.Right.Help().Key, "switch board column"},
		{"g / G", "first / last"},
		{"enter / space", "open detail"},
		{"r", "refresh current view"},
		{"ctrl+d / ctrl+u", "page overlay"},
		{"[ / ]", "older / newer revision"},
		{"esc", "close overlay"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", row.keys, styleMuted.Render(row.desc)))
	}
	return scrollWindow(strings.TrimRight(b.String(), "\n"), o.scroll, height)
}

// scrollWindow clips rendered content to the viewport, offset by the
// overlay scroll position. Out-of-range offsets (including the bottom
// sentinel) clamp to the last page; the reducer never needs to know
// the content height.
func scrollWindow(content string, scroll, height int) string {
	lines := strings.Split(content, "\n")
	if height < 1 {
		height = 1
	}
	if len(lines) <= height {
		return content
	}

	maxScroll := len(lines) - height
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return strings.Join(lines[scroll:scroll+height], "\n")
}
