package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mdboard-tui/internal/model"
)

// renderResourceList draws the prompts or documents view: one row per
// resource with title, revision, freshest date, and scope chips.
func (m appModel) renderResourceList(resources []model.Resource, selected, height int) string {
	if len(resources) == 0 {
		return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center,
			styleMuted.Render("Nothing here yet"))
	}

	width := m.contentWidth() - 2
	lines := make([]string, 0, len(resources))
	for i, res := range resources {
		plain := []string{res.Title()}
		if res.Meta.Revision != nil {
			plain = append(plain, fmt.Sprintf("rev:%d", *res.Meta.Revision))
		}
		if date := resourceDate(res.Meta); date != "" {
			plain = append(plain, date)
		}
		for _, scope := range firstN(res.Meta.Scopes, 3) {
			plain = append(plain, "["+scope+"]")
		}

		var line string
		if i == selected && m.focus == focusContent {
			line = styleSelected.Render(truncate(strings.Join(plain, "  "), width))
		} else {
			styled := []string{plain[0]}
			for _, extra := range plain[1:] {
				if strings.HasPrefix(extra, "[") {
					styled = append(styled, styleScope.Render(extra))
				} else {
					styled = append(styled, styleDim.Render(extra))
				}
			}
			line = truncate(strings.Join(styled, "  "), width)
		}
		lines = append(lines, " "+line)
	}

	return clipLines(lines, selected, height)
}

// resourceDate prefers the updated timestamp, falling back to created.
func resourceDate(meta model.ResourceMeta) string {
	if meta.Updated != "" {
		return meta.Updated
	}
	return meta.Created
}

func (m appModel) renderActivity(height int) string {
	if len(m.activity) == 0 {
		return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center,
			styleMuted.Render("No recent activity"))
	}

	width := m.contentWidth() - 2
	lines := make([]string, 0, len(m.activity))
	for i, entry := range m.activity {
		tag := styleScope.Render(fmt.Sprintf("%-8s", entry.Type))
		title := entry.Title
		if title == "" {
			title = entry.Filename
		}
		if title == "" {
			title = entry.DirName
		}

		var line string
		if i == m.activityIdx && m.focus == focusContent {
			plain := []string{fmt.Sprintf("%-8s", entry.Type), title}
			if entry.Revision != nil {
				plain = append(plain, fmt.Sprintf("rev:%d", *entry.Revision))
			}
			if rel := relativeMtime(entry.Mtime); rel != "" {
				plain = append(plain, rel)
			}
			line = styleSelected.Render(truncate(strings.Join(plain, "  "), width))
		} else {
			parts := []string{tag, title}
			if entry.Revision != nil {
				parts = append(parts, styleDim.Render(fmt.Sprintf("rev:%d", *entry.Revision)))
			}
			if rel := relativeMtime(entry.Mtime); rel != "" {
				parts = append(parts, styleDim.Render(rel))
			}
			line = truncate(strings.Join(parts, "  "), width)
		}
		lines = append(lines, " "+line)
	}

	return clipLines(lines, m.activityIdx, height)
}

// clipLines windows a list of rows to the viewport height, keeping the
// selected row visible.
func clipLines(lines []string, selected, height int) string {
	if height < 1 {
		height = 1
	}
	if len(lines) <= height {
		return strings.Join(lines, "\n")
	}

	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return strings.Join(lines[start:start+height], "\n")
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
