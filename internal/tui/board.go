package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mdboard-tui/internal/model"
)

// renderBoard draws the columns side by side. Only the active column
// shows a highlighted row; the other columns keep their remembered
// selection without emphasis.
func (m appModel) renderBoard(height int) string {
	if m.board == nil || len(m.board.Columns) == 0 {
		return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center,
			styleMuted.Render(m.emptyBoardMessage()))
	}

	ncols := len(m.board.Columns)
	colWidth := m.contentWidth()/ncols - 2
	if colWidth < 16 {
		colWidth = 16
	}
	innerWidth := colWidth - 2

	rendered := make([]string, 0, ncols)
	for i, col := range m.board.Columns {
		active := i == m.boardCol && m.focus == focusContent

		header := styleTitle.Render(truncate(fmt.Sprintf("%s (%d)", col.DisplayLabel(), len(col.Tasks)), innerWidth))

		lines := []string{header, ""}
		if len(col.Tasks) == 0 {
			lines = append(lines, styleDim.Render("no tasks"))
		}
		selRow := 0
		if i < len(m.boardRows) {
			selRow = m.boardRows[i]
		}
		for j, task := range col.Tasks {
			line := m.renderTaskRow(task, innerWidth, active && j == selRow)
			lines = append(lines, line)
		}

		box := styleColumnBox
		if active {
			box = styleColumnBoxActive
		}
		rendered = append(rendered, box.Width(colWidth).Height(height-2).Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m appModel) renderTaskRow(task model.Task, width int, selected bool) string {
	title := task.Title()
	if task.Meta.Assignee != "" {
		title += "  @" + task.Meta.Assignee
	}
	title = truncate(title, width)
	if selected {
		return styleSelected.Render(title)
	}
	return title
}

func (m appModel) emptyBoardMessage() string {
	if m.connection == connDisconnected {
		return "Disconnected — retrying…"
	}
	return "No columns configured"
}
