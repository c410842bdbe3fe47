package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mdboard-tui/internal/model"
)

const pageScroll = 15

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Refresh   key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	First  key.Binding
	Last   key.Binding
	Select key.Binding

	Close    key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	OlderRev key.Binding
	NewerRev key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh view")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Left:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		Right:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		First:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first")),
		Last:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),

		Close:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
		PageDown: key.NewBinding(key.WithKeys("ctrl+d", " "), key.WithHelp("ctrl+d", "page down")),
		PageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "page up")),
		OlderRev: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "older revision")),
		NewerRev: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "newer revision")),
	}
}

// handleKey routes one key press to exactly one handler. Priority:
// quit, then an open overlay (which captures everything), then global
// keys, then the tab bar, then the active view.
func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.overlay != nil {
		m.handleOverlayKey(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.String() == "1":
		m.view = viewBoard
		m.focus = focusContent
		return m, nil
	case msg.String() == "2":
		m.view = viewPrompts
		m.focus = focusContent
		return m, nil
	case msg.String() == "3":
		m.view = viewDocuments
		m.focus = focusContent
		return m, nil
	case msg.String() == "4":
		m.view = viewActivity
		m.focus = focusContent
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.overlay = &helpOverlay{}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.refreshCurrentView()
		return m, nil
	}

	if m.focus == focusTabBar {
		m.handleTabBarKey(msg)
		return m, nil
	}

	// Tab cycling works from content focus too.
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.view = m.view.next()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.view = m.view.prev()
		return m, nil
	}

	switch m.view {
	case viewBoard:
		m.handleBoardKey(msg)
	case viewPrompts:
		m.handleListKey(msg, len(m.prompts), &m.promptIdx, func(i int) {
			m.openResourceDetail(m.prompts[i], model.KindPrompt)
		})
	case viewDocuments:
		m.handleListKey(msg, len(m.documents), &m.documentIdx, func(i int) {
			m.openResourceDetail(m.documents[i], model.KindDocument)
		})
	case viewActivity:
		m.handleListKey(msg, len(m.activity), &m.activityIdx, func(i int) {
			m.openActivityEntry(m.activity[i])
		})
	}
	return m, nil
}

func (m *appModel) handleTabBarKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.PrevTab):
		m.view = m.view.prev()
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.NextTab):
		m.view = m.view.next()
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Select), msg.String() == "esc":
		m.focus = focusContent
	}
}

func (m *appModel) handleBoardKey(msg tea.KeyMsg) {
	ncols := m.columnCount()
	if ncols == 0 {
		if key.Matches(msg, m.keys.Up) {
			m.focus = focusTabBar
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.boardCol > 0 {
			m.boardCol--
		}
	case key.Matches(msg, m.keys.Right):
		if m.boardCol+1 < ncols {
			m.boardCol++
		}
	case key.Matches(msg, m.keys.Down):
		if n := len(m.currentColumnTasks()); n > 0 {
			if row := m.currentBoardRow(); row+1 < n {
				m.setBoardRow(row + 1)
			}
		}
	case key.Matches(msg, m.keys.Up):
		if row := m.currentBoardRow(); row > 0 {
			m.setBoardRow(row - 1)
		} else {
			m.focus = focusTabBar
		}
	case key.Matches(msg, m.keys.First):
		m.setBoardRow(0)
	case key.Matches(msg, m.keys.Last):
		if n := len(m.currentColumnTasks()); n > 0 {
			m.setBoardRow(n - 1)
		}
	case key.Matches(msg, m.keys.Select):
		if task, ok := m.selectedTask(); ok {
			m.openTaskDetail(task)
		}
	}
}

// handleListKey implements the shared single-index list contract used
// by the prompts, documents, and activity views.
func (m *appModel) handleListKey(msg tea.KeyMsg, n int, idx *int, open func(i int)) {
	if n == 0 {
		if key.Matches(msg, m.keys.Up) {
			m.focus = focusTabBar
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if *idx+1 < n {
			*idx++
		}
	case key.Matches(msg, m.keys.Up):
		if *idx > 0 {
			*idx--
		} else {
			m.focus = focusTabBar
		}
	case key.Matches(msg, m.keys.First):
		*idx = 0
	case key.Matches(msg, m.keys.Last):
		*idx = n - 1
	case key.Matches(msg, m.keys.Select):
		open(*idx)
	}
}

func (m *appModel) handleOverlayKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.overlay = nil
		m.focus = focusContent
	case key.Matches(msg, m.keys.PageUp):
		m.scrollOverlay(-pageScroll)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollOverlay(pageScroll)
	case key.Matches(msg, m.keys.Down):
		m.scrollOverlay(1)
	case key.Matches(msg, m.keys.Up):
		m.scrollOverlay(-1)
	case key.Matches(msg, m.keys.First):
		if m.overlay != nil {
			*m.overlay.scrollRef() = 0
		}
	case key.Matches(msg, m.keys.Last):
		if m.overlay != nil {
			*m.overlay.scrollRef() = bottomScroll
		}
	case key.Matches(msg, m.keys.OlderRev):
		if o, ok := m.overlay.(*resourceOverlay); ok {
			o.shiftRevision(-1)
		}
	case key.Matches(msg, m.keys.NewerRev):
		if o, ok := m.overlay.(*resourceOverlay); ok {
			o.shiftRevision(1)
		}
	}
}

func (m *appModel) scrollOverlay(delta int) {
	if m.overlay == nil {
		return
	}
	s := m.overlay.scrollRef()
	*s += delta
	if *s < 0 {
		*s = 0
	}
}
