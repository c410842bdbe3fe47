package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mdboard-tui/internal/model"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m appModel, msg tea.KeyMsg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.handleKey(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("handleKey returned %T, want appModel", next)
	}
	return am, cmd
}

func TestBoardNavigationRemembersRows(t *testing.T) {
	m := loadedModel()

	m, _ = press(t, m, keyRune('j'))
	m, _ = press(t, m, keyRune('j'))
	if got := m.currentBoardRow(); got != 2 {
		t.Fatalf("row after two downs = %d, want 2", got)
	}

	// Last row of the column, down is a no-op.
	m, _ = press(t, m, keyRune('j'))
	if got := m.currentBoardRow(); got != 2 {
		t.Errorf("row after down at bottom = %d, want 2", got)
	}

	// Each column keeps its own row.
	m, _ = press(t, m, keyRune('l'))
	if m.boardCol != 1 {
		t.Fatalf("boardCol = %d, want 1", m.boardCol)
	}
	if got := m.currentBoardRow(); got != 0 {
		t.Errorf("row in second column = %d, want 0", got)
	}

	m, _ = press(t, m, keyRune('l'))
	if m.boardCol != 2 {
		t.Fatalf("boardCol = %d, want 2", m.boardCol)
	}
	// Rightmost column, right is a no-op.
	m, _ = press(t, m, keyRune('l'))
	if m.boardCol != 2 {
		t.Errorf("boardCol after right at edge = %d, want 2", m.boardCol)
	}

	m, _ = press(t, m, keyRune('h'))
	m, _ = press(t, m, keyRune('h'))
	if got := m.currentBoardRow(); got != 2 {
		t.Errorf("row restored in first column = %d, want 2", got)
	}

	// Leftmost column, left is a no-op.
	m, _ = press(t, m, keyRune('h'))
	if m.boardCol != 0 {
		t.Errorf("boardCol after left at edge = %d, want 0", m.boardCol)
	}
}

func TestBoardFirstLastKeys(t *testing.T) {
	m := loadedModel()
	m, _ = press(t, m, keyRune('G'))
	if got := m.currentBoardRow(); got != 2 {
		t.Errorf("row after G = %d, want 2", got)
	}
	m, _ = press(t, m, keyRune('g'))
	if got := m.currentBoardRow(); got != 0 {
		t.Errorf("row after g = %d, want 0", got)
	}
}

func TestUpAtTopMovesFocusToTabBar(t *testing.T) {
	m := loadedModel()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.focus != focusTabBar {
		t.Fatalf("focus = %v, want tab bar", m.focus)
	}

	// Down hands focus back to the content area.
	m, _ = press(t, m, keyRune('j'))
	if m.focus != focusContent {
		t.Errorf("focus after down = %v, want content", m.focus)
	}
	if got := m.currentBoardRow(); got != 0 {
		t.Errorf("row after focus return = %d, want 0", got)
	}
}

func TestUpOnEmptyViewMovesFocusToTabBar(t *testing.T) {
	m := loadedModel()
	m.documents = nil
	m.view = viewDocuments
	m, _ = press(t, m, keyRune('k'))
	if m.focus != focusTabBar {
		t.Errorf("focus = %v, want tab bar", m.focus)
	}
}

func TestTabBarCyclesViews(t *testing.T) {
	m := loadedModel()
	m.focus = focusTabBar

	m, _ = press(t, m, keyRune('l'))
	if m.view != viewPrompts {
		t.Errorf("view after right = %v, want prompts", m.view)
	}
	m, _ = press(t, m, keyRune('h'))
	if m.view != viewBoard {
		t.Errorf("view after left = %v, want board", m.view)
	}
	// Cycling wraps in both directions.
	m, _ = press(t, m, keyRune('h'))
	if m.view != viewActivity {
		t.Errorf("view after wrap = %v, want activity", m.view)
	}
	if m.focus != focusTabBar {
		t.Errorf("focus = %v, want tab bar", m.focus)
	}
}

func TestTabCyclingFromContent(t *testing.T) {
	m := loadedModel()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != viewPrompts {
		t.Errorf("view after tab = %v, want prompts", m.view)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.view != viewBoard {
		t.Errorf("view after shift+tab = %v, want board", m.view)
	}
}

func TestNumberKeysJumpToView(t *testing.T) {
	m := loadedModel()
	m.focus = focusTabBar

	m, _ = press(t, m, keyRune('4'))
	if m.view != viewActivity {
		t.Errorf("view = %v, want activity", m.view)
	}
	// A direct jump also returns focus to the content area.
	if m.focus != focusContent {
		t.Errorf("focus = %v, want content", m.focus)
	}
	m, _ = press(t, m, keyRune('2'))
	if m.view != viewPrompts {
		t.Errorf("view = %v, want prompts", m.view)
	}
}

func TestListNavigationClamps(t *testing.T) {
	m := loadedModel()
	m.view = viewPrompts

	m, _ = press(t, m, keyRune('j'))
	if m.promptIdx != 1 {
		t.Fatalf("promptIdx = %d, want 1", m.promptIdx)
	}
	m, _ = press(t, m, keyRune('j'))
	if m.promptIdx != 1 {
		t.Errorf("promptIdx after down at end = %d, want 1", m.promptIdx)
	}
	m, _ = press(t, m, keyRune('g'))
	if m.promptIdx != 0 {
		t.Errorf("promptIdx after g = %d, want 0", m.promptIdx)
	}
	m, _ = press(t, m, keyRune('G'))
	if m.promptIdx != 1 {
		t.Errorf("promptIdx after G = %d, want 1", m.promptIdx)
	}
}

func TestQuitKeys(t *testing.T) {
	m := loadedModel()
	_, cmd := press(t, m, keyRune('q'))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command = %T, want tea.QuitMsg", cmd())
	}
}

func TestOverlayCapturesInput(t *testing.T) {
	m := loadedModel()
	m.overlay = &helpOverlay{}

	// q closes the overlay instead of quitting.
	m, cmd := press(t, m, keyRune('q'))
	if cmd != nil {
		t.Errorf("q with overlay open produced a command")
	}
	if m.overlay != nil {
		t.Fatalf("overlay still open after q")
	}
	if m.focus != focusContent {
		t.Errorf("focus = %v, want content", m.focus)
	}

	// While an overlay is open, navigation keys scroll it rather than
	// moving the underlying selection.
	m.overlay = &taskOverlay{task: model.Task{Filename: "t.md"}}
	m, _ = press(t, m, keyRune('j'))
	if got := *m.overlay.scrollRef(); got != 1 {
		t.Errorf("overlay scroll = %d, want 1", got)
	}
	if got := m.currentBoardRow(); got != 0 {
		t.Errorf("board row moved under overlay: %d", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != nil {
		t.Errorf("overlay still open after esc")
	}
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	m := loadedModel()
	m.overlay = &helpOverlay{}
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("ctrl+c command = %T, want tea.QuitMsg", cmd())
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := loadedModel()
	m, _ = press(t, m, keyRune('?'))
	if _, ok := m.overlay.(*helpOverlay); !ok {
		t.Fatalf("overlay = %T, want help", m.overlay)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != nil {
		t.Errorf("overlay still open after esc")
	}
}

func TestOverlayScrollClamps(t *testing.T) {
	m := loadedModel()
	o := &taskOverlay{task: model.Task{Filename: "t.md"}}
	m.overlay = o

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	if o.scroll != 0 {
		t.Errorf("scroll after page up at top = %d, want 0", o.scroll)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if o.scroll != pageScroll {
		t.Errorf("scroll after page down = %d, want %d", o.scroll, pageScroll)
	}
	m, _ = press(t, m, keyRune('k'))
	if o.scroll != pageScroll-1 {
		t.Errorf("scroll after up = %d, want %d", o.scroll, pageScroll-1)
	}
	m, _ = press(t, m, keyRune('G'))
	if o.scroll != bottomScroll {
		t.Errorf("scroll after G = %d, want bottom sentinel", o.scroll)
	}
	m, _ = press(t, m, keyRune('g'))
	if o.scroll != 0 {
		t.Errorf("scroll after g = %d, want 0", o.scroll)
	}
}

func TestRevisionKeysWalkCursor(t *testing.T) {
	m := loadedModel()
	o := &resourceOverlay{
		resource: model.Resource{DirName: "p1", Body: "current"},
		revisions: []model.Revision{
			{Body: "oldest"},
			{Body: "newest"},
		},
		rev:  -1,
		kind: model.KindPrompt,
	}
	m.overlay = o
	o.scroll = 5

	m, _ = press(t, m, keyRune('['))
	if o.rev != 1 {
		t.Fatalf("rev after [ = %d, want 1", o.rev)
	}
	if o.scroll != 0 {
		t.Errorf("scroll not reset on revision change: %d", o.scroll)
	}
	m, _ = press(t, m, keyRune('['))
	if o.rev != 0 {
		t.Fatalf("rev after second [ = %d, want 0", o.rev)
	}
	// Oldest revision, older is a no-op.
	m, _ = press(t, m, keyRune('['))
	if o.rev != 0 {
		t.Errorf("rev after [ at oldest = %d, want 0", o.rev)
	}
	if o.body() != "oldest" {
		t.Errorf("body = %q, want oldest", o.body())
	}

	m, _ = press(t, m, keyRune(']'))
	m, _ = press(t, m, keyRune(']'))
	if o.rev != -1 {
		t.Fatalf("rev after walking newer = %d, want -1", o.rev)
	}
	if o.body() != "current" {
		t.Errorf("body = %q, want current", o.body())
	}
	// Already on the current body, newer is a no-op.
	m, _ = press(t, m, keyRune(']'))
	if o.rev != -1 {
		t.Errorf("rev after ] at current = %d, want -1", o.rev)
	}
}

func TestRevisionKeysIgnoredOnTaskOverlay(t *testing.T) {
	m := loadedModel()
	o := &taskOverlay{task: model.Task{Filename: "t.md"}}
	m.overlay = o
	m, _ = press(t, m, keyRune('['))
	if m.overlay != o {
		t.Errorf("overlay changed by [ on a task")
	}
	if o.scroll != 0 {
		t.Errorf("scroll moved by [: %d", o.scroll)
	}
}
