package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mdboard-tui/internal/api"
	"mdboard-tui/internal/model"
	boardsync "mdboard-tui/internal/sync"
)

// syncEventMsg wraps an engine event for the bubbletea loop.
type syncEventMsg struct {
	event boardsync.Event
}

type appModel struct {
	client *api.Client
	events <-chan boardsync.Event

	width  int
	height int

	view    view
	focus   focus
	overlay overlayState

	version   *model.Version
	board     *model.Board
	config    *model.Config
	prompts   []model.Resource
	documents []model.Resource
	activity  []model.ActivityEntry

	// Board selection: active column plus one remembered row per column.
	// boardRows grows lazily with the column count and never shrinks, so
	// a column keeps its row even if it briefly disappears.
	boardCol  int
	boardRows []int

	promptIdx   int
	documentIdx int
	activityIdx int

	connection connState
	lastSync   time.Time
	hashes     *model.SyncHashes
	loading    bool
	notice     string

	keys keyMap
}

// Run starts the sync engine and the interactive UI. It returns when
// the user quits.
func Run(client *api.Client) error {
	applyColorProfilePreference()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := boardsync.NewEngine(client)
	go engine.Run(ctx)

	m := newAppModel(client, engine.Events())
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newAppModel(client *api.Client, events <-chan boardsync.Event) appModel {
	return appModel{
		client:     client,
		events:     events,
		view:       viewBoard,
		focus:      focusContent,
		connection: connConnecting,
		loading:    true,
		keys:       newKeyMap(),
	}
}

func (m appModel) Init() tea.Cmd { return waitForSync(m.events) }

// waitForSync blocks on the engine channel and delivers the next event
// as a message. Update re-arms it after every delivery so the channel
// is drained for the lifetime of the program.
func waitForSync(events <-chan boardsync.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return syncEventMsg{event: ev}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncEventMsg:
		m.applySync(msg.event)
		return m, waitForSync(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applySync folds one engine event into the state. Replacing a
// collection always re-clamps the navigation indices that depend on it.
func (m *appModel) applySync(ev boardsync.Event) {
	switch ev := ev.(type) {
	case boardsync.InitialData:
		m.version = &ev.Version
		m.board = &ev.Board
		m.config = &ev.Config
		m.prompts = ev.Prompts
		m.documents = ev.Documents
		m.activity = ev.Activity
		m.connection = connConnected
		m.loading = false
		m.notice = ""
		m.clampIndices()

	case boardsync.BoardUpdated:
		m.board = &ev.Board
		m.clampIndices()

	case boardsync.PromptsUpdated:
		m.prompts = ev.Prompts
		m.clampIndices()

	case boardsync.DocumentsUpdated:
		m.documents = ev.Documents
		m.clampIndices()

	case boardsync.ActivityUpdated:
		m.activity = ev.Activity
		m.clampIndices()

	case boardsync.HashesChanged:
		h := ev.Hashes
		m.hashes = &h
		m.lastSync = time.Now()

	case boardsync.ConnectionLost:
		m.connection = connDisconnected

	case boardsync.ConnectionRestored:
		m.connection = connConnected
		m.notice = ""

	case boardsync.SyncError:
		// Connectivity problems surface via ConnectionLost; keep the
		// message for the status bar but never interrupt the loop.
		if ev.Err != nil {
			m.notice = ev.Err.Error()
		}
	}
}

func (m appModel) columnCount() int {
	if m.board == nil {
		return 0
	}
	return len(m.board.Columns)
}

func (m appModel) currentColumnTasks() []model.Task {
	if m.board == nil || m.boardCol >= len(m.board.Columns) {
		return nil
	}
	return m.board.Columns[m.boardCol].Tasks
}

func (m appModel) currentBoardRow() int {
	if m.boardCol < len(m.boardRows) {
		return m.boardRows[m.boardCol]
	}
	return 0
}

func (m *appModel) setBoardRow(row int) {
	for len(m.boardRows) <= m.boardCol {
		m.boardRows = append(m.boardRows, 0)
	}
	m.boardRows[m.boardCol] = row
}

func (m appModel) selectedTask() (model.Task, bool) {
	tasks := m.currentColumnTasks()
	row := m.currentBoardRow()
	if row >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[row], true
}

func (m *appModel) ensureBoardRows() {
	for len(m.boardRows) < m.columnCount() {
		m.boardRows = append(m.boardRows, 0)
	}
}

// clampIndices restores every navigation index to a valid range after
// a collection changed underneath it.
func (m *appModel) clampIndices() {
	ncols := m.columnCount()
	if ncols == 0 {
		m.boardCol = 0
	} else if m.boardCol >= ncols {
		m.boardCol = ncols - 1
	}
	m.ensureBoardRows()
	if m.board != nil {
		for i, col := range m.board.Columns {
			m.boardRows[i] = clampIndex(m.boardRows[i], len(col.Tasks))
		}
	}
	m.promptIdx = clampIndex(m.promptIdx, len(m.prompts))
	m.documentIdx = clampIndex(m.documentIdx, len(m.documents))
	m.activityIdx = clampIndex(m.activityIdx, len(m.activity))
}

// refreshCurrentView refetches only the active view's collection.
// Failures are ignored; the live stream will deliver the data soon
// enough anyway.
func (m *appModel) refreshCurrentView() {
	ctx := context.Background()
	switch m.view {
	case viewBoard:
		if board, err := m.client.Board(ctx); err == nil {
			m.board = &board
			m.clampIndices()
		}
	case viewPrompts:
		if prompts, err := m.client.Resources(ctx, model.KindPrompt); err == nil {
			m.prompts = prompts
			m.clampIndices()
		}
	case viewDocuments:
		if documents, err := m.client.Resources(ctx, model.KindDocument); err == nil {
			m.documents = documents
			m.clampIndices()
		}
	case viewActivity:
		if activity, err := m.client.Activity(ctx); err == nil {
			m.activity = activity
			m.clampIndices()
		}
	}
}

// openTaskDetail opens the task overlay. The overlay is populated
// optimistically from the summary we already hold; the full task and
// its comments are then fetched synchronously, and on failure the
// summary stays in place (the overlay never closes or errors).
func (m *appModel) openTaskDetail(summary model.Task) {
	ctx := context.Background()

	task := summary
	if full, err := m.client.Task(ctx, summary.Column, summary.Filename); err == nil {
		task = full
	}

	var comments []model.Comment
	if !summary.Meta.ID.IsEmpty() {
		if fetched, err := m.client.Comments(ctx, summary.Meta.ID.String()); err == nil {
			comments = fetched
		}
	}

	m.overlay = &taskOverlay{task: task, comments: comments}
}

// openResourceDetail opens the resource overlay, same optimistic
// populate-then-fetch flow as openTaskDetail.
func (m *appModel) openResourceDetail(summary model.Resource, kind model.ResourceKind) {
	ctx := context.Background()

	resource := summary
	if full, err := m.client.Resource(ctx, kind, summary.DirName); err == nil {
		resource = full
	}

	var revisions []model.Revision
	if fetched, err := m.client.Revisions(ctx, kind, summary.DirName); err == nil {
		revisions = fetched
	}

	m.overlay = &resourceOverlay{
		resource:  resource,
		revisions: revisions,
		rev:       -1,
		kind:      kind,
	}
}

// openActivityEntry opens the overlay matching an activity entry's
// type. Unknown types are ignored.
func (m *appModel) openActivityEntry(entry model.ActivityEntry) {
	switch entry.Type {
	case "task":
		if entry.Column == "" || entry.Filename == "" {
			return
		}
		m.openTaskDetail(model.Task{
			Filename: entry.Filename,
			Column:   entry.Column,
			Meta:     model.TaskMeta{ID: entry.ID, Title: entry.Title},
		})
	case "prompt":
		if entry.DirName == "" {
			return
		}
		m.openResourceDetail(model.Resource{
			DirName: entry.DirName,
			Meta:    model.ResourceMeta{ID: entry.ID, Title: entry.Title},
		}, model.KindPrompt)
	case "document":
		if entry.DirName == "" {
			return
		}
		m.openResourceDetail(model.Resource{
			DirName: entry.DirName,
			Meta:    model.ResourceMeta{ID: entry.ID, Title: entry.Title},
		}, model.KindDocument)
	}
}
