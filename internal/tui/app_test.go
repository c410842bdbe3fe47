package tui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mdboard-tui/internal/api"
	"mdboard-tui/internal/model"
	boardsync "mdboard-tui/internal/sync"
)

func testBoard(counts ...int) model.Board {
	names := []string{"todo", "doing", "done", "extra", "more"}
	var cols []model.Column
	for i, n := range counts {
		col := model.Column{Name: names[i%len(names)]}
		for j := 0; j < n; j++ {
			col.Tasks = append(col.Tasks, model.Task{Filename: "t.md", Column: col.Name})
		}
		cols = append(cols, col)
	}
	return model.Board{Columns: cols}
}

func loadedModel() appModel {
	m := newAppModel(nil, nil)
	m.applySync(boardsync.InitialData{
		Version: model.Version{Project: "demo"},
		Board:   testBoard(3, 1, 0),
		Prompts: []model.Resource{
			{DirName: "p1"}, {DirName: "p2"},
		},
		Documents: []model.Resource{{DirName: "d1"}},
		Activity: []model.ActivityEntry{
			{Type: "task", Title: "a", Column: "todo", Filename: "t.md"},
			{Type: "prompt", Title: "b", DirName: "p1"},
		},
	})
	return m
}

func TestInitialDataSetsConnectedAndClamps(t *testing.T) {
	m := loadedModel()
	if m.connection != connConnected {
		t.Errorf("connection = %v, want connected", m.connection)
	}
	if m.loading {
		t.Error("loading should clear after initial data")
	}
	if len(m.boardRows) != 3 {
		t.Errorf("boardRows len = %d, want one per column", len(m.boardRows))
	}
}

func TestCollectionReplacementReclampsIndices(t *testing.T) {
	m := loadedModel()
	m.boardCol = 2
	m.setBoardRow(0)
	m.boardCol = 0
	m.setBoardRow(2)
	m.promptIdx = 1
	m.activityIdx = 1

	// Board shrinks to one column with one task.
	m.applySync(boardsync.BoardUpdated{Board: testBoard(1)})
	if m.boardCol != 0 {
		t.Errorf("boardCol = %d, want 0 after shrink", m.boardCol)
	}
	if m.boardRows[0] != 0 {
		t.Errorf("row = %d, want clamped to 0", m.boardRows[0])
	}
	// Row vector never shrinks.
	if len(m.boardRows) < 3 {
		t.Errorf("boardRows len = %d, want >= 3", len(m.boardRows))
	}

	// Prompts replaced by an empty list: index drops to 0.
	m.applySync(boardsync.PromptsUpdated{Prompts: nil})
	if m.promptIdx != 0 {
		t.Errorf("promptIdx = %d, want 0 for empty list", m.promptIdx)
	}

	// Activity replaced by a shorter list: index clamps to len-1.
	m.applySync(boardsync.ActivityUpdated{Activity: []model.ActivityEntry{{Type: "task"}}})
	if m.activityIdx != 0 {
		t.Errorf("activityIdx = %d, want 0", m.activityIdx)
	}
}

func TestClampAfterArbitraryReplacementSequence(t *testing.T) {
	m := loadedModel()
	seq := []boardsync.Event{
		boardsync.BoardUpdated{Board: testBoard(2, 2, 2, 2)},
		boardsync.PromptsUpdated{Prompts: []model.Resource{{DirName: "x"}}},
		boardsync.BoardUpdated{Board: testBoard(0)},
		boardsync.DocumentsUpdated{Documents: nil},
		boardsync.BoardUpdated{Board: testBoard(1, 4)},
		boardsync.ActivityUpdated{Activity: nil},
	}
	for _, ev := range seq {
		m.applySync(ev)

		ncols := m.columnCount()
		if ncols > 0 && m.boardCol >= ncols {
			t.Fatalf("boardCol %d out of range after %T", m.boardCol, ev)
		}
		for i := 0; i < ncols; i++ {
			n := len(m.board.Columns[i].Tasks)
			row := m.boardRows[i]
			if n == 0 && row != 0 {
				t.Fatalf("row %d in empty column after %T", row, ev)
			}
			if n > 0 && row >= n {
				t.Fatalf("row %d out of range [0,%d) after %T", row, n, ev)
			}
		}
		if len(m.prompts) == 0 && m.promptIdx != 0 || m.promptIdx >= max(1, len(m.prompts)) {
			t.Fatalf("promptIdx %d invalid after %T", m.promptIdx, ev)
		}
	}
}

func TestEmptyBoardResetsColumnIndex(t *testing.T) {
	m := loadedModel()
	m.boardCol = 2

	m.applySync(boardsync.BoardUpdated{Board: model.Board{}})
	if m.boardCol != 0 {
		t.Errorf("boardCol = %d, want 0 when no columns remain", m.boardCol)
	}
}

func TestConnectionEvents(t *testing.T) {
	m := loadedModel()
	m.applySync(boardsync.ConnectionLost{})
	if m.connection != connDisconnected {
		t.Errorf("connection = %v, want disconnected", m.connection)
	}
	m.applySync(boardsync.ConnectionRestored{})
	if m.connection != connConnected {
		t.Errorf("connection = %v, want connected", m.connection)
	}
}

func TestHashesChangedRecordsTriple(t *testing.T) {
	m := loadedModel()
	m.applySync(boardsync.HashesChanged{Hashes: model.SyncHashes{Board: "b", Prompts: "p", Documents: "d"}})
	if m.hashes == nil || m.hashes.Board != "b" {
		t.Fatalf("hashes = %+v", m.hashes)
	}
	if m.lastSync.IsZero() {
		t.Error("lastSync should be set")
	}
}

func TestSyncErrorIsNonFatalNotice(t *testing.T) {
	m := loadedModel()
	m.applySync(boardsync.SyncError{Err: errFake("boom")})
	if m.notice == "" {
		t.Error("expected notice from sync error")
	}
	if m.connection != connConnected {
		t.Error("sync error alone must not flip connection state")
	}
}

func TestReconnectClearsNotice(t *testing.T) {
	m := loadedModel()
	m.applySync(boardsync.SyncError{Err: errFake("boom")})
	m.applySync(boardsync.ConnectionLost{})
	m.applySync(boardsync.ConnectionRestored{})
	if m.notice != "" {
		t.Errorf("notice = %q, want cleared after reconnect", m.notice)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestOpenTaskDetailKeepsSummaryWhenFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := loadedModel()
	m.client = api.New(srv.URL)

	summary := model.Task{
		Filename: "t.md",
		Column:   "todo",
		Meta:     model.TaskMeta{ID: "7", Title: "Known summary"},
	}
	m.openTaskDetail(summary)

	o, ok := m.overlay.(*taskOverlay)
	if !ok {
		t.Fatalf("overlay = %T, want *taskOverlay", m.overlay)
	}
	if o.task.Title() != "Known summary" {
		t.Errorf("task title = %q, want optimistic summary retained", o.task.Title())
	}
	if len(o.comments) != 0 {
		t.Errorf("comments = %d, want empty on failed fetch", len(o.comments))
	}
}

func TestOpenTaskDetailUsesFullFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/task/todo/t.md":
			w.Write([]byte(`{"filename":"t.md","meta":{"title":"Full title"},"body":"# body"}`))
		case "/api/comments/7":
			w.Write([]byte(`[{"filename":"c1.md","meta":{"author":"ana"},"body":"hi"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := loadedModel()
	m.client = api.New(srv.URL)

	m.openTaskDetail(model.Task{Filename: "t.md", Column: "todo", Meta: model.TaskMeta{ID: "7"}})

	o, ok := m.overlay.(*taskOverlay)
	if !ok {
		t.Fatalf("overlay = %T", m.overlay)
	}
	if o.task.Meta.Title != "Full title" {
		t.Errorf("title = %q, want full fetch result", o.task.Meta.Title)
	}
	if len(o.comments) != 1 || o.comments[0].Meta.Author != "ana" {
		t.Errorf("comments = %+v", o.comments)
	}
}

func TestOpenResourceDetailStartsAtCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/prompts/p1":
			w.Write([]byte(`{"dir_name":"p1","body":"current"}`))
		case "/api/prompts/p1/revisions":
			w.Write([]byte(`[{"filename":"r1","body":"old"},{"filename":"r2","body":"newer"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := loadedModel()
	m.client = api.New(srv.URL)

	m.openResourceDetail(model.Resource{DirName: "p1"}, model.KindPrompt)

	o, ok := m.overlay.(*resourceOverlay)
	if !ok {
		t.Fatalf("overlay = %T", m.overlay)
	}
	if o.rev != -1 {
		t.Errorf("rev = %d, want -1 (current)", o.rev)
	}
	if o.body() != "current" {
		t.Errorf("body = %q, want current version", o.body())
	}
	if len(o.revisions) != 2 {
		t.Errorf("revisions = %d, want 2", len(o.revisions))
	}
}
