package sync

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"mdboard-tui/internal/api"
	"mdboard-tui/internal/model"
)

// reconnectBackoff is the fixed delay between reconnect attempts.
// Deliberately constant: the server is local and single-user, so
// exponential growth would only slow recovery.
const reconnectBackoff = 2 * time.Second

// Event is a message from the sync engine to the UI loop. Exactly one
// of the concrete types below is sent per occurrence; the UI applies
// them strictly in order.
type Event interface{ syncEvent() }

// InitialData carries the full snapshot fetched on startup and after
// every reconnect.
type InitialData struct {
	Version   model.Version
	Board     model.Board
	Config    model.Config
	Prompts   []model.Resource
	Documents []model.Resource
	Activity  []model.ActivityEntry
}

type BoardUpdated struct{ Board model.Board }

type PromptsUpdated struct{ Prompts []model.Resource }

type DocumentsUpdated struct{ Documents []model.Resource }

type ActivityUpdated struct{ Activity []model.ActivityEntry }

// HashesChanged reports the new fingerprint triple after a round of
// selective refetching.
type HashesChanged struct{ Hashes model.SyncHashes }

type ConnectionLost struct{}

type ConnectionRestored struct{}

type SyncError struct{ Err error }

func (InitialData) syncEvent()        {}
func (BoardUpdated) syncEvent()       {}
func (PromptsUpdated) syncEvent()     {}
func (DocumentsUpdated) syncEvent()   {}
func (ActivityUpdated) syncEvent()    {}
func (HashesChanged) syncEvent()      {}
func (ConnectionLost) syncEvent()     {}
func (ConnectionRestored) syncEvent() {}
func (SyncError) syncEvent()          {}

// Engine keeps the local mirror consistent with the server. It owns
// the event-stream connection and the last-observed hash triple, and
// communicates with the UI loop only through its Events channel.
type Engine struct {
	client  *api.Client
	events  chan Event
	backoff time.Duration
}

func NewEngine(client *api.Client) *Engine {
	return &Engine{
		client:  client,
		events:  make(chan Event, 64),
		backoff: reconnectBackoff,
	}
}

// Events returns the channel the engine publishes on. The UI loop must
// drain it for the lifetime of the engine.
func (e *Engine) Events() <-chan Event { return e.events }

// Run performs the initial sync and then consumes the event stream,
// reconnecting forever with a fixed backoff. It returns only when ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if ev, err := e.fetchAll(ctx); err != nil {
		e.send(ctx, SyncError{Err: err})
		e.send(ctx, ConnectionLost{})
	} else {
		e.send(ctx, ev)
	}

	// The initial fetch counts as "connected" so the first stream
	// failure after it reports exactly one loss.
	wasConnected := true

	for {
		e.streamOnce(ctx, &wasConnected)
		if ctx.Err() != nil {
			return
		}

		if wasConnected {
			wasConnected = false
			e.send(ctx, ConnectionLost{})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(e.backoff):
		}
	}
}

// streamOnce opens the event stream and processes blocks until the
// stream ends or breaks. Opening failures return without emitting;
// Run's caller-side bookkeeping turns them into at most one
// ConnectionLost.
func (e *Engine) streamOnce(ctx context.Context, wasConnected *bool) {
	body, err := e.client.OpenEvents(ctx)
	if err != nil {
		return
	}
	defer body.Close()

	if !*wasConnected {
		*wasConnected = true
		e.send(ctx, ConnectionRestored{})
		// Full resync: diffing against pre-disconnect hashes would miss
		// changes made while we were away.
		if ev, err := e.fetchAll(ctx); err == nil {
			e.send(ctx, ev)
		}
	}

	scanner := api.NewEventScanner(body)

	// Hash state is per-connection: the first meaningful block after a
	// (re)connect only seeds the comparison, since fetchAll already
	// delivered fresh data.
	var last *model.SyncHashes

	for scanner.Next() {
		if ctx.Err() != nil {
			return
		}
		hashes, ok := parseHashes(scanner.Event())
		if !ok {
			continue
		}
		if last != nil {
			e.refetchChanged(ctx, *last, hashes)
		}
		last = &hashes
	}
}

// refetchChanged compares two hash triples field by field and refetches
// only the categories whose fingerprints differ. Any difference also
// refreshes the activity feed, since every content change produces
// activity. Individual refetch failures are skipped; the data will be
// caught up on the next change or reconnect.
func (e *Engine) refetchChanged(ctx context.Context, prev, next model.SyncHashes) {
	changed := false

	if prev.Board != next.Board {
		changed = true
		if board, err := e.client.Board(ctx); err == nil {
			e.send(ctx, BoardUpdated{Board: board})
		}
	}
	if prev.Prompts != next.Prompts {
		changed = true
		if prompts, err := e.client.Resources(ctx, model.KindPrompt); err == nil {
			e.send(ctx, PromptsUpdated{Prompts: prompts})
		}
	}
	if prev.Documents != next.Documents {
		changed = true
		if documents, err := e.client.Resources(ctx, model.KindDocument); err == nil {
			e.send(ctx, DocumentsUpdated{Documents: documents})
		}
	}

	if !changed {
		return
	}

	if activity, err := e.client.Activity(ctx); err == nil {
		e.send(ctx, ActivityUpdated{Activity: activity})
	}
	e.send(ctx, HashesChanged{Hashes: next})
}

// parseHashes extracts the fingerprint triple from a stream block.
// Only init/changed blocks with a decodable payload are meaningful;
// everything else (heartbeats, unknown events, malformed JSON) is
// silently skipped.
func parseHashes(ev api.StreamEvent) (model.SyncHashes, bool) {
	if ev.Name != "init" && ev.Name != "changed" {
		return model.SyncHashes{}, false
	}
	var hashes model.SyncHashes
	if err := json.Unmarshal([]byte(ev.Data), &hashes); err != nil {
		return model.SyncHashes{}, false
	}
	return hashes, true
}

// fetchAll fetches all six categories concurrently. All must succeed.
func (e *Engine) fetchAll(ctx context.Context) (InitialData, error) {
	var data InitialData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Version, err = e.client.Version(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Board, err = e.client.Board(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Config, err = e.client.Config(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Prompts, err = e.client.Resources(gctx, model.KindPrompt)
		return err
	})
	g.Go(func() error {
		var err error
		data.Documents, err = e.client.Resources(gctx, model.KindDocument)
		return err
	})
	g.Go(func() error {
		var err error
		data.Activity, err = e.client.Activity(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return InitialData{}, err
	}
	return data, nil
}

func (e *Engine) send(ctx context.Context, ev Event) {
	select {
	case e.events <- ev:
	case <-ctx.Done():
	}
}
