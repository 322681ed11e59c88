// Package editor wires the flowchart graph, the history recorder, and the
// autosave store into one editing session.
//
// Control flow mirrors the canvas-driven editor: a user gesture calls a
// mutation method, the method updates the graph, the history recorder
// snapshots the result (debounced), and the autosave slot is overwritten
// once the mutation settles. Layout is computed on demand via
// [Session.AutoLayout], never automatically.
//
// Everything runs on the caller's goroutine; the session assumes the
// single-threaded, event-driven execution model of an interactive editor.
package editor

import (
	"context"
	"time"

	"github.com/flowkit/flowkit/pkg/autosave"
	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/history"
	"github.com/flowkit/flowkit/pkg/layout"
	"github.com/flowkit/flowkit/pkg/observability"
	"github.com/flowkit/flowkit/pkg/project"
)

// Config configures a Session. The zero value gives the standard history
// bound and debounce window with autosave disabled.
type Config struct {
	HistoryLimit int           // 0 means history.DefaultLimit
	Debounce     time.Duration // 0 means synchronous recording (tests); use history.DefaultDebounce for interactive use
	Store        autosave.Store
	Layout       *layout.Options // nil means layout.DefaultOptions
}

// Session owns one flowchart being edited.
type Session struct {
	graph      *flowchart.Graph
	rec        *history.Recorder
	store      autosave.Store
	layoutOpts layout.Options
	createdAt  time.Time
}

// NewSession creates a session over an empty graph, with the empty state
// as the first history entry so the first mutation can be undone.
func NewSession(cfg Config) *Session {
	opts := layout.DefaultOptions()
	if cfg.Layout != nil {
		opts = *cfg.Layout
	}
	s := &Session{
		graph:      flowchart.New(),
		rec:        history.NewRecorder(history.NewLog(cfg.HistoryLimit), cfg.Debounce),
		store:      cfg.Store,
		layoutOpts: opts,
	}
	s.rec.Commit(history.Capture(s.graph))
	return s
}

// Graph returns the underlying graph. Callers must treat it as owned by
// the session and go through session methods for anything undoable.
func (s *Session) Graph() *flowchart.Graph { return s.graph }

// History returns the history log, for UI state like undo/redo enablement.
func (s *Session) History() *history.Log { return s.rec.Log() }

// AddNode creates a node and records the mutation.
func (s *Session) AddNode(ctx context.Context, kind flowchart.Kind, label string, pos flowchart.Point) flowchart.Node {
	n := s.graph.AddNode(kind, label, pos)
	s.settle(ctx, "add-node")
	return n
}

// Connect attempts a connection. Rejected connections are silent no-ops
// and leave no trace in history or autosave.
func (s *Session) Connect(ctx context.Context, c flowchart.Connection) (flowchart.Edge, bool) {
	e, ok := s.graph.Connect(c)
	if ok {
		s.settle(ctx, "connect")
	}
	return e, ok
}

// EditLabel updates a node's label.
func (s *Session) EditLabel(ctx context.Context, id, label string) error {
	if err := s.graph.UpdateNode(id, func(n *flowchart.Node) { n.Label = label }); err != nil {
		return err
	}
	s.settle(ctx, "edit-label")
	return nil
}

// EditColor updates a node's color.
func (s *Session) EditColor(ctx context.Context, id, color string) error {
	if err := s.graph.UpdateNode(id, func(n *flowchart.Node) { n.Color = color }); err != nil {
		return err
	}
	s.settle(ctx, "edit-color")
	return nil
}

// EditDescription updates a node's description.
func (s *Session) EditDescription(ctx context.Context, id, desc string) error {
	if err := s.graph.UpdateNode(id, func(n *flowchart.Node) { n.Description = desc }); err != nil {
		return err
	}
	s.settle(ctx, "edit-description")
	return nil
}

// Move repositions a node. During a drag gesture the recorder suppresses
// snapshots, so intermediate positions never pollute history.
func (s *Session) Move(ctx context.Context, id string, pos flowchart.Point) error {
	if err := s.graph.MoveNode(id, pos); err != nil {
		return err
	}
	if !s.rec.Dragging() {
		s.settle(ctx, "move")
	}
	return nil
}

// Resize sets a node's explicit size.
func (s *Session) Resize(ctx context.Context, id string, size flowchart.Size) error {
	if err := s.graph.ResizeNode(id, size); err != nil {
		return err
	}
	if !s.rec.Dragging() {
		s.settle(ctx, "resize")
	}
	return nil
}

// Delete removes a node and every edge touching it.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.graph.RemoveNode(id); err != nil {
		return err
	}
	s.settle(ctx, "delete")
	return nil
}

// DeleteEdge removes a single edge.
func (s *Session) DeleteEdge(ctx context.Context, id string) error {
	if err := s.graph.RemoveEdge(id); err != nil {
		return err
	}
	s.settle(ctx, "delete-edge")
	return nil
}

// Duplicate copies the selected nodes as one atomic history step.
func (s *Session) Duplicate(ctx context.Context) []flowchart.Node {
	copies := s.graph.Duplicate()
	if len(copies) > 0 {
		s.commit(ctx, "duplicate")
	}
	return copies
}

// BeginDrag marks the start of a continuous gesture.
func (s *Session) BeginDrag() { s.rec.BeginDrag() }

// EndDrag marks the end of a continuous gesture. The settled state is
// committed immediately, producing exactly one undo step for the whole
// drag.
func (s *Session) EndDrag(ctx context.Context) {
	s.rec.EndDrag(history.Capture(s.graph))
	s.autosaveNow(ctx)
	observability.Editor().OnMutation(ctx, "drag", s.graph.NodeCount(), s.graph.EdgeCount())
}

// Undo restores the previous snapshot. Returns false at the oldest state.
func (s *Session) Undo(ctx context.Context) bool {
	ok := s.rec.Undo(func(snap history.Snapshot) {
		s.graph.Restore(snap.Nodes, snap.Edges)
	})
	if ok {
		s.autosaveNow(ctx)
		observability.Editor().OnUndo(ctx, s.rec.Log().Index())
	}
	return ok
}

// Redo restores the next snapshot. Returns false at the newest state.
func (s *Session) Redo(ctx context.Context) bool {
	ok := s.rec.Redo(func(snap history.Snapshot) {
		s.graph.Restore(snap.Nodes, snap.Edges)
	})
	if ok {
		s.autosaveNow(ctx)
		observability.Editor().OnRedo(ctx, s.rec.Log().Index())
	}
	return ok
}

// AutoLayout recomputes every node position from connectivity and applies
// the result as a single history step.
func (s *Session) AutoLayout(ctx context.Context) {
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, s.graph.NodeCount())

	positions := layout.Compute(s.graph.Nodes(), s.graph.Edges(), s.layoutOpts)
	for id, pos := range positions {
		_ = s.graph.MoveNode(id, pos)
	}

	observability.Layout().OnLayoutComplete(ctx, s.graph.NodeCount(), time.Since(start))
	s.commit(ctx, "auto-layout")
}

// LoadDocument replaces the session content with a project document and
// reseeds the node ID counter. Recorded as a single history step.
func (s *Session) LoadDocument(ctx context.Context, doc project.Document) {
	doc.Apply(s.graph)
	s.createdAt = doc.CreatedAt
	s.commit(ctx, "load")
}

// Document serializes the current graph, preserving the original
// creation timestamp across saves.
func (s *Session) Document() project.Document {
	return project.FromGraph(s.graph, s.createdAt)
}

// RestoreAutosave loads the autosave slot into the session. Returns false
// when the slot is empty. Restoration is not an undoable step; it seeds
// the baseline instead.
func (s *Session) RestoreAutosave(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	state, err := s.store.Load(ctx)
	if err != nil || state == nil {
		return false, err
	}
	s.graph.Restore(state.Nodes, state.Edges)
	s.graph.IDs().SetCurrent(state.NodeIDCounter)
	s.rec.Commit(history.Capture(s.graph))
	return true, nil
}

// Flush commits any pending debounced snapshot immediately.
func (s *Session) Flush() { s.rec.Flush() }

// Close stops the recorder's pending timer.
func (s *Session) Close() { s.rec.Close() }

// settle records a mutation through the debounce window and overwrites
// the autosave slot.
func (s *Session) settle(ctx context.Context, op string) {
	s.rec.Record(history.Capture(s.graph))
	s.autosaveNow(ctx)
	observability.Editor().OnMutation(ctx, op, s.graph.NodeCount(), s.graph.EdgeCount())
}

// commit records a mutation bypassing the debounce window, for operations
// that are atomic by definition (duplicate, auto-layout, load).
func (s *Session) commit(ctx context.Context, op string) {
	s.rec.Commit(history.Capture(s.graph))
	s.autosaveNow(ctx)
	observability.Editor().OnMutation(ctx, op, s.graph.NodeCount(), s.graph.EdgeCount())
	observability.Editor().OnSnapshot(ctx, s.rec.Log().Index(), s.rec.Log().Len())
}

// autosaveNow overwrites the autosave slot with the current state.
// Autosave failures are swallowed: losing one autosave write must never
// break an edit.
func (s *Session) autosaveNow(ctx context.Context) {
	if s.store == nil {
		return
	}
	_ = s.store.Save(ctx, &autosave.State{
		Nodes:         s.graph.Nodes(),
		Edges:         s.graph.Edges(),
		NodeIDCounter: s.graph.IDs().Current(),
		SavedAt:       time.Now().UTC(),
	})
}
