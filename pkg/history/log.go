package history

import (
	"slices"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// DefaultLimit is the maximum number of snapshots a Log retains.
const DefaultLimit = 50

// Snapshot is an immutable copy of the full graph state at one point in
// time. Snapshots store value data only; interactive bindings are
// re-attached by the rendering layer after a restore.
type Snapshot struct {
	Nodes []flowchart.Node
	Edges []flowchart.Edge
}

// Capture takes a snapshot of the graph's current collections. The copies
// are independent of the graph: later mutations do not leak into the
// snapshot.
func Capture(g *flowchart.Graph) Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// Equal reports structural equality: node ID, kind, position, size, and
// data (label, color, description), plus full edge equality. Selection
// state is ignored - changing the selection alone is not an undoable step.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.Nodes) != len(o.Nodes) || len(s.Edges) != len(o.Edges) {
		return false
	}
	for i, n := range s.Nodes {
		m := o.Nodes[i]
		n.Selected, m.Selected = false, false
		if n != m {
			return false
		}
	}
	return slices.Equal(s.Edges, o.Edges)
}

// Log is a bounded, ordered sequence of snapshots with a current index.
//
// Invariants: the index always points at a valid entry, or is -1 when the
// log is empty. Pushing after an undo discards the redo tail. When the
// log exceeds its limit the oldest entry is evicted first.
type Log struct {
	entries []Snapshot
	index   int
	limit   int
}

// NewLog creates an empty log. A limit of zero or less uses DefaultLimit.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{index: -1, limit: limit}
}

// Len returns the number of retained snapshots.
func (l *Log) Len() int { return len(l.entries) }

// Index returns the current position, or -1 when empty.
func (l *Log) Index() int { return l.index }

// CanUndo reports whether an older snapshot exists.
func (l *Log) CanUndo() bool { return l.index > 0 }

// CanRedo reports whether a newer snapshot exists.
func (l *Log) CanRedo() bool { return l.index >= 0 && l.index < len(l.entries)-1 }

// Current returns the snapshot at the current index.
func (l *Log) Current() (Snapshot, bool) {
	if l.index < 0 {
		return Snapshot{}, false
	}
	return l.entries[l.index], true
}

// Push appends a snapshot and reports whether it was retained. A snapshot
// structurally equal to the current one is dropped. Any redo tail past the
// current index is discarded, and the oldest entry is evicted once the
// limit is exceeded.
func (l *Log) Push(s Snapshot) bool {
	if cur, ok := l.Current(); ok && cur.Equal(s) {
		return false
	}
	l.entries = append(l.entries[:l.index+1], s)
	l.index++
	if len(l.entries) > l.limit {
		l.entries = l.entries[1:]
		l.index--
	}
	return true
}

// Undo steps the index back and returns the snapshot to restore. It is a
// no-op at the oldest state.
func (l *Log) Undo() (Snapshot, bool) {
	if !l.CanUndo() {
		return Snapshot{}, false
	}
	l.index--
	return l.entries[l.index], true
}

// Redo steps the index forward and returns the snapshot to restore. It is
// a no-op at the newest state.
func (l *Log) Redo() (Snapshot, bool) {
	if !l.CanRedo() {
		return Snapshot{}, false
	}
	l.index++
	return l.entries[l.index], true
}
