package history

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a mutation burst must settle for
// before a snapshot is committed to the log.
const DefaultDebounce = 300 * time.Millisecond

// Recorder feeds graph snapshots into a Log with debouncing, so that a
// burst of mutations (typing a label, nudging a node) produces a single
// history step.
//
// Three concerns shape its behavior:
//   - a new snapshot inside the debounce window replaces the pending one
//     and restarts the timer;
//   - an active drag gesture suppresses recording entirely, and the
//     gesture's end commits exactly one snapshot immediately;
//   - undo/redo playback must not be re-recorded, so the recorder flips a
//     replaying flag around the caller's restore.
type Recorder struct {
	mu        sync.Mutex
	log       *Log
	window    time.Duration
	timer     *time.Timer
	pending   *Snapshot
	dragging  bool
	replaying bool
}

// NewRecorder creates a recorder over the given log. A window of zero or
// less disables the timer: every Record commits synchronously, which is
// what tests want.
func NewRecorder(log *Log, window time.Duration) *Recorder {
	return &Recorder{log: log, window: window}
}

// Log returns the underlying history log.
func (r *Recorder) Log() *Log { return r.log }

// Record schedules a snapshot for commit once the debounce window passes
// without another Record call. Recording is suppressed while a drag
// gesture is active or while undo/redo playback is restoring state.
func (r *Recorder) Record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dragging || r.replaying {
		return
	}
	if r.window <= 0 {
		r.log.Push(s)
		return
	}
	r.pending = &s
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.window, r.Flush)
}

// Commit bypasses the debounce window and pushes a snapshot immediately.
// Any pending snapshot is discarded in its favor.
func (r *Recorder) Commit(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaying {
		return
	}
	r.discardPending()
	r.log.Push(s)
}

// Flush commits the pending snapshot now, if there is one.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked()
}

// flushLocked commits the pending snapshot and clears its timer.
// Callers must hold r.mu.
func (r *Recorder) flushLocked() {
	if r.pending == nil {
		return
	}
	s := *r.pending
	r.discardPending()
	r.log.Push(s)
}

// BeginDrag marks the start of a drag gesture. Any pending snapshot is
// flushed first so the pre-drag state is on the log, then recording is
// suppressed until EndDrag.
func (r *Recorder) BeginDrag() {
	r.Flush()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dragging = true
}

// EndDrag marks the end of a drag gesture and commits the settled state
// immediately, so the whole drag is one undo step no matter how many
// intermediate positions were visited.
func (r *Recorder) EndDrag(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dragging {
		return
	}
	r.dragging = false
	r.log.Push(s)
}

// Dragging reports whether a drag gesture is in progress.
func (r *Recorder) Dragging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragging
}

// Undo steps the log back and hands the snapshot to apply, which must
// restore it as the current graph. A pending snapshot is settled onto
// the log first, so an undo arriving inside the debounce window steps
// back over the in-flight mutation instead of losing it. Recording is
// suppressed for the duration of apply, so the restoration itself is
// never re-recorded. Returns false when already at the oldest state.
func (r *Recorder) Undo(apply func(Snapshot)) bool {
	return r.replay(apply, (*Log).Undo)
}

// Redo steps the log forward and hands the snapshot to apply. Returns
// false when already at the newest state.
func (r *Recorder) Redo(apply func(Snapshot)) bool {
	return r.replay(apply, (*Log).Redo)
}

func (r *Recorder) replay(apply func(Snapshot), step func(*Log) (Snapshot, bool)) bool {
	r.mu.Lock()
	r.flushLocked()
	s, ok := step(r.log)
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.replaying = true
	r.mu.Unlock()

	apply(s)

	r.mu.Lock()
	r.replaying = false
	r.mu.Unlock()
	return true
}

// Close stops any pending timer without committing.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discardPending()
}

// discardPending drops the pending snapshot and stops its timer.
// Callers must hold r.mu.
func (r *Recorder) discardPending() {
	r.pending = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
