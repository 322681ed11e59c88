// Package history implements bounded snapshot-based undo/redo for
// flowchart graphs.
//
// The log stores whole-state snapshots rather than diffs: at the bounded
// size of 50 entries, simplicity beats the memory saved by a patch log.
// The recorder sits between the mutation layer and the log, debouncing
// continuous interactions so each settled change is one undoable step.
package history
