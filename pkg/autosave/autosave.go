// Package autosave persists the latest editing session to a single
// key-value slot, overwritten on every settled mutation and read once at
// startup to restore the previous session.
//
// Two backends exist:
//   - file: one JSON file under the user's state directory, for the CLI
//     and the terminal editor
//   - redis: a single key with optional TTL, for the HTTP API where the
//     process is not the only consumer of the slot
package autosave

import (
	"context"
	"time"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// State is the content of the autosave slot.
type State struct {
	Nodes         []flowchart.Node `json:"nodes"`
	Edges         []flowchart.Edge `json:"edges"`
	NodeIDCounter int              `json:"nodeIdCounter"`
	SavedAt       time.Time        `json:"savedAt"`
}

// Store is a single-slot session store.
type Store interface {
	// Load returns the saved state, or nil when the slot is empty.
	Load(ctx context.Context) (*State, error)

	// Save overwrites the slot.
	Save(ctx context.Context, s *State) error

	// Clear empties the slot.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
