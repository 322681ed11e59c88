package flowchart

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownEdge is returned by [Graph.RemoveEdge] when the edge ID does
// not exist in the graph.
var ErrUnknownEdge = errors.New("unknown edge")

// Edge colors derived from the source handle. Stored on the edge so that
// textual and diagram exports carry the same semantics as the canvas.
const (
	ColorTrue    = "#22c55e" // green
	ColorFalse   = "#ef4444" // red
	ColorDefault = "#8b5cf6" // violet
)

// Edge is a directed connection between two node handles.
type Edge struct {
	ID           string
	Source       string
	Target       string
	SourceHandle Handle
	TargetHandle Handle
	Label        string
	Color        string
}

// Connection is a proposed edge, as produced by a user gesture. It becomes
// an Edge once accepted by [Graph.Connect].
type Connection struct {
	Source       string
	Target       string
	SourceHandle Handle
	TargetHandle Handle
}

// NewEdgeID returns a fresh opaque edge identifier. Edge IDs are not
// covered by the node ID counter; they only need to be unique.
func NewEdgeID() string {
	return "e-" + uuid.NewString()
}

// Decorate returns the display label and color for an edge leaving the
// given source kind through the given handle. A Decision "true" handle
// yields "True" in green, either "false" handle yields "False" in red, and
// everything else is unlabeled violet.
func Decorate(source Kind, h Handle) (label, color string) {
	if source != KindDecision {
		return "", ColorDefault
	}
	switch {
	case h == HandleTrue:
		return "True", ColorTrue
	case h.IsFalseBranch():
		return "False", ColorFalse
	default:
		return "", ColorDefault
	}
}
