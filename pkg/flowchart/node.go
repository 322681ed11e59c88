package flowchart

import "errors"

var (
	// ErrInvalidNodeID is returned by [Graph.InsertNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.InsertNode] when a node with
	// the same ID already exists. Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by operations that reference a node ID
	// that does not exist in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Kind identifies the flowchart role of a node.
type Kind string

// Node kinds.
const (
	KindStart    Kind = "start"
	KindEnd      Kind = "end"
	KindProcess  Kind = "process"
	KindDecision Kind = "decision"
)

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindEnd, KindProcess, KindDecision:
		return true
	}
	return false
}

// Handle identifies a named connection point on a node. Source handles are
// outputs, target handles are inputs.
type Handle string

// Handle identifiers. Process, Start, and End nodes expose a single output
// ([HandleOut]) and a single input ([HandleIn]). Decision nodes expose a
// "true" output at the bottom and two mutually exclusive "false" outputs on
// the left and right sides.
const (
	HandleIn         Handle = "in"
	HandleOut        Handle = "out"
	HandleTrue       Handle = "condition-true"
	HandleFalseLeft  Handle = "condition-left-false"
	HandleFalseRight Handle = "condition-right-false"
)

// IsFalseBranch reports whether h is one of the two Decision "false" handles.
func (h Handle) IsFalseBranch() bool {
	return h == HandleFalseLeft || h == HandleFalseRight
}

// Point is a position in canvas coordinates. For nodes it is the top-left
// corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node's width and height in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSize returns the per-kind default node size, used whenever a node
// has no explicit size.
func DefaultSize(k Kind) Size {
	switch k {
	case KindDecision:
		return Size{Width: 150, Height: 150}
	case KindProcess:
		return Size{Width: 150, Height: 80}
	case KindStart, KindEnd:
		return Size{Width: 120, Height: 120}
	default:
		return Size{Width: 100, Height: 100}
	}
}

// Node is a single flowchart element. Nodes carry only value data; any
// interactive bindings belong to the rendering layer and are re-attached
// per frame by the caller.
//
// The zero value is not usable - ID and Kind must be set before adding to
// a Graph.
type Node struct {
	ID          string
	Kind        Kind
	Position    Point
	Size        Size // zero means "use DefaultSize(Kind)"
	Label       string
	Color       string
	Description string
	Selected    bool
}

// EffectiveSize returns the node's explicit size if set, otherwise the
// kind-based default.
func (n Node) EffectiveSize() Size {
	if n.Size.Width > 0 && n.Size.Height > 0 {
		return n.Size
	}
	return DefaultSize(n.Kind)
}

// Center returns the node's center point given its effective size.
func (n Node) Center() Point {
	s := n.EffectiveSize()
	return Point{X: n.Position.X + s.Width/2, Y: n.Position.Y + s.Height/2}
}
