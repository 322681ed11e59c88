package flowchart

import "slices"

// Graph owns the node and edge collections of one editing session.
//
// Mutations never update collections in place: each operation builds new
// slices and swaps them in whole, so a failed operation leaves the graph
// exactly as it was. Graph is not safe for concurrent use; the editing
// model is single-threaded and event-driven.
type Graph struct {
	nodes []Node
	edges []Edge
	ids   *IDAllocator
}

// New creates an empty graph with a fresh ID allocator.
func New() *Graph {
	return &Graph{ids: NewIDAllocator()}
}

// IDs returns the graph's node ID allocator.
func (g *Graph) IDs() *IDAllocator { return g.ids }

// Nodes returns a copy of the node collection in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edge collection in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// AddNode creates a node of the given kind at the given position, assigns
// it the next counter ID and the kind's default size, and appends it.
func (g *Graph) AddNode(kind Kind, label string, pos Point) Node {
	n := Node{
		ID:       g.ids.NextID(),
		Kind:     kind,
		Position: pos,
		Size:     DefaultSize(kind),
		Label:    label,
	}
	g.nodes = append(slices.Clone(g.nodes), n)
	return n
}

// InsertNode appends a fully specified node, e.g. one restored from a
// project file. Returns ErrInvalidNodeID or ErrDuplicateNodeID on invalid
// input; the graph is untouched on failure.
func (g *Graph) InsertNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.Node(n.ID); ok {
		return ErrDuplicateNodeID
	}
	g.nodes = append(slices.Clone(g.nodes), n)
	return nil
}

// UpdateNode applies fn to the node with the given ID. Returns
// ErrUnknownNode if no such node exists. The node's ID cannot be changed
// through fn; any change to it is discarded.
func (g *Graph) UpdateNode(id string, fn func(*Node)) error {
	for i, n := range g.nodes {
		if n.ID != id {
			continue
		}
		next := slices.Clone(g.nodes)
		fn(&next[i])
		next[i].ID = id
		g.nodes = next
		return nil
	}
	return ErrUnknownNode
}

// MoveNode repositions a node.
func (g *Graph) MoveNode(id string, pos Point) error {
	return g.UpdateNode(id, func(n *Node) { n.Position = pos })
}

// ResizeNode sets a node's explicit size.
func (g *Graph) ResizeNode(id string, size Size) error {
	return g.UpdateNode(id, func(n *Node) { n.Size = size })
}

// RemoveNode deletes a node and cascades to every edge that touches it.
// Returns ErrUnknownNode if no such node exists.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.Node(id); !ok {
		return ErrUnknownNode
	}
	nodes := make([]Node, 0, len(g.nodes)-1)
	for _, n := range g.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	g.nodes, g.edges = nodes, edges
	return nil
}

// RemoveEdge deletes a single edge by ID. Returns ErrUnknownEdge if no
// such edge exists.
func (g *Graph) RemoveEdge(id string) error {
	for i, e := range g.edges {
		if e.ID == id {
			g.edges = slices.Delete(slices.Clone(g.edges), i, i+1)
			return nil
		}
	}
	return ErrUnknownEdge
}

// Connect validates a proposed connection and, if accepted, appends the
// resulting edge with its derived label and color. The boolean reports
// acceptance; rejected connections are dropped silently per the
// connection rules (see [IsValidConnection]).
func (g *Graph) Connect(c Connection) (Edge, bool) {
	if !IsValidConnection(c, g.edges, g.nodes) {
		return Edge{}, false
	}
	label, color := Decorate(sourceKind(c.Source, g.nodes), c.SourceHandle)
	e := Edge{
		ID:           NewEdgeID(),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
		Label:        label,
		Color:        color,
	}
	g.edges = append(slices.Clone(g.edges), e)
	return e, true
}

// InsertEdge appends a fully specified edge, e.g. one restored from a
// project file. No connection rules are applied; loaded projects are
// trusted as-is.
func (g *Graph) InsertEdge(e Edge) {
	g.edges = append(slices.Clone(g.edges), e)
}

// Duplicate copies every selected node, offset by (+30, +30), with fresh
// counter IDs. The copies become the selection and the originals are
// deselected. Edges are not duplicated. Returns the new nodes; callers
// record the whole call as a single history step.
func (g *Graph) Duplicate() []Node {
	var copies []Node
	next := slices.Clone(g.nodes)
	for i, n := range next {
		if !n.Selected {
			continue
		}
		dup := n
		dup.ID = g.ids.NextID()
		dup.Position.X += 30
		dup.Position.Y += 30
		dup.Selected = true
		next[i].Selected = false
		copies = append(copies, dup)
	}
	if len(copies) == 0 {
		return nil
	}
	g.nodes = append(next, copies...)
	return copies
}

// SetSelected marks the given node IDs as the selection.
func (g *Graph) SetSelected(ids ...string) {
	next := slices.Clone(g.nodes)
	for i := range next {
		next[i].Selected = slices.Contains(ids, next[i].ID)
	}
	g.nodes = next
}

// Restore replaces both collections with copies of the given ones. Used by
// undo/redo playback and autosave recovery.
func (g *Graph) Restore(nodes []Node, edges []Edge) {
	g.nodes = slices.Clone(nodes)
	g.edges = slices.Clone(edges)
}
