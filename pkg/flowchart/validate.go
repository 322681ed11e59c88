package flowchart

// IsValidConnection reports whether a proposed connection may become an
// edge, given the current edge set and node collection.
//
// A connection is rejected when:
//   - it would form a self-loop (source == target),
//   - the source handle already drives an edge (each output handle may
//     carry at most one edge - this is also what limits Process nodes to a
//     single outgoing edge, since they expose only one source handle),
//   - the source is a Decision node, the candidate uses one of the two
//     "false" handles, and the other "false" handle is already connected.
//     Only one false branch may be active at a time.
//
// Rejection is silent: a disallowed connection is a disallowed user
// gesture, not a fault.
func IsValidConnection(c Connection, edges []Edge, nodes []Node) bool {
	if c.Source == c.Target {
		return false
	}

	for _, e := range edges {
		if e.Source != c.Source {
			continue
		}
		if e.SourceHandle == c.SourceHandle {
			return false
		}
		if c.SourceHandle.IsFalseBranch() && e.SourceHandle.IsFalseBranch() && sourceKind(c.Source, nodes) == KindDecision {
			return false
		}
	}
	return true
}

func sourceKind(id string, nodes []Node) Kind {
	for _, n := range nodes {
		if n.ID == id {
			return n.Kind
		}
	}
	return ""
}
