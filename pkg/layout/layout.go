package layout

import (
	"github.com/flowkit/flowkit/pkg/flowchart"
)

// Options control the spacing constants of the flow layout. The zero value
// is not usable - use DefaultOptions as a base.
type Options struct {
	// HSpacing is the horizontal distance between sibling centers, and the
	// offset of a Decision false branch from its parent.
	HSpacing float64
	// VGap is the vertical gap between a node and its children.
	VGap float64
	// StartX, StartY seed the first Start node's center column and top row.
	StartX float64
	StartY float64
	// StartSpacing separates the columns of multiple Start nodes.
	StartSpacing float64

	// Grid fallback spacing, used when the graph has no Start node.
	GridColumns  int
	GridHSpacing float64
	GridVSpacing float64
	GridOriginX  float64
	GridOriginY  float64

	// Orphan column placement, for nodes unreachable from any Start node.
	OrphanWrapHeight float64
	OrphanVSpacing   float64
}

// DefaultOptions returns the standard spacing constants.
func DefaultOptions() Options {
	return Options{
		HSpacing:         250,
		VGap:             50,
		StartX:           400,
		StartY:           50,
		StartSpacing:     3 * 250,
		GridColumns:      4,
		GridHSpacing:     250,
		GridVSpacing:     200,
		GridOriginX:      100,
		GridOriginY:      50,
		OrphanWrapHeight: 600,
		OrphanVSpacing:   200,
	}
}

// queued is the traversal state for one pending node visit.
type queued struct {
	id      string
	centerX float64
	y       float64
	branch  bool // reached through a Decision false handle
}

// Compute assigns a top-left position to every node based on graph
// connectivity. It is pure: identical inputs always yield identical
// positions, and neither input collection is modified.
//
// With no Start node the graph falls back to a simple grid in input order.
// Otherwise a breadth-first traversal from every Start node lays the flow
// out top to bottom: a Decision's "true" branch continues straight down on
// the parent's vertical axis, the connected "false" branch sits on the
// parent's row offset sideways, and remaining children fan out below.
// A node is positioned by whichever path dequeues it first; nodes
// unreachable from any Start node end up in vertical columns to the right
// of the flow.
func Compute(nodes []flowchart.Node, edges []flowchart.Edge, opts Options) map[string]flowchart.Point {
	positions := make(map[string]flowchart.Point, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	byID := make(map[string]flowchart.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var starts []flowchart.Node
	for _, n := range nodes {
		if n.Kind == flowchart.KindStart {
			starts = append(starts, n)
		}
	}

	if len(starts) == 0 {
		for i, n := range nodes {
			positions[n.ID] = flowchart.Point{
				X: float64(i%opts.GridColumns)*opts.GridHSpacing + opts.GridOriginX,
				Y: float64(i/opts.GridColumns)*opts.GridVSpacing + opts.GridOriginY,
			}
		}
		return positions
	}

	// Centers are tracked separately; the final position converts each
	// center column to a top-left corner. Only x is centered.
	centers := make(map[string]flowchart.Point, len(nodes))

	queue := make([]queued, 0, len(nodes))
	for i, s := range starts {
		queue = append(queue, queued{
			id:      s.ID,
			centerX: opts.StartX + float64(i)*opts.StartSpacing,
			y:       opts.StartY,
		})
	}

	outgoing := make(map[string][]flowchart.Edge, len(nodes))
	for _, e := range edges {
		outgoing[e.Source] = append(outgoing[e.Source], e)
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if _, seen := centers[item.id]; seen {
			continue // first dequeue wins, cycles break here
		}
		node, ok := byID[item.id]
		if !ok {
			continue
		}
		centers[item.id] = flowchart.Point{X: item.centerX, Y: item.y}

		nextY := item.y + node.EffectiveSize().Height + opts.VGap
		out := outgoing[item.id]

		if node.Kind == flowchart.KindDecision {
			queue = append(queue, decisionChildren(out, item, nextY, opts)...)
			continue
		}
		for i, e := range out {
			offset := (float64(i) - float64(len(out)-1)/2) * opts.HSpacing
			queue = append(queue, queued{
				id:      e.Target,
				centerX: item.centerX + offset,
				y:       nextY,
				branch:  item.branch,
			})
		}
	}

	// Unreachable nodes go into columns right of the flow, wrapping once a
	// column passes the height threshold.
	orphanX := maxCenterX(centers) + opts.HSpacing
	orphanY := opts.StartY
	for _, n := range nodes {
		if _, seen := centers[n.ID]; seen {
			continue
		}
		centers[n.ID] = flowchart.Point{X: orphanX, Y: orphanY}
		orphanY += opts.OrphanVSpacing
		if orphanY >= opts.OrphanWrapHeight {
			orphanX += opts.HSpacing
			orphanY = opts.StartY
		}
	}

	for _, n := range nodes {
		c := centers[n.ID]
		positions[n.ID] = flowchart.Point{X: c.X - n.EffectiveSize().Width/2, Y: c.Y}
	}
	return positions
}

// decisionChildren routes a Decision node's outgoing edges: the "true"
// handle continues straight down, the connected "false" handle stays on
// the parent's row offset sideways, and any further edges fan out below
// starting one spacing unit right of center.
func decisionChildren(out []flowchart.Edge, parent queued, nextY float64, opts Options) []queued {
	var children []queued
	extra := 0
	for _, e := range out {
		switch {
		case e.SourceHandle == flowchart.HandleTrue:
			children = append(children, queued{
				id:      e.Target,
				centerX: parent.centerX,
				y:       nextY,
				branch:  parent.branch,
			})
		case e.SourceHandle == flowchart.HandleFalseLeft:
			children = append(children, queued{
				id:      e.Target,
				centerX: parent.centerX - opts.HSpacing,
				y:       parent.y,
				branch:  true,
			})
		case e.SourceHandle == flowchart.HandleFalseRight:
			children = append(children, queued{
				id:      e.Target,
				centerX: parent.centerX + opts.HSpacing,
				y:       parent.y,
				branch:  true,
			})
		default:
			extra++
			children = append(children, queued{
				id:      e.Target,
				centerX: parent.centerX + float64(extra)*opts.HSpacing,
				y:       nextY,
				branch:  parent.branch,
			})
		}
	}
	return children
}

func maxCenterX(centers map[string]flowchart.Point) float64 {
	max := 0.0
	for _, c := range centers {
		if c.X > max {
			max = c.X
		}
	}
	return max
}
