// Package layout computes deterministic canvas positions for flowchart
// nodes from graph connectivity alone.
//
// The engine is invoked on demand, never automatically on every mutation.
// It lays the flow out top to bottom from the graph's Start nodes, keeping
// Decision "true" branches on the parent's vertical axis and pushing
// "false" branches sideways onto the parent's row. Graphs without a Start
// node fall back to a fixed grid, which guarantees termination and a
// stable result for disconnected or start-less graphs.
//
// A node reachable through several paths keeps the position assigned by
// whichever path dequeues it first in breadth-first order. For
// diamond-shaped graphs this can look uneven; the behavior is intentional
// and documented rather than corrected, because any other choice is just a
// different arbitrary tie-break.
package layout
