// Package flowchart defines the core flowchart data model: typed nodes
// (Start, End, Process, Decision), directed edges between named handles,
// and the Graph mutation layer that keeps both collections consistent.
//
// # Nodes and handles
//
// Every node has a kind that determines its default size and its handle
// set. Process, Start, and End nodes expose one input and one output.
// Decision nodes expose a "true" output at the bottom and two mutually
// exclusive "false" outputs on the left and right - once either false
// handle carries an edge, the other is unavailable.
//
// # Mutation semantics
//
// Graph operations build new collections and swap them in whole, so no
// partial mutation is ever observable: a rejected or failed operation
// leaves the graph untouched. Deleting a node cascades to every edge that
// touches it. Connection attempts are gated by [IsValidConnection] and
// rejected silently, since a disallowed connection represents a
// disallowed user gesture rather than a fault.
//
// # Identifiers
//
// Node IDs come from [IDAllocator], an incrementing counter that is
// reseeded to max(existing numeric IDs)+1 when a project is loaded. Edge
// IDs are opaque and unique.
package flowchart
