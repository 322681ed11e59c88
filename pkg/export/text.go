package export

import (
	"fmt"
	"strings"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// Text renders a plain-text summary of the graph: the ordered node list
// with kind, ID, label, and position, then the edge list with endpoints
// resolved to labels, then an embedded Mermaid block for tools that can
// pick it up.
func Text(nodes []flowchart.Node, edges []flowchart.Edge) string {
	var b strings.Builder

	b.WriteString("Flowchart\n")
	b.WriteString("=========\n\n")

	b.WriteString(fmt.Sprintf("Nodes (%d):\n", len(nodes)))
	for i, n := range nodes {
		fmt.Fprintf(&b, "  %d. [%s] %s %q at (%.0f, %.0f)\n",
			i+1, n.Kind, n.ID, displayLabel(n), n.Position.X, n.Position.Y)
		if n.Description != "" {
			fmt.Fprintf(&b, "     %s\n", n.Description)
		}
	}

	b.WriteString(fmt.Sprintf("\nEdges (%d):\n", len(edges)))
	for _, e := range edges {
		line := fmt.Sprintf("  %s -> %s", resolveLabel(e.Source, nodes), resolveLabel(e.Target, nodes))
		if e.Label != "" {
			line += fmt.Sprintf(" [%s]", e.Label)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nDiagram:\n")
	b.WriteString(Mermaid(nodes, edges))
	return b.String()
}

// resolveLabel maps a node ID to its display label, keeping the raw ID for
// dangling references so the summary never hides a broken edge.
func resolveLabel(id string, nodes []flowchart.Node) string {
	for _, n := range nodes {
		if n.ID == id {
			return displayLabel(n)
		}
	}
	return id
}
