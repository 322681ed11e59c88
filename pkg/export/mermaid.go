package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// Mermaid renders the graph as a Mermaid flowchart string, suitable for
// pasting into any external Mermaid renderer.
//
// Node shapes follow the flowchart convention: Start and End are rounded
// (stadium), Process is rectangular, Decision is a diamond. Each edge
// becomes one arrow line, carrying its label when present.
func Mermaid(nodes []flowchart.Node, edges []flowchart.Edge) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	for _, n := range nodes {
		b.WriteString("    " + mermaidNodeDef(n) + "\n")
	}
	for _, e := range edges {
		label := ""
		if e.Label != "" {
			label = fmt.Sprintf("|%s|", e.Label)
		}
		fmt.Fprintf(&b, "    %s -->%s %s\n", mermaidSafeID(e.Source), label, mermaidSafeID(e.Target))
	}
	return b.String()
}

// mermaidNodeDef returns a node declaration with the shape for its kind.
func mermaidNodeDef(n flowchart.Node) string {
	id := mermaidSafeID(n.ID)
	label := mermaidEscapeLabel(displayLabel(n))

	switch n.Kind {
	case flowchart.KindStart, flowchart.KindEnd:
		return fmt.Sprintf("%s([\"%s\"])", id, label)
	case flowchart.KindDecision:
		return fmt.Sprintf("%s{\"%s\"}", id, label)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, label)
	}
}

var mermaidUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// mermaidSafeID converts an arbitrary node ID into a Mermaid identifier.
// Numeric counter IDs get an "n" prefix so they don't parse as values.
func mermaidSafeID(id string) string {
	return "n" + mermaidUnsafe.ReplaceAllString(id, "_")
}

func mermaidEscapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	return strings.ReplaceAll(label, "\n", " ")
}

// displayLabel returns the node label, falling back to its kind name so an
// unlabeled node still shows up meaningfully in exports.
func displayLabel(n flowchart.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Kind)
}
