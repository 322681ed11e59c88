package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// ToDOT converts the graph to Graphviz DOT format. Start and End nodes
// are ovals, Process nodes rounded boxes, Decision nodes diamonds; node
// colors and edge labels carry over. Render the result with [RenderSVG]
// or let graphviz recompute positions externally.
func ToDOT(nodes []flowchart.Node, edges []flowchart.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph flowchart {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(dotAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		attrs := ""
		if e.Label != "" {
			attrs = fmt.Sprintf(" [label=%q, color=%q, fontcolor=%q]", e.Label, e.Color, e.Color)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n flowchart.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", displayLabel(n))}
	switch n.Kind {
	case flowchart.KindStart, flowchart.KindEnd:
		attrs = append(attrs, "shape=oval")
	case flowchart.KindDecision:
		attrs = append(attrs, "shape=diamond")
	default:
		attrs = append(attrs, "shape=box", `style="rounded,filled"`)
	}
	if n.Color != "" {
		attrs = append(attrs, "style=filled", fmt.Sprintf("fillcolor=%q", n.Color))
	} else if n.Kind == flowchart.KindProcess {
		attrs = append(attrs, "fillcolor=white")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderDOTPNG renders a DOT graph to PNG using Graphviz. For a raster of
// the canvas with the editor's own positions, use [RenderPNG] instead.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
