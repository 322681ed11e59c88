package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

func sampleGraph() ([]flowchart.Node, []flowchart.Edge) {
	nodes := []flowchart.Node{
		{ID: "1", Kind: flowchart.KindStart, Label: "Start", Position: flowchart.Point{X: 340, Y: 50}},
		{ID: "2", Kind: flowchart.KindDecision, Label: "Valid?", Position: flowchart.Point{X: 325, Y: 220}},
		{ID: "3", Kind: flowchart.KindProcess, Label: "Save", Position: flowchart.Point{X: 325, Y: 420}},
		{ID: "4", Kind: flowchart.KindEnd, Label: "End", Position: flowchart.Point{X: 90, Y: 220}},
	}
	edges := []flowchart.Edge{
		{ID: "e-1", Source: "1", Target: "2", SourceHandle: flowchart.HandleOut, TargetHandle: flowchart.HandleIn},
		{ID: "e-2", Source: "2", Target: "3", SourceHandle: flowchart.HandleTrue, TargetHandle: flowchart.HandleIn, Label: "True"},
		{ID: "e-3", Source: "2", Target: "4", SourceHandle: flowchart.HandleFalseLeft, TargetHandle: flowchart.HandleIn, Label: "False"},
	}
	return nodes, edges
}

func TestMermaidShapes(t *testing.T) {
	nodes, edges := sampleGraph()
	out := Mermaid(nodes, edges)

	if !strings.HasPrefix(out, "flowchart TD\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	for _, want := range []string{
		`n1(["Start"])`,
		`n2{"Valid?"}`,
		`n3["Save"]`,
		`n4(["End"])`,
		"n1 --> n2",
		"n2 -->|True| n3",
		"n2 -->|False| n4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMermaidEscapesLabels(t *testing.T) {
	nodes := []flowchart.Node{
		{ID: "1", Kind: flowchart.KindProcess, Label: "say \"hi\"\nthen wait"},
	}
	out := Mermaid(nodes, nil)
	if strings.Contains(out, `"hi"`) {
		t.Errorf("quotes not escaped:\n%s", out)
	}
	if !strings.Contains(out, "say #quot;hi#quot; then wait") {
		t.Errorf("escaped label missing:\n%s", out)
	}
}

func TestMermaidUnlabeledNodeFallsBackToKind(t *testing.T) {
	nodes := []flowchart.Node{{ID: "1", Kind: flowchart.KindDecision}}
	out := Mermaid(nodes, nil)
	if !strings.Contains(out, `n1{"decision"}`) {
		t.Errorf("kind fallback missing:\n%s", out)
	}
}

func TestMermaidSafeID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "n1"},
		{"e-7", "ne_7"},
		{"weird id!", "nweird_id_"},
	}
	for _, tt := range tests {
		if got := mermaidSafeID(tt.in); got != tt.want {
			t.Errorf("mermaidSafeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func ExampleMermaid() {
	nodes := []flowchart.Node{
		{ID: "1", Kind: flowchart.KindStart, Label: "Start"},
		{ID: "2", Kind: flowchart.KindEnd, Label: "End"},
	}
	edges := []flowchart.Edge{
		{ID: "e-1", Source: "1", Target: "2"},
	}
	fmt.Print(Mermaid(nodes, edges))
	// Output:
	// flowchart TD
	//     n1(["Start"])
	//     n2(["End"])
	//     n1 --> n2
}
