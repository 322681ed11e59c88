package layout

import (
	"maps"
	"testing"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

func node(id string, kind flowchart.Kind) flowchart.Node {
	return flowchart.Node{ID: id, Kind: kind, Label: id}
}

func edge(source string, handle flowchart.Handle, target string) flowchart.Edge {
	return flowchart.Edge{
		ID:           "e-" + source + "-" + target,
		Source:       source,
		Target:       target,
		SourceHandle: handle,
		TargetHandle: flowchart.HandleIn,
	}
}

func TestComputeEmptyGraph(t *testing.T) {
	got := Compute(nil, nil, DefaultOptions())
	if len(got) != 0 {
		t.Errorf("got %d positions, want 0", len(got))
	}
}

func TestComputeGridFallback(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindProcess),
		node("2", flowchart.KindProcess),
		node("3", flowchart.KindProcess),
		node("4", flowchart.KindProcess),
		node("5", flowchart.KindProcess),
		node("6", flowchart.KindProcess),
	}
	got := Compute(nodes, nil, DefaultOptions())

	want := map[string]flowchart.Point{
		"1": {X: 100, Y: 50},
		"2": {X: 350, Y: 50},
		"3": {X: 600, Y: 50},
		"4": {X: 850, Y: 50},
		"5": {X: 100, Y: 250},
		"6": {X: 350, Y: 250},
	}
	if !maps.Equal(got, want) {
		t.Errorf("grid positions = %v, want %v", got, want)
	}
}

func TestComputeLinearChain(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindProcess),
		node("3", flowchart.KindEnd),
	}
	edges := []flowchart.Edge{
		edge("1", flowchart.HandleOut, "2"),
		edge("2", flowchart.HandleOut, "3"),
	}
	got := Compute(nodes, edges, DefaultOptions())

	// Start is 120x120 centered on x=400, so its corner is at (340, 50).
	// Each child sits one node height plus the vertical gap below.
	want := map[string]flowchart.Point{
		"1": {X: 340, Y: 50},
		"2": {X: 325, Y: 220},
		"3": {X: 340, Y: 350},
	}
	if !maps.Equal(got, want) {
		t.Errorf("chain positions = %v, want %v", got, want)
	}
}

func TestComputeDecisionBranches(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindDecision),
		node("3", flowchart.KindProcess), // true branch
		node("4", flowchart.KindProcess), // false branch, left handle
	}
	edges := []flowchart.Edge{
		edge("1", flowchart.HandleOut, "2"),
		edge("2", flowchart.HandleTrue, "3"),
		edge("2", flowchart.HandleFalseLeft, "4"),
	}
	got := Compute(nodes, edges, DefaultOptions())

	d := got["2"]
	yes := got["3"]
	no := got["4"]

	// True branch continues straight down the decision's axis.
	if yesCenter, dCenter := yes.X+75, d.X+75; yesCenter != dCenter {
		t.Errorf("true branch center X = %v, want %v", yesCenter, dCenter)
	}
	if yes.Y != d.Y+150+50 {
		t.Errorf("true branch Y = %v, want %v", yes.Y, d.Y+150+50)
	}
	// False branch sits on the decision's row, one spacing unit left.
	if no.Y != d.Y {
		t.Errorf("false branch Y = %v, want decision row %v", no.Y, d.Y)
	}
	if noCenter, dCenter := no.X+75, d.X+75; noCenter != dCenter-250 {
		t.Errorf("false branch center X = %v, want %v", noCenter, dCenter-250)
	}
}

func TestComputeFalseRightBranch(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindDecision),
		node("3", flowchart.KindProcess),
	}
	edges := []flowchart.Edge{
		edge("1", flowchart.HandleOut, "2"),
		edge("2", flowchart.HandleFalseRight, "3"),
	}
	got := Compute(nodes, edges, DefaultOptions())

	d, no := got["2"], got["3"]
	if no.Y != d.Y {
		t.Errorf("false branch Y = %v, want decision row %v", no.Y, d.Y)
	}
	if noCenter, dCenter := no.X+75, d.X+75; noCenter != dCenter+250 {
		t.Errorf("false branch center X = %v, want %v", noCenter, dCenter+250)
	}
}

func TestComputeFirstPathWinsOnRejoin(t *testing.T) {
	// Both the true branch and the false branch feed node 4; the position
	// from the branch dequeued first sticks.
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindDecision),
		node("3", flowchart.KindProcess),
		node("4", flowchart.KindEnd),
	}
	edges := []flowchart.Edge{
		edge("1", flowchart.HandleOut, "2"),
		edge("2", flowchart.HandleTrue, "4"),
		edge("2", flowchart.HandleFalseRight, "3"),
		edge("3", flowchart.HandleOut, "4"),
	}
	got := Compute(nodes, edges, DefaultOptions())

	d, end := got["2"], got["4"]
	// The true branch reached node 4 first, so it sits on the decision's
	// axis rather than under node 3.
	if endCenter, dCenter := end.X+60, d.X+75; endCenter != dCenter {
		t.Errorf("rejoined node center X = %v, want decision axis %v", endCenter, dCenter)
	}
}

func TestComputeMultipleStarts(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindStart),
	}
	got := Compute(nodes, nil, DefaultOptions())

	first, second := got["1"], got["2"]
	if first.Y != second.Y {
		t.Errorf("start rows differ: %v vs %v", first.Y, second.Y)
	}
	if second.X-first.X != 750 {
		t.Errorf("start column spacing = %v, want 750", second.X-first.X)
	}
}

func TestComputeOrphanColumns(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindProcess),
		node("3", flowchart.KindProcess),
		node("4", flowchart.KindProcess),
		node("5", flowchart.KindProcess),
	}
	// Only node 2 is connected; 3-5 are orphans.
	edges := []flowchart.Edge{edge("1", flowchart.HandleOut, "2")}
	got := Compute(nodes, edges, DefaultOptions())

	// Flow centers peak at x=400, so the orphan column centers on 650.
	want := map[string]flowchart.Point{
		"3": {X: 575, Y: 50},
		"4": {X: 575, Y: 250},
		"5": {X: 575, Y: 450},
	}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("orphan %s = %v, want %v", id, got[id], w)
		}
	}
}

func TestComputeOrphanColumnWraps(t *testing.T) {
	nodes := []flowchart.Node{node("1", flowchart.KindStart)}
	for _, id := range []string{"2", "3", "4", "5"} {
		nodes = append(nodes, node(id, flowchart.KindProcess))
	}
	got := Compute(nodes, nil, DefaultOptions())

	if got["5"].Y != 50 {
		t.Errorf("wrapped orphan Y = %v, want 50", got["5"].Y)
	}
	if got["5"].X != got["2"].X+250 {
		t.Errorf("wrapped orphan X = %v, want next column %v", got["5"].X, got["2"].X+250)
	}
}

func TestComputeDeterministic(t *testing.T) {
	nodes := []flowchart.Node{
		node("1", flowchart.KindStart),
		node("2", flowchart.KindDecision),
		node("3", flowchart.KindProcess),
		node("4", flowchart.KindProcess),
		node("5", flowchart.KindEnd),
		node("6", flowchart.KindProcess),
	}
	edges := []flowchart.Edge{
		edge("1", flowchart.HandleOut, "2"),
		edge("2", flowchart.HandleTrue, "3"),
		edge("2", flowchart.HandleFalseLeft, "4"),
		edge("3", flowchart.HandleOut, "5"),
	}

	first := Compute(nodes, edges, DefaultOptions())
	for i := 0; i < 10; i++ {
		if again := Compute(nodes, edges, DefaultOptions()); !maps.Equal(first, again) {
			t.Fatalf("run %d diverged: %v vs %v", i, again, first)
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	nodes := []flowchart.Node{node("1", flowchart.KindStart), node("2", flowchart.KindProcess)}
	edges := []flowchart.Edge{edge("1", flowchart.HandleOut, "2")}
	before := nodes[1].Position

	Compute(nodes, edges, DefaultOptions())
	if nodes[1].Position != before {
		t.Errorf("input node position changed to %v", nodes[1].Position)
	}
}
