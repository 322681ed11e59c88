package autosave

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "autosave.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreEmptySlot(t *testing.T) {
	store := newStore(t)
	s, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Errorf("Load = %+v, want nil for an empty slot", s)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	saved := &State{
		Nodes: []flowchart.Node{
			{ID: "1", Kind: flowchart.KindStart, Label: "Start", Position: flowchart.Point{X: 340, Y: 50}},
			{ID: "2", Kind: flowchart.KindEnd, Label: "End"},
		},
		Edges: []flowchart.Edge{
			{ID: "e-1", Source: "1", Target: "2", SourceHandle: flowchart.HandleOut, TargetHandle: flowchart.HandleIn},
		},
		NodeIDCounter: 3,
		SavedAt:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load = nil after save")
	}
	if len(loaded.Nodes) != 2 || len(loaded.Edges) != 1 {
		t.Fatalf("loaded %d nodes %d edges, want 2 and 1", len(loaded.Nodes), len(loaded.Edges))
	}
	if loaded.NodeIDCounter != 3 {
		t.Errorf("nodeIdCounter = %d, want 3", loaded.NodeIDCounter)
	}
	if !loaded.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("savedAt = %v, want %v", loaded.SavedAt, saved.SavedAt)
	}
	if loaded.Nodes[0].Position != (flowchart.Point{X: 340, Y: 50}) {
		t.Errorf("node position = %+v, want (340, 50)", loaded.Nodes[0].Position)
	}
}

func TestFileStoreOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, &State{NodeIDCounter: 1})
	_ = store.Save(ctx, &State{NodeIDCounter: 7})

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.NodeIDCounter != 7 {
		t.Errorf("nodeIdCounter = %d, want the latest save", loaded.NodeIDCounter)
	}
}

func TestFileStoreClear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty slot: %v", err)
	}
	_ = store.Save(ctx, &State{NodeIDCounter: 2})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	s, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Errorf("Load = %+v after clear, want nil", s)
	}
}

func TestFileStoreCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autosave.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load accepted a corrupt slot")
	}
}
