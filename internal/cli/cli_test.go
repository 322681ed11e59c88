package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowkit/flowkit/pkg/project"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"png"}},
		{"svg", []string{"svg"}},
		{"png,mermaid,txt", []string{"png", "mermaid", "txt"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"new", "edit", "layout", "export", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewArtifactCacheDisabled(t *testing.T) {
	c := newArtifactCache(true)
	defer c.Close()
	if _, hit, err := c.Get(t.Context(), "anything"); err != nil || hit {
		t.Errorf("null cache Get = hit %v err %v, want miss and nil", hit, err)
	}
}

func TestNewAndLayoutCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.fchart")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"new", path, "--seed"})
	if err := root.Execute(); err != nil {
		t.Fatalf("new: %v", err)
	}

	doc, err := project.ReadFile(path)
	if err != nil {
		t.Fatalf("read created project: %v", err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Fatalf("seeded project has %d nodes %d edges, want 2 and 1", len(doc.Nodes), len(doc.Edges))
	}

	root = c.RootCommand()
	root.SetArgs([]string{"layout", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout: %v", err)
	}

	laidOut, err := project.ReadFile(path)
	if err != nil {
		t.Fatalf("read laid out project: %v", err)
	}
	for _, n := range laidOut.Nodes {
		if n.Type == "start" && n.Position.Y != 50 {
			t.Errorf("start Y = %v, want 50", n.Position.Y)
		}
	}
}

func TestExportCommandMermaid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.fchart")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"new", path, "--seed"})
	if err := root.Execute(); err != nil {
		t.Fatalf("new: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"export", path, "-f", "mermaid,txt"})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	mmd, err := os.ReadFile(filepath.Join(dir, "demo.mmd"))
	if err != nil {
		t.Fatalf("read mermaid output: %v", err)
	}
	if !strings.HasPrefix(string(mmd), "flowchart TD") {
		t.Errorf("mermaid output malformed:\n%s", mmd)
	}
	if _, err := os.Stat(filepath.Join(dir, "demo.txt")); err != nil {
		t.Errorf("text output missing: %v", err)
	}
}

func TestExportCommandRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.fchart")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"new", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("new: %v", err)
	}

	root = c.RootCommand()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"export", path, "-f", "bmp"})
	if err := root.Execute(); err == nil {
		t.Error("export accepted an unknown format")
	}
}
