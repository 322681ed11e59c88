// Package project reads and writes .fchart project files.
//
// The format is JSON with a version marker and creation/modification
// timestamps. Loading is lenient: only the presence of the
// "nodes" and "edges" keys is validated, anything else malformed surfaces
// as a decode error to the caller. On any failure the caller's current
// graph is left untouched, because [Document.Apply] builds complete new
// collections before swapping them in.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// Version is the current project file format version.
const Version = "1.0"

// Ext is the project file extension.
const Ext = ".fchart"

// ErrMissingCollections is returned by Read when the file lacks the
// "nodes" or "edges" key.
var ErrMissingCollections = fmt.Errorf("project file must contain nodes and edges")

// Document is the serialized form of a project.
type Document struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Nodes      []Node    `json:"nodes"`
	Edges      []Edge    `json:"edges"`
}

// Node is the serialized form of a flowchart node.
type Node struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position flowchart.Point `json:"position"`
	Size     *flowchart.Size `json:"size,omitempty"`
	Style    *NodeStyle      `json:"style,omitempty"`
	Data     NodeData        `json:"data"`
}

// NodeStyle carries presentation overrides.
type NodeStyle struct {
	Background string `json:"background,omitempty"`
}

// NodeData carries the node's user-editable content.
type NodeData struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Edge is the serialized form of a flowchart edge.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// FromGraph converts a graph into a document with fresh timestamps.
// Pass the previous document's CreatedAt to preserve it across saves; the
// zero time means "created now".
func FromGraph(g *flowchart.Graph, createdAt time.Time) Document {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	doc := Document{
		Version:    Version,
		CreatedAt:  createdAt,
		ModifiedAt: now,
		Nodes:      make([]Node, 0, g.NodeCount()),
		Edges:      make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		size := n.EffectiveSize()
		pn := Node{
			ID:       n.ID,
			Type:     string(n.Kind),
			Position: n.Position,
			Size:     &size,
			Data:     NodeData{Label: n.Label, Description: n.Description},
		}
		if n.Color != "" {
			pn.Style = &NodeStyle{Background: n.Color}
		}
		doc.Nodes = append(doc.Nodes, pn)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: string(e.SourceHandle),
			TargetHandle: string(e.TargetHandle),
			Label:        e.Label,
		})
	}
	return doc
}

// Apply replaces the graph's collections with the document's content and
// reseeds the node ID counter to max(numeric IDs)+1. The graph is only
// touched once the whole document has converted cleanly.
func (d Document) Apply(g *flowchart.Graph) {
	nodes := make([]flowchart.Node, 0, len(d.Nodes))
	for _, pn := range d.Nodes {
		n := flowchart.Node{
			ID:          pn.ID,
			Kind:        flowchart.Kind(pn.Type),
			Position:    pn.Position,
			Label:       pn.Data.Label,
			Description: pn.Data.Description,
		}
		if pn.Size != nil {
			n.Size = *pn.Size
		}
		if pn.Style != nil {
			n.Color = pn.Style.Background
		}
		nodes = append(nodes, n)
	}
	edges := make([]flowchart.Edge, 0, len(d.Edges))
	for _, pe := range d.Edges {
		src := flowchart.Kind("")
		for _, n := range nodes {
			if n.ID == pe.Source {
				src = n.Kind
				break
			}
		}
		_, color := flowchart.Decorate(src, flowchart.Handle(pe.SourceHandle))
		edges = append(edges, flowchart.Edge{
			ID:           pe.ID,
			Source:       pe.Source,
			Target:       pe.Target,
			SourceHandle: flowchart.Handle(pe.SourceHandle),
			TargetHandle: flowchart.Handle(pe.TargetHandle),
			Label:        pe.Label,
			Color:        color,
		})
	}
	g.Restore(nodes, edges)
	g.IDs().Reseed(nodes)
}

// Write encodes the document as indented JSON.
func Write(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the document to a .fchart file at path.
func WriteFile(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// Read decodes a project document from r. The only structural validation
// is that the "nodes" and "edges" keys are present; malformed entries
// otherwise propagate as decode errors.
func Read(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if _, ok := probe["nodes"]; !ok {
		return Document{}, ErrMissingCollections
	}
	if _, ok := probe["edges"]; !ok {
		return Document{}, ErrMissingCollections
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadFile reads a .fchart file at path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
