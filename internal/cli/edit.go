package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/pkg/editor"
	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/project"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// editCommand creates the edit command for the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [project.fchart]",
		Short: "Open a project in the interactive terminal editor",
		Long: `Open a project in the interactive terminal editor.

Without an argument the editor restores the autosaved session, so an
interrupted edit picks up where it left off. Every settled mutation
overwrites the autosave slot; explicit saves go to the project file.

Keys:
  S/P/D/E      add a Start/Process/Decision/End node
  j/k          move the selection
  tab          switch between the node and edge lists
  enter        edit the selected node's label
  i            edit the selected node's description
  o            edit the selected node's color
  c            connect the selected node to another
  d            duplicate the selected node
  x            delete the selected node or edge
  m            toggle move mode (arrows nudge the node)
  u / r        undo / redo
  L            auto-layout
  w            save
  q            quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd, path)
		},
	}

	return cmd
}

// runEdit builds the session and hands control to the bubbletea program.
func (c *CLI) runEdit(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	store, err := c.newAutosaveStore(ctx)
	if err != nil {
		return fmt.Errorf("open autosave backend: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	layoutOpts := c.layoutOptions()
	session := editor.NewSession(editor.Config{
		HistoryLimit: c.Config.History.Limit,
		Debounce:     time.Duration(c.Config.History.DebounceMS) * time.Millisecond,
		Store:        store,
		Layout:       &layoutOpts,
	})
	defer session.Close()

	restored := false
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			doc, err := project.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load project %s: %w", path, err)
			}
			session.LoadDocument(ctx, doc)
		}
	} else {
		restored, err = session.RestoreAutosave(ctx)
		if err != nil {
			c.Logger.Warn("autosave restore failed", "error", err)
		}
	}

	m := newEditorModel(session, path)
	if restored {
		m.status = "Restored autosaved session"
	}

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if fm, ok := final.(editorModel); ok && fm.saveErr != nil {
		return fm.saveErr
	}
	return nil
}

// =============================================================================
// editorModel - Interactive Flowchart Editing
// =============================================================================

// editMode is the editor's input mode.
type editMode int

const (
	modeNormal editMode = iota
	modePrompt          // typing into the status-line prompt
	modeConnect         // choosing a connection target
	modeHandle          // choosing a Decision source handle
)

// promptKind identifies what the status-line prompt is collecting.
type promptKind int

const (
	promptAddLabel promptKind = iota
	promptEditLabel
	promptDescription
	promptColor
	promptSaveAs
)

// pane selects which list has keyboard focus.
type pane int

const (
	paneNodes pane = iota
	paneEdges
)

// handleChoices are the selectable source handles of a Decision node.
var handleChoices = []struct {
	handle flowchart.Handle
	label  string
}{
	{flowchart.HandleTrue, "true (down)"},
	{flowchart.HandleFalseLeft, "false (left)"},
	{flowchart.HandleFalseRight, "false (right)"},
}

// editorModel is the bubbletea model for the interactive editor.
type editorModel struct {
	session *editor.Session
	path    string

	mode  editMode
	focus pane

	cursor     int // node list selection
	edgeCursor int // edge list selection

	prompt      promptKind
	input       string
	pendingKind flowchart.Kind
	connectFrom string
	targetIdx   int
	handleIdx   int

	moving bool // arrows nudge the selected node

	status  string
	saveErr error
	width   int
	height  int
}

func newEditorModel(session *editor.Session, path string) editorModel {
	return editorModel{session: session, path: path}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConnect:
			return m.updateConnect(msg)
		case modeHandle:
			return m.updateHandle(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m editorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	nodes := m.session.Graph().Nodes()
	edges := m.session.Graph().Edges()

	if m.moving {
		return m.updateMove(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Flush()
		return m, tea.Quit

	case "j", "down":
		if m.focus == paneNodes && m.cursor < len(nodes)-1 {
			m.cursor++
		}
		if m.focus == paneEdges && m.edgeCursor < len(edges)-1 {
			m.edgeCursor++
		}

	case "k", "up":
		if m.focus == paneNodes && m.cursor > 0 {
			m.cursor--
		}
		if m.focus == paneEdges && m.edgeCursor > 0 {
			m.edgeCursor--
		}

	case "tab":
		if m.focus == paneNodes {
			m.focus = paneEdges
		} else {
			m.focus = paneNodes
		}

	case "S":
		return m.startAdd(flowchart.KindStart), nil
	case "P":
		return m.startAdd(flowchart.KindProcess), nil
	case "D":
		return m.startAdd(flowchart.KindDecision), nil
	case "E":
		return m.startAdd(flowchart.KindEnd), nil

	case "enter":
		if n, ok := m.selectedNode(); ok {
			m.mode = modePrompt
			m.prompt = promptEditLabel
			m.input = n.Label
		}

	case "i":
		if n, ok := m.selectedNode(); ok {
			m.mode = modePrompt
			m.prompt = promptDescription
			m.input = n.Description
		}

	case "o":
		if n, ok := m.selectedNode(); ok {
			m.mode = modePrompt
			m.prompt = promptColor
			m.input = n.Color
		}

	case "c":
		if n, ok := m.selectedNode(); ok && len(nodes) > 1 {
			m.mode = modeConnect
			m.connectFrom = n.ID
			m.targetIdx = 0
		}

	case "d":
		if n, ok := m.selectedNode(); ok {
			m.session.Graph().SetSelected(n.ID)
			copies := m.session.Duplicate(ctx)
			if len(copies) > 0 {
				m.status = fmt.Sprintf("Duplicated %q", displayName(copies[0]))
			}
		}

	case "x":
		if m.focus == paneEdges {
			if e, ok := m.selectedEdge(); ok {
				if err := m.session.DeleteEdge(ctx, e.ID); err == nil {
					m.status = "Edge deleted"
					if m.edgeCursor > 0 {
						m.edgeCursor--
					}
				}
			}
		} else if n, ok := m.selectedNode(); ok {
			if err := m.session.Delete(ctx, n.ID); err == nil {
				m.status = fmt.Sprintf("Deleted %q", displayName(n))
				if m.cursor > 0 {
					m.cursor--
				}
			}
		}

	case "m":
		if _, ok := m.selectedNode(); ok {
			m.moving = true
			m.session.BeginDrag()
			m.status = "Move mode: arrows nudge, m or esc settles"
		}

	case "u":
		if m.session.Undo(ctx) {
			m.status = "Undone"
			m.clampCursors()
		} else {
			m.status = "Nothing to undo"
		}

	case "r":
		if m.session.Redo(ctx) {
			m.status = "Redone"
			m.clampCursors()
		} else {
			m.status = "Nothing to redo"
		}

	case "L":
		m.session.AutoLayout(ctx)
		m.status = "Layout recomputed"

	case "w":
		if m.path == "" {
			m.mode = modePrompt
			m.prompt = promptSaveAs
			m.input = ""
			break
		}
		m.save()
	}
	return m, nil
}

// updateMove handles keys while move mode is active.
func (m editorModel) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	n, ok := m.selectedNode()
	if !ok {
		m.moving = false
		return m, nil
	}

	const step = 10.0
	pos := n.Position
	switch msg.String() {
	case "up", "k":
		pos.Y -= step
	case "down", "j":
		pos.Y += step
	case "left", "h":
		pos.X -= step
	case "right", "l":
		pos.X += step
	case "m", "esc", "enter":
		m.moving = false
		m.session.EndDrag(ctx)
		m.status = "Position settled"
		return m, nil
	case "q", "ctrl+c":
		m.session.EndDrag(ctx)
		m.session.Flush()
		return m, tea.Quit
	default:
		return m, nil
	}
	_ = m.session.Move(ctx, n.ID, pos)
	return m, nil
}

// updatePrompt handles text entry in the status-line prompt.
func (m editorModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input = ""
		return m, nil
	case "enter":
		m.mode = modeNormal
		value := m.input
		m.input = ""
		switch m.prompt {
		case promptAddLabel:
			n := m.session.AddNode(ctx, m.pendingKind, value, m.nextPosition())
			m.cursor = m.session.Graph().NodeCount() - 1
			m.status = fmt.Sprintf("Added %s %q", n.Kind, displayName(n))
		case promptEditLabel:
			if n, ok := m.selectedNode(); ok {
				_ = m.session.EditLabel(ctx, n.ID, value)
				m.status = "Label updated"
			}
		case promptDescription:
			if n, ok := m.selectedNode(); ok {
				_ = m.session.EditDescription(ctx, n.ID, value)
				m.status = "Description updated"
			}
		case promptColor:
			if n, ok := m.selectedNode(); ok {
				_ = m.session.EditColor(ctx, n.ID, value)
				m.status = "Color updated"
			}
		case promptSaveAs:
			if value == "" {
				m.status = "Save cancelled"
				return m, nil
			}
			m.path = value
			m.save()
		}
		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		m.input += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		m.input += " "
	}
	return m, nil
}

// updateConnect handles target selection for a new connection.
func (m editorModel) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	nodes := m.session.Graph().Nodes()

	switch msg.String() {
	case "esc":
		m.mode = modeNormal
	case "j", "down":
		if m.targetIdx < len(nodes)-1 {
			m.targetIdx++
		}
	case "k", "up":
		if m.targetIdx > 0 {
			m.targetIdx--
		}
	case "enter":
		target := nodes[m.targetIdx]
		src, ok := m.session.Graph().Node(m.connectFrom)
		if !ok {
			m.mode = modeNormal
			break
		}
		if src.Kind == flowchart.KindDecision {
			m.mode = modeHandle
			m.handleIdx = 0
			break
		}
		m.mode = modeNormal
		if _, ok := m.session.Connect(ctx, flowchart.Connection{
			Source: src.ID, SourceHandle: flowchart.HandleOut,
			Target: target.ID, TargetHandle: flowchart.HandleIn,
		}); ok {
			m.status = fmt.Sprintf("Connected to %q", displayName(target))
		} else {
			m.status = "Connection not allowed"
		}
	}
	return m, nil
}

// updateHandle handles source-handle selection for a Decision connection.
func (m editorModel) updateHandle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
	case "j", "down":
		if m.handleIdx < len(handleChoices)-1 {
			m.handleIdx++
		}
	case "k", "up":
		if m.handleIdx > 0 {
			m.handleIdx--
		}
	case "enter":
		m.mode = modeNormal
		nodes := m.session.Graph().Nodes()
		if m.targetIdx >= len(nodes) {
			break
		}
		target := nodes[m.targetIdx]
		if _, ok := m.session.Connect(ctx, flowchart.Connection{
			Source:       m.connectFrom,
			SourceHandle: handleChoices[m.handleIdx].handle,
			Target:       target.ID,
			TargetHandle: flowchart.HandleIn,
		}); ok {
			m.status = fmt.Sprintf("Connected to %q (%s)", displayName(target), handleChoices[m.handleIdx].label)
		} else {
			m.status = "Connection not allowed"
		}
	}
	return m, nil
}

// View renders the node list, the edge list, and the status line.
func (m editorModel) View() string {
	var b strings.Builder

	title := m.path
	if title == "" {
		title = "untitled"
	}
	b.WriteString(StyleTitle.Render("flowkit · "+title) + "\n\n")

	nodes := m.session.Graph().Nodes()
	edges := m.session.Graph().Edges()

	b.WriteString(m.renderNodePane(nodes))
	b.WriteString("\n")
	b.WriteString(m.renderEdgePane(nodes, edges))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m editorModel) renderNodePane(nodes []flowchart.Node) string {
	var b strings.Builder
	header := fmt.Sprintf("Nodes (%d)", len(nodes))
	if m.focus == paneNodes && m.mode == modeNormal {
		header += " " + StyleDim.Render("· focused")
	}
	b.WriteString(StyleHighlight.Render(header) + "\n")

	if len(nodes) == 0 {
		b.WriteString(StyleDim.Render("  no nodes - press S, P, D, or E to add one") + "\n")
		return b.String()
	}
	for i, n := range nodes {
		marker := "  "
		style := listNormalStyle
		switch {
		case m.mode == modeConnect && i == m.targetIdx:
			marker = iconArrow + " "
			style = listSelectedStyle
		case m.mode != modeConnect && m.focus == paneNodes && i == m.cursor:
			marker = iconArrow + " "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s[%s] %s", marker, n.Kind, displayName(n))
		b.WriteString(style.Render(line))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  (%.0f, %.0f)", n.Position.X, n.Position.Y)))
		if m.moving && m.focus == paneNodes && i == m.cursor {
			b.WriteString(" " + StyleWarning.Render("moving"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m editorModel) renderEdgePane(nodes []flowchart.Node, edges []flowchart.Edge) string {
	var b strings.Builder
	header := fmt.Sprintf("Edges (%d)", len(edges))
	if m.focus == paneEdges && m.mode == modeNormal {
		header += " " + StyleDim.Render("· focused")
	}
	b.WriteString(StyleHighlight.Render(header) + "\n")

	if len(edges) == 0 {
		b.WriteString(StyleDim.Render("  no edges - press c on a node to connect it") + "\n")
		return b.String()
	}
	byID := make(map[string]flowchart.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for i, e := range edges {
		marker := "  "
		style := listNormalStyle
		if m.focus == paneEdges && i == m.edgeCursor {
			marker = iconArrow + " "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%s %s %s", marker, displayName(byID[e.Source]), iconArrow, displayName(byID[e.Target]))
		if e.Label != "" {
			line += " [" + e.Label + "]"
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

func (m editorModel) renderStatusLine() string {
	switch m.mode {
	case modePrompt:
		return StyleHighlight.Render(m.promptTitle()+": ") + StyleValue.Render(m.input+"▌")
	case modeConnect:
		return StyleHighlight.Render("Connect to: ") + StyleDim.Render("j/k to choose, enter to confirm, esc to cancel")
	case modeHandle:
		var parts []string
		for i, h := range handleChoices {
			s := h.label
			if i == m.handleIdx {
				s = listSelectedStyle.Render(s)
			} else {
				s = StyleDim.Render(s)
			}
			parts = append(parts, s)
		}
		return StyleHighlight.Render("Branch: ") + strings.Join(parts, StyleDim.Render(" · "))
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	undo, redo := "u undo", "r redo"
	if !m.session.History().CanUndo() {
		undo = ""
	}
	if !m.session.History().CanRedo() {
		redo = ""
	}
	help := []string{"S/P/D/E add", "c connect", "enter label", "m move", "x delete", undo, redo, "L layout", "w save", "q quit"}
	var shown []string
	for _, h := range help {
		if h != "" {
			shown = append(shown, h)
		}
	}
	b.WriteString(StyleDim.Render(strings.Join(shown, " · ")))
	return b.String()
}

func (m editorModel) promptTitle() string {
	switch m.prompt {
	case promptAddLabel:
		return fmt.Sprintf("Label for new %s node", m.pendingKind)
	case promptEditLabel:
		return "Label"
	case promptDescription:
		return "Description"
	case promptColor:
		return "Color (hex)"
	case promptSaveAs:
		return "Save as"
	}
	return ""
}

// startAdd opens the label prompt for a new node of the given kind.
func (m editorModel) startAdd(kind flowchart.Kind) editorModel {
	m.mode = modePrompt
	m.prompt = promptAddLabel
	m.pendingKind = kind
	m.input = ""
	return m
}

// save writes the project file and records the outcome in the status line.
func (m *editorModel) save() {
	m.session.Flush()
	if err := project.WriteFile(m.session.Document(), m.path); err != nil {
		m.saveErr = err
		m.status = "Save failed: " + err.Error()
		return
	}
	m.saveErr = nil
	m.status = "Saved " + m.path
}

// nextPosition cascades new nodes so they don't stack exactly on top of
// each other before a layout pass.
func (m editorModel) nextPosition() flowchart.Point {
	i := m.session.Graph().NodeCount()
	return flowchart.Point{
		X: 100 + float64(i%8)*40,
		Y: 80 + float64(i%8)*40,
	}
}

func (m editorModel) selectedNode() (flowchart.Node, bool) {
	nodes := m.session.Graph().Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return flowchart.Node{}, false
	}
	return nodes[m.cursor], true
}

func (m editorModel) selectedEdge() (flowchart.Edge, bool) {
	edges := m.session.Graph().Edges()
	if m.edgeCursor < 0 || m.edgeCursor >= len(edges) {
		return flowchart.Edge{}, false
	}
	return edges[m.edgeCursor], true
}

// clampCursors keeps both selections in range after undo/redo shrinks a
// collection.
func (m *editorModel) clampCursors() {
	if n := m.session.Graph().NodeCount(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if n := m.session.Graph().EdgeCount(); m.edgeCursor >= n {
		m.edgeCursor = max(0, n-1)
	}
}

// displayName returns the node's label, or its kind when unlabeled.
func displayName(n flowchart.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Kind)
}
