package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/flowkit/flowkit/pkg/flowchart"
)

// PNG rendering defaults. The canvas is captured at 2x pixel density on a
// fixed background so exports look the same everywhere.
const (
	DefaultScale      = 2.0
	DefaultBackground = "#f8fafc"
	canvasMargin      = 60.0
)

// PNGOption configures canvas PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the pixel density multiplier (default 2.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithBackground sets the background color as a hex string.
func WithBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// RenderPNG rasterizes the canvas as the editor lays it out: nodes at
// their stored positions, edges as straight connectors with arrowheads
// and labels. Unlike the graphviz path, no positions are recomputed.
func RenderPNG(nodes []flowchart.Node, edges []flowchart.Edge, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale, background: DefaultBackground}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := bounds(nodes)
	width := maxX - minX + 2*canvasMargin
	height := maxY - minY + 2*canvasMargin

	dc := gg.NewContext(int(math.Ceil(width*r.scale)), int(math.Ceil(height*r.scale)))
	dc.SetHexColor(r.background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.Translate(canvasMargin-minX, canvasMargin-minY)

	byID := make(map[string]flowchart.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range edges {
		drawEdge(dc, e, byID)
	}
	for _, n := range nodes {
		drawNode(dc, n)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func bounds(nodes []flowchart.Node) (minX, minY, maxX, maxY float64) {
	if len(nodes) == 0 {
		return 0, 0, 200, 120
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		s := n.EffectiveSize()
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+s.Width)
		maxY = math.Max(maxY, n.Position.Y+s.Height)
	}
	return minX, minY, maxX, maxY
}

func drawNode(dc *gg.Context, n flowchart.Node) {
	s := n.EffectiveSize()
	x, y := n.Position.X, n.Position.Y

	fill := n.Color
	if fill == "" {
		fill = "#ffffff"
	}
	dc.SetHexColor(fill)

	switch n.Kind {
	case flowchart.KindStart, flowchart.KindEnd:
		dc.DrawRoundedRectangle(x, y, s.Width, s.Height, math.Min(s.Width, s.Height)/2)
	case flowchart.KindDecision:
		dc.MoveTo(x+s.Width/2, y)
		dc.LineTo(x+s.Width, y+s.Height/2)
		dc.LineTo(x+s.Width/2, y+s.Height)
		dc.LineTo(x, y+s.Height/2)
		dc.ClosePath()
	default:
		dc.DrawRoundedRectangle(x, y, s.Width, s.Height, 8)
	}
	dc.FillPreserve()
	dc.SetHexColor("#334155")
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetHexColor("#0f172a")
	dc.DrawStringAnchored(displayLabel(n), x+s.Width/2, y+s.Height/2, 0.5, 0.5)
}

func drawEdge(dc *gg.Context, e flowchart.Edge, nodes map[string]flowchart.Node) {
	src, ok := nodes[e.Source]
	if !ok {
		return
	}
	dst, ok := nodes[e.Target]
	if !ok {
		return
	}
	from := handlePoint(src, e.SourceHandle)
	to := dst.Center()
	to.Y = dst.Position.Y // attach at the target's top edge

	color := e.Color
	if color == "" {
		color = flowchart.ColorDefault
	}
	dc.SetHexColor(color)
	dc.SetLineWidth(2)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	drawArrowhead(dc, from, to)

	if e.Label != "" {
		dc.DrawStringAnchored(e.Label, (from.X+to.X)/2, (from.Y+to.Y)/2-6, 0.5, 0.5)
	}
}

// handlePoint maps a source handle to a point on the node's outline.
func handlePoint(n flowchart.Node, h flowchart.Handle) flowchart.Point {
	s := n.EffectiveSize()
	c := n.Center()
	switch h {
	case flowchart.HandleFalseLeft:
		return flowchart.Point{X: n.Position.X, Y: c.Y}
	case flowchart.HandleFalseRight:
		return flowchart.Point{X: n.Position.X + s.Width, Y: c.Y}
	default: // bottom: "out" and the Decision true handle
		return flowchart.Point{X: c.X, Y: n.Position.Y + s.Height}
	}
}

func drawArrowhead(dc *gg.Context, from, to flowchart.Point) {
	const size = 8.0
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	left := angle + math.Pi - math.Pi/7
	right := angle + math.Pi + math.Pi/7
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X+size*math.Cos(left), to.Y+size*math.Sin(left))
	dc.LineTo(to.X+size*math.Cos(right), to.Y+size*math.Sin(right))
	dc.ClosePath()
	dc.Fill()
}
