// Package export produces one-way representations of a flowchart: a PNG
// raster of the canvas, a plain-text summary, a Mermaid diagram string, a
// Graphviz DOT string (renderable to SVG or PNG), and a clipboard helper.
//
// None of these formats round-trip; the .fchart project format in
// pkg/project is the only re-importable representation. Edge labels and
// colors in every export come from the edge itself, which the graph layer
// derived from the source node kind and handle at connect time - so "True"
// and "False" branches read the same in a text export as on the canvas.
package export
