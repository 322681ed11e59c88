package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/pkg/cache"
	"github.com/flowkit/flowkit/pkg/export"
	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/observability"
	"github.com/flowkit/flowkit/pkg/project"
)

// exportFormats maps a format name to its file extension.
var exportFormats = map[string]string{
	"png":     ".png",
	"svg":     ".svg",
	"dot":     ".dot",
	"mermaid": ".mmd",
	"txt":     ".txt",
}

// exportCommand creates the export command for rendering diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formats    string
		output     string
		noCache    bool
		toClip     bool
		scale      float64
		background string
	)

	cmd := &cobra.Command{
		Use:   "export [project.fchart]",
		Short: "Render a project as PNG, SVG, DOT, Mermaid, or text",
		Long: `Render a project as PNG, SVG, DOT, Mermaid, or text.

PNG rasterizes the canvas exactly as laid out, at 2x pixel density by
default. SVG and DOT go through Graphviz, which recomputes positions.
Mermaid and text are plain-text formats; use --copy to put them on the
system clipboard instead of writing a file.

Rendered artifacts are cached locally, keyed by project content, format,
and scale. Use --no-cache to force a fresh render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], exportOptions{
				formats:    parseFormats(formats),
				output:     output,
				noCache:    noCache,
				toClip:     toClip,
				scale:      scale,
				background: background,
			})
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "png", "comma-separated formats: png, svg, dot, mermaid, txt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file base path (default: input path without extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().BoolVar(&toClip, "copy", false, "copy text output to the clipboard instead of writing a file")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG pixel density multiplier (default from config)")
	cmd.Flags().StringVar(&background, "background", "", "PNG background hex color (default from config)")

	return cmd
}

type exportOptions struct {
	formats    []string
	output     string
	noCache    bool
	toClip     bool
	scale      float64
	background string
}

// runExport loads the project and renders each requested format.
func (c *CLI) runExport(ctx context.Context, input string, opts exportOptions) error {
	for _, f := range opts.formats {
		if _, ok := exportFormats[f]; !ok {
			return fmt.Errorf("unsupported format %q (choose from: png, svg, dot, mermaid, txt)", f)
		}
	}
	if opts.toClip && len(opts.formats) != 1 {
		return fmt.Errorf("--copy requires exactly one format")
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read project %s: %w", input, err)
	}
	doc, err := project.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load project %s: %w", input, err)
	}
	g := flowchart.New()
	doc.Apply(g)

	if opts.scale <= 0 {
		opts.scale = c.Config.Export.Scale
	}
	if opts.background == "" {
		opts.background = c.Config.Export.Background
	}

	artifacts := newArtifactCache(opts.noCache)
	defer artifacts.Close()

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	prog := newProgress(loggerFromContext(ctx))
	for _, format := range opts.formats {
		started := time.Now()
		observability.Export().OnExportStart(ctx, format)
		data, cached, err := c.renderFormat(ctx, g, raw, format, opts, artifacts)
		observability.Export().OnExportComplete(ctx, format, len(data), time.Since(started), err)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}

		if opts.toClip {
			if err := export.CopyText(string(data)); err != nil {
				return err
			}
			printSuccess("Copied %s output to clipboard", format)
			printStats(g.NodeCount(), g.EdgeCount(), cached)
			continue
		}

		outputPath := base + exportFormats[format]
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		printSuccess("Exported %s", format)
		printFile(outputPath)
		printStats(g.NodeCount(), g.EdgeCount(), cached)
	}
	prog.done(fmt.Sprintf("Exported %d format(s)", len(opts.formats)))

	return nil
}

// renderFormat produces one artifact, going through the cache for the
// raster formats. Text formats are cheap enough to always recompute.
func (c *CLI) renderFormat(ctx context.Context, g *flowchart.Graph, raw []byte, format string, opts exportOptions, artifacts cache.Cache) ([]byte, bool, error) {
	nodes, edges := g.Nodes(), g.Edges()

	switch format {
	case "mermaid":
		return []byte(export.Mermaid(nodes, edges)), false, nil
	case "txt":
		return []byte(export.Text(nodes, edges)), false, nil
	case "dot":
		return []byte(export.ToDOT(nodes, edges)), false, nil
	}

	key := cache.ArtifactKey(cache.Hash(raw), format, opts.scale)
	if data, hit, err := artifacts.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, key)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, key)

	spinner := startRenderSpinner(ctx, format)

	var data []byte
	var err error
	switch format {
	case "svg":
		data, err = export.RenderSVG(ctx, export.ToDOT(nodes, edges))
	case "png":
		data, err = export.RenderPNG(nodes, edges,
			export.WithScale(opts.scale),
			export.WithBackground(opts.background))
	}
	if err != nil {
		spinner.fail("Render failed")
		return nil, false, err
	}
	spinner.stop()

	if err := artifacts.Set(ctx, key, data, artifactTTL); err != nil {
		loggerFromContext(ctx).Warn("failed to cache artifact", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}
