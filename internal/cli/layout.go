package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/layout"
	"github.com/flowkit/flowkit/pkg/project"
)

// layoutCommand creates the layout command for recomputing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		hSpacing float64
		vGap     float64
	)

	cmd := &cobra.Command{
		Use:   "layout [project.fchart]",
		Short: "Recompute node positions from connectivity",
		Long: `Recompute node positions from connectivity.

The layout command reads a .fchart project file and assigns every node a
fresh position: flows are traversed top to bottom from each Start node,
Decision branches split sideways, and nodes unreachable from any Start
node are stacked in columns to the right. A project without a Start node
falls back to a simple grid.

The result is written back to the input file unless --output is given.
Positions are deterministic: the same project always lays out the same.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, hSpacing, vGap)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().Float64Var(&hSpacing, "h-spacing", 0, "horizontal spacing between sibling nodes")
	cmd.Flags().Float64Var(&vGap, "v-gap", 0, "vertical gap between a node and its children")

	return cmd
}

// runLayout loads the project, computes positions, and writes the result.
func (c *CLI) runLayout(ctx context.Context, input, output string, hSpacing, vGap float64) error {
	doc, err := project.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load project %s: %w", input, err)
	}

	g := flowchart.New()
	doc.Apply(g)

	opts := c.layoutOptions()
	if hSpacing > 0 {
		opts.HSpacing = hSpacing
	}
	if vGap > 0 {
		opts.VGap = vGap
	}

	prog := newProgress(loggerFromContext(ctx))
	positions := layout.Compute(g.Nodes(), g.Edges(), opts)
	for id, pos := range positions {
		if err := g.MoveNode(id, pos); err != nil {
			return fmt.Errorf("apply position for node %s: %w", id, err)
		}
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", g.NodeCount()))

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	out := project.FromGraph(g, doc.CreatedAt)
	if err := project.WriteFile(out, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printNextStep("Render", "flowkit export "+outputPath)

	return nil
}
