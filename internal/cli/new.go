package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/project"
)

// newProjectCommand creates the new command for starting a project file.
func (c *CLI) newProjectCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "new [project.fchart]",
		Short: "Create an empty project file",
		Long: `Create an empty project file.

With --seed, the project starts with a Start node connected to an End
node instead of an empty canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNewProject(args[0], seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "start with a Start and End node")

	return cmd
}

func runNewProject(path string, seed bool) error {
	if !strings.HasSuffix(path, project.Ext) {
		path += project.Ext
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	g := flowchart.New()
	if seed {
		start := g.AddNode(flowchart.KindStart, "Start", flowchart.Point{X: 340, Y: 50})
		end := g.AddNode(flowchart.KindEnd, "End", flowchart.Point{X: 340, Y: 220})
		g.Connect(flowchart.Connection{
			Source: start.ID, SourceHandle: flowchart.HandleOut,
			Target: end.ID, TargetHandle: flowchart.HandleIn,
		})
	}

	doc := project.FromGraph(g, time.Time{})
	if err := project.WriteFile(doc, path); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}

	printSuccess("Created %s", path)
	printNewline()
	printNextStep("Edit", "flowkit edit "+path)
	return nil
}
