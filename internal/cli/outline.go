package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/render/outline"
	"github.com/stagekit/imageseq/pkg/scene"
)

// outlineCommand creates the outline command: a Graphviz diagram of a stage
// file's prim tree.
func (c *CLI) outlineCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "outline <stage.json>",
		Short: "Render a stage's prim tree as a Graphviz diagram",
		Long: `Render a stage's prim tree as a Graphviz diagram.

The outline command reads a stage file (produced by 'arrange -f json') and
draws its prim hierarchy: every prim becomes a node, every parent/child
relation an edge. Formats: svg (default), png, dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOutline(args[0], output, format, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.outline.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include attribute counts in labels")

	return cmd
}

// runOutline reads the stage and renders the diagram.
func (c *CLI) runOutline(input, output, format string, detailed bool) error {
	st, err := scene.ReadStageFile(input)
	if err != nil {
		return fmt.Errorf("load stage %s: %w", input, err)
	}

	dot := outline.ToDOT(st, outline.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = outline.RenderSVG(dot)
	case "png":
		data, err = outline.RenderPNG(dot)
	default:
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot)", format)
	}
	if err != nil {
		return fmt.Errorf("render outline: %w", err)
	}

	if output == "" {
		base := strings.TrimSuffix(input, ".json")
		output = base + ".outline." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Outline complete")
	printFile(output)

	return nil
}
