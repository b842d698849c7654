package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/scene"
)

// inspectCommand creates the inspect command: print the stored sequence
// parameters and prim summary of a stage file.
func (c *CLI) inspectCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "inspect <stage.json>",
		Short: "Print the parameters stored on an arranged stage",
		Long: `Print the parameters stored on an arranged stage.

Every arrangement persists its layout parameters and probed image list as
attributes on the root prim, so the arrangement can be re-tuned later. The
inspect command reads them back and prints a summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], root)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "prim path holding the parameters (default: first root prim child)")

	return cmd
}

// runInspect reads the stage and prints the stored parameters.
func (c *CLI) runInspect(input, rootPath string) error {
	st, err := scene.ReadStageFile(input)
	if err != nil {
		return fmt.Errorf("load stage %s: %w", input, err)
	}

	node, err := findParamsNode(st, rootPath)
	if err != nil {
		return err
	}

	seq, err := scene.SequenceParamsFrom(node)
	if err != nil {
		return fmt.Errorf("read parameters from %s: %w", node.Path(), err)
	}

	printKeyValue("stage", st.ID)
	printKeyValue("root", node.Path())
	printKeyValue("pattern", seq.PathGlob)
	printKeyValue("images", fmt.Sprintf("%d", len(seq.Images)))
	printKeyValue("ppi", fmt.Sprintf("%g", seq.Params.PixelsPerInch))
	printKeyValue("gap", fmt.Sprintf("%g", seq.Params.GapFraction))
	printKeyValue("curve", fmt.Sprintf("%g", seq.Params.CurveFraction))
	printKeyValue("per row", fmt.Sprintf("%d", seq.Params.ImagesPerRow))
	printNewline()

	for _, img := range seq.Images {
		printDetail("%s  %dx%d", img.ID, img.WidthPx, img.HeightPx)
	}

	return nil
}

// findParamsNode locates the prim carrying the sequence parameters: either
// the explicit root path, or the first prim that has a schema version attr.
func findParamsNode(st *scene.Stage, rootPath string) (*scene.Node, error) {
	if rootPath != "" {
		node := st.At(rootPath)
		if node == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "no prim at %q", rootPath)
		}
		return node, nil
	}

	var found *scene.Node
	var walk func(n *scene.Node)
	walk = func(n *scene.Node) {
		if found != nil {
			return
		}
		if _, ok := n.Attr(scene.AttrSchemaVersion); ok {
			found = n
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(st.Root())

	if found == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "stage has no prim with stored sequence parameters")
	}
	return found, nil
}
