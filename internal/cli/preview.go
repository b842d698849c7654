package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/pipeline"
	"github.com/stagekit/imageseq/pkg/render/preview"
)

// previewCommand creates the preview command: a top-down plan PNG of the
// computed layout, without materializing a stage.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "preview <pattern>",
		Short: "Render a top-down plan preview of the layout",
		Long: `Render a top-down plan preview of the layout.

The preview looks straight down at the arrangement: each image is drawn as a
line segment at its position and yaw in the X/Z plane. Row wrapping and
circle bending are immediately visible without opening a 3D viewer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			return c.runPreview(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "plan.png", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	c.addLayoutFlags(cmd, &opts)

	// Preview flags
	cmd.Flags().IntVar(&opts.PreviewWidth, "width", opts.PreviewWidth, "preview width in pixels")
	cmd.Flags().IntVar(&opts.PreviewHeight, "height", opts.PreviewHeight, "preview height in pixels")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", false, "draw image IDs on the plan")

	return cmd
}

// runPreview computes the layout and writes the plan PNG.
func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering plan preview...")
	spinner.Start()

	seq, err := runner.Probe(ctx, opts)
	if err != nil {
		spinner.StopWithError("Probe failed")
		return err
	}

	transforms, err := runner.ComputeLayout(ctx, seq, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}

	data, err := preview.Render(transforms, preview.Options{
		Width:      opts.PreviewWidth,
		Height:     opts.PreviewHeight,
		ShowLabels: opts.ShowLabels,
	})
	if err != nil {
		spinner.StopWithError("Preview failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Preview complete")
	printFile(output)
	printStats(len(seq.Images), false)

	return nil
}
