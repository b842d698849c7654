package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/pipeline"
)

// layoutCommand creates the layout command for computing transforms without
// materializing or rendering.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "layout <pattern>",
		Short: "Compute per-image 3D transforms for an image sequence",
		Long: `Compute per-image 3D transforms for an image sequence.

The layout command expands the glob pattern, reads image dimensions, and
computes the image ID → transform mapping without building a stage. The
output is a JSON object keyed by image path, with translate, rotate, and
scale per image.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-probe images even if cached")

	// Layout flags
	c.addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout probes the sequence, computes transforms, and writes JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	seq, err := runner.Probe(ctx, opts)
	if err != nil {
		spinner.StopWithError("Probe failed")
		return err
	}

	transforms, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, seq, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(transforms, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize transforms: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(seq.Images), cacheHit)
	printNewline()
	printNextStep("Arrange", fmt.Sprintf("imageseq arrange %q", opts.Pattern))

	return nil
}
