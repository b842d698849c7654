package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/pipeline"
)

// arrangeCommand creates the arrange command: the full probe → layout →
// materialize → render pipeline.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "arrange <pattern>",
		Short: "Arrange an image sequence and write output artifacts",
		Long: `Arrange an image sequence and write output artifacts.

The arrange command expands the glob pattern, reads image dimensions, computes
the 3D layout, materializes the arrangement as textured quads, and writes the
requested formats to disk.

Formats: usda (default), json (stage tree), png (plan preview), svg (outline),
dot (outline source). Multiple formats can be requested comma-separated.

Results are cached locally for faster subsequent runs.

Examples:
  # Single row at print size
  imageseq arrange 'shots/*.png'

  # Wrap rows of 8, bent into a half circle
  imageseq arrange 'shots/*.png' --per-row 8 --curve 0.5

  # Write a plan preview next to the usda
  imageseq arrange 'shots/*.png' -f usda,png -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			opts.Formats = parseFormats(formats)
			return c.runArrange(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "formats", "f", pipeline.FormatUSDA, "comma-separated output formats: usda, json, png, svg, dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-probe images even if cached")

	// Layout flags
	c.addLayoutFlags(cmd, &opts)

	// Materialize/render flags
	cmd.Flags().StringVar(&opts.RootPath, "root", opts.RootPath, "prim path to materialize under")
	cmd.Flags().IntVar(&opts.PreviewWidth, "preview-width", opts.PreviewWidth, "plan preview width in pixels")
	cmd.Flags().IntVar(&opts.PreviewHeight, "preview-height", opts.PreviewHeight, "plan preview height in pixels")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", false, "draw image IDs on the plan preview")

	return cmd
}

// addLayoutFlags registers the layout parameter flags shared by arrange,
// layout, and preview.
func (c *CLI) addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.PixelsPerInch, "ppi", opts.PixelsPerInch, "pixels per inch for physical sizing")
	// newOptions always allocates GapFraction, so the flag writes through
	// the pointer and --gap 0 stays an explicit zero.
	cmd.Flags().Float64Var(opts.GapFraction, "gap", *opts.GapFraction, "gap between images as a fraction of the widest image")
	cmd.Flags().Float64Var(&opts.CurveFraction, "curve", opts.CurveFraction, "line-to-circle bend: 0 straight, 1 full circle")
	cmd.Flags().IntVar(&opts.ImagesPerRow, "per-row", opts.ImagesPerRow, "images per row before wrapping (0 = single row)")
}

// runArrange executes the pipeline and writes the artifacts.
func (c *CLI) runArrange(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Arranging %s...", opts.Pattern))
	spinner.Start()
	prog := newProgress(logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Arrangement failed")
		return err
	}
	spinner.Stop()
	prog.done("Pipeline complete")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", output, err)
	}

	printSuccess("Arranged %d images", result.Stats.ImageCount)
	for _, format := range opts.Formats {
		path := filepath.Join(output, artifactFilename(format))
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.ImageCount, result.CacheInfo.LayoutHit)

	return nil
}

// artifactFilename maps a format to its default output filename.
func artifactFilename(format string) string {
	switch format {
	case pipeline.FormatUSDA:
		return "arrangement.usda"
	case pipeline.FormatJSON:
		return "arrangement.json"
	case pipeline.FormatPNG:
		return "plan.png"
	case pipeline.FormatSVG:
		return "outline.svg"
	case pipeline.FormatDOT:
		return "outline.dot"
	}
	return "arrangement." + format
}
