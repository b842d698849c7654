package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/pipeline"
)

// tuneCommand creates the tune command.
func (c *CLI) tuneCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "tune <pattern>",
		Short: "Interactively tune arrangement parameters",
		Long: `Tune opens an interactive panel for adjusting the arrangement
parameters (pixels per inch, gap fraction, curve fraction, images per
row) against a live character plan of the resulting layout.

Press enter to accept: the arrangement is materialized with the chosen
parameters and written like 'arrange'. Press q or esc to leave the
parameters unchanged without writing anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			opts.Formats = parseFormats(formats)
			return c.runTune(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "formats", "f", pipeline.FormatUSDA, "comma-separated output formats: usda, json, png, svg, dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runTune(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	seq, err := pipeline.Probe(ctx, opts)
	if err != nil {
		printError("Probe failed: %s", errors.UserMessage(err))
		return err
	}

	model := NewTuneModel(seq.Images, opts.LayoutParams())
	program := tea.NewProgram(model, tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "tune panel failed")
	}

	result, ok := final.(TuneModel)
	if !ok || !result.Accepted {
		printInfo("Tuning cancelled, parameters unchanged")
		return nil
	}

	p := result.Params
	printSuccess("Parameters accepted")
	printKeyValue("ppi", fmt.Sprintf("%g", p.PixelsPerInch))
	printKeyValue("gap", fmt.Sprintf("%g", p.GapFraction))
	printKeyValue("curve", fmt.Sprintf("%g", p.CurveFraction))
	printKeyValue("per row", fmt.Sprintf("%d", p.ImagesPerRow))
	printNewline()

	opts.PixelsPerInch = p.PixelsPerInch
	opts.GapFraction = &p.GapFraction
	opts.CurveFraction = p.CurveFraction
	opts.ImagesPerRow = p.ImagesPerRow

	return c.runArrange(ctx, opts, output, noCache)
}
