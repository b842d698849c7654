// Package pipeline provides the core arrangement pipeline for imageseq.
//
// This package implements the complete probe → layout → materialize → render
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Probe: Expand the glob pattern and read image dimensions from disk
//  2. Layout: Compute per-image 3D transforms (rows, circle bending)
//  3. Materialize: Realize the transforms as textured quad prims on a stage
//  4. Render: Generate output in various formats (USDA, JSON, PNG, SVG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Pattern: "shots/*.png",
//	    Formats: []string{"usda"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	usda := result.Artifacts["usda"]
//
// Run individual stages:
//
//	// Probe only
//	seq, err := runner.Probe(ctx, opts)
//
//	// Layout with an existing sequence
//	transforms, err := runner.ComputeLayout(ctx, seq, opts)
//
//	// Materialize and render with existing transforms
//	stage, err := runner.Materialize(ctx, seq, transforms, opts)
//	artifacts, err := runner.Render(ctx, stage, transforms, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagekit/imageseq/pkg/cache"
	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPixelsPerInch is the default print resolution for converting
	// pixel dimensions to world centimeters.
	DefaultPixelsPerInch = 300.0

	// DefaultGapFraction is the default gap between images, as a fraction
	// of the widest image.
	DefaultGapFraction = 0.1

	// DefaultImagesPerRow places all images on a single row.
	DefaultImagesPerRow = 0

	// DefaultRootPath is the default prim path the arrangement is
	// materialized under.
	DefaultRootPath = "/World/ImageSequence"

	// DefaultPreviewWidth is the default plan preview width in pixels.
	DefaultPreviewWidth = 800

	// DefaultPreviewHeight is the default plan preview height in pixels.
	DefaultPreviewHeight = 600
)

// Format constants for output formats.
const (
	FormatUSDA = "usda"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatUSDA: true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatSVG:  true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the arrangement pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Probe options
	Pattern string `json:"pattern,omitempty"`
	// Images bypasses probing when the caller already knows the
	// dimensions (e.g. API requests carrying them inline).
	Images  []layout.Image `json:"images,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`

	// Layout options
	PixelsPerInch float64 `json:"pixels_per_inch,omitempty"`
	// GapFraction is a pointer so that an explicit zero gap (images
	// touching edge to edge) is distinguishable from an omitted value.
	GapFraction   *float64 `json:"gap_fraction,omitempty"`
	CurveFraction float64  `json:"curve_fraction,omitempty"`
	ImagesPerRow  int     `json:"images_per_row,omitempty"`

	// Materialize options
	RootPath string `json:"root_path,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	PreviewWidth  int      `json:"preview_width,omitempty"`
	PreviewHeight int      `json:"preview_height,omitempty"`
	ShowLabels    bool     `json:"show_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Sequence is the probed image sequence.
	Sequence scene.Sequence

	// SequenceHash is the content hash of the probed sequence.
	SequenceHash string

	// Transforms is the computed image ID → transform mapping.
	Transforms map[string]layout.Transform

	// Stage is the materialized stage.
	Stage *scene.Stage

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount      int
	ProbeTime       time.Duration
	LayoutTime      time.Duration
	MaterializeTime time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ProbeHit  bool // Whether the probed sequence came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: usda, json, png, svg, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForProbe(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForProbe checks required fields for probing.
func (o *Options) ValidateForProbe() error {
	if o.Pattern == "" && len(o.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "pattern or images is required")
	}
	if o.Pattern != "" {
		if err := errors.ValidateGlobPattern(o.Pattern); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.PixelsPerInch == 0 {
		o.PixelsPerInch = DefaultPixelsPerInch
	}
	if o.GapFraction == nil {
		gap := DefaultGapFraction
		o.GapFraction = &gap
	}
	if o.ImagesPerRow == 0 {
		o.ImagesPerRow = DefaultImagesPerRow
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !(o.PixelsPerInch > 0) {
		return errors.New(errors.ErrCodeInvalidParameter,
			"pixels_per_inch must be positive, got %v", o.PixelsPerInch)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatUSDA}
	}
	if o.RootPath == "" {
		o.RootPath = DefaultRootPath
	}
	if o.PreviewWidth == 0 {
		o.PreviewWidth = DefaultPreviewWidth
	}
	if o.PreviewHeight == 0 {
		o.PreviewHeight = DefaultPreviewHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidatePrimPath(o.RootPath); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// gap returns the effective gap fraction, falling back to the default
// when the caller never set one.
func (o *Options) gap() float64 {
	if o.GapFraction != nil {
		return *o.GapFraction
	}
	return DefaultGapFraction
}

// LayoutParams converts the options into layout engine parameters.
func (o *Options) LayoutParams() layout.Params {
	return layout.Params{
		PixelsPerInch: o.PixelsPerInch,
		GapFraction:   o.gap(),
		CurveFraction: o.CurveFraction,
		ImagesPerRow:  o.ImagesPerRow,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		PixelsPerInch: o.PixelsPerInch,
		GapFraction:   o.gap(),
		CurveFraction: o.CurveFraction,
		ImagesPerRow:  o.ImagesPerRow,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		RootPath: o.RootPath,
	}
}

// String returns a short human-readable summary, useful for logging.
func (o *Options) String() string {
	return fmt.Sprintf("pattern=%q ppi=%v gap=%v curve=%v per_row=%d formats=%v",
		o.Pattern, o.PixelsPerInch, o.gap(), o.CurveFraction, o.ImagesPerRow, o.Formats)
}
