package scene

import (
	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

// SchemaVersion is the current version of the persisted parameter schema.
// Readers must reject stages written with a newer version.
const SchemaVersion = 1

// Attribute names of the persisted parameter schema. Each layout parameter
// is written field-by-field to its own typed attribute so any runtime can
// read the layout back without shared object-model assumptions.
const (
	AttrSchemaVersion = "imageseq:schemaVersion"
	AttrPixelsPerInch = "imageseq:pixelsPerInch"
	AttrGapFraction   = "imageseq:gapFraction"
	AttrCurveFraction = "imageseq:curveFraction"
	AttrImagesPerRow  = "imageseq:imagesPerRow"
	AttrPathGlob      = "imageseq:pathGlob"
	AttrImagePaths    = "imageseq:imagePaths"
	AttrImageWidths   = "imageseq:imageWidths"
	AttrImageHeights  = "imageseq:imageHeights"
)

// Sequence is the persisted unit of an image-sequence arrangement: the glob
// that produced it, the resolved image list (identity and pixel dimensions),
// and the layout parameters. Persisting the resolved list lets a later edit
// session reconstruct the exact layout inputs even if files moved.
type Sequence struct {
	PathGlob string         `json:"path_glob,omitempty"`
	Images   []layout.Image `json:"images"`
	Params   layout.Params  `json:"params"`
}

// SetSequenceParams writes the sequence's parameters onto n as individual
// typed attributes, replacing any previous values.
func SetSequenceParams(n *Node, seq Sequence) {
	paths := make([]string, len(seq.Images))
	widths := make([]int, len(seq.Images))
	heights := make([]int, len(seq.Images))
	for i, img := range seq.Images {
		paths[i] = img.ID
		widths[i] = img.WidthPx
		heights[i] = img.HeightPx
	}

	n.Set(AttrSchemaVersion, Int(SchemaVersion))
	n.Set(AttrPixelsPerInch, Float(seq.Params.PixelsPerInch))
	n.Set(AttrGapFraction, Float(seq.Params.GapFraction))
	n.Set(AttrCurveFraction, Float(seq.Params.CurveFraction))
	n.Set(AttrImagesPerRow, Int(seq.Params.ImagesPerRow))
	n.Set(AttrPathGlob, String(seq.PathGlob))
	n.Set(AttrImagePaths, Strings(paths))
	n.Set(AttrImageWidths, Ints(widths))
	n.Set(AttrImageHeights, Ints(heights))
}

// SequenceParamsFrom reads a persisted sequence back from n.
//
// It fails with INVALID_STAGE if the schema version attribute is missing or
// malformed, with UNSUPPORTED if the stage was written by a newer schema,
// and with INVALID_STAGE if the image attribute arrays disagree in length.
func SequenceParamsFrom(n *Node) (Sequence, error) {
	var seq Sequence

	versionAttr, ok := n.Attr(AttrSchemaVersion)
	if !ok {
		return seq, errors.New(errors.ErrCodeInvalidStage,
			"prim %s carries no %s attribute", n.Path(), AttrSchemaVersion)
	}
	version, ok := versionAttr.AsInt()
	if !ok || version < 1 {
		return seq, errors.New(errors.ErrCodeInvalidStage,
			"prim %s has malformed schema version", n.Path())
	}
	if version > SchemaVersion {
		return seq, errors.New(errors.ErrCodeUnsupported,
			"prim %s written with schema version %d, this build reads up to %d",
			n.Path(), version, SchemaVersion)
	}

	if a, ok := n.Attr(AttrPixelsPerInch); ok {
		seq.Params.PixelsPerInch, _ = a.AsFloat()
	}
	if a, ok := n.Attr(AttrGapFraction); ok {
		seq.Params.GapFraction, _ = a.AsFloat()
	}
	if a, ok := n.Attr(AttrCurveFraction); ok {
		seq.Params.CurveFraction, _ = a.AsFloat()
	}
	if a, ok := n.Attr(AttrImagesPerRow); ok {
		seq.Params.ImagesPerRow, _ = a.AsInt()
	}
	if a, ok := n.Attr(AttrPathGlob); ok {
		seq.PathGlob, _ = a.AsString()
	}

	var paths []string
	var widths, heights []int
	if a, ok := n.Attr(AttrImagePaths); ok {
		paths, _ = a.AsStrings()
	}
	if a, ok := n.Attr(AttrImageWidths); ok {
		widths, _ = a.AsInts()
	}
	if a, ok := n.Attr(AttrImageHeights); ok {
		heights, _ = a.AsInts()
	}
	if len(paths) != len(widths) || len(paths) != len(heights) {
		return seq, errors.New(errors.ErrCodeInvalidStage,
			"prim %s image attribute arrays disagree: %d paths, %d widths, %d heights",
			n.Path(), len(paths), len(widths), len(heights))
	}

	seq.Images = make([]layout.Image, len(paths))
	for i := range paths {
		seq.Images[i] = layout.Image{ID: paths[i], WidthPx: widths[i], HeightPx: heights[i]}
	}

	return seq, nil
}
