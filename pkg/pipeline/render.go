package pipeline

import (
	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/render/outline"
	"github.com/stagekit/imageseq/pkg/render/preview"
	"github.com/stagekit/imageseq/pkg/render/usda"
	"github.com/stagekit/imageseq/pkg/scene"
)

// Render generates output artifacts in the requested formats.
//
// The stage carries the materialized prims (used by usda, json, svg, dot);
// transforms carry the raw layout (used by png plan previews).
func Render(stage *scene.Stage, transforms map[string]layout.Transform, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var dot string // computed once, shared by svg and dot formats

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatUSDA:
			data, err = usda.Render(stage)
		case FormatJSON:
			data, err = scene.MarshalStage(stage)
		case FormatPNG:
			data, err = preview.Render(transforms, preview.Options{
				Width:      opts.PreviewWidth,
				Height:     opts.PreviewHeight,
				ShowLabels: opts.ShowLabels,
			})
		case FormatSVG:
			if dot == "" {
				dot = outline.ToDOT(stage, outline.Options{})
			}
			data, err = outline.RenderSVG(dot)
		case FormatDOT:
			if dot == "" {
				dot = outline.ToDOT(stage, outline.Options{})
			}
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
