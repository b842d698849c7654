// Package render provides output rendering for materialized stages.
//
// # Overview
//
// This package contains the sinks that turn an in-memory stage or a computed
// layout into artifacts:
//
//   - USDA text export (in [usda] subpackage)
//   - Top-down plan previews as PNG (in [preview] subpackage)
//   - Stage outline diagrams via Graphviz (in [outline] subpackage)
//
// # USDA Export
//
// The [usda] subpackage serializes a stage to the USD text format so the
// arrangement can be opened in any USD-aware tool.
//
//	data, err := usda.Render(stage)
//
// # Plan Previews
//
// The [preview] subpackage draws the computed transforms from above (the
// X/Z plane) as a raster image, which makes row wrapping and circle bending
// easy to eyeball without a 3D viewer.
//
//	png, err := preview.Render(transforms, preview.Options{})
//
// # Outline Diagrams
//
// The [outline] subpackage converts the prim tree to Graphviz DOT and
// renders it as SVG or PNG. Useful for inspecting what a materialization
// actually produced.
//
//	dot := outline.ToDOT(stage, outline.Options{})
//	svg, err := outline.RenderSVG(dot)
//
// [usda]: github.com/stagekit/imageseq/pkg/render/usda
// [preview]: github.com/stagekit/imageseq/pkg/render/preview
// [outline]: github.com/stagekit/imageseq/pkg/render/outline
package render
