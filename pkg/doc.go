// Package pkg provides the core libraries for imageseq arrangement.
//
// # Overview
//
// Imageseq turns a sequence of images into a 3D arrangement of textured
// quads sized at physical print dimensions, optionally wrapped into rows
// and bent from a straight line toward a circle. The pkg directory is
// organized into five main areas:
//
//  1. [layout] - The layout engine (image dims + params → per-image transforms)
//  2. [imagemeta] - Glob expansion and image dimension probing
//  3. [scene] - In-memory stage model, parameter attributes, materialization
//  4. [render] - Output formats (USDA, plan preview PNG, outline SVG/PNG/DOT)
//  5. [pipeline] - Orchestration (probe → layout → materialize → render)
//
// # Architecture
//
// The typical data flow:
//
//	Glob pattern / inline images
//	         ↓
//	    [imagemeta] (expand + probe dimensions)
//	         ↓
//	    [layout] (compute translate/rotate/scale per image)
//	         ↓
//	    [scene] (materialize textured quads under a root prim)
//	         ↓
//	    [render] (USDA / JSON / PNG / SVG / DOT output)
//
// # Quick Start
//
// Compute a layout and materialize it:
//
//	import (
//	    "github.com/stagekit/imageseq/pkg/layout"
//	    "github.com/stagekit/imageseq/pkg/scene"
//	)
//
//	images := []layout.Image{{ID: "a.png", WidthPx: 300, HeightPx: 200}}
//	params := layout.Params{PixelsPerInch: 300, GapFraction: 0.1}
//	transforms, _ := layout.Compute(images, params)
//
//	st := scene.New()
//	seq := scene.Sequence{Images: images, Params: params}
//	_ = scene.Materialize(st, "/World/ImageSequence", seq, transforms)
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, keyer, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Pattern: "shots/*.png"})
//
// # Infrastructure
//
// [cache] - Pluggable cache backends (file, Redis, MongoDB, null) with
// stage-scoped key derivation.
//
// [errors] - Code-typed errors with user-facing messages.
//
// [observability] - Pipeline, cache, and API hook registries.
//
// [layout]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/layout
// [imagemeta]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/imagemeta
// [scene]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/scene
// [render]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/cache
// [errors]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/errors
// [observability]: https://pkg.go.dev/github.com/stagekit/imageseq/pkg/observability
package pkg
