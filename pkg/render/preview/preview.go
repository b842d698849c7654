// Package preview renders computed layouts as top-down plan images.
//
// The preview looks straight down the Y axis: each image becomes a line
// segment in the X/Z plane, positioned at its translation and rotated by
// its yaw, with length equal to its width. This makes row wrapping and
// circle bending visible without opening the stage in a 3D viewer.
package preview

import (
	"bytes"
	"image/png"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"github.com/stagekit/imageseq/pkg/layout"
)

// Defaults for plan rendering.
const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultMargin  = 40.0
	minWorldExtent = 1.0
)

// Options configures plan rendering.
type Options struct {
	// Width and Height are the output image dimensions in pixels.
	// Zero values fall back to DefaultWidth and DefaultHeight.
	Width  int
	Height int

	// Margin is the padding around the drawing in pixels.
	Margin float64

	// ShowLabels draws the image ID next to each segment.
	ShowLabels bool
}

// Render draws the transforms as a top-down plan and encodes it as PNG.
func Render(transforms map[string]layout.Transform, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	ids := sortedIDs(transforms)
	if len(ids) > 0 {
		drawPlan(dc, ids, transforms, opts)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// segment is one image footprint in the X/Z plane.
type segment struct {
	id             string
	x0, z0, x1, z1 float64
	cx, cz         float64
}

func drawPlan(dc *gg.Context, ids []string, transforms map[string]layout.Transform, opts Options) {
	segs := make([]segment, 0, len(ids))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)

	for _, id := range ids {
		tr := transforms[id]
		cx, cz := tr.Translate.X(), tr.Translate.Z()
		halfW := tr.Scale.X() / 2

		// Yaw rotates around Y; a yaw of 0 leaves the image facing -Z,
		// so its footprint runs along X.
		yaw := tr.Rotate.Y() * math.Pi / 180
		dx := halfW * math.Cos(yaw)
		dz := -halfW * math.Sin(yaw)

		s := segment{
			id: id,
			x0: cx - dx, z0: cz - dz,
			x1: cx + dx, z1: cz + dz,
			cx: cx, cz: cz,
		}
		segs = append(segs, s)

		minX = math.Min(minX, math.Min(s.x0, s.x1))
		maxX = math.Max(maxX, math.Max(s.x0, s.x1))
		minZ = math.Min(minZ, math.Min(s.z0, s.z1))
		maxZ = math.Max(maxZ, math.Max(s.z0, s.z1))
	}

	// Uniform scale so the plan keeps its aspect ratio.
	spanX := math.Max(maxX-minX, minWorldExtent)
	spanZ := math.Max(maxZ-minZ, minWorldExtent)
	availW := float64(opts.Width) - 2*opts.Margin
	availH := float64(opts.Height) - 2*opts.Margin
	scale := math.Min(availW/spanX, availH/spanZ)

	// Center the plan; flip Z so larger depth draws upward.
	toPx := func(x, z float64) (float64, float64) {
		px := float64(opts.Width)/2 + (x-(minX+maxX)/2)*scale
		py := float64(opts.Height)/2 - (z-(minZ+maxZ)/2)*scale
		return px, py
	}

	dc.SetLineWidth(2)
	for _, s := range segs {
		x0, y0 := toPx(s.x0, s.z0)
		x1, y1 := toPx(s.x1, s.z1)

		dc.SetRGB(0.15, 0.35, 0.75)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()

		cx, cy := toPx(s.cx, s.cz)
		dc.SetRGB(0.85, 0.25, 0.2)
		dc.DrawCircle(cx, cy, 3)
		dc.Fill()

		if opts.ShowLabels {
			dc.SetRGB(0.2, 0.2, 0.2)
			dc.DrawStringAnchored(s.id, cx, cy-8, 0.5, 0)
		}
	}
}

// sortedIDs returns the map keys in a stable order so repeated renders of
// the same layout draw segments in the same sequence.
func sortedIDs(transforms map[string]layout.Transform) []string {
	ids := make([]string, 0, len(transforms))
	for id := range transforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
