package layout

import (
	"math"

	"github.com/stagekit/imageseq/pkg/errors"
)

// CmPerInch converts inches to centimeters, the engine's canonical
// physical unit.
const CmPerInch = 2.54

// Vec3 is a 3-component vector. It serializes to a JSON array [x, y, z].
type Vec3 [3]float64

// X returns the first component.
func (v Vec3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vec3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vec3) Z() float64 { return v[2] }

// Image describes one input image: an opaque identity plus pixel dimensions.
// The identity is typically a file path and is never interpreted by the
// engine; it only keys the result mapping.
type Image struct {
	ID       string `json:"id"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`
}

// Params are the layout parameters for a single computation.
// Parameters are immutable inputs; the engine keeps no state between calls.
type Params struct {
	// PixelsPerInch is the print density used to convert pixel dimensions
	// to physical size. Must be positive.
	PixelsPerInch float64 `json:"pixels_per_inch"`

	// GapFraction is the inter-image gap as a fraction of the maximum
	// image width, typically in [0,1].
	GapFraction float64 `json:"gap_fraction"`

	// CurveFraction interpolates each row between a straight line (0) and
	// a circular arc (1). Values outside [0,1] are clamped.
	CurveFraction float64 `json:"curve_fraction"`

	// ImagesPerRow wraps to a new row after this many images. Values less
	// than 1 mean the whole sequence forms a single row.
	ImagesPerRow int `json:"images_per_row"`
}

// Transform is the placement of one image: translation in centimeters,
// rotation in degrees (only the yaw component is ever non-zero), and scale
// (only width and height are ever non-unit).
type Transform struct {
	Translate Vec3 `json:"translate"`
	Rotate    Vec3 `json:"rotate"`
	Scale     Vec3 `json:"scale"`
}

// Compute maps every image to its placement transform.
//
// Images are placed left to right in input order, wrapping to a new row
// after ImagesPerRow images, with the whole arrangement centered on the
// origin in the horizontal plane. Rows step downward; curvature bends each
// row within its own vertical level, never across rows.
//
// The result has exactly one entry per input image, keyed by identity.
// Identity collisions are the caller's responsibility to avoid.
//
// An empty input yields an empty mapping and no error. A non-positive (or
// NaN) PixelsPerInch fails with an INVALID_PARAMETER error; all other
// parameter ranges produce defined degenerate layouts rather than errors.
func Compute(images []Image, params Params) (map[string]Transform, error) {
	transforms := make(map[string]Transform, len(images))
	if len(images) == 0 {
		return transforms, nil
	}

	ppi := params.PixelsPerInch
	if !(ppi > 0) {
		return nil, errors.New(errors.ErrCodeInvalidParameter,
			"pixels per inch must be positive, got %g", ppi)
	}

	var maxWidthCm, maxHeightCm float64
	for _, img := range images {
		if w := float64(img.WidthPx) / ppi * CmPerInch; w > maxWidthCm {
			maxWidthCm = w
		}
		if h := float64(img.HeightPx) / ppi * CmPerInch; h > maxHeightCm {
			maxHeightCm = h
		}
	}

	imagesPerRow := params.ImagesPerRow
	if imagesPerRow < 1 {
		imagesPerRow = len(images)
	}
	totalRows := (len(images) + imagesPerRow - 1) / imagesPerRow

	gapCm := params.GapFraction * maxWidthCm

	spans := float64(imagesPerRow - 1)
	totalWidthCm := math.Max(maxWidthCm*spans+gapCm*math.Max(spans, 0), 0)

	rowSpans := float64(totalRows - 1)
	totalHeightCm := rowSpans*maxHeightCm + gapCm*math.Max(rowSpans, 0)

	curve := math.Min(math.Max(params.CurveFraction, 0), 1)

	const fullCircle = 2 * math.Pi
	const turns = math.Pi // half a circle: a row bends into a semicircle per side

	leftmost := -0.5 * totalWidthCm
	left := leftmost
	top := 0.5 * totalHeightCm

	seen := 0
	for _, img := range images {
		if seen > imagesPerRow-1 {
			left = leftmost
			top -= maxHeightCm + gapCm
			seen = 0
		}

		widthCm := float64(img.WidthPx) / ppi * CmPerInch
		heightCm := float64(img.HeightPx) / ppi * CmPerInch

		// Fractional horizontal position within the row, in [0,1].
		t := 0.0
		if totalWidthCm > 0 {
			t = (left - leftmost) / totalWidthCm
		}

		phase := (1-t)*turns + 0.25*fullCircle
		amp := 0.5 * totalWidthCm

		x := left*(1-curve) + curve*amp*math.Sin(phase)
		z := curve * amp * math.Cos(phase)

		// Contractual yaw formula: tracks the arc tangent as curve goes to 1.
		yaw := -curve * ((fullCircle - phase) * 180 / math.Pi)

		transforms[img.ID] = Transform{
			Translate: Vec3{x, top, z},
			Rotate:    Vec3{0, yaw, 0},
			Scale:     Vec3{widthCm, heightCm, 1},
		}

		left += maxWidthCm + gapCm
		seen++
	}

	return transforms, nil
}
