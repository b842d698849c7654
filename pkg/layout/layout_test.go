package layout

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/stagekit/imageseq/pkg/errors"
)

const tol = 1e-9

func approx(got, want float64) bool {
	return math.Abs(got-want) <= tol
}

// squareImages builds n square images of the given pixel size.
func squareImages(n, px int) []Image {
	images := make([]Image, n)
	for i := range images {
		images[i] = Image{ID: fmt.Sprintf("img_%03d", i), WidthPx: px, HeightPx: px}
	}
	return images
}

func TestComputeConcreteScenario(t *testing.T) {
	// 3 images of 300x300 px at 300 ppi are exactly 2.54 cm square.
	// With a 0.1 gap fraction the gap is 0.254 cm and the row spans
	// 2*2.54 + 2*0.254 = 5.588 cm.
	images := squareImages(3, 300)
	params := Params{PixelsPerInch: 300, GapFraction: 0.1, CurveFraction: 0, ImagesPerRow: 3}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantX := []float64{-2.794, 0, 2.794}
	for i, img := range images {
		tr, ok := transforms[img.ID]
		if !ok {
			t.Fatalf("missing transform for %s", img.ID)
		}
		if !approx(tr.Translate.X(), wantX[i]) {
			t.Errorf("image %d: x = %v, want %v", i, tr.Translate.X(), wantX[i])
		}
		if tr.Translate.Y() != 0 || tr.Translate.Z() != 0 {
			t.Errorf("image %d: y,z = %v,%v, want 0,0", i, tr.Translate.Y(), tr.Translate.Z())
		}
		if tr.Rotate != (Vec3{}) {
			t.Errorf("image %d: rotate = %v, want zero", i, tr.Rotate)
		}
		if want := (Vec3{2.54, 2.54, 1}); tr.Scale != want {
			t.Errorf("image %d: scale = %v, want %v", i, tr.Scale, want)
		}
	}
}

func TestComputeDeterminism(t *testing.T) {
	images := []Image{
		{ID: "a", WidthPx: 640, HeightPx: 480},
		{ID: "b", WidthPx: 1920, HeightPx: 1080},
		{ID: "c", WidthPx: 300, HeightPx: 900},
	}
	params := Params{PixelsPerInch: 72, GapFraction: 0.25, CurveFraction: 0.6, ImagesPerRow: 2}

	first, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls with identical inputs should return identical mappings")
	}
}

func TestComputeCompleteness(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 50} {
		images := squareImages(n, 100)
		transforms, err := Compute(images, Params{PixelsPerInch: 100, ImagesPerRow: 3})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(transforms) != n {
			t.Errorf("n=%d: got %d entries, want %d", n, len(transforms), n)
		}
		for _, img := range images {
			if _, ok := transforms[img.ID]; !ok {
				t.Errorf("n=%d: missing entry for %s", n, img.ID)
			}
		}
	}
}

func TestComputeEmptyInput(t *testing.T) {
	// Empty input returns an empty mapping even with invalid parameters.
	transforms, err := Compute(nil, Params{PixelsPerInch: 0})
	if err != nil {
		t.Fatalf("empty input should never error, got %v", err)
	}
	if len(transforms) != 0 {
		t.Errorf("got %d entries, want 0", len(transforms))
	}
}

func TestComputeInvalidPPI(t *testing.T) {
	images := squareImages(2, 100)
	for _, ppi := range []float64{0, -300, math.NaN()} {
		_, err := Compute(images, Params{PixelsPerInch: ppi})
		if !errors.Is(err, errors.ErrCodeInvalidParameter) {
			t.Errorf("ppi=%v: got %v, want INVALID_PARAMETER", ppi, err)
		}
	}
}

func TestComputeCentering(t *testing.T) {
	// A single complete straight row is symmetric about x=0: the leftmost
	// image sits at -0.5*((N-1)*w + (N-1)*g) and the rightmost at its negation.
	const n = 5
	images := squareImages(n, 200)
	params := Params{PixelsPerInch: 100, GapFraction: 0.5, CurveFraction: 0, ImagesPerRow: n}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	w := 200.0 / 100.0 * CmPerInch
	g := 0.5 * w
	wantLeft := -0.5 * float64(n-1) * (w + g)

	first := transforms[images[0].ID]
	last := transforms[images[n-1].ID]
	if !approx(first.Translate.X(), wantLeft) {
		t.Errorf("leftmost x = %v, want %v", first.Translate.X(), wantLeft)
	}
	if !approx(last.Translate.X(), -wantLeft) {
		t.Errorf("rightmost x = %v, want %v", last.Translate.X(), -wantLeft)
	}
}

func TestComputeStraightLine(t *testing.T) {
	// curve=0: no depth, no yaw, regardless of other parameters.
	images := squareImages(9, 450)
	params := Params{PixelsPerInch: 150, GapFraction: 0.3, CurveFraction: 0, ImagesPerRow: 4}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for id, tr := range transforms {
		if tr.Translate.Z() != 0 {
			t.Errorf("%s: z = %v, want 0", id, tr.Translate.Z())
		}
		if tr.Rotate.Y() != 0 {
			t.Errorf("%s: yaw = %v, want 0", id, tr.Rotate.Y())
		}
	}
}

func TestComputeFullCircle(t *testing.T) {
	// curve=1: every image in a row lies on a circle of radius
	// 0.5*totalWidth centered at the row's vertical level.
	const n = 8
	images := squareImages(n, 300)
	params := Params{PixelsPerInch: 300, GapFraction: 0.1, CurveFraction: 1, ImagesPerRow: n}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	w := 2.54
	g := 0.1 * w
	radius := 0.5 * (float64(n-1)*w + float64(n-1)*g)

	for id, tr := range transforms {
		got := tr.Translate.X()*tr.Translate.X() + tr.Translate.Z()*tr.Translate.Z()
		if math.Abs(got-radius*radius) > 1e-6 {
			t.Errorf("%s: x²+z² = %v, want %v", id, got, radius*radius)
		}
	}
}

func TestComputeCurveClamped(t *testing.T) {
	images := squareImages(4, 300)
	params := Params{PixelsPerInch: 300, GapFraction: 0.1, ImagesPerRow: 4}

	params.CurveFraction = 1
	atOne, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	params.CurveFraction = 3.5
	beyond, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !reflect.DeepEqual(atOne, beyond) {
		t.Error("curve fractions above 1 should behave like 1")
	}
}

func TestComputeRowWrapping(t *testing.T) {
	const k, n = 3, 8
	images := squareImages(n, 300)
	params := Params{PixelsPerInch: 300, GapFraction: 0.1, CurveFraction: 0, ImagesPerRow: k}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	firstRowY := transforms[images[0].ID].Translate.Y()
	for i := 1; i < k; i++ {
		if y := transforms[images[i].ID].Translate.Y(); y != firstRowY {
			t.Errorf("image %d: y = %v, want %v (same row)", i, y, firstRowY)
		}
	}

	h := 2.54
	g := 0.1 * 2.54
	secondRowY := transforms[images[k].ID].Translate.Y()
	if !approx(firstRowY-secondRowY, h+g) {
		t.Errorf("row step = %v, want %v", firstRowY-secondRowY, h+g)
	}

	// Row starts reset to the leftmost position.
	if x0, xk := transforms[images[0].ID].Translate.X(), transforms[images[k].ID].Translate.X(); !approx(x0, xk) {
		t.Errorf("second row should restart at x=%v, got %v", x0, xk)
	}
}

func TestComputeDegenerateImagesPerRow(t *testing.T) {
	params := Params{PixelsPerInch: 300, GapFraction: 0.1}

	// A single image is centered at the origin for both 0 and 1 per row.
	for _, perRow := range []int{0, 1} {
		params.ImagesPerRow = perRow
		transforms, err := Compute(squareImages(1, 300), params)
		if err != nil {
			t.Fatalf("perRow=%d: %v", perRow, err)
		}
		tr := transforms["img_000"]
		if tr.Translate != (Vec3{}) {
			t.Errorf("perRow=%d: translate = %v, want origin", perRow, tr.Translate)
		}
	}

	// Zero per row treats the whole sequence as one row.
	params.ImagesPerRow = 0
	transforms, err := Compute(squareImages(5, 300), params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	y := transforms["img_000"].Translate.Y()
	for id, tr := range transforms {
		if tr.Translate.Y() != y {
			t.Errorf("%s: y = %v, want %v (single row)", id, tr.Translate.Y(), y)
		}
	}
	if y != 0 {
		t.Errorf("single row should sit at y=0, got %v", y)
	}
}

func TestComputeSingleColumn(t *testing.T) {
	// imagesPerRow=1 collapses totalWidth to zero; the horizontal position
	// parameter is forced to 0 and all images share x=0.
	images := squareImages(4, 300)
	params := Params{PixelsPerInch: 300, GapFraction: 0.1, CurveFraction: 0.7, ImagesPerRow: 1}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for id, tr := range transforms {
		if tr.Translate.X() != 0 || tr.Translate.Z() != 0 {
			t.Errorf("%s: x,z = %v,%v, want 0,0", id, tr.Translate.X(), tr.Translate.Z())
		}
	}
}

func TestComputeMixedSizes(t *testing.T) {
	// Column pitch uses the maximum width and height across all images,
	// measured independently.
	images := []Image{
		{ID: "wide", WidthPx: 600, HeightPx: 150},
		{ID: "tall", WidthPx: 150, HeightPx: 600},
	}
	params := Params{PixelsPerInch: 300, GapFraction: 0, CurveFraction: 0, ImagesPerRow: 2}

	transforms, err := Compute(images, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	maxW := 600.0 / 300.0 * CmPerInch // 5.08
	if gap := transforms["tall"].Translate.X() - transforms["wide"].Translate.X(); !approx(gap, maxW) {
		t.Errorf("column pitch = %v, want %v", gap, maxW)
	}

	if want := (Vec3{5.08, 1.27, 1}); transforms["wide"].Scale != want {
		t.Errorf("wide scale = %v, want %v", transforms["wide"].Scale, want)
	}
	if want := (Vec3{1.27, 5.08, 1}); transforms["tall"].Scale != want {
		t.Errorf("tall scale = %v, want %v", transforms["tall"].Scale, want)
	}
}
