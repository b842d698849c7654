package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stagekit/imageseq/pkg/layout"
)

func computeTransforms(t *testing.T, curve float64) map[string]layout.Transform {
	t.Helper()

	images := []layout.Image{
		{ID: "a.png", WidthPx: 300, HeightPx: 300},
		{ID: "b.png", WidthPx: 300, HeightPx: 300},
		{ID: "c.png", WidthPx: 300, HeightPx: 300},
	}
	transforms, err := layout.Compute(images, layout.Params{
		PixelsPerInch: 300,
		GapFraction:   0.1,
		CurveFraction: curve,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return transforms
}

func TestRenderProducesPNG(t *testing.T) {
	data, err := Render(computeTransforms(t, 0), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != DefaultWidth || bounds.Dy() != DefaultHeight {
		t.Errorf("got %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), DefaultWidth, DefaultHeight)
	}
}

func TestRenderCustomDimensions(t *testing.T) {
	data, err := Render(computeTransforms(t, 1), Options{Width: 320, Height: 240})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("got %dx%d, want 320x240", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	data, err := Render(map[string]layout.Transform{}, Options{})
	if err != nil {
		t.Fatalf("Render on empty layout: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("empty layout should still produce a valid PNG: %v", err)
	}
}

func TestRenderDeterministic(t *testing.T) {
	transforms := computeTransforms(t, 0.5)

	a, err := Render(transforms, Options{ShowLabels: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(transforms, Options{ShowLabels: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("rendering the same transforms twice should be byte-identical")
	}
}
