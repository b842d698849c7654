package pipeline

import (
	"context"
	"testing"

	"github.com/stagekit/imageseq/pkg/cache"
	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/scene"
)

func newFileCacheRunner(t *testing.T) *Runner {
	t.Helper()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	t.Cleanup(func() { runner.Close() })
	return runner
}

func TestExecuteEndToEnd(t *testing.T) {
	pattern := writeTestImages(t, "a.png", "b.png", "c.png")
	runner := newFileCacheRunner(t)

	result, err := runner.Execute(context.Background(), Options{Pattern: pattern})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.ImageCount != 3 {
		t.Errorf("ImageCount = %d, want 3", result.Stats.ImageCount)
	}
	if len(result.Transforms) != 3 {
		t.Errorf("got %d transforms, want 3", len(result.Transforms))
	}
	if result.SequenceHash == "" {
		t.Error("SequenceHash should be set")
	}
	if result.Stage == nil {
		t.Fatal("Stage should be materialized")
	}
	if result.Stage.At(DefaultRootPath) == nil {
		t.Errorf("stage should contain a prim at %s", DefaultRootPath)
	}
	if len(result.Artifacts[FormatUSDA]) == 0 {
		t.Error("default format should produce a usda artifact")
	}
	if result.CacheInfo.ProbeHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}
}

func TestExecuteSecondRunHitsCache(t *testing.T) {
	pattern := writeTestImages(t, "a.png", "b.png")
	runner := newFileCacheRunner(t)
	ctx := context.Background()

	first, err := runner.Execute(ctx, Options{Pattern: pattern})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	second, err := runner.Execute(ctx, Options{Pattern: pattern})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if !second.CacheInfo.ProbeHit {
		t.Error("second run should hit the sequence cache")
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(first.Artifacts[FormatUSDA]) != string(second.Artifacts[FormatUSDA]) {
		t.Error("cached artifact should match the original render")
	}
}

func TestExecuteRefreshSkipsSequenceCache(t *testing.T) {
	pattern := writeTestImages(t, "a.png")
	runner := newFileCacheRunner(t)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Pattern: pattern}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	result, err := runner.Execute(ctx, Options{Pattern: pattern, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.ProbeHit {
		t.Error("refresh run should re-probe")
	}
}

func TestExecuteParameterChangeMissesLayoutCache(t *testing.T) {
	pattern := writeTestImages(t, "a.png", "b.png")
	runner := newFileCacheRunner(t)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Pattern: pattern}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	result, err := runner.Execute(ctx, Options{Pattern: pattern, CurveFraction: 1})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if result.CacheInfo.LayoutHit {
		t.Error("changed curve_fraction should miss the layout cache")
	}
}

func TestComputeLayoutMatchesEngine(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	images := []layout.Image{
		{ID: "a.png", WidthPx: 300, HeightPx: 300},
		{ID: "b.png", WidthPx: 300, HeightPx: 300},
	}
	gap := 0.1
	opts := Options{Pattern: "*.png", PixelsPerInch: 300, GapFraction: &gap}
	opts.SetLayoutDefaults()

	seq, err := Probe(context.Background(), Options{Images: images, PixelsPerInch: 300, GapFraction: &gap})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	got, err := runner.ComputeLayout(context.Background(), seq, opts)
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	want, err := layout.Compute(images, opts.LayoutParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for id, tr := range want {
		if got[id] != tr {
			t.Errorf("transform for %s = %+v, want %+v", id, got[id], tr)
		}
	}
}

func TestMaterializeRejectsBadRootPath(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Materialize(context.Background(), scene.Sequence{}, nil, Options{RootPath: "relative/path"})
	if err == nil {
		t.Error("expected error for invalid root path")
	}
}
