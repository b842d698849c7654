package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagekit/imageseq/pkg/cache"
	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/observability"
	"github.com/stagekit/imageseq/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete probe → layout → materialize → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Probe
	probeStart := time.Now()
	seq, probeHit, err := r.ProbeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Sequence = seq
	result.Stats.ProbeTime = time.Since(probeStart)
	result.Stats.ImageCount = len(seq.Images)
	result.CacheInfo.ProbeHit = probeHit

	// Compute sequence hash for cache keys and API responses
	if seqData, err := json.Marshal(seq); err == nil {
		result.SequenceHash = cache.Hash(seqData)
	}

	r.Logger.Info("probed sequence",
		"pattern", opts.Pattern,
		"images", len(seq.Images),
		"duration", result.Stats.ProbeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	transforms, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, seq, opts)
	if err != nil {
		return nil, err
	}
	result.Transforms = transforms
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"transforms", len(transforms),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Materialize
	materializeStart := time.Now()
	stage, err := r.Materialize(ctx, seq, transforms, opts)
	if err != nil {
		return nil, err
	}
	result.Stage = stage
	result.Stats.MaterializeTime = time.Since(materializeStart)

	r.Logger.Info("materialized stage",
		"root", opts.RootPath,
		"duration", result.Stats.MaterializeTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, stage, transforms, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ProbeWithCacheInfo probes the sequence with caching and returns cache hit info.
//
// The cache key includes a fingerprint over the matched files, so edits on
// disk invalidate stale entries automatically.
func (r *Runner) ProbeWithCacheInfo(ctx context.Context, opts Options) (scene.Sequence, bool, error) {
	if err := opts.ValidateForProbe(); err != nil {
		return scene.Sequence{}, false, err
	}
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	// Inline dimensions need no probing and no cache.
	if len(opts.Images) > 0 {
		seq, err := Probe(ctx, opts)
		return seq, false, err
	}

	observability.Pipeline().OnProbeStart(ctx, opts.Pattern)
	start := time.Now()

	fingerprint, err := Fingerprint(opts.Pattern)
	if err != nil {
		observability.Pipeline().OnProbeComplete(ctx, opts.Pattern, 0, time.Since(start), err)
		return scene.Sequence{}, false, err
	}
	cacheKey := r.Keyer.SequenceKey(opts.Pattern, cache.SequenceKeyOpts{Fingerprint: fingerprint})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var seq scene.Sequence
			if err := json.Unmarshal(data, &seq); err == nil {
				observability.Cache().OnCacheHit(ctx, "seq")
				observability.Pipeline().OnProbeComplete(ctx, opts.Pattern, len(seq.Images), time.Since(start), nil)
				seq.Params = opts.LayoutParams()
				return seq, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "seq")
	}

	seq, err := Probe(ctx, opts)
	if err != nil {
		observability.Pipeline().OnProbeComplete(ctx, opts.Pattern, 0, time.Since(start), err)
		return scene.Sequence{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(seq); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSequence)
		observability.Cache().OnCacheSet(ctx, "seq", len(data))
	}

	observability.Pipeline().OnProbeComplete(ctx, opts.Pattern, len(seq.Images), time.Since(start), nil)
	return seq, false, nil // Cache miss
}

// Probe is a convenience wrapper that calls ProbeWithCacheInfo and discards the cache hit info.
func (r *Runner) Probe(ctx context.Context, opts Options) (scene.Sequence, error) {
	seq, _, err := r.ProbeWithCacheInfo(ctx, opts)
	return seq, err
}

// ComputeLayoutWithCacheInfo computes transforms with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, seq scene.Sequence, opts Options) (map[string]layout.Transform, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnLayoutStart(ctx, len(seq.Images))
	start := time.Now()

	// Compute cache key from the image list
	imagesData, _ := json.Marshal(seq.Images)
	sequenceHash := cache.Hash(imagesData)
	cacheKey := r.Keyer.LayoutKey(sequenceHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached map[string]layout.Transform
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			observability.Pipeline().OnLayoutComplete(ctx, len(seq.Images), time.Since(start), nil)
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	transforms, err := layout.Compute(seq.Images, opts.LayoutParams())
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, len(seq.Images), time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(transforms); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	observability.Pipeline().OnLayoutComplete(ctx, len(seq.Images), time.Since(start), nil)
	return transforms, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, seq scene.Sequence, opts Options) (map[string]layout.Transform, error) {
	transforms, _, err := r.ComputeLayoutWithCacheInfo(ctx, seq, opts)
	return transforms, err
}

// Materialize realizes the transforms as prims on a fresh stage.
//
// Materialization is not cached: it is a pure in-memory construction and
// cheaper than a cache round-trip for the data sizes involved.
func (r *Runner) Materialize(ctx context.Context, seq scene.Sequence, transforms map[string]layout.Transform, opts Options) (*scene.Stage, error) {
	opts.SetRenderDefaults()
	if err := errors.ValidatePrimPath(opts.RootPath); err != nil {
		return nil, err
	}

	observability.Pipeline().OnMaterializeStart(ctx, opts.RootPath, len(seq.Images))
	start := time.Now()

	stage := scene.New()
	err := scene.Materialize(stage, opts.RootPath, seq, transforms)

	observability.Pipeline().OnMaterializeComplete(ctx, opts.RootPath, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, stage *scene.Stage, transforms map[string]layout.Transform, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the transform mapping
	layoutData, err := json.Marshal(transforms)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	start := time.Now()
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
	}
	rendered, err := Render(stage, transforms, opts)
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderComplete(ctx, format, len(rendered[format]), time.Since(start), err)
	}
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, stage *scene.Stage, transforms map[string]layout.Transform, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, stage, transforms, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
