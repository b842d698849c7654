// Package imagemeta resolves image sequences on disk: glob expansion and
// pixel-dimension probing.
//
// Probing reads only the image header via image.DecodeConfig; pixel data is
// never decoded. Supported formats are PNG, JPEG, and GIF from the standard
// library plus WebP, BMP, and TIFF via golang.org/x/image.
package imagemeta

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Header decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

// Expand resolves a glob pattern to a sorted list of file paths.
//
// A pattern that matches nothing fails with a NOT_FOUND error so a typo'd
// pattern is reported instead of silently producing an empty arrangement.
// A malformed pattern fails with an INVALID_GLOB error.
func Expand(pattern string) ([]string, error) {
	if err := errors.ValidateGlobPattern(pattern); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGlob, err, "expand %q", pattern)
	}
	if len(matches) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no files match %q", pattern)
	}

	// filepath.Glob returns lexically sorted matches, which fixes the
	// sequence order for frame-numbered filenames.
	return matches, nil
}

// Probe reads the pixel dimensions of the image at path.
func Probe(path string) (layout.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Image{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
		}
		return layout.Image{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "open %s", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return layout.Image{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "read header of %s", path)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return layout.Image{}, errors.New(errors.ErrCodeInvalidImage,
			"%s: %s header reports non-positive dimensions %dx%d", path, format, cfg.Width, cfg.Height)
	}

	return layout.Image{ID: path, WidthPx: cfg.Width, HeightPx: cfg.Height}, nil
}

// ProbeAll probes every path in order and returns the resulting image list.
// The context is checked between files so large sequences can be cancelled.
func ProbeAll(ctx context.Context, paths []string) ([]layout.Image, error) {
	images := make([]layout.Image, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := Probe(path)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// ExpandAndProbe expands a glob pattern and probes every match.
func ExpandAndProbe(ctx context.Context, pattern string) ([]layout.Image, error) {
	paths, err := Expand(pattern)
	if err != nil {
		return nil, err
	}
	images, err := ProbeAll(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", pattern, err)
	}
	return images, nil
}
