package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stagekit/imageseq/pkg/cache"
	"github.com/stagekit/imageseq/pkg/imagemeta"
	"github.com/stagekit/imageseq/pkg/scene"
)

// Probe expands the glob pattern and reads image dimensions from disk.
//
// When opts.Images is set, probing is skipped and the inline dimensions are
// used as-is. This is the path API requests take: they carry dimensions
// instead of file paths the server could not see anyway.
func Probe(ctx context.Context, opts Options) (scene.Sequence, error) {
	if len(opts.Images) > 0 {
		return scene.Sequence{
			PathGlob: opts.Pattern,
			Images:   opts.Images,
			Params:   opts.LayoutParams(),
		}, nil
	}

	images, err := imagemeta.ExpandAndProbe(ctx, opts.Pattern)
	if err != nil {
		return scene.Sequence{}, err
	}

	return scene.Sequence{
		PathGlob: opts.Pattern,
		Images:   images,
		Params:   opts.LayoutParams(),
	}, nil
}

// Fingerprint computes a content fingerprint over the files matching the
// pattern: path, size, and modification time of each match. Any edit,
// addition, or removal on disk changes the fingerprint, which invalidates
// cached probe results without reading pixel data.
func Fingerprint(pattern string) (string, error) {
	paths, err := imagemeta.Expand(pattern)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s|%d|%d\n", p, info.Size(), info.ModTime().UnixNano())
	}
	return cache.Hash([]byte(b.String())), nil
}
