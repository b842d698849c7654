package scene_test

import (
	"fmt"

	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/scene"
)

func ExampleMaterialize() {
	seq := scene.Sequence{
		PathGlob: "shots/*.png",
		Images: []layout.Image{
			{ID: "shots/frame_0001.png", WidthPx: 300, HeightPx: 300},
			{ID: "shots/frame_0002.png", WidthPx: 300, HeightPx: 300},
		},
		Params: layout.Params{PixelsPerInch: 300, GapFraction: 0.1},
	}

	transforms, _ := layout.Compute(seq.Images, seq.Params)

	st := scene.New()
	_ = scene.Materialize(st, "/World/Wall", seq, transforms)

	root := st.At("/World/Wall")
	fmt.Println("image prims:", len(root.Children()))

	// The parameters ride along on the root prim for later edit sessions.
	persisted, _ := scene.SequenceParamsFrom(root)
	fmt.Println("persisted glob:", persisted.PathGlob)
	fmt.Println("persisted images:", len(persisted.Images))
	// Output:
	// image prims: 2
	// persisted glob: shots/*.png
	// persisted images: 2
}
