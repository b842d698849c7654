package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

// Child prim names under each image prim.
const (
	meshChildName     = "ImageSequenceMesh"
	materialChildName = "ImageSequenceMaterial"
	shaderChildName   = "ImageSequenceShader"
)

// Transform op attribute names, matching the usual xformOp convention.
const (
	attrTranslate = "xformOp:translate"
	attrRotateXYZ = "xformOp:rotateXYZ"
	attrScale     = "xformOp:scale"
)

// Model kinds recorded on prims.
const (
	attrKind      = "kind"
	kindComponent = "component"
	kindSubpart   = "subcomponent"
)

var (
	quadPoints = []layout.Vec3{
		{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
	}
	quadExtent    = []layout.Vec3{{-0.5, 0, -0.5}, {0.5, 0, 0.5}}
	quadTexCoords = []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
)

// Materialize realizes a computed layout as textured quad prims under
// rootPath, and persists the sequence parameters on the root prim.
//
// Every image in seq gets one Xform prim carrying its translation and
// rotation, with a unit quad Mesh child carrying the scale and a Material
// child binding the image file as a texture. Materialize is idempotent:
// re-running with an unchanged mapping rewrites attribute values in place
// and never duplicates prims, and images no longer present in seq have
// their prims removed.
//
// transforms must contain an entry for every image in seq (the mapping
// produced by layout.Compute over the same image list). Image identities
// are checked as the mapping is applied; an empty or control-character
// identity fails with an INVALID_IMAGE error.
func Materialize(st *Stage, rootPath string, seq Sequence, transforms map[string]layout.Transform) error {
	root, err := st.Define(rootPath, TypeXform)
	if err != nil {
		return err
	}
	root.Set(attrKind, String(kindComponent))
	root.Set(attrTranslate, V3(layout.Vec3{}))
	root.Set(attrRotateXYZ, V3(layout.Vec3{}))
	root.Set(attrScale, V3(layout.Vec3{1, 1, 1}))

	SetSequenceParams(root, seq)

	keep := make(map[string]bool, len(seq.Images))
	used := make(map[string]bool, len(seq.Images))
	for i, img := range seq.Images {
		if err := errors.ValidateImageID(img.ID); err != nil {
			return err
		}
		tr, ok := transforms[img.ID]
		if !ok {
			return errors.New(errors.ErrCodeInternal,
				"no transform computed for image %q", img.ID)
		}

		name := primName(img.ID, i, used)
		used[name] = true
		keep[name] = true

		if err := materializeQuad(st, rootPath+"/"+name, img.ID, tr); err != nil {
			return err
		}
	}

	// Drop prims for images removed from the sequence.
	var stale []string
	for _, child := range root.Children() {
		if !keep[child.Name()] {
			stale = append(stale, child.Name())
		}
	}
	for _, name := range stale {
		root.RemoveChild(name)
	}

	return nil
}

// materializeQuad defines or updates one image prim: the Xform carrying the
// placement, the unit quad mesh carrying the scale, and the textured
// material bound to the mesh.
func materializeQuad(st *Stage, primPath, imagePath string, tr layout.Transform) error {
	prim, err := st.Define(primPath, TypeXform)
	if err != nil {
		return err
	}
	prim.Set(attrKind, String(kindSubpart))
	prim.Set(attrTranslate, V3(tr.Translate))
	prim.Set(attrRotateXYZ, V3(tr.Rotate))
	prim.Set(attrScale, V3(layout.Vec3{1, 1, 1}))

	mesh, err := st.Define(primPath+"/"+meshChildName, TypeMesh)
	if err != nil {
		return err
	}
	mesh.Set(attrTranslate, V3(layout.Vec3{}))
	mesh.Set(attrRotateXYZ, V3(layout.Vec3{}))
	mesh.Set(attrScale, V3(tr.Scale))
	mesh.Set("points", Vec3s(quadPoints))
	mesh.Set("faceVertexCounts", Ints([]int{4}))
	mesh.Set("faceVertexIndices", Ints([]int{0, 1, 2, 3}))
	mesh.Set("extent", Vec3s(quadExtent))
	mesh.Set("primvars:st", Vec2s(quadTexCoords))

	materialPath := primPath + "/" + materialChildName
	if _, err := st.Define(materialPath, TypeMaterial); err != nil {
		return err
	}

	shader, err := st.Define(materialPath+"/"+shaderChildName, TypeShader)
	if err != nil {
		return err
	}
	shader.Set("info:id", String("OmniPBR"))
	shader.Set("inputs:diffuse_texture", Asset(imagePath))
	shader.Set("inputs:emissive_color_texture", Asset(imagePath))
	shader.Set("inputs:reflection_roughness_constant", Float(1))
	shader.Set("inputs:metallic_constant", Float(0))

	mesh.Set("material:binding", String(materialPath))
	return nil
}

// primName derives a stable, path-safe prim name from an image identity.
// Characters outside [A-Za-z0-9_] become underscores; names already used in
// this materialization get an index suffix so identity collisions on the
// sanitized stem cannot merge prims.
func primName(imageID string, index int, used map[string]bool) string {
	stem := strings.TrimSuffix(filepath.Base(imageID), filepath.Ext(imageID))
	name := SafePrimName(stem)
	if used[name] {
		name = fmt.Sprintf("%s_%d", name, index)
	}
	return name
}

// SafePrimName sanitizes a string into a valid prim name segment.
func SafePrimName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "img"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}
