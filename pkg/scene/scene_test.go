package scene

import (
	"testing"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

func TestDefineCreatesAncestors(t *testing.T) {
	st := New()

	mesh, err := st.Define("/World/Wall/img_0001/ImageSequenceMesh", TypeMesh)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if mesh.Path() != "/World/Wall/img_0001/ImageSequenceMesh" {
		t.Errorf("Path = %q", mesh.Path())
	}

	// Missing ancestors are created as Xforms.
	for _, path := range []string{"/World", "/World/Wall", "/World/Wall/img_0001"} {
		n := st.At(path)
		if n == nil {
			t.Fatalf("ancestor %s not created", path)
		}
		if n.Type() != TypeXform {
			t.Errorf("%s type = %q, want Xform", path, n.Type())
		}
	}
}

func TestDefineIdempotent(t *testing.T) {
	st := New()

	first, err := st.Define("/World/Wall", TypeXform)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	second, err := st.Define("/World/Wall", TypeXform)
	if err != nil {
		t.Fatalf("re-Define: %v", err)
	}
	if first != second {
		t.Error("re-defining the same prim should return the existing node")
	}

	// Conflicting type is rejected.
	if _, err := st.Define("/World/Wall", TypeMesh); !errors.Is(err, errors.ErrCodeInvalidStage) {
		t.Errorf("type conflict: got %v, want INVALID_STAGE", err)
	}
}

func TestDefineRejectsBadPaths(t *testing.T) {
	st := New()
	for _, path := range []string{"", "World", "/World//Wall", "/"} {
		if _, err := st.Define(path, TypeXform); err == nil {
			t.Errorf("Define(%q) should fail", path)
		}
	}
}

func TestAtMissing(t *testing.T) {
	st := New()
	if st.At("/Nope") != nil {
		t.Error("At on a missing path should return nil")
	}
	if st.At("relative") != nil {
		t.Error("At on a relative path should return nil")
	}
	if st.At("/") != st.Root() {
		t.Error("At(\"/\") should return the root")
	}
}

func TestAttributes(t *testing.T) {
	st := New()
	n, _ := st.Define("/World", TypeXform)

	n.Set("xformOp:translate", V3(layout.Vec3{1, 2, 3}))
	n.Set("kind", String("component"))

	a, ok := n.Attr("xformOp:translate")
	if !ok {
		t.Fatal("attribute not found")
	}
	v, ok := a.AsVec3()
	if !ok || v != (layout.Vec3{1, 2, 3}) {
		t.Errorf("AsVec3 = %v, %v", v, ok)
	}

	// Wrong-type accessors report failure.
	if _, ok := a.AsString(); ok {
		t.Error("AsString on a vec3 attribute should fail")
	}

	names := n.AttrNames()
	if len(names) != 2 || names[0] != "kind" || names[1] != "xformOp:translate" {
		t.Errorf("AttrNames = %v, want sorted", names)
	}
}

func TestRemoveChildAndDeleteChildren(t *testing.T) {
	st := New()
	st.Define("/World/a", TypeXform)
	st.Define("/World/b", TypeXform)
	st.Define("/World/c", TypeXform)

	world := st.At("/World")
	if !world.RemoveChild("b") {
		t.Fatal("RemoveChild should report existing child")
	}
	if world.RemoveChild("b") {
		t.Error("RemoveChild on a removed child should report false")
	}
	if got := len(world.Children()); got != 2 {
		t.Errorf("children = %d, want 2", got)
	}
	if world.Children()[0].Name() != "a" || world.Children()[1].Name() != "c" {
		t.Error("RemoveChild should preserve sibling order")
	}

	st.DeleteChildren("/World")
	if len(world.Children()) != 0 {
		t.Error("DeleteChildren should remove all children")
	}
	// Deleting children of a missing prim is a no-op.
	st.DeleteChildren("/Nowhere")
}

func TestNewStageHasUniqueID(t *testing.T) {
	a, b := New(), New()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("stage IDs should be unique and non-empty: %q, %q", a.ID, b.ID)
	}
}

func TestSafePrimName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"frame-0001.v2", "frame_0001_v2"},
		{"shot?.final", "shot__final"},
		{"clean_name", "clean_name"},
		{"0start", "_0start"},
		{"", "img"},
	}
	for _, tt := range tests {
		if got := SafePrimName(tt.in); got != tt.want {
			t.Errorf("SafePrimName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
