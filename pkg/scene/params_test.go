package scene

import (
	"reflect"
	"testing"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

func testSequence() Sequence {
	return Sequence{
		PathGlob: "shots/*.png",
		Images: []layout.Image{
			{ID: "shots/a.png", WidthPx: 300, HeightPx: 300},
			{ID: "shots/b.png", WidthPx: 600, HeightPx: 450},
		},
		Params: layout.Params{
			PixelsPerInch: 300,
			GapFraction:   0.1,
			CurveFraction: 0.5,
			ImagesPerRow:  4,
		},
	}
}

func TestSequenceParamsRoundTrip(t *testing.T) {
	st := New()
	n, _ := st.Define("/World/Wall", TypeXform)

	want := testSequence()
	SetSequenceParams(n, want)

	got, err := SequenceParamsFrom(n)
	if err != nil {
		t.Fatalf("SequenceParamsFrom: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSequenceParamsMissingSchema(t *testing.T) {
	st := New()
	n, _ := st.Define("/World/Wall", TypeXform)

	_, err := SequenceParamsFrom(n)
	if !errors.Is(err, errors.ErrCodeInvalidStage) {
		t.Errorf("got %v, want INVALID_STAGE", err)
	}
}

func TestSequenceParamsNewerSchema(t *testing.T) {
	st := New()
	n, _ := st.Define("/World/Wall", TypeXform)
	SetSequenceParams(n, testSequence())
	n.Set(AttrSchemaVersion, Int(SchemaVersion+1))

	_, err := SequenceParamsFrom(n)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("got %v, want UNSUPPORTED", err)
	}
}

func TestSequenceParamsMismatchedArrays(t *testing.T) {
	st := New()
	n, _ := st.Define("/World/Wall", TypeXform)
	SetSequenceParams(n, testSequence())
	n.Set(AttrImageWidths, Ints([]int{300}))

	_, err := SequenceParamsFrom(n)
	if !errors.Is(err, errors.ErrCodeInvalidStage) {
		t.Errorf("got %v, want INVALID_STAGE", err)
	}
}

func TestSequenceParamsOverwrite(t *testing.T) {
	st := New()
	n, _ := st.Define("/World/Wall", TypeXform)

	SetSequenceParams(n, testSequence())

	updated := testSequence()
	updated.Params.CurveFraction = 1
	updated.Images = updated.Images[:1]
	SetSequenceParams(n, updated)

	got, err := SequenceParamsFrom(n)
	if err != nil {
		t.Fatalf("SequenceParamsFrom: %v", err)
	}
	if got.Params.CurveFraction != 1 {
		t.Errorf("CurveFraction = %v, want 1", got.Params.CurveFraction)
	}
	if len(got.Images) != 1 {
		t.Errorf("images = %d, want 1", len(got.Images))
	}
}
