package trace

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func paint(w, h int, fill color.NRGBA, pixels map[image.Point]color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	for p, c := range pixels {
		img.SetNRGBA(p.X, p.Y, c)
	}
	return img
}

var (
	white   = color.NRGBA{255, 255, 255, 255}
	pureR   = color.NRGBA{255, 0, 0, 255}
	pureG   = color.NRGBA{0, 255, 0, 255}
	pureB   = color.NRGBA{0, 0, 255, 255}
	nearlyR = color.NRGBA{254, 0, 0, 255}
)

func TestSegmentExactMatchOnly(t *testing.T) {
	img := paint(4, 2, white, map[image.Point]color.NRGBA{
		{0, 0}: pureR,
		{1, 0}: nearlyR,
		{2, 0}: {255, 1, 0, 255},
		{3, 1}: pureR,
	})

	mask := Segment(img, Red)
	if mask.Count() != 2 {
		t.Fatalf("expected 2 red pixels, got %d", mask.Count())
	}
	if !mask.At(0, 0) || !mask.At(3, 1) {
		t.Fatalf("pure red pixels missing from mask")
	}
	if mask.At(1, 0) || mask.At(2, 0) {
		t.Fatalf("near-red pixels must be excluded")
	}
}

func TestSegmentMasksAreDisjoint(t *testing.T) {
	img := paint(3, 3, white, map[image.Point]color.NRGBA{
		{0, 0}: pureR, {1, 0}: pureG, {2, 0}: pureB,
		{0, 1}: pureG, {1, 1}: pureB, {2, 1}: pureR,
		{0, 2}: pureB, {1, 2}: pureR, {2, 2}: pureG,
	})

	masks := []Mask{Segment(img, Red), Segment(img, Green), Segment(img, Blue)}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			n := 0
			for _, m := range masks {
				if m.At(x, y) {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("pixel (%d,%d) in %d masks, want exactly 1", x, y, n)
			}
		}
	}
}

func TestSegmentGenericImageMatchesFastPath(t *testing.T) {
	src := paint(5, 5, white, map[image.Point]color.NRGBA{{2, 2}: pureB, {4, 0}: pureB})
	rgba := image.NewRGBA(src.Bounds())
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			rgba.Set(x, y, src.At(x, y))
		}
	}

	fast := Segment(src, Blue)
	slow := Segment(rgba, Blue)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if fast.At(x, y) != slow.At(x, y) {
				t.Fatalf("paths disagree at (%d,%d)", x, y)
			}
		}
	}
}

func TestSegmentEmptyImage(t *testing.T) {
	img := paint(8, 8, white, nil)
	for _, c := range AllColors() {
		if !Segment(img, c).Empty() {
			t.Fatalf("%s mask should be empty", c)
		}
	}
}

func TestMaskThreshold(t *testing.T) {
	m, err := MaskFromRows([][]bool{{true, false}, {false, true}})
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	got := m.Threshold()
	want := []byte{255, 0, 0, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("threshold[%d]=%d want %d", i, got[i], want[i])
		}
	}
}

func TestMaskFromRowsRagged(t *testing.T) {
	_, err := MaskFromRows([][]bool{{true, false}, {true}})
	if !errors.Is(err, ErrMaskSizeMismatch) {
		t.Fatalf("expected ErrMaskSizeMismatch, got %v", err)
	}
}
