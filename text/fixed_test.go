package text

import (
	"image"
	"testing"

	"git.sr.ht/~gioverse/media/render"
)

func TestFixedHeightIsPure(t *testing.T) {
	f := NewFixed(Span{Content: "hello world, this wraps"})
	for _, width := range []int{40, 80, 160} {
		a := f.CountHeight(width)
		b := f.CountHeight(width)
		if a != b {
			t.Errorf("height at width %d not stable: %d vs %d", width, a, b)
		}
		if a%f.LineHeight != 0 {
			t.Errorf("height %d is not a whole number of lines", a)
		}
	}
	if f.CountHeight(40) <= f.CountHeight(400) {
		t.Errorf("narrower wrap should be taller")
	}
}

func TestFixedHitTestFindsLink(t *testing.T) {
	var activated bool
	link := LinkFunc(func() { activated = true })
	f := NewFixed(
		Span{Content: "see "},
		Span{Content: "here", Link: link},
	)
	width := f.GlyphWidth * 8 // one line

	plain := f.GetState(image.Pt(f.GlyphWidth*1, 2), width)
	if plain.Link != nil {
		t.Errorf("plain text should have no link")
	}
	if plain.Symbol != 1 {
		t.Errorf("symbol = %d, want 1", plain.Symbol)
	}

	linked := f.GetState(image.Pt(f.GlyphWidth*5, 2), width)
	if linked.Link == nil {
		t.Fatalf("expected a link under the second span")
	}
	linked.Link.Activate()
	if !activated {
		t.Errorf("activating the hit link should run its action")
	}

	if got := f.GetState(image.Pt(f.GlyphWidth*20, 2), width); got.Link != nil || got.Symbol != 0 {
		t.Errorf("out-of-range point should return the zero state, got %+v", got)
	}
}

func TestFixedDrawWrapsLikeCountHeight(t *testing.T) {
	f := NewFixed(Span{Content: "abcdefghij"})
	width := f.GlyphWidth * 4
	var rec render.Recording
	f.Draw(&rec, image.Pt(0, 0), width)
	lines := rec.Count(render.OpDrawText)
	if want := f.CountHeight(width) / f.LineHeight; lines != want {
		t.Errorf("drew %d lines, geometry promises %d", lines, want)
	}
}
