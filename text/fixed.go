package text

import (
	"image"
	"image/color"
	"strings"

	"git.sr.ht/~gioverse/media/render"
)

// Span is a run of text with an optional link.
type Span struct {
	Content string
	Link    Link
}

// Fixed is a Source with fixed glyph metrics: every rune occupies a
// GlyphWidth x LineHeight cell and wrapping is greedy per rune.
//
// It is exact enough for geometry coupling (caption height reservation
// and hit-test mirroring) without a shaping engine, which makes it the
// workhorse for tests and for monospace-style surfaces.
type Fixed struct {
	// GlyphWidth is the advance per rune in pixels. Defaults to 8.
	GlyphWidth int
	// LineHeight is the height per wrapped line. Defaults to 18.
	LineHeight int
	// Color used when drawing.
	Color color.NRGBA

	spans []Span
	runes []spanRune
}

type spanRune struct {
	r    rune
	span int
}

// NewFixed returns a fixed-metrics source over the given spans.
func NewFixed(spans ...Span) *Fixed {
	f := &Fixed{
		GlyphWidth: 8,
		LineHeight: 18,
		Color:      color.NRGBA{A: 255},
		spans:      spans,
	}
	for i, s := range spans {
		for _, r := range s.Content {
			f.runes = append(f.runes, spanRune{r: r, span: i})
		}
	}
	return f
}

// IsEmpty implements Source.
func (f *Fixed) IsEmpty() bool { return len(f.runes) == 0 }

// Len implements Source.
func (f *Fixed) Len() int { return len(f.runes) }

// MaxWidth implements Source.
func (f *Fixed) MaxWidth() int { return len(f.runes) * f.GlyphWidth }

// perLine reports how many runes fit on one wrapped line.
func (f *Fixed) perLine(width int) int {
	if f.GlyphWidth <= 0 || width < f.GlyphWidth {
		return 1
	}
	return width / f.GlyphWidth
}

// CountHeight implements Source.
func (f *Fixed) CountHeight(width int) int {
	if len(f.runes) == 0 {
		return 0
	}
	per := f.perLine(width)
	lines := (len(f.runes) + per - 1) / per
	return lines * f.LineHeight
}

// Draw implements Source.
func (f *Fixed) Draw(s render.Surface, at image.Point, width int) {
	if len(f.runes) == 0 {
		return
	}
	per := f.perLine(width)
	var b strings.Builder
	line := 0
	flush := func() {
		if b.Len() > 0 {
			s.DrawText(b.String(), image.Pt(at.X, at.Y+line*f.LineHeight), f.Color)
			b.Reset()
		}
	}
	for i, sr := range f.runes {
		if i > 0 && i%per == 0 {
			flush()
			line++
		}
		b.WriteRune(sr.r)
	}
	flush()
}

// GetState implements Source.
func (f *Fixed) GetState(pt image.Point, width int) State {
	if len(f.runes) == 0 || pt.X < 0 || pt.Y < 0 {
		return State{}
	}
	per := f.perLine(width)
	line := pt.Y / f.LineHeight
	col := pt.X / f.GlyphWidth
	if col >= per {
		return State{}
	}
	index := line*per + col
	if index >= len(f.runes) {
		return State{}
	}
	return State{
		Link:   f.spans[f.runes[index].span].Link,
		Symbol: index,
	}
}
