/*
Package element implements the renderable media units of a message
list: photos (with streaming autoplay) and documents (files, songs and
voice notes).

An element owns at most one heavy part at a time: a shared asset view
with its decoded images, or a streaming player. Heavy parts are created
lazily on first paint after data becomes available and are torn down on
scroll-out, element destruction, or a global unload sweep.

Paint and hit-testing share one geometry computation, so a point that
was painted as a caption always hit-tests as that caption.
*/
package element

import (
	"image"
	"image/color"

	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/text"
)

// Media is the unit the message list lays out, paints and hit-tests.
type Media interface {
	// CountOptimalSize computes the unconstrained size of the element.
	CountOptimalSize() image.Point
	// CountCurrentSize computes the size at the given available width
	// and records it for subsequent Draw and TextState calls.
	CountCurrentSize(newWidth int) image.Point
	// Draw paints the element into the surface at the recorded size.
	Draw(s render.Surface, ctx *Context)
	// TextState hit-tests a point against the painted geometry.
	TextState(pt image.Point) text.State
	// HasHeavyPart reports whether the element holds heavy resources.
	HasHeavyPart() bool
	// UnloadHeavyPart drops heavy resources. The element stays
	// paintable and falls back to cheaper representations.
	UnloadHeavyPart()
}

// PositionFlags describe where the element sits inside its bubble.
// Changing them invalidates size and rounding computations.
type PositionFlags struct {
	// InBubble reports that the element is wrapped in bubble chrome.
	InBubble bool
	// BubbleTop rounds the top corners.
	BubbleTop bool
	// BubbleBottom rounds the bottom corners and adds bottom padding
	// beneath the caption.
	BubbleBottom bool
}

// Context carries per-frame paint state.
type Context struct {
	// Selected draws the selection overlay.
	Selected bool
	// Paused suppresses frame advancement for streaming playback.
	Paused bool
	// Palette supplies the colors for this frame.
	Palette Palette
}

// Metrics are the geometry constants shared by the element variants.
type Metrics struct {
	MinPhotoSize   int
	MaxMediaSize   int
	BubbleMinWidth int

	PaddingLeft   int
	PaddingRight  int
	PaddingBottom int
	CaptionSkip   int

	RoundRadius int

	// ThumbSize is the diameter of the radial affordance circle and
	// the document thumbnail square.
	ThumbSize  int
	RadialLine int

	FilePaddingTop    int
	FilePaddingBottom int
	FileNameTop       int
	FileStatusTop     int

	WaveformBarWidth int
	WaveformBarSkip  int
	WaveformMin      int
	WaveformMax      int

	UnreadSkip int
	UnreadSize int

	GlyphWidth int
	LineHeight int
}

// DefaultMetrics returns the stock geometry.
func DefaultMetrics() Metrics {
	return Metrics{
		MinPhotoSize:      100,
		MaxMediaSize:      430,
		BubbleMinWidth:    80,
		PaddingLeft:       12,
		PaddingRight:      12,
		PaddingBottom:     8,
		CaptionSkip:       8,
		RoundRadius:       16,
		ThumbSize:         44,
		RadialLine:        3,
		FilePaddingTop:    10,
		FilePaddingBottom: 10,
		FileNameTop:       6,
		FileStatusTop:     26,
		WaveformBarWidth:  2,
		WaveformBarSkip:   1,
		WaveformMin:       3,
		WaveformMax:       17,
		UnreadSkip:        5,
		UnreadSize:        6,
		GlyphWidth:        7,
		LineHeight:        18,
	}
}

// Palette holds the colors elements paint with.
type Palette struct {
	ImageOverlay     color.NRGBA
	AffordanceBg     color.NRGBA
	AffordanceFg     color.NRGBA
	RadialFg         color.NRGBA
	FileBg           color.NRGBA
	NameFg           color.NRGBA
	StatusFg         color.NRGBA
	WaveformActive   color.NRGBA
	WaveformInactive color.NRGBA
	UnreadDot        color.NRGBA
}

// DefaultPalette returns a neutral light-theme palette.
func DefaultPalette() Palette {
	return Palette{
		ImageOverlay:     color.NRGBA{B: 96, A: 64},
		AffordanceBg:     color.NRGBA{R: 16, G: 16, B: 16, A: 136},
		AffordanceFg:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		RadialFg:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		FileBg:           color.NRGBA{R: 64, G: 128, B: 220, A: 255},
		NameFg:           color.NRGBA{A: 255},
		StatusFg:         color.NRGBA{R: 110, G: 110, B: 110, A: 255},
		WaveformActive:   color.NRGBA{R: 64, G: 128, B: 220, A: 255},
		WaveformInactive: color.NRGBA{R: 186, G: 202, B: 224, A: 255},
		UnreadDot:        color.NRGBA{R: 64, G: 128, B: 220, A: 255},
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// scaleToFit shrinks dims to fit within bound, preserving aspect ratio.
// Dimensions are never scaled up.
func scaleToFit(dims image.Point, bound int) image.Point {
	if dims.X <= 0 || dims.Y <= 0 {
		return image.Pt(bound, bound)
	}
	if dims.X <= bound && dims.Y <= bound {
		return dims
	}
	if dims.X >= dims.Y {
		return image.Pt(bound, maxInt(1, dims.Y*bound/dims.X))
	}
	return image.Pt(maxInt(1, dims.X*bound/dims.Y), bound)
}

// scaleToWidth shrinks dims to the given width, preserving aspect.
func scaleToWidth(dims image.Point, width int) image.Point {
	if dims.X <= width || dims.X <= 0 {
		return dims
	}
	return image.Pt(width, maxInt(1, dims.Y*width/dims.X))
}
