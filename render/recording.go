package render

import (
	"image"
	"image/color"
)

// OpKind discriminates recorded surface operations.
type OpKind uint8

const (
	// OpFillRect records a FillRect.
	OpFillRect OpKind = iota
	// OpFillRoundedRect records a FillRoundedRect.
	OpFillRoundedRect
	// OpFillEllipse records a FillEllipse.
	OpFillEllipse
	// OpStrokeArc records a StrokeArc.
	OpStrokeArc
	// OpDrawImage records a DrawImage.
	OpDrawImage
	// OpDrawIcon records a DrawIcon.
	OpDrawIcon
	// OpDrawText records a DrawText.
	OpDrawText
)

// Op is a single recorded paint operation.
type Op struct {
	Kind    OpKind
	Rect    image.Rectangle
	Color   color.NRGBA
	Icon    Icon
	Image   image.Image
	At      image.Point
	Text    string
	Radius  int
	Corners Corners
	Opacity float64
}

// Recording is a headless Surface that captures operations for
// inspection. It backs the package tests and is handy for debugging
// paint output.
type Recording struct {
	Ops     []Op
	opacity float64
}

var _ Surface = (*Recording)(nil)

func (r *Recording) record(o Op) {
	if r.opacity == 0 {
		r.opacity = 1
	}
	o.Opacity = r.opacity
	r.Ops = append(r.Ops, o)
}

// FillRect implements Surface.
func (r *Recording) FillRect(rect image.Rectangle, c color.NRGBA) {
	r.record(Op{Kind: OpFillRect, Rect: rect, Color: c})
}

// FillRoundedRect implements Surface.
func (r *Recording) FillRoundedRect(rect image.Rectangle, radius int, corners Corners, c color.NRGBA) {
	r.record(Op{Kind: OpFillRoundedRect, Rect: rect, Radius: radius, Corners: corners, Color: c})
}

// FillEllipse implements Surface.
func (r *Recording) FillEllipse(rect image.Rectangle, c color.NRGBA) {
	r.record(Op{Kind: OpFillEllipse, Rect: rect, Color: c})
}

// StrokeArc implements Surface.
func (r *Recording) StrokeArc(rect image.Rectangle, width int, start, sweep float64, c color.NRGBA) {
	r.record(Op{Kind: OpStrokeArc, Rect: rect, Radius: width, Color: c})
}

// DrawImage implements Surface.
func (r *Recording) DrawImage(img image.Image, at image.Point) {
	r.record(Op{Kind: OpDrawImage, Image: img, At: at})
}

// DrawIcon implements Surface.
func (r *Recording) DrawIcon(ic Icon, rect image.Rectangle, c color.NRGBA) {
	r.record(Op{Kind: OpDrawIcon, Icon: ic, Rect: rect, Color: c})
}

// DrawText implements Surface.
func (r *Recording) DrawText(s string, at image.Point, c color.NRGBA) {
	r.record(Op{Kind: OpDrawText, Text: s, At: at, Color: c})
}

// SetOpacity implements Surface.
func (r *Recording) SetOpacity(opacity float64) {
	r.opacity = opacity
}

// Reset clears the recording for reuse.
func (r *Recording) Reset() {
	r.Ops = r.Ops[:0]
	r.opacity = 1
}

// Count returns how many operations of kind were recorded.
func (r *Recording) Count(kind OpKind) int {
	n := 0
	for _, o := range r.Ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Icons returns the icons drawn, in order.
func (r *Recording) Icons() []Icon {
	var out []Icon
	for _, o := range r.Ops {
		if o.Kind == OpDrawIcon {
			out = append(out, o.Icon)
		}
	}
	return out
}

// Texts returns the strings drawn, in order.
func (r *Recording) Texts() []string {
	var out []string
	for _, o := range r.Ops {
		if o.Kind == OpDrawText {
			out = append(out, o.Text)
		}
	}
	return out
}
