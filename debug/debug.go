/*
Package debug provides tools for debugging media paint output.

A Surface wraps another render.Surface and logs every operation that
passes through it, so a misdrawn affordance can be traced back to the
exact call that produced it without setting up a headless recording.
*/
package debug

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"

	"git.sr.ht/~gioverse/media/render"
)

// Surface forwards every paint operation to Next, logging it first.
type Surface struct {
	Next render.Surface
	Log  zerolog.Logger
}

var _ render.Surface = (*Surface)(nil)

func (d *Surface) op(name string) *zerolog.Event {
	return d.Log.Trace().Str("op", name)
}

// FillRect implements render.Surface.
func (d *Surface) FillRect(r image.Rectangle, c color.NRGBA) {
	d.op("fill-rect").Stringer("rect", r).Send()
	d.Next.FillRect(r, c)
}

// FillRoundedRect implements render.Surface.
func (d *Surface) FillRoundedRect(r image.Rectangle, radius int, corners render.Corners, c color.NRGBA) {
	d.op("fill-rounded-rect").Stringer("rect", r).Int("radius", radius).Send()
	d.Next.FillRoundedRect(r, radius, corners, c)
}

// FillEllipse implements render.Surface.
func (d *Surface) FillEllipse(r image.Rectangle, c color.NRGBA) {
	d.op("fill-ellipse").Stringer("rect", r).Send()
	d.Next.FillEllipse(r, c)
}

// StrokeArc implements render.Surface.
func (d *Surface) StrokeArc(r image.Rectangle, width int, startRatio, sweepRatio float64, c color.NRGBA) {
	d.op("stroke-arc").Stringer("rect", r).Float64("sweep", sweepRatio).Send()
	d.Next.StrokeArc(r, width, startRatio, sweepRatio, c)
}

// DrawImage implements render.Surface.
func (d *Surface) DrawImage(img image.Image, at image.Point) {
	d.op("draw-image").Stringer("at", at).Stringer("bounds", img.Bounds()).Send()
	d.Next.DrawImage(img, at)
}

// DrawIcon implements render.Surface.
func (d *Surface) DrawIcon(ic render.Icon, r image.Rectangle, c color.NRGBA) {
	d.op("draw-icon").Uint8("icon", uint8(ic)).Stringer("rect", r).Send()
	d.Next.DrawIcon(ic, r, c)
}

// DrawText implements render.Surface.
func (d *Surface) DrawText(s string, at image.Point, c color.NRGBA) {
	d.op("draw-text").Str("text", s).Stringer("at", at).Send()
	d.Next.DrawText(s, at, c)
}

// SetOpacity implements render.Surface.
func (d *Surface) SetOpacity(opacity float64) {
	d.Next.SetOpacity(opacity)
}
