package render

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// IconSet holds the widget icons a Gio surface paints affordances with.
type IconSet struct {
	Download *widget.Icon
	Cancel   *widget.Icon
	Play     *widget.Icon
	Pause    *widget.Icon
	File     *widget.Icon
	Waiting  *widget.Icon
	Error    *widget.Icon
	Search   *widget.Icon
	Settings *widget.Icon
	Emoji    *widget.Icon
}

// MaterialIcons builds the default affordance set from the material
// design glyphs.
func MaterialIcons() IconSet {
	mk := func(data []byte) *widget.Icon {
		icon, _ := widget.NewIcon(data)
		return icon
	}
	return IconSet{
		Download: mk(icons.FileFileDownload),
		Cancel:   mk(icons.NavigationClose),
		Play:     mk(icons.AVPlayArrow),
		Pause:    mk(icons.AVPause),
		File:     mk(icons.EditorInsertDriveFile),
		Waiting:  mk(icons.ActionHourglassEmpty),
		Error:    mk(icons.AlertErrorOutline),
		Search:   mk(icons.ActionSearch),
		Settings: mk(icons.ActionSettings),
		Emoji:    mk(icons.SocialMood),
	}
}

func (s IconSet) lookup(ic Icon) *widget.Icon {
	switch ic {
	case IconDownload:
		return s.Download
	case IconCancel:
		return s.Cancel
	case IconPlay:
		return s.Play
	case IconPause:
		return s.Pause
	case IconFile:
		return s.File
	case IconWaiting:
		return s.Waiting
	case IconError:
		return s.Error
	case IconSearch:
		return s.Search
	case IconSettings:
		return s.Settings
	case IconEmoji:
		return s.Emoji
	default:
		return nil
	}
}

// Gio is a Surface that paints into a Gio frame.
type Gio struct {
	gtx     layout.Context
	theme   *material.Theme
	icons   IconSet
	opacity float64
}

var _ Surface = (*Gio)(nil)

// NewGio returns a surface painting into the frame's operation list.
func NewGio(gtx layout.Context, th *material.Theme, icons IconSet) *Gio {
	return &Gio{gtx: gtx, theme: th, icons: icons, opacity: 1}
}

func (g *Gio) color(c color.NRGBA) color.NRGBA {
	return ScaleAlpha(c, g.opacity)
}

// FillRect implements Surface.
func (g *Gio) FillRect(r image.Rectangle, c color.NRGBA) {
	paint.FillShape(g.gtx.Ops, g.color(c), clip.Rect(r).Op())
}

// FillRoundedRect implements Surface.
func (g *Gio) FillRoundedRect(r image.Rectangle, radius int, corners Corners, c color.NRGBA) {
	rr := clip.RRect{Rect: r}
	if corners&TopLeft != 0 {
		rr.NW = radius
	}
	if corners&TopRight != 0 {
		rr.NE = radius
	}
	if corners&BottomLeft != 0 {
		rr.SW = radius
	}
	if corners&BottomRight != 0 {
		rr.SE = radius
	}
	paint.FillShape(g.gtx.Ops, g.color(c), rr.Op(g.gtx.Ops))
}

// FillEllipse implements Surface.
func (g *Gio) FillEllipse(r image.Rectangle, c color.NRGBA) {
	paint.FillShape(g.gtx.Ops, g.color(c), clip.Ellipse(r).Op(g.gtx.Ops))
}

// StrokeArc implements Surface.
func (g *Gio) StrokeArc(r image.Rectangle, width int, startRatio, sweepRatio float64, c color.NRGBA) {
	center := f32.Pt(
		float32(r.Min.X+r.Dx()/2),
		float32(r.Min.Y+r.Dy()/2),
	)
	radius := float32(r.Dx()) / 2
	startAngle := (startRatio - 0.25) * 2 * math.Pi
	start := f32.Pt(
		center.X+radius*float32(math.Cos(startAngle)),
		center.Y+radius*float32(math.Sin(startAngle)),
	)
	var p clip.Path
	p.Begin(g.gtx.Ops)
	p.MoveTo(start)
	p.Arc(center.Sub(start), center.Sub(start), float32(sweepRatio*2*math.Pi))
	paint.FillShape(g.gtx.Ops, g.color(c), clip.Stroke{
		Path:  p.End(),
		Width: float32(width),
	}.Op())
}

// DrawImage implements Surface.
func (g *Gio) DrawImage(img image.Image, at image.Point) {
	defer op.Offset(at).Push(g.gtx.Ops).Pop()
	imgOp := paint.NewImageOp(img)
	imgOp.Add(g.gtx.Ops)
	paint.PaintOp{}.Add(g.gtx.Ops)
}

// DrawIcon implements Surface.
func (g *Gio) DrawIcon(ic Icon, r image.Rectangle, c color.NRGBA) {
	icon := g.icons.lookup(ic)
	if icon == nil {
		return
	}
	// Center the glyph at two thirds of the circle size, matching the
	// inset of a radial affordance.
	size := r.Dx() * 2 / 3
	at := image.Pt(r.Min.X+(r.Dx()-size)/2, r.Min.Y+(r.Dy()-size)/2)
	defer op.Offset(at).Push(g.gtx.Ops).Pop()
	gtx := g.gtx
	gtx.Constraints = layout.Exact(image.Pt(size, size))
	icon.Layout(gtx, g.color(c))
}

// DrawText implements Surface.
func (g *Gio) DrawText(s string, at image.Point, c color.NRGBA) {
	if g.theme == nil {
		return
	}
	defer op.Offset(at).Push(g.gtx.Ops).Pop()
	gtx := g.gtx
	gtx.Constraints.Min = image.Point{}
	label := material.Label(g.theme, unit.Sp(13), s)
	label.Color = g.color(c)
	label.MaxLines = 1
	label.Layout(gtx)
}

// SetOpacity implements Surface.
func (g *Gio) SetOpacity(opacity float64) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	g.opacity = opacity
}

// CachedImage memoizes the upload of a prepared image to the GPU.
//
// The first call computes the image operation; subsequent calls with
// the same backing image are no-ops.
type CachedImage struct {
	op  paint.ImageOp
	src image.Image
}

// Cache the image if it is not already.
func (c *CachedImage) Cache(src image.Image) {
	if src == nil {
		return
	}
	if c.src == src && c.op != (paint.ImageOp{}) {
		return
	}
	c.src = src
	c.op = paint.NewImageOp(src)
}

// Op returns the concrete image operation.
func (c *CachedImage) Op() paint.ImageOp {
	return c.op
}
