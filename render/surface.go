/*
Package render abstracts the paint surface media elements draw into.

The core pipeline paints through the Surface interface so that
geometry, caching and hit-testing stay independent of the toolkit. A
Gio-backed implementation lives in this package; a headless Recording
surface supports tests and debugging.
*/
package render

import (
	"image"
	"image/color"
)

// Corners selects which corners of a rectangle are rounded.
type Corners uint8

const (
	// TopLeft corner.
	TopLeft Corners = 1 << iota
	// TopRight corner.
	TopRight
	// BottomLeft corner.
	BottomLeft
	// BottomRight corner.
	BottomRight

	// NoCorners rounds nothing.
	NoCorners Corners = 0
	// AllCorners rounds everything.
	AllCorners = TopLeft | TopRight | BottomLeft | BottomRight
)

// Icon identifies one of the built-in affordance glyphs.
type Icon uint8

const (
	// IconNone draws nothing.
	IconNone Icon = iota
	// IconDownload offers to start a transfer.
	IconDownload
	// IconCancel offers to abort a transfer.
	IconCancel
	// IconPlay offers to start playback.
	IconPlay
	// IconPause offers to pause playback.
	IconPause
	// IconFile marks a generic document.
	IconFile
	// IconWaiting marks media queued behind its album.
	IconWaiting
	// IconError marks a failed transfer.
	IconError
	// IconSearch marks the footer search cell.
	IconSearch
	// IconSettings marks the footer settings cell.
	IconSettings
	// IconEmoji marks a built-in emoji section cell.
	IconEmoji
)

// Surface is the drawing target for one frame. Implementations are
// not required to be usable after the frame ends.
type Surface interface {
	// FillRect fills r with c.
	FillRect(r image.Rectangle, c color.NRGBA)
	// FillRoundedRect fills r with the selected corners rounded by
	// radius.
	FillRoundedRect(r image.Rectangle, radius int, corners Corners, c color.NRGBA)
	// FillEllipse fills the ellipse inscribed in r.
	FillEllipse(r image.Rectangle, c color.NRGBA)
	// StrokeArc strokes a circular arc inscribed in r, starting at
	// startRatio turns from twelve o'clock and sweeping sweepRatio
	// turns clockwise.
	StrokeArc(r image.Rectangle, width int, startRatio, sweepRatio float64, c color.NRGBA)
	// DrawImage paints img with its top-left corner at.
	DrawImage(img image.Image, at image.Point)
	// DrawIcon paints ic centered within r.
	DrawIcon(ic Icon, r image.Rectangle, c color.NRGBA)
	// DrawText paints a single line of s with its top-left at.
	DrawText(s string, at image.Point, c color.NRGBA)
	// SetOpacity scales the alpha of subsequent operations. The value
	// is absolute, not cumulative; 1 restores full opacity.
	SetOpacity(opacity float64)
}
