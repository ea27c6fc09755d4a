/*
Package text fixes the contract between media elements and the text
shaping engine that lays out their captions.

Shaping itself is an external collaborator. Elements only need enough
of its surface to reserve caption height, paint at a position, and
route hit-tests to links, and they must compute identical geometry in
draw and hit-test paths, which is why height is a pure function of
width here.
*/
package text

import (
	"image"

	"git.sr.ht/~gioverse/media/render"
)

// Link is an activatable target produced by hit-testing, either a link
// inside a caption or a media affordance (open, save, cancel, seek).
type Link interface {
	// Activate performs the link's action.
	Activate()
}

// State is the result of hit-testing a point inside laid-out text.
type State struct {
	// Link under the point, or nil.
	Link Link
	// Symbol is the rune index under the point.
	Symbol int
}

// Source is a laid-out rich text block.
type Source interface {
	// IsEmpty reports whether there is any content.
	IsEmpty() bool
	// Len is the content length in runes.
	Len() int
	// MaxWidth is the unwrapped width in pixels.
	MaxWidth() int
	// CountHeight returns the wrapped height for the given width.
	// Must be pure: the same width always yields the same height.
	CountHeight(width int) int
	// Draw paints the block with its top-left at into the surface,
	// wrapped to width.
	Draw(s render.Surface, at image.Point, width int)
	// GetState hit-tests a point relative to the block's top-left,
	// with the block wrapped to width.
	GetState(pt image.Point, width int) State
}

// LinkFunc adapts a function to the Link interface.
type LinkFunc func()

// Activate calls f.
func (f LinkFunc) Activate() { f() }
