package footer

import (
	"image"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/render"
)

// Renderer animates one icon's sticker thumbnail. Renderers are the
// heavy per-icon resource: created lazily for visible icons, dropped
// wholesale by ClearHeavyData.
type Renderer interface {
	// Paint draws the current thumbnail frame into r.
	Paint(s render.Surface, r image.Rectangle, paused bool)
	// Frame returns the last decoded frame, or nil. Saved on unload
	// so the cell keeps a static image until re-decoded.
	Frame() image.Image
	// Unload releases decode resources.
	Unload()
}

// RendererFactory creates a Renderer for a sticker-backed icon.
type RendererFactory func(sticker asset.ID) Renderer

// Icon is one cell of the strip.
type Icon struct {
	// SetID the cell selects.
	SetID SetID
	// Sticker backing the animated thumbnail; zero for built-in cells.
	Sticker asset.ID
	// Glyph drawn for built-in cells without a sticker.
	Glyph render.Icon

	renderer   Renderer
	savedFrame image.Image
}

// HasHeavy reports whether the icon holds decode resources or a saved
// frame.
func (ic *Icon) HasHeavy() bool {
	return ic.renderer != nil || ic.savedFrame != nil
}

// unload drops the renderer, saving its last frame when keepFrame is
// set so the cell still paints something.
func (ic *Icon) unload(keepFrame bool) {
	if ic.renderer != nil {
		if keepFrame && ic.savedFrame == nil {
			ic.savedFrame = ic.renderer.Frame()
		}
		ic.renderer.Unload()
		ic.renderer = nil
	}
	if !keepFrame {
		ic.savedFrame = nil
	}
}
