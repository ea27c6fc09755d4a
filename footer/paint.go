package footer

import (
	"image"
	"image/color"

	"git.sr.ht/~gioverse/media/render"
)

// Palette carries the footer colors.
type Palette struct {
	Glyph       color.NRGBA
	GlyphActive color.NRGBA
	Selection   color.NRGBA
}

// DefaultPalette mirrors the light message frame. The selection
// highlight is the active glyph color at low alpha.
func DefaultPalette() Palette {
	active := color.NRGBA{R: 0x3f, G: 0x8c, B: 0xd6, A: 0xff}
	return Palette{
		Glyph:       color.NRGBA{R: 0x7f, G: 0x8b, B: 0x96, A: 0xff},
		GlyphActive: active,
		Selection:   render.WithAlpha(active, 0x2e),
	}
}

// selectionSkip insets the selection highlight from the row edges.
const selectionSkip = 4

// Paint draws the footer row: search and settings cells, the selection
// highlight under the strip offset, then every visible icon.
func (c *Controller) Paint(s render.Surface, pal Palette, paused bool) {
	if c.cfg.SearchVisible {
		left := c.iconsLeft - c.singleWidth
		cell := image.Rect(left, 0, left+c.singleWidth, c.cfg.Height)
		s.DrawIcon(render.IconSearch, c.glyphRect(cell), pal.Glyph)
	}
	if len(c.icons) == 0 || c.searchShown {
		return
	}
	if c.cfg.SettingsVisible && !c.hasOnlyFeaturedSets() {
		left := c.cfg.Width - c.iconsRight
		cell := image.Rect(left, 0, left+c.singleWidth, c.cfg.Height)
		s.DrawIcon(render.IconSettings, c.glyphRect(cell), pal.Glyph)
	}
	c.paintSelection(s, pal)
	c.enumerateVisibleIcons(func(info IconInfo) {
		c.paintSetIcon(s, pal, info, paused)
	})
}

func (c *Controller) paintSelection(s render.Surface, pal Palette) {
	selx := c.iconsLeft + roundInt(c.iconState.selectionX.Current()) - c.iconState.current()
	selw := roundInt(c.iconState.selectionWidth.Current())
	if selw <= 0 {
		return
	}
	rect := image.Rect(
		selx+selectionSkip,
		selectionSkip,
		selx+selw-selectionSkip,
		c.cfg.Height-selectionSkip,
	)
	s.FillRoundedRect(rect, (c.cfg.Height-2*selectionSkip)/4, render.AllCorners, pal.Selection)
}

func (c *Controller) paintSetIcon(s render.Surface, pal Palette, info IconInfo, paused bool) {
	ic := &c.icons[info.Index]
	cell := image.Rect(info.AdjustedLeft, 0, info.AdjustedLeft+info.Width, c.cfg.Height)
	if ic.SetID == AllEmojiSetID() && info.Width > c.singleWidth {
		c.paintSubicons(s, pal, cell)
		return
	}
	if ic.Sticker != 0 {
		c.ensureRenderer(ic)
		switch {
		case ic.renderer != nil:
			ic.renderer.Paint(s, c.glyphRect(cell), paused)
		case ic.savedFrame != nil:
			r := c.glyphRect(cell)
			s.DrawImage(ic.savedFrame, r.Min)
		default:
			s.DrawIcon(ic.Glyph, c.glyphRect(cell), pal.Glyph)
		}
		return
	}
	s.DrawIcon(ic.Glyph, c.glyphRect(cell), c.glyphColor(pal, info.Index))
}

// glyphColor tints the selected cell fully active and a hovered cell
// halfway there.
func (c *Controller) glyphColor(pal Palette, index int) color.NRGBA {
	switch {
	case index == c.iconState.selected:
		return pal.GlyphActive
	case c.selected.kind == overIcon && c.selected.index == index:
		return render.Blend(pal.Glyph, pal.GlyphActive, 0.5)
	}
	return pal.Glyph
}

// paintSubicons draws the emoji section glyphs inside the expanded
// all-emoji cell, clipped to the cell's current animated width.
func (c *Controller) paintSubicons(s render.Surface, pal Palette, cell image.Rectangle) {
	c.enumerateSubicons(func(sub IconInfo) bool {
		left := cell.Min.X + sub.AdjustedLeft
		if left+sub.Width <= cell.Min.X || left >= cell.Max.X {
			return left < cell.Max.X
		}
		col := pal.Glyph
		if sub.Index == c.subiconState.selected {
			col = pal.GlyphActive
		}
		glyph := image.Rect(left, 0, left+sub.Width, c.cfg.Height)
		s.DrawIcon(render.IconEmoji, c.glyphRect(glyph), col)
		return true
	})
}

// glyphRect centers a square glyph area inside a cell.
func (c *Controller) glyphRect(cell image.Rectangle) image.Rectangle {
	side := minInt(cell.Dx(), cell.Dy()) * 3 / 4
	cx := (cell.Min.X + cell.Max.X) / 2
	cy := (cell.Min.Y + cell.Max.Y) / 2
	return image.Rect(cx-side/2, cy-side/2, cx-side/2+side, cy-side/2+side)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
