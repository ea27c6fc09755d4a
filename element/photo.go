package element

import (
	"image"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/stream"
	"git.sr.ht/~gioverse/media/text"
)

// PhotoConfig extends Config with photo-specific collaborators.
type PhotoConfig struct {
	Config
	// Opener creates streaming sessions for autoplaying video. May be
	// nil for still photos.
	Opener stream.Opener
	// Autoplay starts inline playback as soon as the asset allows it.
	Autoplay bool
	// Caption is drawn below the image inside the bubble. May be nil.
	Caption text.Source
}

// streamedPhoto is the heavy streaming sub-state. frozen holds the
// last good frame while the player is locked by another consumer.
type streamedPhoto struct {
	handle stream.Handle
	frozen image.Image
}

// Photo renders an image or autoplaying video with an optional
// caption. It materializes its asset view and paint cache lazily on
// first draw and releases them on unload.
type Photo struct {
	baseFile

	opener   stream.Opener
	autoplay bool
	caption  text.Source

	streamed *streamedPhoto

	cache     *image.NRGBA
	cacheKey  render.ImageOptions
	cacheTier asset.Tier
	// prepares counts cache rebuilds; geometry-stable repaints must
	// not increase it.
	prepares int

	mediaHeight int
}

// NewPhoto creates a photo element over the shared asset.
func NewPhoto(data *asset.Asset, cfg PhotoConfig) *Photo {
	p := &Photo{
		opener:   cfg.Opener,
		autoplay: cfg.Autoplay,
		caption:  cfg.Caption,
	}
	p.initBase(data, cfg.Config)
	return p
}

func (p *Photo) hasCaption() bool {
	return p.caption != nil && !p.caption.IsEmpty()
}

// CountOptimalSize computes the unconstrained size: the photo scaled
// to the media bound, widened for the caption if it needs more room.
func (p *Photo) CountOptimalSize() image.Point {
	m := p.cfg.Metrics
	scaled := scaleToFit(p.data.Dims(), m.MaxMediaSize)
	minW := m.MinPhotoSize
	if p.flags.InBubble {
		minW = maxInt(minW, m.BubbleMinWidth)
	}
	minW = minInt(minW, m.MaxMediaSize)
	maxWidth := maxInt(scaled.X, minW)
	minHeight := maxInt(scaled.Y, m.MinPhotoSize)
	if p.flags.InBubble && p.hasCaption() {
		maxWidth = maxInt(maxWidth, m.PaddingLeft+p.caption.MaxWidth()+m.PaddingRight)
		maxWidth = minInt(maxWidth, m.MaxMediaSize)
		captionW := maxWidth - m.PaddingLeft - m.PaddingRight
		minHeight += m.CaptionSkip + p.caption.CountHeight(captionW)
		if p.flags.BubbleBottom {
			minHeight += m.PaddingBottom
		}
	}
	p.maxWidth, p.minHeight = maxWidth, minHeight
	return image.Pt(maxWidth, minHeight)
}

// CountCurrentSize lays the photo out at the available width. Caption
// height is recomputed at the resulting width, so draw and hit-test
// see the same geometry.
func (p *Photo) CountCurrentSize(newWidth int) image.Point {
	m := p.cfg.Metrics
	bound := minInt(newWidth, m.MaxMediaSize)
	if bound < 1 {
		bound = 1
	}
	scaled := scaleToWidth(scaleToFit(p.data.Dims(), m.MaxMediaSize), bound)
	minW := m.MinPhotoSize
	if p.flags.InBubble {
		minW = maxInt(minW, m.BubbleMinWidth)
	}
	minW = minInt(minW, bound)
	w := minInt(maxInt(scaled.X, minW), bound)
	h := maxInt(scaled.Y, m.MinPhotoSize)
	p.mediaHeight = h
	if p.flags.InBubble && p.hasCaption() {
		captionW := w - m.PaddingLeft - m.PaddingRight
		h += m.CaptionSkip + p.caption.CountHeight(captionW)
		if p.flags.BubbleBottom {
			h += m.PaddingBottom
		}
	}
	p.width, p.height = w, h
	return image.Pt(w, h)
}

// SizeForGrouping reports the size the album layouter packs with: the
// native media dimensions, which the grouping pass scales itself.
func (p *Photo) SizeForGrouping(int) image.Point {
	d := p.data.Dims()
	return image.Pt(maxInt(d.X, 1), maxInt(d.Y, 1))
}

// corners picks which image corners follow the bubble rounding.
func (p *Photo) corners() render.Corners {
	if !p.flags.InBubble {
		return render.AllCorners
	}
	c := render.NoCorners
	if p.flags.BubbleTop {
		c |= render.TopLeft | render.TopRight
	}
	if p.flags.BubbleBottom && !p.hasCaption() {
		c |= render.BottomLeft | render.BottomRight
	}
	return c
}

// validateImageCache rebuilds the prepared pixmap only when the best
// available tier or the output geometry changed.
func (p *Photo) validateImageCache(outer image.Point, radius int, corners render.Corners) {
	tier, img, blurred := p.data.BestImage()
	key := render.ImageOptions{Outer: outer, Radius: radius, Corners: corners, Blur: blurred}
	if p.cache != nil && key == p.cacheKey && tier == p.cacheTier {
		return
	}
	p.cache = render.PrepareImage(img, key)
	p.cacheKey = key
	p.cacheTier = tier
	p.prepares++
}

// Draw paints the photo at the size recorded by CountCurrentSize.
func (p *Photo) Draw(s render.Surface, ctx *Context) {
	m := p.cfg.Metrics
	if p.width <= 0 || p.height <= 0 {
		return
	}
	now := p.cfg.Now()
	p.ensureViewCreated(p)
	if !p.data.Loaded() && !p.data.Failed() {
		p.want(asset.TierLarge)
	}

	media := image.Rect(0, 0, p.width, p.mediaHeight)
	p.validateImageCache(media.Size(), m.RoundRadius, p.corners())

	if p.streamingAllowed() {
		p.startStreaming()
	}
	drewFrame := p.drawStreamedFrame(s, ctx, media)
	if !drewFrame {
		s.DrawImage(p.cache, image.Pt(0, 0))
	}
	if ctx.Selected {
		s.FillRoundedRect(media, m.RoundRadius, p.corners(), ctx.Palette.ImageOverlay)
	}

	radialShown := p.stepRadial(now)
	showAffordance := !drewFrame && (radialShown || !p.data.Loaded())
	if showAffordance {
		inner := centeredSquare(media, m.ThumbSize)
		opacity := 1.0
		if radialShown && !p.transferring() {
			opacity = p.radial.currentOpacity()
		}
		s.SetOpacity(opacity)
		s.FillEllipse(inner, ctx.Palette.AffordanceBg)
		s.DrawIcon(p.affordanceIcon(radialShown), inner, ctx.Palette.AffordanceFg)
		s.SetOpacity(1)
		if radialShown {
			p.radial.draw(s, inner, m.RadialLine, ctx.Palette.RadialFg)
		}
	} else if !drewFrame && p.data.VideoCanBePlayed() {
		inner := centeredSquare(media, m.ThumbSize)
		s.FillEllipse(inner, ctx.Palette.AffordanceBg)
		s.DrawIcon(render.IconPlay, inner, ctx.Palette.AffordanceFg)
	}

	if p.flags.InBubble && p.hasCaption() {
		captionW := p.width - m.PaddingLeft - m.PaddingRight
		p.caption.Draw(s, image.Pt(m.PaddingLeft, p.mediaHeight+m.CaptionSkip), captionW)
	}
}

func (p *Photo) affordanceIcon(radialShown bool) render.Icon {
	switch {
	case p.waitingForAlbum:
		return render.IconWaiting
	case p.data.Failed():
		return render.IconError
	case p.transferring() || radialShown:
		return render.IconCancel
	default:
		return render.IconDownload
	}
}

// streamingAllowed additionally waits for the full download: sessions
// opened through stream.Opener read the completed file, so the poster
// is shown until then.
func (p *Photo) streamingAllowed() bool {
	return p.opener != nil && p.autoplay &&
		p.data.VideoCanBePlayed() && p.data.Loaded()
}

func (p *Photo) startStreaming() {
	if p.streamed != nil {
		return
	}
	handle, err := p.opener.Open(p.data.ID(), p.handleStreamingUpdate)
	if err != nil {
		p.data.SetPlaybackFailed()
		return
	}
	p.streamed = &streamedPhoto{handle: handle}
}

// handleStreamingUpdate runs on the UI goroutine via the dispatcher's
// update channel; the streaming layer guarantees delivery there.
func (p *Photo) handleStreamingUpdate(u stream.Update) {
	switch u.(type) {
	case stream.Error:
		p.data.SetPlaybackFailed()
		p.stopStreaming(true)
		p.cfg.invalidate()
	case stream.Ready, stream.Frame, stream.Finished:
		p.cfg.invalidate()
	}
}

func (p *Photo) stopStreaming(check bool) {
	if p.streamed == nil {
		return
	}
	p.streamed.handle.Close()
	p.streamed = nil
	if check {
		p.checkHeavy()
	}
}

// drawStreamedFrame paints the live video frame if one is available.
// While the player is locked elsewhere the last good frame is frozen
// and repainted instead.
func (p *Photo) drawStreamedFrame(s render.Surface, ctx *Context, media image.Rectangle) bool {
	sp := p.streamed
	if sp == nil || !sp.handle.Ready() {
		return false
	}
	req := stream.Request{Outer: media.Size(), Radius: p.cfg.Metrics.RoundRadius}
	if sp.handle.Locked() {
		if sp.frozen == nil {
			sp.frozen = sp.handle.Frame(req)
		}
		if sp.frozen == nil {
			return false
		}
		s.DrawImage(sp.frozen, media.Min)
		return true
	}
	sp.frozen = nil
	frame := sp.handle.Frame(req)
	if frame == nil {
		return false
	}
	s.DrawImage(frame, media.Min)
	if !ctx.Paused {
		sp.handle.MarkFrameShown()
	}
	return true
}

// TextState hit-tests against the geometry Draw painted.
func (p *Photo) TextState(pt image.Point) text.State {
	var res text.State
	if p.width <= 0 || p.height <= 0 {
		return res
	}
	m := p.cfg.Metrics
	if p.flags.InBubble && p.hasCaption() {
		captionW := p.width - m.PaddingLeft - m.PaddingRight
		captionTop := p.mediaHeight + m.CaptionSkip
		captionRect := image.Rect(m.PaddingLeft, captionTop,
			m.PaddingLeft+captionW, captionTop+p.caption.CountHeight(captionW))
		if pt.In(captionRect) {
			return p.caption.GetState(pt.Sub(captionRect.Min), captionW)
		}
	}
	if pt.In(image.Rect(0, 0, p.width, p.mediaHeight)) {
		res.Link = p.transferLink()
	}
	return res
}

// HasHeavyPart reports whether a view or streaming session is held.
func (p *Photo) HasHeavyPart() bool {
	return p.view != nil || p.streamed != nil
}

// UnloadHeavyPart releases the view, the paint cache and any
// streaming session. The next Draw rebuilds them from the shared
// asset.
func (p *Photo) UnloadHeavyPart() {
	p.stopStreaming(false)
	p.releaseView()
	p.cache = nil
	p.cacheTier = asset.TierNone
	p.checkHeavy()
}

// Destroy releases everything and detaches pending callbacks. The
// element must not be drawn afterwards.
func (p *Photo) Destroy() {
	p.stopStreaming(false)
	p.releaseView()
	p.cache = nil
}

func centeredSquare(r image.Rectangle, side int) image.Rectangle {
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	return image.Rect(cx-side/2, cy-side/2, cx-side/2+side, cy-side/2+side)
}
