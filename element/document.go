package element

import (
	"image"
	"time"

	"git.sr.ht/~gioverse/media/anim"
	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/text"
)

// DocumentConfig extends Config with document-specific collaborators.
type DocumentConfig struct {
	Config
	// Player is polled for playback state of songs and voice notes.
	Player Player
	// Caption is drawn below the file row. May be nil.
	Caption text.Source
	// Filename is shown as the document name.
	Filename string
	// Waveform holds the stored voice waveform samples, or nil.
	Waveform []int
	// Transcription is the speech-to-text result shown below the
	// waveform. May be nil.
	Transcription text.Source
	// Thumbnail marks the asset as carrying a photo thumbnail.
	Thumbnail bool
}

// Capability components. A document materializes only the parts its
// asset calls for; absent parts cost nothing to carry.
type namedComponent struct {
	name string
}

type thumbedComponent struct{}

type voiceComponent struct {
	playback anim.Value
	driver   *anim.Driver

	seeking        bool
	seekingStart   float64
	seekingCurrent float64

	seekLink text.Link
}

type captionedComponent struct {
	caption text.Source
}

type transcribedComponent struct {
	text text.Source
}

// Document renders a file row: an icon or thumbnail, a name, a status
// line, and for voice notes a seekable waveform.
type Document struct {
	baseFile

	named       *namedComponent
	thumbed     *thumbedComponent
	voice       *voiceComponent
	captioned   *captionedComponent
	transcribed *transcribedComponent

	player   Player
	waveform []int
	unread   bool

	// statusSize caches the state the status text was computed from,
	// using the sentinel encoding, so the text is rebuilt only on
	// state changes.
	statusSize int64
	statusText string

	thumbCache *image.NRGBA
	thumbKey   render.ImageOptions
	thumbTier  asset.Tier
}

// NewDocument creates a document element over the shared asset,
// materializing the components its flags call for.
func NewDocument(data *asset.Asset, cfg DocumentConfig) *Document {
	d := &Document{
		player:     cfg.Player,
		waveform:   cfg.Waveform,
		statusSize: statusSizeNone,
	}
	d.initBase(data, cfg.Config)

	if data.Flags().Has(asset.FlagVoice) {
		v := &voiceComponent{playback: anim.Rest(0)}
		v.driver = &anim.Driver{
			Duration:   anim.DefaultDuration,
			Invalidate: d.cfg.invalidate,
			Disabled:   d.cfg.AnimationsDisabled,
		}
		v.driver.Add(&v.playback, anim.Linear)
		v.seekLink = text.LinkFunc(d.StartSeeking)
		d.voice = v
		if cfg.Transcription != nil && !cfg.Transcription.IsEmpty() {
			d.transcribed = &transcribedComponent{text: cfg.Transcription}
		}
	} else {
		d.named = &namedComponent{name: cfg.Filename}
		if cfg.Thumbnail {
			d.thumbed = &thumbedComponent{}
		}
	}
	if cfg.Caption != nil && !cfg.Caption.IsEmpty() {
		d.captioned = &captionedComponent{caption: cfg.Caption}
	}
	return d
}

func (d *Document) audio() bool {
	return d.data.Flags().Has(asset.FlagVoice) || d.data.Flags().Has(asset.FlagSong)
}

// SetUnread toggles the unread marker voice notes carry until played.
func (d *Document) SetUnread(unread bool) {
	d.unread = unread
}

// Row geometry. Left edge of text content sits after the icon square.

func (d *Document) iconRect() image.Rectangle {
	m := d.cfg.Metrics
	return image.Rect(m.PaddingLeft, m.FilePaddingTop,
		m.PaddingLeft+m.ThumbSize, m.FilePaddingTop+m.ThumbSize)
}

func (d *Document) contentLeft() int {
	m := d.cfg.Metrics
	return m.PaddingLeft + m.ThumbSize + m.PaddingLeft
}

func (d *Document) rowHeight() int {
	m := d.cfg.Metrics
	return m.FilePaddingTop + m.ThumbSize + m.FilePaddingBottom
}

// transcriptHeight is the height the transcription block adds below the
// row at the given element width, including its top skip.
func (d *Document) transcriptHeight(width int) int {
	if d.transcribed == nil {
		return 0
	}
	m := d.cfg.Metrics
	return m.CaptionSkip + d.transcribed.text.CountHeight(width-m.PaddingLeft-m.PaddingRight)
}

// bodyHeight is the row plus the transcription block; the caption
// starts below it.
func (d *Document) bodyHeight(width int) int {
	return d.rowHeight() + d.transcriptHeight(width)
}

// CountOptimalSize sizes the row to its name and widest status text.
func (d *Document) CountOptimalSize() image.Point {
	m := d.cfg.Metrics
	maxWidth := m.MaxMediaSize
	if d.voice == nil {
		statusW := m.GlyphWidth * len([]rune(formatDownloadText(d.data.Size(), d.data.Size())))
		contentW := statusW
		if d.named != nil {
			contentW = maxInt(contentW, m.GlyphWidth*len([]rune(d.named.name)))
		}
		maxWidth = clamp(d.contentLeft()+contentW+m.PaddingRight, m.BubbleMinWidth, m.MaxMediaSize)
	}
	minHeight := d.bodyHeight(maxWidth)
	if d.captioned != nil {
		captionW := maxWidth - m.PaddingLeft - m.PaddingRight
		minHeight += m.CaptionSkip + d.captioned.caption.CountHeight(captionW)
	}
	if (d.captioned != nil || d.transcribed != nil) && d.flags.BubbleBottom {
		minHeight += m.PaddingBottom
	}
	d.maxWidth, d.minHeight = maxWidth, minHeight
	return image.Pt(maxWidth, minHeight)
}

// CountCurrentSize narrows the row to the available width and reflows
// the caption at the result.
func (d *Document) CountCurrentSize(newWidth int) image.Point {
	m := d.cfg.Metrics
	if d.maxWidth == 0 {
		d.CountOptimalSize()
	}
	w := minInt(newWidth, d.maxWidth)
	h := d.bodyHeight(w)
	if d.captioned != nil {
		captionW := w - m.PaddingLeft - m.PaddingRight
		h += m.CaptionSkip + d.captioned.caption.CountHeight(captionW)
	}
	if (d.captioned != nil || d.transcribed != nil) && d.flags.BubbleBottom {
		h += m.PaddingBottom
	}
	d.width, d.height = w, h
	return image.Pt(w, h)
}

// SizeForGrouping reports the album cell size: the file row plus the
// caption wrapped to the cell width.
func (d *Document) SizeForGrouping(width int) image.Point {
	m := d.cfg.Metrics
	h := d.bodyHeight(width)
	if d.captioned != nil {
		h += d.captioned.caption.CountHeight(width - m.PaddingLeft - m.PaddingRight)
	}
	return image.Pt(width, h)
}

// setStatusSize rebuilds the status text when the encoded state
// changes. Negative sizes are playback positions; the sentinels mark
// ready, loaded and failed.
func (d *Document) setStatusSize(newSize int64, realDuration int) {
	if newSize == d.statusSize {
		return
	}
	d.statusSize = newSize
	size := d.data.Size()
	duration := d.data.Duration()
	switch {
	case newSize == statusSizeReady:
		if d.audio() {
			d.statusText = formatDurationAndSizeText(duration, size)
		} else {
			d.statusText = formatSizeText(size)
		}
	case newSize == statusSizeLoaded:
		if d.audio() {
			d.statusText = formatDurationText(duration)
		} else {
			d.statusText = formatSizeText(size)
		}
	case newSize == statusSizeFailed:
		d.statusText = "Failed"
	case newSize >= 0:
		d.statusText = formatDownloadText(newSize, size)
	default:
		if realDuration == 0 {
			realDuration = duration
		}
		d.statusText = formatPlayedText(int(-newSize-1), realDuration)
	}
}

// updateStatusText derives the encoded status from data and playback
// state. It reports whether the pause glyph should replace play.
func (d *Document) updateStatusText(now time.Time) (showPause bool) {
	var statusSize int64
	switch {
	case d.data.Failed():
		statusSize = statusSizeFailed
	case d.data.Uploading():
		statusSize = d.data.UploadOffset()
	case d.data.Loading():
		statusSize = d.data.LoadOffset()
	case d.data.Loaded():
		statusSize = statusSizeLoaded
	default:
		statusSize = statusSizeReady
	}
	realDuration := 0
	if d.audio() && d.player != nil {
		if st, ok := d.player.State(d.data.ID()); ok && st.Playing {
			statusSize = -1 - int64(st.Position/time.Second)
			realDuration = int(st.Length / time.Second)
			showPause = st.ShowPause
			if d.voice != nil && st.Length > 0 {
				target := float64(st.Position) / float64(st.Length)
				if target != d.voice.playback.To() {
					d.voice.playback.Start(target)
					d.voice.driver.Start(now)
				}
			}
		}
	}
	d.setStatusSize(statusSize, realDuration)
	return showPause
}

// statusIcon picks the affordance glyph by priority: album wait, then
// transfer, then playback, then availability.
func (d *Document) statusIcon(showPause bool) render.Icon {
	switch {
	case d.waitingForAlbum:
		return render.IconWaiting
	case d.data.Failed():
		return render.IconError
	case d.transferring():
		return render.IconCancel
	case showPause:
		return render.IconPause
	case d.data.Loaded() || d.canBePlayed():
		if d.audio() {
			return render.IconPlay
		}
		return render.IconFile
	default:
		return render.IconDownload
	}
}

// canBePlayed reports the asset can start playback before the full
// file arrives.
func (d *Document) canBePlayed() bool {
	return d.audio() && !d.data.PlaybackFailed()
}

func (d *Document) waveformRect() image.Rectangle {
	m := d.cfg.Metrics
	top := m.FilePaddingTop + 2
	return image.Rect(d.contentLeft(), top, d.width-m.PaddingRight, top+m.WaveformMax)
}

func (d *Document) statusTop() int {
	m := d.cfg.Metrics
	return m.FilePaddingTop + m.FileStatusTop
}

// validateThumbCache rebuilds the thumbnail pixmap only when the best
// tier or geometry changed.
func (d *Document) validateThumbCache(outer image.Point) {
	tier, img, blurred := d.data.BestImage()
	key := render.ImageOptions{
		Outer:   outer,
		Radius:  d.cfg.Metrics.RoundRadius / 2,
		Corners: render.AllCorners,
		Blur:    blurred,
	}
	if d.thumbCache != nil && key == d.thumbKey && tier == d.thumbTier {
		return
	}
	d.thumbCache = render.PrepareImage(img, key)
	d.thumbKey = key
	d.thumbTier = tier
}

// Draw paints the file row at the recorded size.
func (d *Document) Draw(s render.Surface, ctx *Context) {
	m := d.cfg.Metrics
	if d.width <= 0 || d.height <= 0 {
		return
	}
	now := d.cfg.Now()
	showPause := d.updateStatusText(now)
	if d.voice != nil {
		d.voice.driver.Tick(now)
	}

	icon := d.iconRect()
	radialShown := d.stepRadial(now)
	if d.thumbed != nil {
		d.ensureViewCreated(d)
		if d.data.Highest() < asset.TierSmall {
			d.want(asset.TierSmall)
		}
		d.validateThumbCache(icon.Size())
		s.DrawImage(d.thumbCache, icon.Min)
		if d.transferring() || !d.data.Loaded() {
			d.drawCornerAffordance(s, ctx, icon, radialShown, showPause)
		}
	} else {
		s.FillEllipse(icon, ctx.Palette.FileBg)
		s.DrawIcon(d.statusIcon(showPause), icon, ctx.Palette.AffordanceFg)
		if radialShown {
			d.radial.draw(s, icon, m.RadialLine, ctx.Palette.RadialFg)
		}
	}

	if d.voice != nil {
		progress := d.voice.playback.Current()
		if d.voice.seeking {
			progress = d.voice.seekingCurrent
		}
		paintWaveform(s, d.waveform, d.waveformRect(), progress, m,
			ctx.Palette.WaveformActive, ctx.Palette.WaveformInactive)
	} else if d.named != nil {
		s.DrawText(d.named.name, image.Pt(d.contentLeft(), m.FilePaddingTop+m.FileNameTop), ctx.Palette.NameFg)
	}

	statusAt := image.Pt(d.contentLeft(), d.statusTop())
	s.DrawText(d.statusText, statusAt, ctx.Palette.StatusFg)
	if d.unread {
		statusW := m.GlyphWidth * len([]rune(d.statusText))
		dot := image.Rect(0, 0, m.UnreadSize, m.UnreadSize).
			Add(image.Pt(statusAt.X+statusW+m.UnreadSkip, statusAt.Y+(m.LineHeight-m.UnreadSize)/2))
		s.FillEllipse(dot, ctx.Palette.UnreadDot)
	}

	textW := d.width - m.PaddingLeft - m.PaddingRight
	if d.transcribed != nil {
		d.transcribed.text.Draw(s, image.Pt(m.PaddingLeft, d.rowHeight()+m.CaptionSkip), textW)
	}
	if d.captioned != nil {
		d.captioned.caption.Draw(s, image.Pt(m.PaddingLeft, d.bodyHeight(d.width)+m.CaptionSkip), textW)
	}

	if ctx.Selected {
		s.FillRect(image.Rect(0, 0, d.width, d.height), ctx.Palette.ImageOverlay)
	}
}

// drawCornerAffordance paints the small transfer circle over the
// thumbnail's bottom-right corner.
func (d *Document) drawCornerAffordance(s render.Surface, ctx *Context, thumb image.Rectangle, radialShown, showPause bool) {
	m := d.cfg.Metrics
	side := m.ThumbSize / 2
	corner := image.Rect(thumb.Max.X-side, thumb.Max.Y-side, thumb.Max.X, thumb.Max.Y)
	s.FillEllipse(corner, ctx.Palette.AffordanceBg)
	s.DrawIcon(d.statusIcon(showPause), corner, ctx.Palette.AffordanceFg)
	if radialShown {
		d.radial.draw(s, corner, maxInt(1, m.RadialLine/2), ctx.Palette.RadialFg)
	}
}

// TextState hit-tests against the geometry Draw painted. A press on
// an active voice waveform starts seeking.
func (d *Document) TextState(pt image.Point) text.State {
	var res text.State
	if d.width <= 0 || d.height <= 0 {
		return res
	}
	m := d.cfg.Metrics
	textW := d.width - m.PaddingLeft - m.PaddingRight
	if d.transcribed != nil {
		top := d.rowHeight() + m.CaptionSkip
		rect := image.Rect(m.PaddingLeft, top,
			m.PaddingLeft+textW, top+d.transcribed.text.CountHeight(textW))
		if pt.In(rect) {
			return d.transcribed.text.GetState(pt.Sub(rect.Min), textW)
		}
	}
	if d.captioned != nil {
		captionTop := d.bodyHeight(d.width) + m.CaptionSkip
		captionRect := image.Rect(m.PaddingLeft, captionTop,
			m.PaddingLeft+textW, captionTop+d.captioned.caption.CountHeight(textW))
		if pt.In(captionRect) {
			return d.captioned.caption.GetState(pt.Sub(captionRect.Min), textW)
		}
	}
	if d.voice != nil && pt.In(d.waveformRect()) {
		if st, ok := d.playbackState(); ok && st.Playing {
			wf := d.waveformRect()
			d.voice.seekingStart = float64(pt.X-wf.Min.X) / float64(wf.Dx())
			res.Link = d.voice.seekLink
			return res
		}
	}
	if pt.In(image.Rect(0, 0, d.width, d.rowHeight())) {
		res.Link = d.rowLink()
	}
	return res
}

func (d *Document) playbackState() (PlaybackState, bool) {
	if !d.audio() || d.player == nil {
		return PlaybackState{}, false
	}
	return d.player.State(d.data.ID())
}

// rowLink picks the action for a press on the file row: cancel during
// transfer, toggle playback for audio, open when loaded, else save.
func (d *Document) rowLink() text.Link {
	switch {
	case d.transferring():
		return d.cancelLink
	case d.canBePlayed() && d.data.Loaded():
		return text.LinkFunc(func() {
			if d.player != nil {
				d.player.Play(d.data.ID())
			}
		})
	default:
		return d.transferLink()
	}
}

// StartSeeking begins a waveform drag at the fraction recorded by the
// last TextState hit.
func (d *Document) StartSeeking() {
	if d.voice == nil {
		return
	}
	d.voice.seeking = true
	d.voice.seekingCurrent = d.voice.seekingStart
	d.cfg.invalidate()
}

// UpdateSeeking moves the drag to a point in element coordinates.
func (d *Document) UpdateSeeking(pt image.Point) {
	if d.voice == nil || !d.voice.seeking {
		return
	}
	wf := d.waveformRect()
	if wf.Dx() <= 0 {
		return
	}
	progress := float64(pt.X-wf.Min.X) / float64(wf.Dx())
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	d.voice.seekingCurrent = progress
	d.cfg.invalidate()
}

// FinishSeeking ends the drag, committing the new position to the
// player when commit is set.
func (d *Document) FinishSeeking(commit bool) {
	if d.voice == nil || !d.voice.seeking {
		return
	}
	d.voice.seeking = false
	if commit && d.player != nil {
		d.player.Seek(d.data.ID(), d.voice.seekingCurrent)
		d.voice.playback = anim.Rest(d.voice.seekingCurrent)
	}
	d.cfg.invalidate()
}

// Seeking reports an active waveform drag.
func (d *Document) Seeking() bool {
	return d.voice != nil && d.voice.seeking
}

// HasHeavyPart reports whether a thumbnail view is held.
func (d *Document) HasHeavyPart() bool {
	return d.view != nil
}

// UnloadHeavyPart releases the thumbnail view and pixmap.
func (d *Document) UnloadHeavyPart() {
	d.releaseView()
	d.thumbCache = nil
	d.thumbTier = asset.TierNone
	d.checkHeavy()
}

// Destroy releases resources and detaches pending callbacks.
func (d *Document) Destroy() {
	d.releaseView()
	d.thumbCache = nil
}
