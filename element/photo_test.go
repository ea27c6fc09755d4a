package element

import (
	"image"
	"image/color"
	"testing"
	"time"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/heavy"
	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/stream"
	"git.sr.ht/~gioverse/media/text"
)

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testClock() func() time.Time {
	now := time.Unix(100, 0)
	return func() time.Time { return now }
}

func hasIcon(rec *render.Recording, ic render.Icon) bool {
	for _, got := range rec.Icons() {
		if got == ic {
			return true
		}
	}
	return false
}

func TestPhotoInlineOnlyRendersBlurredWithoutPlayAffordance(t *testing.T) {
	a := asset.New(asset.Info{ID: 1, Size: 1 << 20, Dims: image.Pt(800, 600)})
	a.SetInline(solid(32, 24, color.NRGBA{R: 200, A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}})
	p.CountOptimalSize()
	p.CountCurrentSize(400)

	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette()})

	if !p.cacheKey.Blur {
		t.Error("inline-only photo painted without blur")
	}
	if hasIcon(rec, render.IconPlay) {
		t.Error("play affordance drawn for an unplayable asset")
	}
	if !hasIcon(rec, render.IconDownload) {
		t.Error("missing download affordance for unloaded photo")
	}
}

func TestPhotoCacheStableAcrossRepaints(t *testing.T) {
	a := asset.New(asset.Info{ID: 2, Dims: image.Pt(400, 300)})
	a.SetInline(solid(16, 12, color.NRGBA{G: 128, A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	ctx := &Context{Palette: DefaultPalette()}
	p.Draw(rec, ctx)
	p.Draw(rec, ctx)
	p.Draw(rec, ctx)
	if p.prepares != 1 {
		t.Fatalf("stable repaints rebuilt the cache %d times, want 1", p.prepares)
	}

	a.Publish(asset.TierLarge, solid(400, 300, color.NRGBA{B: 255, A: 255}))
	p.Draw(rec, ctx)
	if p.prepares != 2 {
		t.Fatalf("tier upgrade rebuilt the cache %d times total, want 2", p.prepares)
	}
	if p.cacheKey.Blur {
		t.Error("full-quality tier still painted blurred")
	}
}

func TestPhotoCaptionGeometryMatchesDrawAndHitTest(t *testing.T) {
	activated := false
	caption := text.NewFixed(
		text.Span{Content: "see "},
		text.Span{Content: "link", Link: text.LinkFunc(func() { activated = true })},
	)
	a := asset.New(asset.Info{ID: 3, Dims: image.Pt(400, 300)})
	p := NewPhoto(a, PhotoConfig{
		Config:  Config{Now: testClock()},
		Caption: caption,
	})
	p.SetPosition(PositionFlags{InBubble: true, BubbleTop: true, BubbleBottom: true})
	p.CountOptimalSize()
	size := p.CountCurrentSize(300)
	m := DefaultMetrics()

	if size.Y <= p.mediaHeight {
		t.Fatal("caption reserved no height")
	}
	// A point on the first caption line, over the link text. The
	// fixed source advances 8px per rune and "see " is four runes.
	pt := image.Pt(m.PaddingLeft+4*8+3, p.mediaHeight+m.CaptionSkip+3)
	st := p.TextState(pt)
	if st.Link == nil {
		t.Fatal("caption link not hit")
	}
	st.Link.Activate()
	if !activated {
		t.Error("caption link did not activate")
	}

	saved := false
	p.cfg.OnSave = func() { saved = true }
	st = p.TextState(image.Pt(size.X/2, p.mediaHeight/2))
	if st.Link == nil {
		t.Fatal("media area returned no affordance")
	}
	st.Link.Activate()
	if !saved {
		t.Error("unloaded photo press did not request a download")
	}
}

func TestPhotoUploadProgress(t *testing.T) {
	a := asset.New(asset.Info{ID: 4, Size: 100, Dims: image.Pt(400, 300)})
	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{R: 10, A: 255}))
	a.SetUploading(50)
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if !hasIcon(rec, render.IconCancel) {
		t.Error("uploading photo missing cancel affordance")
	}
	if rec.Count(render.OpStrokeArc) == 0 {
		t.Error("uploading photo missing progress arc")
	}

	cancelled := false
	p.cfg.OnCancel = func() { cancelled = true }
	st := p.TextState(image.Pt(p.width/2, p.mediaHeight/2))
	if st.Link == nil {
		t.Fatal("no link over uploading photo")
	}
	st.Link.Activate()
	if !cancelled {
		t.Error("press during upload did not cancel")
	}
}

func TestPhotoHeavyPartLifecycle(t *testing.T) {
	reg := heavy.NewRegistry()
	a := asset.New(asset.Info{ID: 5, Dims: image.Pt(400, 300)})
	a.SetInline(solid(8, 6, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Registry: reg, Now: testClock()}})
	p.CountCurrentSize(300)

	if p.HasHeavyPart() {
		t.Fatal("heavy part exists before first draw")
	}
	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if !p.HasHeavyPart() {
		t.Fatal("draw did not materialize the heavy part")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d parts, want 1", reg.Len())
	}

	reg.UnloadAll()
	if p.HasHeavyPart() {
		t.Error("unload sweep left the heavy part")
	}

	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if !p.HasHeavyPart() {
		t.Error("draw after unload did not rebuild the heavy part")
	}
}

func TestPhotoHostUnloadDeregisters(t *testing.T) {
	reg := heavy.NewRegistry()
	a := asset.New(asset.Info{ID: 15, Dims: image.Pt(400, 300)})
	a.SetInline(solid(8, 6, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Registry: reg, Now: testClock()}})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d parts after draw, want 1", reg.Len())
	}

	// A scroll-out unload must check the element out of the registry,
	// not just drop the view.
	p.UnloadHeavyPart()
	if p.HasHeavyPart() {
		t.Fatal("unload kept a heavy part")
	}
	if reg.Len() != 0 {
		t.Fatalf("registry holds %d parts for a non-heavy element, want 0", reg.Len())
	}

	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if reg.Len() != 1 {
		t.Errorf("redraw did not re-register, registry holds %d parts", reg.Len())
	}
}

type fakeHandle struct {
	ready      bool
	locked     bool
	frame      image.Image
	frameCalls int
	shown      int
	closed     bool
}

func (h *fakeHandle) Ready() bool       { return h.ready }
func (h *fakeHandle) Info() stream.Info { return stream.Info{} }
func (h *fakeHandle) Frame(stream.Request) image.Image {
	h.frameCalls++
	return h.frame
}
func (h *fakeHandle) MarkFrameShown() { h.shown++ }
func (h *fakeHandle) Locked() bool    { return h.locked }
func (h *fakeHandle) Close()          { h.closed = true }

type fakeOpener struct {
	opens  int
	err    error
	handle *fakeHandle
}

func (f *fakeOpener) Open(asset.ID, func(stream.Update)) (stream.Handle, error) {
	f.opens++
	if f.err != nil {
		return nil, f.err
	}
	return f.handle, nil
}

func TestPhotoAutoplayGatedOnLoadedPlayableVideo(t *testing.T) {
	opener := &fakeOpener{handle: &fakeHandle{
		ready: true,
		frame: solid(40, 30, color.NRGBA{R: 1, A: 255}),
	}}
	a := asset.New(asset.Info{ID: 6, Dims: image.Pt(400, 300), Flags: asset.FlagVideo})
	a.SetInline(solid(8, 6, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{
		Config:   Config{Now: testClock()},
		Opener:   opener,
		Autoplay: true,
	})
	p.CountCurrentSize(300)
	rec := new(render.Recording)
	ctx := &Context{Palette: DefaultPalette()}

	p.Draw(rec, ctx)
	if opener.opens != 0 {
		t.Fatal("autoplay started before the asset was loaded")
	}
	if !hasIcon(rec, render.IconDownload) {
		t.Error("unloaded video missing download affordance")
	}

	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{A: 255}))
	rec.Reset()
	p.Draw(rec, ctx)
	p.Draw(rec, ctx)
	if opener.opens != 1 {
		t.Fatalf("opener called %d times, want 1", opener.opens)
	}
	if shown := opener.handle.shown; shown != 2 {
		t.Errorf("frames marked shown %d times, want 2", shown)
	}
	if hasIcon(rec, render.IconPlay) {
		t.Error("play affordance drawn during inline playback")
	}
}

func TestPhotoPausedContextHoldsFramePacing(t *testing.T) {
	opener := &fakeOpener{handle: &fakeHandle{
		ready: true,
		frame: solid(40, 30, color.NRGBA{A: 255}),
	}}
	a := asset.New(asset.Info{ID: 7, Dims: image.Pt(400, 300), Flags: asset.FlagVideo})
	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}, Opener: opener, Autoplay: true})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette(), Paused: true})
	if opener.handle.shown != 0 {
		t.Error("paused draw advanced frame pacing")
	}
}

func TestPhotoFreezesFrameWhileLocked(t *testing.T) {
	handle := &fakeHandle{
		ready:  true,
		locked: true,
		frame:  solid(40, 30, color.NRGBA{A: 255}),
	}
	opener := &fakeOpener{handle: handle}
	a := asset.New(asset.Info{ID: 8, Dims: image.Pt(400, 300), Flags: asset.FlagVideo})
	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}, Opener: opener, Autoplay: true})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	ctx := &Context{Palette: DefaultPalette()}
	p.Draw(rec, ctx)
	p.Draw(rec, ctx)
	p.Draw(rec, ctx)
	if handle.frameCalls != 1 {
		t.Errorf("locked playback requested %d frames, want 1 frozen", handle.frameCalls)
	}
	if handle.shown != 0 {
		t.Error("frozen frames advanced pacing")
	}
}

func TestPhotoOpenFailureMarksPlaybackFailed(t *testing.T) {
	opener := &fakeOpener{err: stream.ErrOpenFailed}
	a := asset.New(asset.Info{ID: 9, Dims: image.Pt(400, 300), Flags: asset.FlagVideo})
	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}, Opener: opener, Autoplay: true})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	ctx := &Context{Palette: DefaultPalette()}
	p.Draw(rec, ctx)
	if !a.PlaybackFailed() {
		t.Fatal("open failure did not mark playback failed")
	}
	p.Draw(rec, ctx)
	if opener.opens != 1 {
		t.Errorf("unplayable stream reopened: %d opens", opener.opens)
	}
}

func TestPhotoStreamErrorStopsSession(t *testing.T) {
	handle := &fakeHandle{ready: true}
	opener := &fakeOpener{handle: handle}
	a := asset.New(asset.Info{ID: 10, Dims: image.Pt(400, 300), Flags: asset.FlagVideo})
	a.Publish(asset.TierLarge, solid(40, 30, color.NRGBA{A: 255}))
	p := NewPhoto(a, PhotoConfig{Config: Config{Now: testClock()}, Opener: opener, Autoplay: true})
	p.CountCurrentSize(300)

	rec := new(render.Recording)
	p.Draw(rec, &Context{Palette: DefaultPalette()})
	if p.streamed == nil {
		t.Fatal("no streaming session after draw")
	}
	p.handleStreamingUpdate(stream.Error{Err: stream.ErrOpenFailed})
	if p.streamed != nil {
		t.Error("error update left the session open")
	}
	if !handle.closed {
		t.Error("error update did not close the handle")
	}
	if !a.PlaybackFailed() {
		t.Error("error update did not mark playback failed")
	}
}
