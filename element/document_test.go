package element

import (
	"image"
	"image/color"
	"testing"
	"time"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/heavy"
	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/text"
)

type fakePlayer struct {
	id    asset.ID
	state PlaybackState

	plays int
	seeks []float64
}

func (f *fakePlayer) State(id asset.ID) (PlaybackState, bool) {
	if id != f.id {
		return PlaybackState{}, false
	}
	return f.state, true
}

func (f *fakePlayer) Play(asset.ID) { f.plays++ }

func (f *fakePlayer) Seek(_ asset.ID, progress float64) {
	f.seeks = append(f.seeks, progress)
}

func TestDocumentStatusLifecycle(t *testing.T) {
	a := asset.New(asset.Info{ID: 20, Size: 2048})
	d := NewDocument(a, DocumentConfig{
		Config:   Config{Now: testClock()},
		Filename: "notes.txt",
	})
	d.CountOptimalSize()
	d.CountCurrentSize(400)
	ctx := &Context{Palette: DefaultPalette()}

	rec := new(render.Recording)
	d.Draw(rec, ctx)
	if d.statusText != "2.0 KB" {
		t.Errorf("ready status = %q", d.statusText)
	}
	if !hasIcon(rec, render.IconDownload) {
		t.Error("ready document missing download icon")
	}

	a.SetLoadProgress(1024)
	rec.Reset()
	d.Draw(rec, ctx)
	if d.statusText != "1.0 / 2.0 KB" {
		t.Errorf("loading status = %q", d.statusText)
	}
	if !hasIcon(rec, render.IconCancel) {
		t.Error("loading document missing cancel icon")
	}
	if rec.Count(render.OpStrokeArc) == 0 {
		t.Error("loading document missing progress arc")
	}

	a.Publish(asset.TierLarge, solid(4, 4, color.NRGBA{A: 255}))
	rec.Reset()
	d.Draw(rec, ctx)
	if d.statusText != "2.0 KB" {
		t.Errorf("loaded status = %q", d.statusText)
	}
	if !hasIcon(rec, render.IconFile) {
		t.Error("loaded document missing file icon")
	}
	texts := rec.Texts()
	if len(texts) != 2 || texts[0] != "notes.txt" {
		t.Errorf("drawn texts = %v, want name then status", texts)
	}
}

func TestDocumentStatusTextCachedBySize(t *testing.T) {
	a := asset.New(asset.Info{ID: 21, Size: 2048})
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}, Filename: "x"})
	d.setStatusSize(100, 0)
	want := d.statusText
	d.statusText = "tampered"
	d.setStatusSize(100, 0)
	if d.statusText != "tampered" {
		t.Error("same status size recomputed the text")
	}
	d.setStatusSize(200, 0)
	if d.statusText == "tampered" || d.statusText == want {
		t.Errorf("status text not rebuilt on change: %q", d.statusText)
	}
}

func TestVoicePlayingStatusAndPauseIcon(t *testing.T) {
	a := asset.New(asset.Info{ID: 22, Size: 4096, Duration: 63, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	player := &fakePlayer{id: 22, state: PlaybackState{
		Position:  12 * time.Second,
		Length:    63 * time.Second,
		Playing:   true,
		ShowPause: true,
	}}
	d := NewDocument(a, DocumentConfig{
		Config: Config{Now: testClock()},
		Player: player,
	})
	d.CountOptimalSize()
	d.CountCurrentSize(400)

	rec := new(render.Recording)
	d.Draw(rec, &Context{Palette: DefaultPalette()})
	if d.statusText != "0:12 / 1:03" {
		t.Errorf("playing status = %q", d.statusText)
	}
	if !hasIcon(rec, render.IconPause) {
		t.Error("playing voice missing pause icon")
	}
	if rec.Count(render.OpFillRect) == 0 {
		t.Error("voice note painted no waveform bars")
	}
}

func TestVoiceIdleShowsDurationAndPlay(t *testing.T) {
	a := asset.New(asset.Info{ID: 23, Size: 4096, Duration: 63, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	player := &fakePlayer{id: 99}
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}, Player: player})
	d.CountOptimalSize()
	d.CountCurrentSize(400)

	rec := new(render.Recording)
	d.Draw(rec, &Context{Palette: DefaultPalette()})
	if d.statusText != "1:03" {
		t.Errorf("idle loaded status = %q", d.statusText)
	}
	if !hasIcon(rec, render.IconPlay) {
		t.Error("loaded voice missing play icon")
	}

	st := d.TextState(image.Pt(20, 20))
	if st.Link == nil {
		t.Fatal("no link over voice row")
	}
	st.Link.Activate()
	if player.plays != 1 {
		t.Errorf("row press started playback %d times, want 1", player.plays)
	}
}

func TestWaveformPressStartsSeeking(t *testing.T) {
	a := asset.New(asset.Info{ID: 30, Size: 4096, Duration: 60, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	player := &fakePlayer{id: 30, state: PlaybackState{
		Position: 15 * time.Second,
		Length:   60 * time.Second,
		Playing:  true,
	}}
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}, Player: player})
	d.CountOptimalSize()
	d.CountCurrentSize(400)
	wf := d.waveformRect()

	st := d.TextState(image.Pt(wf.Min.X+wf.Dx()/4, wf.Min.Y+2))
	if st.Link == nil {
		t.Fatal("active waveform returned no link")
	}
	st.Link.Activate()
	if !d.Seeking() {
		t.Fatal("activating the waveform link did not start seeking")
	}
	if got := d.voice.seekingCurrent; got < 0.2 || got > 0.3 {
		t.Errorf("seek started at %v, want about 0.25", got)
	}
	d.FinishSeeking(true)
	if len(player.seeks) != 1 {
		t.Errorf("player seeks = %v, want one commit", player.seeks)
	}
}

func TestVoiceSeekOverridesPlaybackProgress(t *testing.T) {
	a := asset.New(asset.Info{ID: 24, Size: 4096, Duration: 63, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	player := &fakePlayer{id: 24, state: PlaybackState{
		Position: 10 * time.Second,
		Length:   60 * time.Second,
		Playing:  true,
	}}
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}, Player: player})
	d.CountOptimalSize()
	d.CountCurrentSize(400)
	wf := d.waveformRect()

	st := d.TextState(image.Pt(wf.Min.X+wf.Dx()/4, wf.Min.Y+2))
	if st.Link == nil {
		t.Fatal("active waveform returned no seek link")
	}
	d.StartSeeking()
	if !d.Seeking() {
		t.Fatal("seek did not start")
	}
	if got := d.voice.seekingCurrent; got < 0.2 || got > 0.3 {
		t.Errorf("seek start fraction = %v, want about 0.25", got)
	}

	d.UpdateSeeking(image.Pt(wf.Min.X+wf.Dx()/2, wf.Min.Y+2))
	if got := d.voice.seekingCurrent; got != 0.5 {
		t.Errorf("seek fraction after drag = %v, want 0.5", got)
	}

	d.FinishSeeking(true)
	if d.Seeking() {
		t.Error("seek still active after finish")
	}
	if len(player.seeks) != 1 || player.seeks[0] != 0.5 {
		t.Errorf("player seeks = %v, want [0.5]", player.seeks)
	}
}

func TestVoiceSeekAbandonedKeepsPosition(t *testing.T) {
	a := asset.New(asset.Info{ID: 25, Size: 4096, Duration: 60, Flags: asset.FlagVoice})
	player := &fakePlayer{id: 25, state: PlaybackState{
		Position: 30 * time.Second,
		Length:   60 * time.Second,
		Playing:  true,
	}}
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}, Player: player})
	d.CountOptimalSize()
	d.CountCurrentSize(400)
	wf := d.waveformRect()

	d.TextState(image.Pt(wf.Min.X+1, wf.Min.Y+2))
	d.StartSeeking()
	d.FinishSeeking(false)
	if len(player.seeks) != 0 {
		t.Errorf("abandoned seek reached the player: %v", player.seeks)
	}
}

func TestVoiceUnreadDot(t *testing.T) {
	a := asset.New(asset.Info{ID: 26, Size: 4096, Duration: 5, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	d := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}})
	d.CountOptimalSize()
	d.CountCurrentSize(400)
	ctx := &Context{Palette: DefaultPalette()}

	rec := new(render.Recording)
	d.Draw(rec, ctx)
	base := rec.Count(render.OpFillEllipse)

	d.SetUnread(true)
	rec.Reset()
	d.Draw(rec, ctx)
	if got := rec.Count(render.OpFillEllipse); got != base+1 {
		t.Errorf("unread draw has %d ellipses, want %d", got, base+1)
	}
}

func TestThumbedDocumentCornerAffordance(t *testing.T) {
	a := asset.New(asset.Info{ID: 27, Size: 1 << 20, Dims: image.Pt(300, 300)})
	a.SetInline(solid(8, 8, color.NRGBA{R: 40, A: 255}))
	d := NewDocument(a, DocumentConfig{
		Config:    Config{Now: testClock()},
		Filename:  "scan.pdf",
		Thumbnail: true,
	})
	d.CountOptimalSize()
	d.CountCurrentSize(400)

	rec := new(render.Recording)
	d.Draw(rec, &Context{Palette: DefaultPalette()})
	if rec.Count(render.OpDrawImage) != 1 {
		t.Fatal("thumbnail not painted")
	}
	if !hasIcon(rec, render.IconDownload) {
		t.Fatal("corner affordance missing for unloaded thumbed document")
	}
	thumb := d.iconRect()
	for _, op := range rec.Ops {
		if op.Kind != render.OpFillEllipse {
			continue
		}
		if op.Rect.Max != thumb.Max {
			t.Errorf("corner circle at %v, want anchored to thumb corner %v", op.Rect, thumb.Max)
		}
	}
	if !d.HasHeavyPart() {
		t.Error("thumbed draw did not materialize the view")
	}

	d.UnloadHeavyPart()
	if d.HasHeavyPart() || d.thumbCache != nil {
		t.Error("unload kept thumbnail resources")
	}
}

func TestThumbedDocumentHostUnloadDeregisters(t *testing.T) {
	reg := heavy.NewRegistry()
	a := asset.New(asset.Info{ID: 29, Size: 1 << 20, Dims: image.Pt(300, 300)})
	a.SetInline(solid(8, 8, color.NRGBA{A: 255}))
	d := NewDocument(a, DocumentConfig{
		Config:    Config{Registry: reg, Now: testClock()},
		Filename:  "scan.pdf",
		Thumbnail: true,
	})
	d.CountOptimalSize()
	d.CountCurrentSize(400)

	rec := new(render.Recording)
	d.Draw(rec, &Context{Palette: DefaultPalette()})
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d parts after draw, want 1", reg.Len())
	}

	d.UnloadHeavyPart()
	if d.HasHeavyPart() {
		t.Fatal("unload kept the thumbnail view")
	}
	if reg.Len() != 0 {
		t.Fatalf("registry holds %d parts for a non-heavy element, want 0", reg.Len())
	}
}

func TestVoiceTranscriptionBlock(t *testing.T) {
	activated := false
	transcript := text.NewFixed(
		text.Span{Content: "see you at the "},
		text.Span{Content: "meeting", Link: text.LinkFunc(func() { activated = true })},
	)
	a := asset.New(asset.Info{ID: 31, Size: 4096, Duration: 30, Flags: asset.FlagVoice})
	a.Publish(asset.TierLarge, solid(1, 1, color.NRGBA{A: 255}))
	bare := NewDocument(a, DocumentConfig{Config: Config{Now: testClock()}})
	bare.CountOptimalSize()
	plain := bare.CountCurrentSize(400)

	d := NewDocument(a, DocumentConfig{
		Config:        Config{Now: testClock()},
		Transcription: transcript,
	})
	d.CountOptimalSize()
	size := d.CountCurrentSize(400)
	m := DefaultMetrics()

	if size.Y <= plain.Y {
		t.Fatal("transcription reserved no height")
	}
	if want := d.rowHeight() + m.CaptionSkip + transcript.CountHeight(400-m.PaddingLeft-m.PaddingRight); size.Y != want {
		t.Errorf("height with transcription = %d, want %d", size.Y, want)
	}

	rec := new(render.Recording)
	d.Draw(rec, &Context{Palette: DefaultPalette()})
	found := false
	for _, s := range rec.Texts() {
		if s == "see you at the meeting" {
			found = true
		}
	}
	if !found {
		t.Error("transcription text not painted")
	}

	st := d.TextState(image.Pt(m.PaddingLeft+transcript.GlyphWidth*17+3, d.rowHeight()+m.CaptionSkip+3))
	if st.Link == nil {
		t.Fatal("transcription link not hit")
	}
	st.Link.Activate()
	if !activated {
		t.Error("transcription link did not activate")
	}
}

func TestDocumentCaptionHitTest(t *testing.T) {
	activated := false
	caption := text.NewFixed(text.Span{Content: "receipt", Link: text.LinkFunc(func() { activated = true })})
	a := asset.New(asset.Info{ID: 28, Size: 2048})
	d := NewDocument(a, DocumentConfig{
		Config:   Config{Now: testClock()},
		Filename: "bill.pdf",
		Caption:  caption,
	})
	d.CountOptimalSize()
	size := d.CountCurrentSize(400)
	m := DefaultMetrics()

	if size.Y <= d.rowHeight() {
		t.Fatal("caption reserved no height")
	}
	st := d.TextState(image.Pt(m.PaddingLeft+3, d.rowHeight()+m.CaptionSkip+3))
	if st.Link == nil {
		t.Fatal("caption link not hit")
	}
	st.Link.Activate()
	if !activated {
		t.Error("caption link did not activate")
	}
}
