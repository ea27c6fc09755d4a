// Command gallery demonstrates the media elements and the set footer
// against a synthetic asset backend: photos, a video poster, documents,
// a voice note and a song, all fetched with artificial latency so the
// tier upgrade and transfer affordances are visible.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	lorem "github.com/drhodes/golorem"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/debug"
	"git.sr.ht/~gioverse/media/element"
	"git.sr.ht/~gioverse/media/footer"
	"git.sr.ht/~gioverse/media/heavy"
	"git.sr.ht/~gioverse/media/profile"
	"git.sr.ht/~gioverse/media/render"
	"git.sr.ht/~gioverse/media/text"
)

func main() {
	profOpt := flag.String("profile", "none",
		"profile the application, one of [none, cpu, mem, block, goroutine, mutex, trace, gio]")
	tracePaint := flag.Bool("trace-paint", false, "log every paint operation")
	flag.Parse()

	var (
		w = app.NewWindow(
			app.Title("Media Gallery"),
			app.Size(unit.Dp(480), unit.Dp(800)),
		)
		ops op.Ops
		ui  = newUI(w.Invalidate)
	)
	ui.tracePaint = *tracePaint

	profiler := profile.Opt(*profOpt).NewProfiler()
	profiler.Start()

	go func() {
		for event := range w.Events() {
			switch event := event.(type) {
			case system.DestroyEvent:
				profiler.Stop()
				if err := event.Err; err != nil {
					fmt.Printf("error: premature window close: %v\n", err)
					os.Exit(1)
				}
				os.Exit(0)
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, event)
				ui.Layout(gtx)
				profiler.Record(gtx)
				event.Frame(&ops)
			}
		}
	}()
	app.Main()
}

// contentMargin frames the element column.
const contentMargin = 16

// footerHeight is the set footer strip height.
const footerHeight = 48

// UI is the gallery state: the asset pipeline, one element per media
// kind, and the footer.
type UI struct {
	log        zerolog.Logger
	th         *material.Theme
	icons      render.IconSet
	table      *asset.Table
	dispatcher *asset.Dispatcher
	registry   *heavy.Registry
	player     *demoPlayer
	invalidate func()

	rows    []element.Media
	heights []int
	footer  *footer.Controller

	// seeking is the voice row currently dragged along its waveform,
	// with the element origin of the last frame.
	seeking    *element.Document
	seekOrigin image.Point

	metrics    element.Metrics
	palette    element.Palette
	footerPal  footer.Palette
	tracePaint bool
	scrollY    int
	maxScroll  int
}

func newUI(invalidate func()) *UI {
	ui := &UI{
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger(),
		th:         material.NewTheme(gofont.Collection()),
		icons:      render.MaterialIcons(),
		table:      asset.NewTable(),
		registry:   heavy.NewRegistry(),
		player:     &demoPlayer{},
		invalidate: invalidate,
		metrics:    element.DefaultMetrics(),
		palette:    element.DefaultPalette(),
		footerPal:  footer.DefaultPalette(),
	}
	ui.registry.Log = ui.log
	ui.dispatcher = &asset.Dispatcher{
		Fetcher:     asset.FetcherFunc(fetchGradient),
		Invalidator: invalidate,
		Log:         ui.log,
	}
	ui.buildRows()
	ui.buildFooter()
	return ui
}

func (ui *UI) config(onSave, onCancel func()) element.Config {
	return element.Config{
		Registry:   ui.registry,
		Dispatcher: ui.dispatcher,
		Metrics:    ui.metrics,
		Invalidate: ui.invalidate,
		OnOpen:     func() { ui.log.Info().Msg("open requested") },
		OnSave:     onSave,
		OnCancel:   onCancel,
	}
}

func (ui *UI) buildRows() {
	caption := func(sentences int) *text.Fixed {
		link := text.LinkFunc(func() { ui.log.Info().Msg("caption link activated") })
		return text.NewFixed(
			text.Span{Content: lorem.Sentence(4, 4*sentences)},
			text.Span{Content: " " + lorem.Word(4, 9), Link: link},
		)
	}
	// Every row renders as its own single-element bubble.
	bubble := element.PositionFlags{InBubble: true, BubbleTop: true, BubbleBottom: true}
	addPhoto := func(info asset.Info, cfg element.PhotoConfig) {
		a := ui.table.Upsert(info)
		base := ui.config(
			func() { ui.dispatcher.Want(context.Background(), a, asset.TierLarge) },
			func() { ui.log.Info().Int64("asset", int64(info.ID)).Msg("transfer cancelled") },
		)
		cfg.Config = base
		p := element.NewPhoto(a, cfg)
		p.SetPosition(bubble)
		ui.rows = append(ui.rows, p)
	}
	addDocument := func(info asset.Info, cfg element.DocumentConfig) *element.Document {
		a := ui.table.Upsert(info)
		base := ui.config(
			func() { ui.dispatcher.Want(context.Background(), a, asset.TierLarge) },
			func() { ui.log.Info().Int64("asset", int64(info.ID)).Msg("transfer cancelled") },
		)
		cfg.Config = base
		d := element.NewDocument(a, cfg)
		d.SetPosition(bubble)
		ui.rows = append(ui.rows, d)
		return d
	}

	addPhoto(
		asset.Info{ID: 1, Size: 2 << 20, Dims: image.Pt(1280, 960)},
		element.PhotoConfig{Caption: caption(2)},
	)
	addPhoto(
		asset.Info{ID: 2, Size: 14 << 20, Dims: image.Pt(1920, 1080),
			Flags: asset.FlagVideo, Duration: 42},
		element.PhotoConfig{},
	)
	addDocument(
		asset.Info{ID: 3, Size: 680 << 10, Dims: image.Pt(800, 1130)},
		element.DocumentConfig{
			Filename:  "quarterly-report.pdf",
			Thumbnail: true,
			Caption:   caption(1),
		},
	)
	voice := addDocument(
		asset.Info{ID: 4, Size: 96 << 10, Flags: asset.FlagVoice, Duration: 63},
		element.DocumentConfig{
			Player:        ui.player,
			Waveform:      demoWaveform(63),
			Transcription: text.NewFixed(text.Span{Content: lorem.Sentence(10, 16)}),
		},
	)
	voice.SetUnread(true)
	// Sniff the song flags the way an upload path would.
	songFlags := asset.DetectFlags([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), "track.mp3")
	addDocument(
		asset.Info{ID: 5, Size: 6 << 20, Flags: songFlags, Duration: 214},
		element.DocumentConfig{
			Player:   ui.player,
			Filename: "midnight-drive.mp3",
		},
	)
}

func (ui *UI) buildFooter() {
	ui.footer = footer.NewController(footer.Config{
		Height:          footerHeight,
		SearchVisible:   true,
		SettingsVisible: true,
		Invalidate:      ui.invalidate,
		Registry:        ui.registry,
		Log:             ui.log,
	})
	ui.footer.SetChosen().Subscribe(func(v interface{}) {
		ui.log.Info().Uint64("set", uint64(v.(footer.SetID))).Msg("set chosen")
	})
	ui.footer.OpenSettingsRequests().Subscribe(func(v interface{}) {
		ui.log.Info().Msg("settings requested")
	})
	ui.footer.SearchRequests().Subscribe(func(v interface{}) {
		req := v.(footer.SearchRequest)
		ui.log.Info().Str("text", req.Text).Bool("forced", req.Forced).Msg("search")
	})
	icons := []footer.Icon{
		{SetID: footer.FavedSetID, Glyph: render.IconFile},
		{SetID: footer.AllEmojiSetID(), Glyph: render.IconEmoji},
		{SetID: 1001, Glyph: render.IconPlay},
		{SetID: 1002, Glyph: render.IconDownload},
		{SetID: 1003, Glyph: render.IconWaiting},
		{SetID: 1004, Glyph: render.IconPause},
	}
	ui.footer.RefreshIcons(icons, footer.FavedSetID, nil, false)
}

// Layout draws one frame and routes queued input.
func (ui *UI) Layout(gtx layout.Context) layout.Dimensions {
	ui.dispatcher.Drain()
	now := time.Now()
	size := gtx.Constraints.Max
	footerTop := size.Y - footerHeight

	paint.FillShape(gtx.Ops, color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf8, A: 0xff},
		clip.Rect(image.Rectangle{Max: size}).Op())

	var s render.Surface = render.NewGio(gtx, ui.th, ui.icons)
	if ui.tracePaint {
		s = &debug.Surface{Next: s, Log: ui.log.Level(zerolog.TraceLevel)}
	}
	ctx := element.Context{Palette: ui.palette}
	contentWidth := size.X - 2*contentMargin

	y := contentMargin - ui.scrollY
	ui.heights = ui.heights[:0]
	for _, m := range ui.rows {
		h := m.CountCurrentSize(contentWidth).Y
		ui.heights = append(ui.heights, h)
		if y+h > 0 && y < footerTop {
			trans := op.Offset(image.Pt(contentMargin, y)).Push(gtx.Ops)
			m.Draw(s, ctx)
			trans.Pop()
		}
		y += h + contentMargin
	}
	ui.maxScroll = maxInt(y+ui.scrollY-footerTop, 0)

	trans := op.Offset(image.Pt(0, footerTop)).Push(gtx.Ops)
	ui.footer.SetWidth(size.X)
	if ui.footer.Tick(now) {
		op.InvalidateOp{}.Add(gtx.Ops)
	}
	ui.footer.Paint(s, ui.footerPal, false)
	trans.Pop()

	ui.handleInput(gtx, footerTop)
	return layout.Dimensions{Size: size}
}

func (ui *UI) handleInput(gtx layout.Context, footerTop int) {
	for _, ev := range gtx.Events(ui) {
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pt := image.Pt(int(e.Position.X), int(e.Position.Y))
		if pt.Y >= footerTop {
			fp := pt.Sub(image.Pt(0, footerTop))
			switch e.Type {
			case pointer.Press:
				ui.footer.Press(fp)
			case pointer.Drag:
				ui.footer.Move(fp)
			case pointer.Release, pointer.Cancel:
				ui.footer.Release(fp)
			case pointer.Scroll:
				ui.footer.Move(fp)
				ui.footer.Wheel(int(e.Scroll.X), int(e.Scroll.Y))
			}
			continue
		}
		switch e.Type {
		case pointer.Press:
			ui.tap(pt)
		case pointer.Drag:
			if ui.seeking != nil {
				ui.seeking.UpdateSeeking(pt.Sub(ui.seekOrigin))
			}
		case pointer.Release:
			if ui.seeking != nil {
				ui.seeking.FinishSeeking(true)
				ui.seeking = nil
			}
		case pointer.Cancel:
			if ui.seeking != nil {
				ui.seeking.FinishSeeking(false)
				ui.seeking = nil
			}
		case pointer.Scroll:
			next := clampInt(ui.scrollY+int(e.Scroll.Y), 0, ui.maxScroll)
			if next != ui.scrollY {
				ui.scrollY = next
				ui.invalidate()
			}
		}
	}
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	pointer.InputOp{
		Tag:          ui,
		Types:        pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
		ScrollBounds: image.Rect(-1000, -1000, 1000, 1000),
	}.Add(gtx.Ops)
}

// tap routes a press to the element under it, mirroring the layout
// walk of the last frame.
func (ui *UI) tap(pt image.Point) {
	y := contentMargin - ui.scrollY
	for i, m := range ui.rows {
		if i >= len(ui.heights) {
			return
		}
		h := ui.heights[i]
		if pt.Y >= y && pt.Y < y+h {
			origin := image.Pt(contentMargin, y)
			state := m.TextState(pt.Sub(origin))
			if state.Link != nil {
				state.Link.Activate()
			}
			if d, ok := m.(*element.Document); ok && d.Seeking() {
				ui.seeking = d
				ui.seekOrigin = origin
			}
			return
		}
		y += h + contentMargin
	}
}

// fetchGradient is the synthetic backend: it sleeps to imitate network
// latency and decodes a deterministic gradient for the asset.
func fetchGradient(ctx context.Context, id asset.ID, t asset.Tier) (image.Image, error) {
	latency := time.Duration(300+rand.Intn(900)) * time.Millisecond
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(latency):
	}
	side := 64
	switch t {
	case asset.TierSmall:
		side = 128
	case asset.TierThumbnail:
		side = 256
	case asset.TierLarge:
		side = 512
	}
	return gradient(id, t, side), nil
}

func gradient(id asset.ID, t asset.Tier, side int) image.Image {
	from := colorful.Hsv(float64(int(id)*67%360), 0.55, 0.95)
	to := colorful.Hsv(float64((int(id)*67+int(t)*40)%360), 0.75, 0.55)
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		c := from.BlendLuv(to, float64(y)/float64(side-1))
		r, g, b := c.Clamped().RGB255()
		for x := 0; x < side; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img
}

// demoWaveform synthesizes stored voice waveform samples.
func demoWaveform(n int) []int {
	rng := rand.New(rand.NewSource(42))
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(32)
	}
	return out
}

// demoPlayer is a wall-clock playback backend for the voice and song
// rows. Playing one asset stops the other.
type demoPlayer struct {
	id      asset.ID
	active  bool
	startAt time.Time
	base    time.Duration
}

func (p *demoPlayer) length(id asset.ID) time.Duration {
	switch id {
	case 4:
		return 63 * time.Second
	case 5:
		return 214 * time.Second
	}
	return time.Second
}

func (p *demoPlayer) position(id asset.ID) time.Duration {
	pos := p.base + time.Since(p.startAt)
	if length := p.length(id); pos > length {
		pos = length
	}
	return pos
}

// State implements element.Player.
func (p *demoPlayer) State(id asset.ID) (element.PlaybackState, bool) {
	if !p.active || id != p.id {
		return element.PlaybackState{}, false
	}
	return element.PlaybackState{
		Position:  p.position(id),
		Length:    p.length(id),
		Playing:   true,
		ShowPause: true,
	}, true
}

// Play implements element.Player.
func (p *demoPlayer) Play(id asset.ID) {
	if p.active && p.id == id {
		p.base = p.position(id)
		p.active = false
		return
	}
	p.id = id
	p.active = true
	p.base = 0
	p.startAt = time.Now()
}

// Seek implements element.Player.
func (p *demoPlayer) Seek(id asset.ID, progress float64) {
	if p.id != id {
		return
	}
	p.base = time.Duration(progress * float64(p.length(id)))
	p.startAt = time.Now()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
