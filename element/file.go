package element

import (
	"context"
	"time"

	"git.sr.ht/~gioverse/media/asset"
	"git.sr.ht/~gioverse/media/heavy"
	"git.sr.ht/~gioverse/media/text"
)

// Config wires an element to its collaborators. The zero value of the
// optional fields is usable; Registry and Dispatcher are required for
// anything beyond pure geometry.
type Config struct {
	// Registry tracks the element's heavy part for global unloads.
	Registry *heavy.Registry
	// Dispatcher fetches asset representations in the background.
	Dispatcher *asset.Dispatcher
	// Metrics override the stock geometry when non-zero.
	Metrics Metrics
	// Invalidate requests a repaint. May be nil.
	Invalidate func()
	// AnimationsDisabled finishes all animations instantly.
	AnimationsDisabled bool
	// Now is the clock used by animations. Defaults to time.Now.
	Now func() time.Time

	// OnOpen is activated when the user opens loaded media.
	OnOpen func()
	// OnSave is activated when the user requests a download.
	OnSave func()
	// OnCancel is activated when the user aborts a transfer.
	OnCancel func()
}

func (c *Config) normalize() {
	if c.Metrics.MaxMediaSize == 0 {
		c.Metrics = DefaultMetrics()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

func (c *Config) invalidate() {
	if c.Invalidate != nil {
		c.Invalidate()
	}
}

// baseFile holds the state shared by the photo and document variants:
// the asset view lifecycle, transfer affordance links, and the radial
// progress animation.
type baseFile struct {
	cfg  Config
	data *asset.Asset

	flags PositionFlags

	view         *asset.View
	heavyID      heavy.ID
	listenCancel func()

	maxWidth, minHeight int
	width, height       int

	radial *radial

	openLink   text.Link
	saveLink   text.Link
	cancelLink text.Link

	waitingForAlbum bool
}

func (b *baseFile) initBase(data *asset.Asset, cfg Config) {
	cfg.normalize()
	b.cfg = cfg
	b.data = data
	b.openLink = text.LinkFunc(func() {
		if b.cfg.OnOpen != nil {
			b.cfg.OnOpen()
		}
	})
	b.saveLink = text.LinkFunc(func() {
		if b.cfg.OnSave != nil {
			b.cfg.OnSave()
		}
	})
	b.cancelLink = text.LinkFunc(func() {
		if b.cfg.OnCancel != nil {
			b.cfg.OnCancel()
		}
	})
}

// SetPosition updates the bubble attachment flags. The caller must
// recompute sizes afterwards.
func (b *baseFile) SetPosition(flags PositionFlags) {
	b.flags = flags
}

// SetWaitingForAlbum marks the element as queued behind its album
// group, which forces the waiting glyph over transfer affordances.
func (b *baseFile) SetWaitingForAlbum(waiting bool) {
	b.waitingForAlbum = waiting
}

// ensureViewCreated materializes the shared asset view and registers
// the element as a heavy part. Idempotent.
func (b *baseFile) ensureViewCreated(owner heavy.Part) {
	if b.view != nil {
		return
	}
	b.view = b.data.NewView()
	if b.cfg.Registry != nil && !b.cfg.Registry.Registered(b.heavyID) {
		b.heavyID = b.cfg.Registry.Register(owner)
	}
	if b.cfg.Dispatcher != nil && b.listenCancel == nil {
		b.listenCancel = b.cfg.Dispatcher.Listen(b.data.ID(), func(asset.Tier) {
			b.cfg.invalidate()
		})
	}
}

// want requests a representation tier from the dispatcher.
func (b *baseFile) want(t asset.Tier) {
	if b.cfg.Dispatcher == nil {
		return
	}
	b.cfg.Dispatcher.Want(context.Background(), b.data, t)
}

// releaseView drops the asset view and detaches the tier listener.
func (b *baseFile) releaseView() {
	if b.listenCancel != nil {
		b.listenCancel()
		b.listenCancel = nil
	}
	if b.view != nil {
		b.view.Release()
		b.view = nil
	}
}

// checkHeavy tells the registry to re-evaluate the element after a
// heavy part was dropped locally.
func (b *baseFile) checkHeavy() {
	if b.cfg.Registry != nil && b.heavyID != 0 {
		b.cfg.Registry.Check(b.heavyID)
	}
}

// transferring reports an active download or upload.
func (b *baseFile) transferring() bool {
	return b.data.Loading() || b.data.Uploading()
}

// ensureRadial lazily creates the progress animation.
func (b *baseFile) ensureRadial() *radial {
	if b.radial == nil {
		b.radial = newRadial(b.cfg.invalidate, b.cfg.AnimationsDisabled)
	}
	return b.radial
}

// stepRadial advances the radial toward the current transfer fraction
// and reports whether the arc should be painted this frame.
func (b *baseFile) stepRadial(now time.Time) bool {
	if b.transferring() {
		r := b.ensureRadial()
		if !r.active {
			r.start(b.data.Progress())
		} else {
			r.update(b.data.Progress(), now)
		}
		r.tick(now)
		return true
	}
	if b.radial != nil && b.radial.active {
		b.radial.update(1, now)
		b.radial.tick(now)
		return b.radial.showing()
	}
	return false
}

// transferLink returns the affordance for the current data state:
// cancel while transferring, open when loaded, save otherwise.
func (b *baseFile) transferLink() text.Link {
	switch {
	case b.data.Uploading():
		return b.cancelLink
	case b.data.Loaded():
		return b.openLink
	case b.data.Loading():
		return b.cancelLink
	default:
		return b.saveLink
	}
}
