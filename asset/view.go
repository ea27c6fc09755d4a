package asset

import "image"

// View is a lightweight shared accessor bound to exactly one Asset.
//
// Each visible element creates its own view, but all views read the
// same decoded tier cache, so availability is identical across views at
// any instant. Views are heavy parts: the asset keeps its decoded
// images only while at least one view is alive.
type View struct {
	asset    *Asset
	released bool
}

// NewView returns a live accessor for the asset.
func (a *Asset) NewView() *View {
	a.refs++
	return &View{asset: a}
}

// Asset returns the underlying asset.
func (v *View) Asset() *Asset { return v.asset }

// Image returns the representation at exactly tier t, or nil.
func (v *View) Image(t Tier) image.Image { return v.asset.Image(t) }

// Best resolves the best available photo representation.
func (v *View) Best() (Tier, image.Image, bool) { return v.asset.BestImage() }

// Release drops the accessor. Releasing the final view tears down the
// asset's decoded images so memory stays bounded when nothing is on
// screen. Release is idempotent.
func (v *View) Release() {
	if v.released {
		return
	}
	v.released = true
	v.asset.refs--
	if v.asset.refs <= 0 {
		v.asset.refs = 0
		v.asset.releaseImages()
	}
}

// Table is the session-wide set of live assets, keyed by identity.
// Messages resolve their media through the table so that every element
// showing the same asset shares one entry.
type Table struct {
	assets map[ID]*Asset
}

// NewTable returns an empty asset table.
func NewTable() *Table {
	return &Table{assets: make(map[ID]*Asset)}
}

// Upsert returns the asset for info.ID, creating it on first reference.
// Descriptor fields of an existing asset are not rewritten.
func (t *Table) Upsert(info Info) *Asset {
	if a, ok := t.assets[info.ID]; ok {
		return a
	}
	a := New(info)
	t.assets[info.ID] = a
	return a
}

// Get returns the asset for id, if present.
func (t *Table) Get(id ID) (*Asset, bool) {
	a, ok := t.assets[id]
	return a, ok
}

// Forget removes an asset that no message references anymore. Decoded
// images are dropped regardless of outstanding views.
func (t *Table) Forget(id ID) {
	if a, ok := t.assets[id]; ok {
		a.releaseImages()
		delete(t.assets, id)
	}
}

// Len reports how many assets the table holds.
func (t *Table) Len() int { return len(t.assets) }
