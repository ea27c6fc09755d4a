/*
Package asset models remote media descriptors and their progressively
arriving local representations.

An Asset owns cached decoded images at ascending quality tiers plus the
transfer counters a renderer needs to pick an affordance. Views are
cheap shared accessors over one asset so that several visual instances
of the same media never duplicate decode work. A Dispatcher performs
idempotent background fetches and crosses the results back onto the UI
goroutine as serialized callbacks.
*/
package asset

import "image"

// ID is the stable identity of a remote media object.
type ID int64

// Tier is one quality level of a media representation.
type Tier uint8

const (
	// TierNone marks the absence of any representation.
	TierNone Tier = iota
	// TierInline is the tiny blurred preview embedded in the descriptor.
	TierInline
	// TierSmall is a low-resolution preview.
	TierSmall
	// TierThumbnail is a medium-resolution preview.
	TierThumbnail
	// TierLarge is the full-quality original.
	TierLarge

	tierCount
)

// String names the tier for logs.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierInline:
		return "inline"
	case TierSmall:
		return "small"
	case TierThumbnail:
		return "thumbnail"
	case TierLarge:
		return "large"
	default:
		return "invalid"
	}
}

// Flags describe what kind of media an asset carries.
type Flags uint8

const (
	// FlagVoice marks a recorded voice message.
	FlagVoice Flags = 1 << iota
	// FlagSong marks a music file.
	FlagSong
	// FlagVideo marks playable video content.
	FlagVideo
	// FlagStickerEmoji marks a custom-emoji sticker.
	FlagStickerEmoji
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Info describes an asset at creation time.
type Info struct {
	ID ID
	// Size is the total byte size of the original media.
	Size int64
	// Dims are the pixel dimensions of the full-quality media.
	Dims image.Point
	// Flags describe the media kind.
	Flags Flags
	// Duration is the media duration in whole seconds, for audio and
	// video. Zero otherwise.
	Duration int
}

// Asset is the data-owning entity for one remote media object.
//
// Tier contents are published only through the Dispatcher's serialized
// callbacks and read only on the UI goroutine, so the struct carries no
// locking of its own.
type Asset struct {
	info Info

	images  [tierCount]image.Image
	highest Tier
	// pending is a bitmask of tiers with a fetch in flight.
	pending uint8

	loading      bool
	loadOffset   int64
	uploading    bool
	uploadOffset int64

	failed         bool
	playbackFailed bool

	refs int
}

// New returns an asset for the given descriptor.
func New(info Info) *Asset {
	return &Asset{info: info}
}

// ID returns the asset identity.
func (a *Asset) ID() ID { return a.info.ID }

// Size returns the byte size of the original media.
func (a *Asset) Size() int64 { return a.info.Size }

// Dims returns the pixel dimensions of the full-quality media.
func (a *Asset) Dims() image.Point { return a.info.Dims }

// Flags returns the media kind flags.
func (a *Asset) Flags() Flags { return a.info.Flags }

// Duration returns the media duration in seconds.
func (a *Asset) Duration() int { return a.info.Duration }

// SetInline publishes the embedded blurred preview. Typically done at
// creation, before any fetch.
func (a *Asset) SetInline(img image.Image) {
	a.setImage(TierInline, img)
}

// Publish stores a representation that arrived outside the fetch
// pipeline, such as the local original of an upload in progress.
// Publishing the full-quality tier completes any download in flight.
func (a *Asset) Publish(t Tier, img image.Image) {
	a.setImage(t, img)
	if t == TierLarge && a.images[TierLarge] != nil {
		a.loading = false
		a.clearPending(t)
		a.loadOffset = a.info.Size
	}
}

// setImage stores a representation. Populated tiers are never replaced
// or removed while the asset is referenced; a late lower-quality result
// still fills its own slot but never lowers the highest mark.
func (a *Asset) setImage(t Tier, img image.Image) {
	if t == TierNone || t >= tierCount || img == nil {
		return
	}
	if a.images[t] != nil {
		return
	}
	a.images[t] = img
	if t > a.highest {
		a.highest = t
	}
}

// Image returns the representation cached at exactly tier t, or nil.
func (a *Asset) Image(t Tier) image.Image {
	if t >= tierCount {
		return nil
	}
	return a.images[t]
}

// Highest reports the best tier published so far.
func (a *Asset) Highest() Tier { return a.highest }

// BestImage resolves the representation to paint right now for a
// photo-like asset. Blurred reports that the returned tier is below
// full quality and the renderer should apply its blur filter.
func (a *Asset) BestImage() (t Tier, img image.Image, blurred bool) {
	for _, t := range [...]Tier{TierLarge, TierThumbnail, TierSmall, TierInline} {
		if img := a.images[t]; img != nil {
			return t, img, t != TierLarge
		}
	}
	return TierNone, nil, false
}

// Cover resolves the representation for a song or voice cover, which
// never shows more than a thumbnail.
func (a *Asset) Cover() (t Tier, img image.Image, blurred bool) {
	for _, t := range [...]Tier{TierThumbnail, TierInline} {
		if img := a.images[t]; img != nil {
			return t, img, true
		}
	}
	return TierNone, nil, false
}

// Loaded reports whether the full-quality representation is available.
func (a *Asset) Loaded() bool { return a.images[TierLarge] != nil }

// Loading reports whether a download is in progress.
func (a *Asset) Loading() bool { return a.loading }

// Uploading reports whether an upload is in progress.
func (a *Asset) Uploading() bool { return a.uploading }

// SetLoadProgress records download progress. Offsets are monotonically
// non-decreasing until completion or failure.
func (a *Asset) SetLoadProgress(offset int64) {
	a.loading = true
	if offset > a.loadOffset {
		a.loadOffset = offset
	}
}

// SetUploading records upload progress, mirroring download progress for
// locally originated media.
func (a *Asset) SetUploading(offset int64) {
	a.uploading = true
	if offset > a.uploadOffset {
		a.uploadOffset = offset
	}
}

// FinishUploading marks the upload complete.
func (a *Asset) FinishUploading() {
	a.uploading = false
	a.uploadOffset = a.info.Size
}

// LoadOffset reports the downloaded byte count.
func (a *Asset) LoadOffset() int64 { return a.loadOffset }

// UploadOffset reports the uploaded byte count.
func (a *Asset) UploadOffset() int64 { return a.uploadOffset }

// Progress reports transfer completion in [0,1].
func (a *Asset) Progress() float64 {
	if a.info.Size <= 0 {
		return 0
	}
	offset := a.loadOffset
	if a.uploading {
		offset = a.uploadOffset
	}
	p := float64(offset) / float64(a.info.Size)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Failed reports whether the last fetch ended in a terminal failure.
// Failed assets are never retried silently; call Retry first.
func (a *Asset) Failed() bool { return a.failed }

// Retry clears the terminal failure so a user-initiated fetch can run.
func (a *Asset) Retry() {
	a.failed = false
	a.loading = false
	a.loadOffset = 0
}

// VideoCanBePlayed reports whether autoplay may open a stream for this
// asset.
func (a *Asset) VideoCanBePlayed() bool {
	return a.info.Flags.Has(FlagVideo) && !a.playbackFailed
}

// SetPlaybackFailed marks the asset unplayable for this session so a
// broken stream is not reopened on every autoplay check.
func (a *Asset) SetPlaybackFailed() { a.playbackFailed = true }

// PlaybackFailed reports whether streaming playback failed terminally.
func (a *Asset) PlaybackFailed() bool { return a.playbackFailed }

func (a *Asset) tierPending(t Tier) bool { return a.pending&(1<<t) != 0 }
func (a *Asset) markPending(t Tier)     { a.pending |= 1 << t }
func (a *Asset) clearPending(t Tier)    { a.pending &^= 1 << t }

// releaseImages drops the decoded representations so they can be
// collected once the last view is gone. The inline preview is part of
// the descriptor and survives.
func (a *Asset) releaseImages() {
	for t := TierSmall; t < tierCount; t++ {
		a.images[t] = nil
	}
	if a.images[TierInline] != nil {
		a.highest = TierInline
	} else {
		a.highest = TierNone
	}
}
