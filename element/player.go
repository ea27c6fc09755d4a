package element

import (
	"time"

	"git.sr.ht/~gioverse/media/asset"
)

// PlaybackState is a snapshot of audio playback for one asset.
type PlaybackState struct {
	Position time.Duration
	Length   time.Duration
	// Playing reports that playback is running or paused, as opposed
	// to stopped.
	Playing bool
	// ShowPause selects the pause glyph over the play glyph.
	ShowPause bool
}

// Player exposes the audio mixer to voice and song elements. Elements
// poll it during paint; they never hold playback resources themselves.
type Player interface {
	// State reports playback for the asset. ok is false when the
	// mixer is playing something else or nothing at all.
	State(id asset.ID) (state PlaybackState, ok bool)
	// Play starts or toggles playback of the asset.
	Play(id asset.ID)
	// Seek moves playback of the asset to a fraction of its length.
	Seek(id asset.ID, progress float64)
}
