/*
Package stream defines the contract between renderable media elements
and the streaming layer that decodes video for them.

The streaming layer is an external collaborator: this package only
fixes the shapes exchanged across the boundary. Updates are delivered
to the UI goroutine as discrete values of a closed union, never as raw
cross-thread mutation.
*/
package stream

import (
	"errors"
	"image"

	"git.sr.ht/~gioverse/media/asset"
)

// ErrOpenFailed reports that a stream could not be opened. Elements
// receiving it mark the asset playback-failed for the session so the
// same unplayable stream is not reopened on every autoplay check.
var ErrOpenFailed = errors.New("stream: open failed")

// Info describes a ready stream.
type Info struct {
	// Size is the video dimensions in pixels.
	Size image.Point
}

// Request selects how a decoded frame is prepared.
type Request struct {
	// Outer is the output size in pixels.
	Outer image.Point
	// Radius rounds the frame corners; use Circle for an ellipse.
	Radius int
	// Circle crops the frame to an ellipse, for userpic-style frames.
	Circle bool
}

// Handle is a live playback session for one asset.
type Handle interface {
	// Ready reports whether dimensions are known and frames can be
	// requested.
	Ready() bool
	// Info returns the stream dimensions. Valid once Ready.
	Info() Info
	// Frame renders the current frame per the request. It never
	// blocks; before the first decoded frame it returns nil.
	Frame(Request) image.Image
	// MarkFrameShown tells the player the current frame reached the
	// screen, advancing its pacing.
	MarkFrameShown()
	// Locked reports that the player is held by another consumer
	// (such as a fullscreen viewer); renderers freeze their last good
	// frame instead of competing for decode output.
	Locked() bool
	// Close tears the session down synchronously. No updates are
	// delivered after Close returns.
	Close()
}

// Opener creates playback sessions. Implemented by the streaming
// layer; the returned updates channel is drained on the UI goroutine.
type Opener interface {
	Open(id asset.ID, onUpdate func(Update)) (Handle, error)
}

// Update is one streaming notification: Ready, Frame, Error or
// Finished.
type Update interface{ streamUpdate() }

// Ready reports dimensions are available.
type Ready struct{ Info Info }

// Frame reports a new decoded frame is ready to paint.
type Frame struct{}

// Finished reports playback ran to the end.
type Finished struct{}

// Error reports a terminal streaming failure.
type Error struct{ Err error }

func (Ready) streamUpdate()    {}
func (Frame) streamUpdate()    {}
func (Finished) streamUpdate() {}
func (Error) streamUpdate()    {}
