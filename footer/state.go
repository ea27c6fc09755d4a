package footer

import (
	"math"
	"time"

	"git.sr.ht/~gioverse/media/anim"
)

// scrollState is one scroll axis: offset, selection geometry and the
// shared animation driver. Position animates linearly; the selection
// extent eases out so it settles under the moving strip.
type scrollState struct {
	x              anim.Value
	selectionX     anim.Value
	selectionWidth anim.Value

	selected       int
	max            int
	dragging       bool
	draggingStartX int

	driver *anim.Driver
}

func newScrollState(invalidate func(), disabled bool) *scrollState {
	s := &scrollState{selected: -1}
	s.driver = &anim.Driver{
		Duration:   anim.DefaultDuration,
		Invalidate: invalidate,
		Disabled:   disabled,
	}
	s.driver.Add(&s.x, anim.Linear)
	s.driver.Add(&s.selectionX, anim.EaseOutCubic)
	s.driver.Add(&s.selectionWidth, anim.EaseOutCubic)
	return s
}

func (s *scrollState) current() int {
	return int(math.Round(s.x.Current()))
}

// jumpTo stops any animation and pins the offset.
func (s *scrollState) jumpTo(x int) {
	s.x = anim.Rest(float64(x))
	s.driver.Stop()
}

// scrollTo animates the offset toward x.
func (s *scrollState) scrollTo(x int, now time.Time) {
	s.x.Start(float64(x))
	s.driver.Start(now)
}

// clampOffset re-pins the offset into bounds after max shrinks.
func (s *scrollState) clampOffset() {
	if s.current() > s.max {
		s.jumpTo(s.max)
	}
}

func (s *scrollState) finish() {
	s.x.Finish()
	s.selectionX.Finish()
	s.selectionWidth.Finish()
	s.driver.Stop()
}

// retarget updates an animated value's destination without restarting
// the shared clock: mid-animation the original start is kept, at rest
// the value jumps.
func retarget(v *anim.Value, to int) {
	if int(math.Round(v.To())) == to {
		return
	}
	if v.From() != v.To() {
		*v = anim.Range(v.From(), float64(to))
	} else {
		*v = anim.Rest(float64(to))
	}
}

// settle moves a value to its target, animated or instant.
func settle(v *anim.Value, to int, animated bool) {
	if animated {
		v.Start(float64(to))
	} else {
		*v = anim.Rest(float64(to))
	}
}
