package element

import (
	"image"
	"image/color"
	"time"

	"git.sr.ht/~gioverse/media/anim"
	"git.sr.ht/~gioverse/media/render"
)

// minArcSweep keeps a sliver of arc visible at zero progress so the
// user can tell a transfer has started.
const minArcSweep = 0.02

// radial animates a circular progress arc for a transfer. Progress
// approaches the reported transfer fraction smoothly, and the whole
// arc fades out once the transfer completes.
type radial struct {
	progress anim.Value
	opacity  anim.Value
	driver   *anim.Driver
	active   bool
}

func newRadial(invalidate func(), disabled bool) *radial {
	r := &radial{}
	r.progress = anim.Rest(0)
	r.opacity = anim.Rest(1)
	r.driver = &anim.Driver{
		Duration:   anim.DefaultDuration,
		Invalidate: invalidate,
		Disabled:   disabled,
	}
	r.driver.Add(&r.progress, anim.Linear)
	r.driver.Add(&r.opacity, anim.EaseInCubic)
	return r
}

// start begins showing the arc at the given transfer fraction.
func (r *radial) start(progress float64) {
	r.active = true
	r.progress = anim.Rest(progress)
	r.opacity = anim.Rest(1)
}

// update animates toward a new transfer fraction.
func (r *radial) update(progress float64, now time.Time) {
	if !r.active {
		r.start(progress)
		return
	}
	if progress == r.progress.To() {
		return
	}
	r.progress.Start(progress)
	if progress >= 1 {
		r.opacity.Start(0)
	}
	r.driver.Start(now)
}

// stop hides the arc immediately.
func (r *radial) stop() {
	r.active = false
	r.driver.Stop()
}

// tick advances the animation. It reports whether another frame is
// wanted.
func (r *radial) tick(now time.Time) bool {
	if !r.active {
		return false
	}
	animating := r.driver.Tick(now)
	if !animating && r.opacity.Current() <= 0 {
		r.active = false
	}
	return animating
}

// showing reports whether the arc should be painted this frame.
func (r *radial) showing() bool {
	return r.active && r.opacity.Current() > 0
}

func (r *radial) currentOpacity() float64 {
	if !r.active {
		return 0
	}
	return r.opacity.Current()
}

// draw paints the arc inside the given circle bounds. The arc starts
// at twelve o'clock and sweeps clockwise.
func (r *radial) draw(s render.Surface, inner image.Rectangle, line int, c color.NRGBA) {
	if !r.showing() {
		return
	}
	sweep := r.progress.Current()
	if sweep < minArcSweep {
		sweep = minArcSweep
	}
	if sweep > 1 {
		sweep = 1
	}
	arc := inner.Inset(line)
	s.SetOpacity(r.currentOpacity())
	s.StrokeArc(arc, line, 0, sweep, c)
	s.SetOpacity(1)
}
