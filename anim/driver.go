package anim

import "time"

// DefaultDuration is used by Drivers that do not specify one.
const DefaultDuration = 150 * time.Millisecond

// Track pairs a Value with the easing curve used to advance it.
type Track struct {
	Value  *Value
	Easing Easing
}

// Driver advances a group of Values that share one start time and
// duration. Scroll position animates linearly while selection extent
// and width ease out, so each track carries its own curve.
//
// The zero Driver is ready to use after its tracks are added.
type Driver struct {
	// Duration of one full interpolation. Defaults to DefaultDuration.
	Duration time.Duration
	// Invalidate requests a repaint after each non-final tick. May be nil.
	Invalidate func()
	// Disabled finishes every animation instantly when set, for callers
	// that honor a global animations-off preference.
	Disabled bool

	tracks []Track
	start  time.Time
	active bool
}

// Add registers a value with the driver.
func (d *Driver) Add(v *Value, easing Easing) {
	if easing == nil {
		easing = Linear
	}
	d.tracks = append(d.tracks, Track{Value: v, Easing: easing})
}

// Start begins animating all tracks from their current positions.
// When the driver is disabled the tracks finish immediately.
func (d *Driver) Start(now time.Time) {
	if d.Disabled {
		d.finishAll()
		return
	}
	d.start = now
	d.active = true
}

// Stop halts the animation, leaving values where they are.
func (d *Driver) Stop() {
	d.active = false
	d.start = time.Time{}
}

// Animating reports whether a tick is still pending.
func (d *Driver) Animating() bool { return d.active }

// Tick advances all tracks to the elapsed fraction at now. It returns
// true while further ticks are required, and false once every value has
// been finalized at its target.
func (d *Driver) Tick(now time.Time) bool {
	if !d.active {
		return false
	}
	duration := d.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	if d.Disabled {
		now = now.Add(duration)
	}
	dt := float64(now.Sub(d.start)) / float64(duration)
	if dt >= 1 {
		d.finishAll()
		return false
	}
	for _, tr := range d.tracks {
		tr.Value.Update(dt, tr.Easing)
	}
	if d.Invalidate != nil {
		d.Invalidate()
	}
	return true
}

func (d *Driver) finishAll() {
	for _, tr := range d.tracks {
		tr.Value.Finish()
	}
	d.active = false
	d.start = time.Time{}
}
