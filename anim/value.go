/*
Package anim provides the interpolation primitives used to animate
scroll offsets, selection geometry and transfer progress.

All types are owned by the UI goroutine. A Driver advances any number
of Values toward their targets on each tick and reports whether another
frame is needed, so one timer can serve several coupled interpolations.
*/
package anim

// Easing maps a completed fraction in [0,1] to an interpolation fraction.
type Easing func(t float64) float64

// Linear easing.
func Linear(t float64) float64 { return t }

// EaseOutCubic decelerates toward the target.
func EaseOutCubic(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}

// EaseInCubic accelerates away from the start.
func EaseInCubic(t float64) float64 { return t * t * t }

// Value interpolates between a starting point and a target.
//
// The zero Value rests at 0. A Value at rest reports its target as its
// current position.
type Value struct {
	from, to float64
	current  float64
}

// Rest returns a Value resting at v.
func Rest(v float64) Value {
	return Value{from: v, to: v, current: v}
}

// Range returns a Value positioned at from and heading to to.
func Range(from, to float64) Value {
	return Value{from: from, to: to, current: from}
}

// Start retargets the value, beginning from its current position.
func (v *Value) Start(to float64) {
	v.from = v.current
	v.to = to
}

// Update moves the current position to the eased fraction dt of the way
// from the start to the target.
func (v *Value) Update(dt float64, easing Easing) {
	if dt >= 1 {
		v.Finish()
		return
	}
	if dt < 0 {
		dt = 0
	}
	v.current = v.from + (v.to-v.from)*easing(dt)
}

// Finish snaps the value to its target.
func (v *Value) Finish() {
	v.from = v.to
	v.current = v.to
}

// Current reports the interpolated position.
func (v Value) Current() float64 { return v.current }

// To reports the resting target.
func (v Value) To() float64 { return v.to }

// From reports the starting position of the active interpolation.
func (v Value) From() float64 { return v.from }

// Animating reports whether the value has not yet reached its target.
func (v Value) Animating() bool { return v.current != v.to }
