// Package zoom holds the zoom factor of a single timeline view.
//
// A [Controller] is owned by exactly one view and is not safe for concurrent
// use. All operations saturate at the [Min] and [Max] bounds instead of
// failing. The layout is never recomputed on zoom: renderers multiply base
// x coordinates by [Controller.Level].
package zoom

import "math"

// Zoom bounds and step.
const (
	Min     = 0.5
	Max     = 5.0
	Default = 1.0
	Step    = 1.3
)

// WheelEvent is a single scroll-wheel event forwarded by the host UI.
// Modifier reports whether the zoom modifier key (ctrl) was held.
type WheelEvent struct {
	DeltaY   float64
	Modifier bool
}

// Controller tracks the current zoom factor. The zero value is not ready for
// use; call [New].
type Controller struct {
	level float64
}

// New returns a controller at the default zoom of 1.0.
func New() *Controller {
	return &Controller{level: Default}
}

// Level returns the current zoom factor.
func (c *Controller) Level() float64 { return c.level }

// Percent returns the zoom factor as a rounded percentage, e.g. 130.
func (c *Controller) Percent() int { return int(math.Round(c.level * 100)) }

// Apply scales a base-unit coordinate by the current zoom factor.
func (c *Controller) Apply(x float64) float64 { return x * c.level }

// In zooms in by one step, saturating at Max.
func (c *Controller) In() { c.level = min(c.level*Step, Max) }

// Out zooms out by one step, saturating at Min.
func (c *Controller) Out() { c.level = max(c.level/Step, Min) }

// Reset restores the default zoom.
func (c *Controller) Reset() { c.level = Default }

// Set jumps to an explicit zoom factor, clamped to [Min, Max]. Non-finite or
// non-positive values reset to the default.
func (c *Controller) Set(z float64) {
	c.level = Clamp(z)
}

// Wheel handles a continuous zoom gesture. Events without the modifier are
// ignored and Wheel returns false so the host keeps its normal scrolling.
// Otherwise the zoom steps out for a positive DeltaY and in for anything
// else, and Wheel returns true: the host must then suppress its default
// scroll handling for that event.
func (c *Controller) Wheel(ev WheelEvent) bool {
	if !ev.Modifier {
		return false
	}
	factor := Step
	if ev.DeltaY > 0 {
		factor = 1 / Step
	}
	c.level = min(max(c.level*factor, Min), Max)
	return true
}

// Clamp bounds z to [Min, Max]. Non-finite or non-positive values map to
// Default.
func Clamp(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return Default
	}
	return min(max(z, Min), Max)
}
