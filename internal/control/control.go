// Package control implements bounded integer parameters with a reset-to-default.
//
// A [RangeControl] owns one value inside [min, max]. Any number of
// [Representation] values (a coarse [Slider] and a precise [Readout] in the
// panel) can be attached; every mutation pushes the same clamped value to all
// of them before listeners are notified.
package control

import (
	"math"

	"graspctl/internal/event"
)

// Fallback range used when construction is given min >= max.
const (
	FallbackMin = -100
	FallbackMax = 100
)

// tickDivisions is the number of tick marks across the full range.
const tickDivisions = 20

// ValueChanged is emitted after every SetValue or Reset.
type ValueChanged struct {
	Label string
	Value int
}

// Representation displays a control's value. Show is called with the
// clamped value after every mutation.
type Representation interface {
	Show(value int)
}

// RangeControl is a bounded integer value with a default.
//
// min, max and the default are fixed at construction; see [New] for how
// malformed parameters are normalized.
type RangeControl struct {
	label        string
	min          int
	max          int
	defaultValue int
	current      int

	reps    []Representation
	changed event.Listeners[ValueChanged]
}

// New creates a control. Malformed parameters are normalized, never rejected:
//   - if min >= max the range becomes [FallbackMin, FallbackMax]
//   - if def is not strictly inside (min, max) it becomes (min+max)/2
//
// The current value starts at the (normalized) default.
func New(label string, min, max, def int) *RangeControl {
	if min >= max {
		min, max = FallbackMin, FallbackMax
	}
	if !(min < def && def < max) {
		def = midpoint(min, max)
	}
	return &RangeControl{
		label:        label,
		min:          min,
		max:          max,
		defaultValue: def,
		current:      def,
	}
}

// Label returns the control's display label.
func (c *RangeControl) Label() string { return c.label }

// Min returns the lower bound.
func (c *RangeControl) Min() int { return c.min }

// Max returns the upper bound.
func (c *RangeControl) Max() int { return c.max }

// Default returns the validated default value.
func (c *RangeControl) Default() int { return c.defaultValue }

// Value returns the current value.
func (c *RangeControl) Value() int { return c.current }

// TickInterval returns the display tick granularity, (max-min)/20.
// It is zero for ranges narrower than 20.
func (c *RangeControl) TickInterval() int {
	return int(span(c.min, c.max) / tickDivisions)
}

// ShowsZeroMark reports whether a centered "0" mark should be drawn, which is
// only the case for ranges symmetric around zero.
func (c *RangeControl) ShowsZeroMark() bool {
	return c.min < 0 && c.min == -c.max
}

// Attach adds a representation and immediately shows the current value on it.
func (c *RangeControl) Attach(rep Representation) {
	if rep == nil {
		return
	}
	c.reps = append(c.reps, rep)
	rep.Show(c.current)
}

// SetValue clamps v into [min, max], stores it, shows it on every attached
// representation and emits ValueChanged. It returns the stored value.
func (c *RangeControl) SetValue(v int) int {
	v = max(c.min, min(v, c.max))
	c.current = v
	for _, rep := range c.reps {
		rep.Show(v)
	}
	c.changed.Emit(ValueChanged{Label: c.label, Value: v})
	return v
}

// Step moves the value by delta, clamped like SetValue.
// The sum saturates at the int limits instead of wrapping.
func (c *RangeControl) Step(delta int) int {
	v := c.current
	switch {
	case delta > 0 && v > math.MaxInt-delta:
		v = math.MaxInt
	case delta < 0 && v < math.MinInt-delta:
		v = math.MinInt
	default:
		v += delta
	}
	return c.SetValue(v)
}

// Reset is SetValue(Default()).
func (c *RangeControl) Reset() int {
	return c.SetValue(c.defaultValue)
}

// OnValueChanged registers a listener for value changes.
func (c *RangeControl) OnValueChanged(fn func(ValueChanged)) event.ID {
	return c.changed.Subscribe(fn)
}

// Unsubscribe removes a listener registered with OnValueChanged.
func (c *RangeControl) Unsubscribe(id event.ID) bool {
	return c.changed.Unsubscribe(id)
}

// midpoint returns (a+b)/2 truncated toward zero without overflowing.
func midpoint(a, b int) int {
	if (a < 0) != (b < 0) {
		return (a + b) / 2
	}
	return a/2 + b/2 + (a%2+b%2)/2
}

// span returns hi-lo for lo <= hi. The full int range fits in a uint64.
func span(lo, hi int) uint64 {
	return uint64(hi) - uint64(lo)
}
