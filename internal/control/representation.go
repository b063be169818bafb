package control

import (
	"math/bits"
	"strconv"
	"strings"
)

// Slider is the coarse representation: the value mapped onto a fixed number
// of cells, as drawn by a terminal slider bar.
type Slider struct {
	min, max int
	width    int
	value    int
}

// NewSlider creates a slider for c's range with the given width in cells.
// Widths below 2 are raised to 2.
func NewSlider(c *RangeControl, width int) *Slider {
	return &Slider{min: c.Min(), max: c.Max(), width: max(width, 2)}
}

// Show implements [Representation].
func (s *Slider) Show(value int) {
	s.value = value
}

// Value returns the value last shown.
func (s *Slider) Value() int {
	return s.value
}

// Position returns the cell index, in [0, width-1], of the value last shown.
func (s *Slider) Position() int {
	if s.max <= s.min || s.value <= s.min {
		return 0
	}
	if s.value >= s.max {
		return s.width - 1
	}
	// off*(width-1) can exceed 64 bits on wide ranges; off < total keeps hi < total.
	off, total := span(s.min, s.value), span(s.min, s.max)
	hi, lo := bits.Mul64(off, uint64(s.width-1))
	q, _ := bits.Div64(hi, lo, total)
	return int(q)
}

// Width returns the slider width in cells.
func (s *Slider) Width() int {
	return s.width
}

// Bar renders the slider as a run of track characters with a knob.
func (s *Slider) Bar(track, knob string) string {
	var b strings.Builder
	pos := s.Position()
	for i := 0; i < s.width; i++ {
		if i == pos {
			b.WriteString(knob)
		} else {
			b.WriteString(track)
		}
	}
	return b.String()
}

// Readout is the precise numeric representation.
type Readout struct {
	value int
	text  string
}

// Show implements [Representation].
func (r *Readout) Show(value int) {
	r.value = value
	r.text = strconv.Itoa(value)
}

// Value returns the value last shown.
func (r *Readout) Value() int {
	return r.value
}

// String returns the formatted value.
func (r *Readout) String() string {
	return r.text
}
