package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlider_Position(t *testing.T) {
	c := New("p", -100, 100, 0)
	s := NewSlider(c, 21)
	c.Attach(s)

	assert.Equal(t, 10, s.Position())

	c.SetValue(-100)
	assert.Equal(t, 0, s.Position())

	c.SetValue(100)
	assert.Equal(t, 20, s.Position())
}

func TestSlider_Position_FullIntRange(t *testing.T) {
	c := New("p", math.MinInt, math.MaxInt, 0)
	s := NewSlider(c, 41)
	c.Attach(s)

	assert.Equal(t, 20, s.Position())

	c.SetValue(math.MaxInt)
	assert.Equal(t, 40, s.Position())

	c.SetValue(math.MinInt)
	assert.Equal(t, 0, s.Position())

	c.SetValue(math.MaxInt - 1)
	assert.Equal(t, 39, s.Position())
}

func TestSlider_MinimumWidth(t *testing.T) {
	s := NewSlider(New("p", 0, 10, 5), 0)

	assert.Equal(t, 2, s.Width())
}

func TestSlider_Bar(t *testing.T) {
	c := New("p", 0, 4, 2)
	s := NewSlider(c, 5)
	c.Attach(s)

	assert.Equal(t, "--o--", s.Bar("-", "o"))

	c.SetValue(4)
	assert.Equal(t, "----o", s.Bar("-", "o"))
}

func TestReadout_String(t *testing.T) {
	r := &Readout{}
	r.Show(-42)

	assert.Equal(t, "-42", r.String())
	assert.Equal(t, -42, r.Value())
}
