package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	names := []string{"Generate", "Choose", "Approach", "Grasp", "Lift"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact match", input: "Grasp", want: "Grasp"},
		{name: "case differs", input: "lift", want: "Lift"},
		{name: "one typo", input: "Aproach", want: "Approach"},
		{name: "too far", input: "Calibrate", want: ""},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Closest(tt.input, names))
		})
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, ` (did you mean "Grasp"?)`, Hint("Grsp", []string{"Grasp"}))
	assert.Equal(t, "", Hint("Grasp", []string{"Grasp"}))
	assert.Equal(t, "", Hint("xyz", nil))
}
