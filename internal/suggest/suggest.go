// Package suggest finds the closest known name for a mistyped one.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistance is the largest edit distance still treated as a likely typo.
const maxDistance = 2

// Closest returns the candidate nearest to name by case-insensitive edit
// distance, or "" if none is within a typo's reach. Ties keep the earliest
// candidate.
func Closest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	target := strings.ToLower(name)

	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(target, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Hint formats a "did you mean" suffix for error messages, or "" when there
// is no close candidate.
func Hint(name string, candidates []string) string {
	if c := Closest(name, candidates); c != "" && c != name {
		return ` (did you mean "` + c + `"?)`
	}
	return ""
}
