package fieldspace

import "github.com/agnivade/levenshtein"

// suggestMaxDistance bounds how different a candidate may be from the
// failed name before it stops being a plausible typo.
const suggestMaxDistance = 3

// Suggest finds the closest candidate name to name by edit distance,
// grounded on open-policy-agent/opa's compiler technique for "did you
// mean" diagnostics on unresolved references.
func Suggest(name string, candidates []string) (string, bool) {
	best := ""
	bestDist := suggestMaxDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > suggestMaxDistance {
		return "", false
	}
	return best, true
}
