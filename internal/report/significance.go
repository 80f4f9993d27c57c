// Package report groups clinical-variant matches by gene and ranks them
// by clinical significance.
package report

import "strings"

// Significance labels. The reference database's clnsig column is free
// text, so these are derived labels, not values read back verbatim.
const (
	SignificancePathogenic       = "Pathogenic"
	SignificanceLikelyPathogenic = "Likely_pathogenic"
	SignificanceConflicting      = "Conflicting"
	SignificanceUncertain        = "Uncertain_significance"
	SignificanceBenign           = "Benign"
)

// ScoreUnclassified is assigned when no known classification substring
// matches.
const ScoreUnclassified = 6

// sigRule maps a clnsig substring to a severity score. Rules are checked
// in order and the first match wins: a free-text value naming several
// tiers resolves to the most severe one it mentions.
type sigRule struct {
	score int
	label string
	match func(sig string) bool
}

var sigRules = []sigRule{
	{1, SignificancePathogenic, func(s string) bool {
		return strings.Contains(s, "pathogenic") && !strings.Contains(s, "likely")
	}},
	{2, SignificanceLikelyPathogenic, func(s string) bool {
		return strings.Contains(s, "likely_pathogenic")
	}},
	{3, SignificanceConflicting, func(s string) bool {
		return strings.Contains(s, "conflicting")
	}},
	{4, SignificanceUncertain, func(s string) bool {
		return strings.Contains(s, "uncertain")
	}},
	{5, SignificanceBenign, func(s string) bool {
		return strings.Contains(s, "benign")
	}},
}

// SignificanceScore ranks a free-text clinical significance value.
// Lower is more severe; unrecognized values score ScoreUnclassified.
func SignificanceScore(clnsig string) int {
	sig := strings.ToLower(clnsig)
	for _, r := range sigRules {
		if r.match(sig) {
			return r.score
		}
	}
	return ScoreUnclassified
}

// SignificanceLabel returns the derived label for a free-text clinical
// significance value. Unrecognized values fall back to
// Uncertain_significance.
func SignificanceLabel(clnsig string) string {
	sig := strings.ToLower(clnsig)
	for _, r := range sigRules {
		if r.match(sig) {
			return r.label
		}
	}
	return SignificanceUncertain
}
