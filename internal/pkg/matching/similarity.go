package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarity blend weights. Empirically tuned on cross-bookmaker fixture
// lists; see the abbreviation table below for the curated pairs.
const (
	weightEditRatio = 0.4
	weightTokens    = 0.3
	weightSubstring = 0.2
	weightAbbrev    = 0.1

	substringBonus = 0.8
)

// editRatio is the normalized edit-distance similarity of two strings:
// 1.0 for identical input, 0.0 for completely disjoint input.
func editRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0.0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// tokenJaccard is the Jaccard similarity of the whitespace-token sets of
// the two names. Handles reordered and partially abbreviated names.
func tokenJaccard(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// teamAbbreviations maps canonical club names to their common short forms.
var teamAbbreviations = map[string][]string{
	"manchester united":   {"man utd", "man united", "mufc"},
	"manchester city":     {"man city", "mcfc"},
	"tottenham hotspur":   {"tottenham", "spurs", "thfc"},
	"arsenal":             {"arsenal fc", "afc"},
	"chelsea":             {"chelsea fc", "cfc"},
	"liverpool":           {"liverpool fc", "lfc"},
	"real madrid":         {"r madrid", "real", "rmcf"},
	"barcelona":           {"barca", "fcb", "fc barcelona"},
	"bayern munich":       {"bayern", "fcb munich"},
	"paris saint-germain": {"psg", "paris sg"},
	"ac milan":            {"milan", "acm"},
	"inter milan":         {"inter", "internazionale"},
	"atletico madrid":     {"atletico", "atm", "a madrid"},
	"borussia dortmund":   {"dortmund", "bvb", "b dortmund"},
}

// abbreviationScore returns a bonus when the two names are a known
// full-name/short-form pair (0.9), or when one is a very short form
// contained in the other (0.7). Zero otherwise.
func abbreviationScore(a, b string) float64 {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))

	for full, shorts := range teamAbbreviations {
		aShort := containsString(shorts, a)
		bShort := containsString(shorts, b)
		if (a == full && bShort) || (b == full && aShort) || (aShort && bShort) {
			return 0.9
		}
	}

	if len(a) <= 4 && strings.Contains(b, a) {
		return 0.7
	}
	if len(b) <= 4 && strings.Contains(a, b) {
		return 0.7
	}
	return 0.0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// teamSimilarity blends edit-distance, token overlap, substring containment
// and the abbreviation table into one [0,1] score. Identical names (case
// insensitive) short-circuit to 1.0.
func teamSimilarity(team1, team2 string) float64 {
	if team1 == "" || team2 == "" {
		return 0.0
	}
	t1 := strings.ToLower(team1)
	t2 := strings.ToLower(team2)
	if t1 == t2 {
		return 1.0
	}

	substring := 0.0
	if strings.Contains(t1, t2) || strings.Contains(t2, t1) {
		substring = substringBonus
	}

	total := editRatio(t1, t2)*weightEditRatio +
		tokenJaccard(t1, t2)*weightTokens +
		substring*weightSubstring +
		abbreviationScore(team1, team2)*weightAbbrev

	if total > 1.0 {
		return 1.0
	}
	return total
}
