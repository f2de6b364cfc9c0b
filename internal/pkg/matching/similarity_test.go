package matching

import (
	"math"
	"testing"
)

func TestEditRatio(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want float64
	}{
		{"arsenal", "arsenal", 1.0},
		{"", "arsenal", 0.0},
		{"arsenal", "", 0.0},
		{"abcd", "abce", 0.75},
		{"match result", "match resul", 1.0 - 1.0/12.0},
	}
	for _, tt := range tests {
		got := editRatio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("editRatio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenJaccard(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want float64
	}{
		{"real madrid", "real madrid", 1.0},
		{"real madrid", "real betis", 1.0 / 3.0},
		{"man utd", "liverpool", 0.0},
		{"", "liverpool", 0.0},
	}
	for _, tt := range tests {
		got := tokenJaccard(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("tokenJaccard(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAbbreviationScore(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want float64
	}{
		// full name against a known short form, either order
		{"Manchester United", "Man Utd", 0.9},
		{"man utd", "Manchester United", 0.9},
		// two short forms of the same club
		{"man utd", "mufc", 0.9},
		// very short form contained in the longer name
		{"Ars", "Arsenal", 0.7},
		{"Arsenal", "Ars", 0.7},
		// unrelated names
		{"Chelsea", "Everton", 0.0},
	}
	for _, tt := range tests {
		got := abbreviationScore(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("abbreviationScore(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTeamSimilarity(t *testing.T) {
	// Exact matches short-circuit regardless of case.
	if got := teamSimilarity("Arsenal", "arsenal"); got != 1.0 {
		t.Errorf("teamSimilarity(Arsenal, arsenal) = %f, want 1.0", got)
	}
	if got := teamSimilarity("", "Arsenal"); got != 0.0 {
		t.Errorf("teamSimilarity with empty name = %f, want 0.0", got)
	}

	// Related names score between unrelated and identical, and the blend
	// never exceeds 1.0.
	related := teamSimilarity("Arsenal", "Arsenal FC")
	unrelated := teamSimilarity("Arsenal", "Everton")
	if related <= unrelated {
		t.Errorf("related score %f not above unrelated score %f", related, unrelated)
	}
	if related > 1.0 {
		t.Errorf("teamSimilarity returned %f > 1.0", related)
	}

	// Known abbreviation pairs beat plain edit distance on its own.
	abbrev := teamSimilarity("Manchester United", "Man Utd")
	if abbrev <= 0.0 {
		t.Errorf("abbreviation pair scored %f, want > 0", abbrev)
	}
}
