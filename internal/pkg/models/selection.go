package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Selection is one leg of a betslip extracted from the source bookmaker.
// Immutable after construction; validate with Validate before use.
type Selection struct {
	GameID       string    `json:"game_id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Market       string    `json:"market"`
	Odds         float64   `json:"odds"`
	EventDate    time.Time `json:"event_date"`
	League       string    `json:"league"`
	OriginalText string    `json:"original_text"`
}

// GameName returns the "Home vs Away" display form of the fixture.
func (s Selection) GameName() string {
	return s.HomeTeam + " vs " + s.AwayTeam
}

// Validate checks the invariants required of an extracted selection.
func (s Selection) Validate() error {
	if strings.TrimSpace(s.HomeTeam) == "" {
		return fmt.Errorf("selection %q: home team is empty", s.GameID)
	}
	if strings.TrimSpace(s.AwayTeam) == "" {
		return fmt.Errorf("selection %q: away team is empty", s.GameID)
	}
	if strings.TrimSpace(s.Market) == "" {
		return fmt.Errorf("selection %q: market is empty", s.GameID)
	}
	if s.Odds <= 0 {
		return fmt.Errorf("selection %q: odds must be positive, got %.2f", s.GameID, s.Odds)
	}
	if s.EventDate.IsZero() {
		return fmt.Errorf("selection %q: event date is missing", s.GameID)
	}
	if !s.EventDate.After(time.Now()) {
		return fmt.Errorf("selection %q: event date %s is in the past", s.GameID, s.EventDate.Format(time.RFC3339))
	}
	if strings.TrimSpace(s.League) == "" {
		return fmt.Errorf("selection %q: league is empty", s.GameID)
	}
	if strings.TrimSpace(s.OriginalText) == "" {
		return fmt.Errorf("selection %q: original text is empty", s.GameID)
	}
	return nil
}

// CandidateMarket is one market listed for a destination game.
type CandidateMarket struct {
	Name string  `json:"name"`
	Odds float64 `json:"odds"`
}

// CandidateGame is a destination-bookmaker game record, read-only input
// to the matching engine.
type CandidateGame struct {
	HomeTeam string            `json:"home_team"`
	AwayTeam string            `json:"away_team"`
	Markets  []CandidateMarket `json:"markets"`
}

// GameName returns the "Home vs Away" display form of the candidate fixture.
func (g CandidateGame) GameName() string {
	return g.HomeTeam + " vs " + g.AwayTeam
}

// MarketNames returns the listed market names in order.
func (g CandidateGame) MarketNames() []string {
	names := make([]string, 0, len(g.Markets))
	for _, m := range g.Markets {
		names = append(names, m.Name)
	}
	return names
}

var betslipCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidBetslipCode reports whether code looks like a bookmaker-issued
// betslip reference (6-20 alphanumeric characters, hyphen or underscore).
func ValidBetslipCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) < 6 || len(code) > 20 {
		return false
	}
	return betslipCodePattern.MatchString(code)
}
