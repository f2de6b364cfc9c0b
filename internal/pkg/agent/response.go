package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// SelectionPayload is one selection as the agent reports it. Dates arrive
// as strings in whatever format the page used; ToSelection parses them.
type SelectionPayload struct {
	Game         string  `json:"game"`
	HomeTeam     string  `json:"home_team"`
	AwayTeam     string  `json:"away_team"`
	Market       string  `json:"market"`
	Odds         float64 `json:"odds"`
	League       string  `json:"league"`
	EventDate    string  `json:"event_date"`
	OriginalText string  `json:"original_text"`
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToSelection converts the payload into a validated Selection.
func (p SelectionPayload) ToSelection() (models.Selection, error) {
	home, away := p.HomeTeam, p.AwayTeam
	if home == "" || away == "" {
		if h, a, ok := splitGame(p.Game); ok {
			home, away = h, a
		}
	}

	var eventDate time.Time
	var err error
	for _, layout := range eventDateLayouts {
		eventDate, err = time.Parse(layout, p.EventDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return models.Selection{}, fmt.Errorf("selection %q: unparseable event date %q", p.Game, p.EventDate)
	}

	sel := models.Selection{
		GameID:       strings.ToLower(home + "|" + away),
		HomeTeam:     home,
		AwayTeam:     away,
		Market:       p.Market,
		Odds:         p.Odds,
		EventDate:    eventDate,
		League:       p.League,
		OriginalText: p.OriginalText,
	}
	if err := sel.Validate(); err != nil {
		return models.Selection{}, err
	}
	return sel, nil
}

func splitGame(game string) (string, string, bool) {
	for _, sep := range []string{" vs ", " v ", " - "} {
		parts := strings.SplitN(game, sep, 2)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
		}
	}
	return "", "", false
}

// Response is the tagged decode of the agent's output. Which fields are
// required depends on the task; use the task-specific Decode functions.
type Response struct {
	Success     bool                   `json:"success"`
	Error       string                 `json:"error,omitempty"`
	Selections  []SelectionPayload     `json:"selections,omitempty"`
	Games       []models.CandidateGame `json:"games,omitempty"`
	BetslipCode string                 `json:"betslip_code,omitempty"`
	Created     []SelectionPayload     `json:"created_selections,omitempty"`
	Skipped     []SelectionPayload     `json:"skipped_selections,omitempty"`
}

// Decode parses raw agent output into a Response. Agents often wrap JSON
// in markdown fences; those are stripped. Anything that does not decode
// into the expected shape is an error, never a silent default.
func Decode(raw string) (*Response, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, fmt.Errorf("agent returned empty output")
	}

	var resp Response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("agent output is not valid JSON: %w", err)
	}
	return &resp, nil
}

// DecodeExtraction decodes the output of a betslip extraction task. A
// successful extraction must carry at least one selection.
func DecodeExtraction(raw string) ([]SelectionPayload, error) {
	resp, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("extraction failed: %s", errorOrUnknown(resp.Error))
	}
	if len(resp.Selections) == 0 {
		return nil, fmt.Errorf("extraction succeeded but returned no selections")
	}
	return resp.Selections, nil
}

// DecodeGames decodes the output of a candidate-games listing task. An
// empty games list is a legitimate answer (nothing offered), not an error.
func DecodeGames(raw string) ([]models.CandidateGame, error) {
	resp, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("game listing failed: %s", errorOrUnknown(resp.Error))
	}
	return resp.Games, nil
}

// CreationResult is the decoded outcome of a betslip creation task. The
// agent may drop selections it could not place; those arrive in Skipped.
type CreationResult struct {
	BetslipCode string
	Created     []SelectionPayload
	Skipped     []SelectionPayload
}

// DecodeCreation decodes the output of a betslip creation task. A
// successful creation must carry the new betslip code.
func DecodeCreation(raw string) (CreationResult, error) {
	resp, err := Decode(raw)
	if err != nil {
		return CreationResult{}, err
	}
	if !resp.Success {
		return CreationResult{}, fmt.Errorf("betslip creation failed: %s", errorOrUnknown(resp.Error))
	}
	code := strings.TrimSpace(resp.BetslipCode)
	if code == "" {
		return CreationResult{}, fmt.Errorf("betslip creation succeeded but returned no betslip code")
	}
	return CreationResult{
		BetslipCode: code,
		Created:     resp.Created,
		Skipped:     resp.Skipped,
	}, nil
}

func errorOrUnknown(msg string) string {
	if msg == "" {
		return "unknown agent error"
	}
	return msg
}
