package agent

import (
	"strings"
	"testing"
)

func TestDecodeStripsFences(t *testing.T) {
	tests := []string{
		`{"success": true, "betslip_code": "XYZ789"}`,
		"```json\n{\"success\": true, \"betslip_code\": \"XYZ789\"}\n```",
		"```\n{\"success\": true, \"betslip_code\": \"XYZ789\"}\n```",
		"  \n{\"success\": true, \"betslip_code\": \"XYZ789\"}\n  ",
	}
	for _, raw := range tests {
		resp, err := Decode(raw)
		if err != nil {
			t.Errorf("Decode(%q): %v", raw, err)
			continue
		}
		if !resp.Success || resp.BetslipCode != "XYZ789" {
			t.Errorf("Decode(%q) = %+v", raw, resp)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json\n```", "the page did not load", "{broken"} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) did not fail", raw)
		}
	}
}

func TestDecodeExtraction(t *testing.T) {
	raw := `{"success": true, "selections": [
		{"game": "Arsenal vs Chelsea", "home_team": "Arsenal", "away_team": "Chelsea",
		 "market": "Match Result", "odds": 2.1, "league": "Premier League",
		 "event_date": "2030-05-01T15:00:00Z", "original_text": "Arsenal vs Chelsea 2.1"}
	]}`
	selections, err := DecodeExtraction(raw)
	if err != nil {
		t.Fatalf("DecodeExtraction: %v", err)
	}
	if len(selections) != 1 || selections[0].Market != "Match Result" {
		t.Errorf("selections = %+v", selections)
	}

	if _, err := DecodeExtraction(`{"success": false, "error": "code not found"}`); err == nil {
		t.Error("failed extraction did not error")
	} else if !strings.Contains(err.Error(), "code not found") {
		t.Errorf("error %q does not carry the agent message", err)
	}

	if _, err := DecodeExtraction(`{"success": true, "selections": []}`); err == nil {
		t.Error("successful extraction with no selections did not error")
	}
}

func TestDecodeGames(t *testing.T) {
	raw := `{"success": true, "games": [
		{"home_team": "Arsenal", "away_team": "Chelsea",
		 "markets": [{"name": "Match Result", "odds": 2.05}]}
	]}`
	games, err := DecodeGames(raw)
	if err != nil {
		t.Fatalf("DecodeGames: %v", err)
	}
	if len(games) != 1 || games[0].Markets[0].Odds != 2.05 {
		t.Errorf("games = %+v", games)
	}

	// An empty list is a legitimate "nothing offered" answer.
	games, err = DecodeGames(`{"success": true, "games": []}`)
	if err != nil || len(games) != 0 {
		t.Errorf("empty games list = (%v, %v)", games, err)
	}

	if _, err := DecodeGames(`{"success": false}`); err == nil {
		t.Error("failed game listing did not error")
	}
}

func TestDecodeCreation(t *testing.T) {
	creation, err := DecodeCreation(`{"success": true, "betslip_code": " NEW123 "}`)
	if err != nil || creation.BetslipCode != "NEW123" {
		t.Errorf("DecodeCreation = (%+v, %v)", creation, err)
	}

	// The agent reports selections it placed and selections it dropped.
	creation, err = DecodeCreation(`{"success": true, "betslip_code": "NEW123",
		"created_selections": [{"game": "Arsenal vs Chelsea"}],
		"skipped_selections": [{"game": "Chelsea vs Everton"}]}`)
	if err != nil {
		t.Fatalf("DecodeCreation: %v", err)
	}
	if len(creation.Created) != 1 || creation.Created[0].Game != "Arsenal vs Chelsea" {
		t.Errorf("Created = %+v", creation.Created)
	}
	if len(creation.Skipped) != 1 || creation.Skipped[0].Game != "Chelsea vs Everton" {
		t.Errorf("Skipped = %+v", creation.Skipped)
	}

	if _, err := DecodeCreation(`{"success": true, "betslip_code": ""}`); err == nil {
		t.Error("creation without a code did not error")
	}
	if _, err := DecodeCreation(`{"success": false, "error": "login wall"}`); err == nil {
		t.Error("failed creation did not error")
	}
}

func TestToSelection(t *testing.T) {
	base := SelectionPayload{
		Game:         "Arsenal vs Chelsea",
		HomeTeam:     "Arsenal",
		AwayTeam:     "Chelsea",
		Market:       "Match Result",
		Odds:         2.1,
		League:       "Premier League",
		EventDate:    "2030-05-01T15:00:00Z",
		OriginalText: "Arsenal vs Chelsea 2.1",
	}

	sel, err := base.ToSelection()
	if err != nil {
		t.Fatalf("ToSelection: %v", err)
	}
	if sel.GameID != "arsenal|chelsea" {
		t.Errorf("GameID = %q", sel.GameID)
	}

	// Teams fall back to splitting the game name.
	p := base
	p.HomeTeam, p.AwayTeam = "", ""
	sel, err = p.ToSelection()
	if err != nil {
		t.Fatalf("ToSelection without explicit teams: %v", err)
	}
	if sel.HomeTeam != "Arsenal" || sel.AwayTeam != "Chelsea" {
		t.Errorf("split teams = %q/%q", sel.HomeTeam, sel.AwayTeam)
	}

	// Alternative date layouts.
	for _, date := range []string{"2030-05-01T15:04:05", "2030-05-01 15:04", "2030-05-01"} {
		p := base
		p.EventDate = date
		if _, err := p.ToSelection(); err != nil {
			t.Errorf("ToSelection with date %q: %v", date, err)
		}
	}

	p = base
	p.EventDate = "next saturday"
	if _, err := p.ToSelection(); err == nil {
		t.Error("unparseable date did not error")
	}

	p = base
	p.Odds = 0
	if _, err := p.ToSelection(); err == nil {
		t.Error("invalid selection passed validation")
	}
}
