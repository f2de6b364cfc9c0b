package bookmakers

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	for _, id := range []string{"bet9ja", "sportybet", "betway", "bet365"} {
		a, err := Get(id)
		if err != nil {
			t.Errorf("Get(%q): %v", id, err)
			continue
		}
		if a.ID() != id {
			t.Errorf("Get(%q).ID() = %q", id, a.ID())
		}
	}

	// Lookup is tolerant of case and surrounding space.
	if _, err := Get("  Bet9ja "); err != nil {
		t.Errorf("Get with case/space: %v", err)
	}

	if _, err := Get("unknownbookie"); err == nil {
		t.Error("Get(unknownbookie) did not fail")
	} else if !strings.Contains(err.Error(), "supported:") {
		t.Errorf("unknown bookmaker error does not list supported ids: %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	bet9ja, _ := Get("bet9ja")
	sportybet, _ := Get("sportybet")

	tests := []struct {
		adapter *Adapter
		name    string
		want    string
	}{
		// bookmaker dictionary first, then the shared rules
		{bet9ja, "Manchester United", "Man Utd"},
		{bet9ja, "Liverpool FC", "Pool"},
		{bet9ja, "Real Madrid", "R Madrid"},
		{sportybet, "Manchester United", "Man Utd"},
		{sportybet, "Liverpool", "Pool"},
		// shared rules alone
		{sportybet, "Newcastle United", "Newcastle Utd"},
		{sportybet, "  Arsenal F.C. ", "Arsenal"},
	}
	for _, tt := range tests {
		got := tt.adapter.NormalizeName(tt.name)
		if got != tt.want {
			t.Errorf("%s.NormalizeName(%q) = %q, want %q", tt.adapter.ID(), tt.name, got, tt.want)
		}
	}
}

func TestMapMarketName(t *testing.T) {
	bet9ja, _ := Get("bet9ja")
	sportybet, _ := Get("sportybet")

	tests := []struct {
		adapter *Adapter
		market  string
		want    string
	}{
		{bet9ja, "1x2", "1X2"},
		{bet9ja, "Match Result", "1X2"},
		{sportybet, "1x2", "Match Result"},
		{sportybet, "Over/Under 2.5", "Over/Under 2.5"},
		// common alias table catches what the bookmaker table misses
		{sportybet, "btts", "both teams to score"},
		// unmapped names pass through unchanged
		{sportybet, "Scorecast Combo", "Scorecast Combo"},
	}
	for _, tt := range tests {
		got := tt.adapter.MapMarketName(tt.market)
		if got != tt.want {
			t.Errorf("%s.MapMarketName(%q) = %q, want %q", tt.adapter.ID(), tt.market, got, tt.want)
		}
	}
}

func TestBetslipURL(t *testing.T) {
	a, _ := Get("sportybet")
	got := a.BetslipURL("ABC123")
	want := "https://www.sportybet.com/ng/sport/betslip/ABC123"
	if got != want {
		t.Errorf("BetslipURL = %q, want %q", got, want)
	}
}

func TestExtractTeams(t *testing.T) {
	tests := []struct {
		game     string
		wantHome string
		wantAway string
		wantOK   bool
	}{
		{"Arsenal vs Chelsea", "Arsenal", "Chelsea", true},
		{"Arsenal v Chelsea", "Arsenal", "Chelsea", true},
		{"Arsenal - Chelsea", "Arsenal", "Chelsea", true},
		{"Arsenal x Chelsea", "Arsenal", "Chelsea", true},
		{"  Arsenal vs Chelsea  ", "Arsenal", "Chelsea", true},
		{"Arsenal", "", "", false},
		{"vs Chelsea", "", "", false},
	}
	for _, tt := range tests {
		home, away, ok := ExtractTeams(tt.game)
		if home != tt.wantHome || away != tt.wantAway || ok != tt.wantOK {
			t.Errorf("ExtractTeams(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.game, home, away, ok, tt.wantHome, tt.wantAway, tt.wantOK)
		}
	}
}

func TestSearchVariations(t *testing.T) {
	a, _ := Get("sportybet")
	variations := a.SearchVariations("Manchester United", "Liverpool")

	if len(variations) == 0 {
		t.Fatal("no search variations produced")
	}
	if variations[0] != "Manchester United vs Liverpool" {
		t.Errorf("first variation = %q, want the full fixture", variations[0])
	}

	seen := make(map[string]struct{})
	for _, v := range variations {
		if _, dup := seen[v]; dup {
			t.Errorf("duplicate variation %q", v)
		}
		seen[v] = struct{}{}
	}
}

func TestResolveBaseURLWithoutMirror(t *testing.T) {
	a, _ := Get("betway")
	got := a.ResolveBaseURL(context.Background(), time.Second)
	if got != "https://www.betway.com" {
		t.Errorf("ResolveBaseURL = %q", got)
	}
}

func TestDOMSelectorsCopied(t *testing.T) {
	a, _ := Get("bet9ja")
	first := a.DOMSelectors()
	first["betslip_input"] = "mutated"
	second := a.DOMSelectors()
	if second["betslip_input"] == "mutated" {
		t.Error("DOMSelectors returned shared map")
	}
}
