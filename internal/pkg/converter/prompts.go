package converter

import (
	"fmt"
	"strings"

	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// Task descriptions handed to the automation agent. The agent is a black
// box; the only contract is the JSON shape each prompt asks for, which the
// agent package decodes strictly.

func extractionTask(adapter *bookmakers.Adapter, baseURL, betslipCode string) string {
	return fmt.Sprintf(`You are a web automation agent extracting betting selections from a betslip on %s.

STEPS:
1. Navigate to %s
2. Find the betslip input field or "Load Betslip" functionality
3. Enter the betslip code: %s
4. Submit the form and wait for the betslip to load completely
5. Extract ALL betting selections from the loaded betslip

For each selection extract the game name, home team, away team, betting
market, odds, league and event date/time.

Return JSON with this structure:
{
  "success": true,
  "error": "error message if failed",
  "selections": [
    {
      "game": "Team A vs Team B",
      "home_team": "Team A",
      "away_team": "Team B",
      "market": "Match Result",
      "odds": 2.50,
      "league": "Premier League",
      "event_date": "2024-01-15T15:00:00",
      "original_text": "original text from the page"
    }
  ]
}`, adapter.Name(), baseURL, betslipCode)
}

func candidatesTask(adapter *bookmakers.Adapter, bettingURL string, selections []models.Selection) string {
	var fixtures strings.Builder
	for i, sel := range selections {
		variations := adapter.SearchVariations(sel.HomeTeam, sel.AwayTeam)
		if len(variations) > 3 {
			variations = variations[:3]
		}
		fmt.Fprintf(&fixtures, "%d. %s (search terms to try: %s)\n",
			i+1, sel.GameName(), strings.Join(variations, "; "))
	}

	return fmt.Sprintf(`You are a web automation agent listing available games and markets on %s.

For each of the following fixtures, search on %s and, when the game is
offered, list its markets with current odds:

%s
Return JSON with this structure:
{
  "success": true,
  "error": "error message if failed",
  "games": [
    {
      "home_team": "Team A",
      "away_team": "Team B",
      "markets": [
        {"name": "Match Result", "odds": 2.45}
      ]
    }
  ]
}
List only games you actually found; an empty list is a valid answer.`,
		adapter.Name(), bettingURL, fixtures.String())
}

func creationTask(adapter *bookmakers.Adapter, bettingURL string, selections []models.Selection) string {
	return fmt.Sprintf(`You are a web automation agent creating a new betslip on %s.

Create a betslip with the following %d selections:

%s
STEPS:
1. Navigate to %s
2. For each selection: search for the game by team names, open the game
   page, click the specified market, and add it to the betslip
3. Once all selections are added, generate/save the betslip
4. Extract the betslip code issued for the saved slip

Return JSON with this structure:
{
  "success": true,
  "betslip_code": "extracted betslip code",
  "created_selections": [...],
  "skipped_selections": [...],
  "error": "error message if failed"
}`, adapter.Name(), len(selections), formatSelections(selections), bettingURL)
}

func formatSelections(selections []models.Selection) string {
	var b strings.Builder
	for i, sel := range selections {
		fmt.Fprintf(&b, "%d. %s | market: %s | odds: %.2f | league: %s\n",
			i+1, sel.GameName(), sel.Market, sel.Odds, sel.League)
	}
	return b.String()
}
