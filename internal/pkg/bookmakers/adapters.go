package bookmakers

// registry holds the built-in bookmaker adapters keyed by identifier.
var registry = map[string]*Adapter{
	"bet9ja":    {cfg: bet9jaConfig},
	"sportybet": {cfg: sportybetConfig},
	"betway":    {cfg: betwayConfig},
	"bet365":    {cfg: bet365Config},
}

var bet9jaConfig = Config{
	ID:                "bet9ja",
	Name:              "Bet9ja",
	BaseURL:           "https://www.bet9ja.com",
	BetslipURLPattern: "https://www.bet9ja.com/betslip/{code}",
	BettingURL:        "https://www.bet9ja.com/sport",
	DOMSelectors: map[string]string{
		"betslip_input":        "input[name='betslip_code'], input[placeholder*='code']",
		"submit_button":        "button[type='submit'], .load-betslip",
		"selections_container": ".betslip-selections, .coupon-items, .slip-content",
		"selection_item":       ".selection, .coupon-item, .slip-item",
		"game_name":            ".match-name, .event-name, .teams",
		"market_name":          ".market, .bet-type, .market-name",
		"odds":                 ".odds, .odd, .odds-value",
		"league":               ".league, .competition",
		"event_date":           ".date, .event-time",
		"search_box":           "input[placeholder*='search'], .search-input",
		"betslip_code_display": ".betslip-code, .share-code, .coupon-id",
	},
	MarketMappings: map[string]string{
		"match result":         "1X2",
		"1x2":                  "1X2",
		"over/under 2.5":       "Over/Under 2.5 Goals",
		"both teams to score":  "Both Teams To Score",
		"double chance":        "Double Chance",
		"handicap":             "Handicap",
		"correct score":        "Correct Score",
		"total goals":          "Total Goals",
		"first half result":    "1st Half Result",
		"half time/full time":  "Half Time/Full Time",
	},
	TeamNormalizations: map[string]string{
		"Manchester United":        "Man United",
		"Manchester City":          "Man City",
		"Tottenham Hotspur":        "Tottenham",
		"Brighton & Hove Albion":   "Brighton",
		"West Ham United":          "West Ham",
		"Newcastle United":         "Newcastle",
		"Wolverhampton Wanderers":  "Wolves",
		"Leicester City":           "Leicester",
		"Crystal Palace":           "C Palace",
		"Sheffield United":         "Sheffield Utd",
		"Real Madrid":              "R Madrid",
		"Atletico Madrid":          "A Madrid",
		"Bayern Munich":            "Bayern",
		"Borussia Dortmund":        "B Dortmund",
		"Paris Saint-Germain":      "PSG",
		"AC Milan":                 "Milan",
		"Inter Milan":              "Inter",
	},
	Supported: true,
}

var sportybetConfig = Config{
	ID:                "sportybet",
	Name:              "SportyBet",
	BaseURL:           "https://www.sportybet.com",
	BetslipURLPattern: "https://www.sportybet.com/ng/sport/betslip/{code}",
	BettingURL:        "https://www.sportybet.com/ng/sport",
	DOMSelectors: map[string]string{
		"betslip_input":        "input[name='shareCode'], input[placeholder*='booking code']",
		"submit_button":        ".load-code-btn, button[type='submit']",
		"selections_container": ".m-betslips, .bet-items",
		"selection_item":       ".m-betslip-item, .bet-item",
		"game_name":            ".m-teams, .event-name",
		"market_name":          ".m-market, .bet-market",
		"odds":                 ".m-odds, .odds-value",
		"league":               ".m-league, .tournament",
		"event_date":           ".m-time, .event-time",
		"search_box":           ".m-search-input, input[placeholder*='Search']",
		"betslip_code_display": ".m-booking-code, .share-code",
	},
	MarketMappings: map[string]string{
		"match result":        "Match Result",
		"1x2":                 "Match Result",
		"over/under 2.5":      "Over/Under 2.5",
		"both teams to score": "GG/NG",
		"double chance":       "Double Chance",
		"handicap":            "Handicap",
		"correct score":       "Correct Score",
		"total goals":         "Total Goals",
	},
	TeamNormalizations: map[string]string{
		"Manchester United":   "Man Utd",
		"Manchester City":     "Man City",
		"Tottenham Hotspur":   "Tottenham",
		"Queens Park Rangers": "QPR",
		"Real Madrid":         "Real Madrid",
		"Paris Saint-Germain": "PSG",
	},
	Supported: true,
}

var betwayConfig = Config{
	ID:                "betway",
	Name:              "Betway",
	BaseURL:           "https://www.betway.com",
	BetslipURLPattern: "https://www.betway.com/betslip/{code}",
	BettingURL:        "https://www.betway.com/sport",
	DOMSelectors: map[string]string{
		"betslip_input":        "input[name='bookingCode'], input[placeholder*='booking']",
		"submit_button":        ".booking-code-submit, button[type='submit']",
		"selections_container": ".betslip-container, .bet-positions",
		"selection_item":       ".betslip-row, .bet-position",
		"game_name":            ".event-title, .fixture-name",
		"market_name":          ".market-title, .outcome-market",
		"odds":                 ".odds-display, .outcome-odds",
		"league":               ".league-title, .competition-name",
		"event_date":           ".event-date, .fixture-time",
		"search_box":           ".search-field, input[placeholder*='Search']",
		"betslip_code_display": ".booking-code, .slip-reference",
	},
	MarketMappings: map[string]string{
		"match result":        "Match Result",
		"1x2":                 "Match Result",
		"over/under 2.5":      "Total Goals Over/Under 2.5",
		"both teams to score": "Both Teams To Score",
		"double chance":       "Double Chance",
		"handicap":            "Handicap",
		"correct score":       "Correct Score",
	},
	TeamNormalizations: map[string]string{
		"Manchester United": "Man Utd",
		"Manchester City":   "Man City",
		"Tottenham Hotspur": "Spurs",
		"Inter Milan":       "Inter",
		"AC Milan":          "AC Milan",
	},
	Supported: true,
}

var bet365Config = Config{
	ID:                "bet365",
	Name:              "Bet365",
	BaseURL:           "https://www.bet365.com",
	BetslipURLPattern: "https://www.bet365.com/betslip/{code}",
	BettingURL:        "https://www.bet365.com/#/AS/",
	DOMSelectors: map[string]string{
		"betslip_input":        "input[placeholder*='code']",
		"submit_button":        "button[type='submit']",
		"selections_container": ".bss-NormalBetItem_Container",
		"selection_item":       ".bss-NormalBetItem",
		"game_name":            ".bss-NormalBetItem_FixtureName",
		"market_name":          ".bss-NormalBetItem_Market",
		"odds":                 ".bss-NormalBetItem_Odds",
		"league":               ".bss-NormalBetItem_League",
		"event_date":           ".bss-NormalBetItem_Date",
		"search_box":           ".sml-SearchInput",
		"betslip_code_display": ".bss-ShareCode",
	},
	MarketMappings: map[string]string{
		"match result":        "Full Time Result",
		"1x2":                 "Full Time Result",
		"over/under 2.5":      "Goals Over/Under 2.5",
		"both teams to score": "Both Teams to Score",
		"double chance":       "Double Chance",
		"handicap":            "Asian Handicap",
		"correct score":       "Correct Score",
	},
	TeamNormalizations: map[string]string{
		"Manchester United":   "Man Utd",
		"Manchester City":     "Man City",
		"Wolverhampton":       "Wolves",
		"Paris Saint-Germain": "PSG",
	},
	Supported: true,
}
