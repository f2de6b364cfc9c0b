package bookmakers

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Config is the static per-bookmaker configuration: URLs, DOM selectors
// and the textual dictionaries used for cross-bookmaker matching.
type Config struct {
	ID                 string
	Name               string
	BaseURL            string
	MirrorURL          string
	BetslipURLPattern  string
	BettingURL         string
	DOMSelectors       map[string]string
	MarketMappings     map[string]string
	TeamNormalizations map[string]string
	Supported          bool
}

// Adapter exposes one bookmaker's configuration plus the normalization and
// mapping rules built on top of it. Adapters are stateless apart from the
// cached mirror resolution and safe for concurrent use.
type Adapter struct {
	cfg Config

	mirrorOnce   sync.Once
	resolvedBase string
}

// Get returns the adapter for a bookmaker identifier. An unknown or
// unsupported identifier is a configuration error.
func Get(id string) (*Adapter, error) {
	a, ok := registry[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown bookmaker %q (supported: %s)", id, strings.Join(SupportedIDs(), ", "))
	}
	if !a.cfg.Supported {
		return nil, fmt.Errorf("bookmaker %q is not currently supported", id)
	}
	return a, nil
}

// SetMirrorURL points a bookmaker at a stable mirror link. Must be called
// before the first ResolveBaseURL for the bookmaker; later calls have no
// effect on the cached resolution.
func SetMirrorURL(id, mirrorURL string) error {
	a, err := Get(id)
	if err != nil {
		return err
	}
	a.cfg.MirrorURL = mirrorURL
	return nil
}

// SupportedIDs lists the identifiers of all supported bookmakers.
func SupportedIDs() []string {
	ids := make([]string, 0, len(registry))
	for id, a := range registry {
		if a.cfg.Supported {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *Adapter) ID() string   { return a.cfg.ID }
func (a *Adapter) Name() string { return a.cfg.Name }

// BettingURL returns the main sports page used for slip creation.
func (a *Adapter) BettingURL() string { return a.cfg.BettingURL }

// BetslipURL builds the URL for loading a specific betslip code.
func (a *Adapter) BetslipURL(code string) string {
	return strings.ReplaceAll(a.cfg.BetslipURLPattern, "{code}", code)
}

// DOMSelectors returns a copy of the CSS selector table for this bookmaker.
func (a *Adapter) DOMSelectors() map[string]string {
	out := make(map[string]string, len(a.cfg.DOMSelectors))
	for k, v := range a.cfg.DOMSelectors {
		out[k] = v
	}
	return out
}

// commonNormalizations are applied to every team name after the
// bookmaker-specific substitutions.
var commonNormalizations = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)\bF\.?C\.?\b`), ""},
	{regexp.MustCompile(`(?i)\bUnited\b`), "Utd"},
	{regexp.MustCompile(`(?i)\bAthletics?\b`), "Ath"},
	{regexp.MustCompile(`(?i)\bReal\b`), "R."},
	{regexp.MustCompile(`(?i)\bClub\b`), "C."},
	{regexp.MustCompile(`(?i)\bSporting\b`), "Sport"},
	{regexp.MustCompile(`(?i)\bInternacional\b`), "Int"},
	{regexp.MustCompile(`(?i)\bManchester\b`), "Man"},
	{regexp.MustCompile(`(?i)\bLiverpool\b`), "Pool"},
}

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeName normalizes a team or game name using the bookmaker's own
// substitutions followed by the shared rules, so the same fixture converges
// to the same spelling regardless of which side listed it.
func (a *Adapter) NormalizeName(name string) string {
	normalized := strings.TrimSpace(name)
	for original, replacement := range a.cfg.TeamNormalizations {
		normalized = strings.ReplaceAll(normalized, original, replacement)
	}
	for _, n := range commonNormalizations {
		normalized = n.pattern.ReplaceAllString(normalized, n.repl)
	}
	normalized = nonWordChars.ReplaceAllString(normalized, "")
	normalized = spaceRun.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// commonMarketMappings fold widely used market aliases onto a standard name.
var commonMarketMappings = map[string][]string{
	"match result":        {"1x2", "full time result", "winner", "match winner"},
	"total goals":         {"goals over/under", "total goals scored"},
	"over/under 2.5":      {"total goals over/under 2.5", "o/u 2.5", "total goals o/u 2.5"},
	"both teams to score": {"btts", "both teams to score - yes", "gg"},
	"double chance":       {"dc", "1x", "12", "x2"},
	"handicap":            {"asian handicap", "ah", "spread"},
	"correct score":       {"exact score", "final score"},
}

// MapMarketName translates a market name into this bookmaker's terms.
// Bookmaker-specific mappings win over the common alias table; a name with
// no mapping passes through unchanged.
func (a *Adapter) MapMarketName(market string) string {
	lower := strings.ToLower(strings.TrimSpace(market))

	if mapped, ok := a.cfg.MarketMappings[lower]; ok {
		return mapped
	}
	for standard, mapped := range a.cfg.MarketMappings {
		if strings.Contains(lower, standard) || strings.Contains(standard, lower) {
			return mapped
		}
	}

	for standard, aliases := range commonMarketMappings {
		if lower == standard || strings.Contains(lower, standard) {
			return standard
		}
		for _, alias := range aliases {
			if lower == alias {
				return standard
			}
		}
	}
	return market
}

// SearchVariations generates the search terms a worker should try when
// looking for a fixture on this bookmaker, most specific first.
func (a *Adapter) SearchVariations(homeTeam, awayTeam string) []string {
	homeNorm := a.NormalizeName(homeTeam)
	awayNorm := a.NormalizeName(awayTeam)

	variations := []string{
		homeTeam + " vs " + awayTeam,
		awayTeam + " vs " + homeTeam,
		homeTeam + " " + awayTeam,
		homeNorm + " vs " + awayNorm,
		homeNorm + " " + awayNorm,
		homeTeam,
		awayTeam,
		homeNorm,
		awayNorm,
	}

	seen := make(map[string]struct{}, len(variations))
	unique := variations[:0]
	for _, v := range variations {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// teamSeparators in order of preference when splitting a game name.
var teamSeparators = []string{" vs ", " v ", " - ", " x "}

// ExtractTeams splits a "Home vs Away" style game name into its team names.
func ExtractTeams(gameName string) (home, away string, ok bool) {
	gameName = strings.TrimSpace(gameName)
	for _, sep := range teamSeparators {
		parts := strings.SplitN(gameName, sep, 2)
		if len(parts) != 2 {
			continue
		}
		home = strings.TrimSpace(parts[0])
		away = strings.TrimSpace(parts[1])
		if home != "" && away != "" {
			return home, away, true
		}
	}
	return "", "", false
}
