// Package matching decides whether a betting selection from one bookmaker
// has a usable counterpart on another, and how confident that equivalence
// is. It is pure: no I/O, no goroutines, inputs in and a verdict out.
package matching

import (
	"fmt"
	"strings"
	"sync"

	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// Params are the tunable constants of the engine. The defaults come from
// the system this was calibrated against; none of them are known to be
// optimal, which is why they are parameters and not literals.
type Params struct {
	// OddsTolerance is the largest absolute odds difference still
	// considered "the same price".
	OddsTolerance float64
	// GameThreshold is the minimum team-similarity score for a candidate
	// game to count as found.
	GameThreshold float64
	// MarketThreshold is the minimum market-name similarity for a mapped
	// market to count as listed.
	MarketThreshold float64
	// GameWeight, MarketWeight and OddsWeight blend the component scores
	// into the overall confidence.
	GameWeight   float64
	MarketWeight float64
	OddsWeight   float64
}

// DefaultParams returns the standard engine tuning.
func DefaultParams() Params {
	return Params{
		OddsTolerance:   0.05,
		GameThreshold:   0.7,
		MarketThreshold: 0.8,
		GameWeight:      0.4,
		MarketWeight:    0.4,
		OddsWeight:      0.2,
	}
}

// MatchResult is the verdict of matching one selection against a set of
// candidate games. Never mutated after construction.
type MatchResult struct {
	Success        bool
	Confidence     float64
	MatchedGame    string
	MatchedMarket  string
	MatchedOdds    float64
	OriginalOdds   float64
	OddsDifference float64
	TeamsSwapped   bool
	Warnings       []string
}

// Engine matches selections from a source bookmaker against candidates on
// a destination bookmaker. Safe for concurrent use.
type Engine struct {
	params Params
	source *bookmakers.Adapter
	dest   *bookmakers.Adapter
}

// NewEngine builds an engine for one source/destination bookmaker pair.
// Zero-valued params fields fall back to the defaults.
func NewEngine(source, dest *bookmakers.Adapter, params Params) *Engine {
	def := DefaultParams()
	if params.OddsTolerance <= 0 {
		params.OddsTolerance = def.OddsTolerance
	}
	if params.GameThreshold <= 0 {
		params.GameThreshold = def.GameThreshold
	}
	if params.MarketThreshold <= 0 {
		params.MarketThreshold = def.MarketThreshold
	}
	if params.GameWeight <= 0 && params.MarketWeight <= 0 && params.OddsWeight <= 0 {
		params.GameWeight = def.GameWeight
		params.MarketWeight = def.MarketWeight
		params.OddsWeight = def.OddsWeight
	}
	return &Engine{params: params, source: source, dest: dest}
}

// FuzzyMatchTeams scores how well a destination fixture matches a source
// fixture. Both orientations are tried because bookmakers disagree on which
// team is listed first; swapped reports whether the reversed orientation won.
func (e *Engine) FuzzyMatchTeams(sourceHome, sourceAway, destHome, destAway string) (confidence float64, swapped bool) {
	srcHome := e.source.NormalizeName(sourceHome)
	srcAway := e.source.NormalizeName(sourceAway)
	dstHome := e.dest.NormalizeName(destHome)
	dstAway := e.dest.NormalizeName(destAway)

	normalScore := (teamSimilarity(srcHome, dstHome) + teamSimilarity(srcAway, dstAway)) / 2
	swappedScore := (teamSimilarity(srcHome, dstAway) + teamSimilarity(srcAway, dstHome)) / 2

	if normalScore >= swappedScore {
		return normalScore, false
	}
	return swappedScore, true
}

// marketMapping is a cached cross-bookmaker market translation.
type marketMapping struct {
	market     string
	confidence float64
}

// Bookmaker dictionaries are static for the process lifetime, so mappings
// are cached globally by (source, destination, market).
var (
	marketCacheMu sync.RWMutex
	marketCache   = make(map[string]marketMapping)
)

// MapMarket translates a source market name into the destination
// bookmaker's terms and attaches a mapping confidence: 0.9 when a real
// cross-bookmaker mapping occurred, 0.8 when only source-side
// normalization changed the name, 0.6 when it passed through untouched.
func (e *Engine) MapMarket(market string) (string, float64) {
	key := e.source.ID() + "|" + e.dest.ID() + "|" + strings.ToLower(market)

	marketCacheMu.RLock()
	cached, ok := marketCache[key]
	marketCacheMu.RUnlock()
	if ok {
		return cached.market, cached.confidence
	}

	normalized := e.source.MapMarketName(market)
	mapped := e.dest.MapMarketName(normalized)

	confidence := 0.6
	switch {
	case market != mapped:
		confidence = 0.9
	case market != normalized:
		confidence = 0.8
	}

	marketCacheMu.Lock()
	marketCache[key] = marketMapping{market: mapped, confidence: confidence}
	marketCacheMu.Unlock()

	return mapped, confidence
}

// CheckMarketAvailability reports whether the selection's market (after
// cross-bookmaker mapping) is listed for the matched game. It returns the
// listed name to use and the combined market confidence.
func (e *Engine) CheckMarketAvailability(market string, listed []string) (available bool, matched string, confidence float64) {
	mapped, mappingConfidence := e.MapMarket(market)
	if len(listed) == 0 {
		return false, mapped, 0.0
	}

	bestName := ""
	bestScore := 0.0
	for _, name := range listed {
		if strings.EqualFold(mapped, name) {
			return true, name, 1.0
		}
		score := editRatio(strings.ToLower(mapped), strings.ToLower(name))
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestScore >= e.params.MarketThreshold {
		return true, bestName, bestScore * mappingConfidence
	}
	return false, mapped, bestScore * mappingConfidence
}

// CompareOdds reports whether two prices agree within tolerance and their
// absolute difference. A negative tolerance selects the engine default.
// Non-positive odds never agree.
func (e *Engine) CompareOdds(originalOdds, destOdds, tolerance float64) (withinTolerance bool, difference float64) {
	if tolerance < 0 {
		tolerance = e.params.OddsTolerance
	}
	if originalOdds <= 0 || destOdds <= 0 {
		return false, 0
	}
	difference = originalOdds - destOdds
	if difference < 0 {
		difference = -difference
	}
	return difference <= tolerance, difference
}

// bestGame returns the candidate whose teams best match the selection.
func (e *Engine) bestGame(sel models.Selection, games []models.CandidateGame) (best *models.CandidateGame, confidence float64, swapped bool) {
	for i := range games {
		g := &games[i]
		if g.HomeTeam == "" || g.AwayTeam == "" {
			continue
		}
		score, sw := e.FuzzyMatchTeams(sel.HomeTeam, sel.AwayTeam, g.HomeTeam, g.AwayTeam)
		if score > confidence {
			confidence = score
			swapped = sw
			best = g
		}
	}
	return best, confidence, swapped
}

// MatchSelection runs the full pipeline for one selection: find the best
// game, map and verify the market, look up the destination odds, compare
// prices. Out-of-tolerance odds produce a warning but not a rejection; a
// successful result with an odds warning means "convert with caveats".
// A negative tolerance selects the engine default.
func (e *Engine) MatchSelection(sel models.Selection, games []models.CandidateGame, tolerance float64) MatchResult {
	game, gameConfidence, swapped := e.bestGame(sel, games)
	if game == nil || gameConfidence < e.params.GameThreshold {
		return MatchResult{
			Confidence: gameConfidence,
			Warnings:   []string{fmt.Sprintf("Game not found: %s vs %s", sel.HomeTeam, sel.AwayTeam)},
		}
	}

	var warnings []string
	available, matchedMarket, marketConfidence := e.CheckMarketAvailability(sel.Market, game.MarketNames())
	if !available {
		warnings = append(warnings, fmt.Sprintf("Market not available: %s", sel.Market))
		return MatchResult{
			Confidence:   marketConfidence,
			MatchedGame:  game.GameName(),
			TeamsSwapped: swapped,
			Warnings:     warnings,
		}
	}

	matchedOdds := 0.0
	for _, m := range game.Markets {
		if strings.EqualFold(m.Name, matchedMarket) {
			matchedOdds = m.Odds
			break
		}
	}
	if matchedOdds <= 0 {
		warnings = append(warnings, fmt.Sprintf("No valid odds found for market %s", matchedMarket))
		return MatchResult{
			Confidence:    marketConfidence,
			MatchedGame:   game.GameName(),
			MatchedMarket: matchedMarket,
			TeamsSwapped:  swapped,
			Warnings:      warnings,
		}
	}

	withinTolerance, difference := e.CompareOdds(sel.Odds, matchedOdds, tolerance)
	oddsScore := 0.5
	if withinTolerance {
		oddsScore = 1.0
	} else {
		warnings = append(warnings, fmt.Sprintf("Odds difference too large: %.3f (%.2f vs %.2f)", difference, sel.Odds, matchedOdds))
	}

	confidence := gameConfidence*e.params.GameWeight +
		marketConfidence*e.params.MarketWeight +
		oddsScore*e.params.OddsWeight

	return MatchResult{
		Success:        true,
		Confidence:     confidence,
		MatchedGame:    game.GameName(),
		MatchedMarket:  matchedMarket,
		MatchedOdds:    matchedOdds,
		OriginalOdds:   sel.Odds,
		OddsDifference: difference,
		TeamsSwapped:   swapped,
		Warnings:       warnings,
	}
}
