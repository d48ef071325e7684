package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Edge buckets for the performance histogram
var edgeBuckets = []struct {
	label string
	floor float64
	ceil  float64
}{
	{"5.5-8", 5.5, 8.0},
	{"8-11", 8.0, 11.0},
	{"11-15", 11.0, 15.0},
	{"15+", 15.0, math.MaxFloat64},
}

// PerformanceSummary aggregates graded recommendations,
// filterable by season/week
type PerformanceSummary struct {
	Season      int            `json:"season,omitempty"`
	Week        int            `json:"week,omitempty"`
	Wins        int            `json:"wins"`
	Losses      int            `json:"losses"`
	Pushes      int            `json:"pushes"`
	ROIPct      float64        `json:"roi_pct"`
	AvgCLV      float64        `json:"avg_clv"`
	CLVBeatRate float64        `json:"clv_beat_rate"`
	EdgeBuckets map[string]int `json:"edge_buckets"`
}

// SimilarMatchup is one entry in a similarity ranking
type SimilarMatchup struct {
	Game         models.Game `json:"game"`
	MarketSpread float64     `json:"market_spread"`
	Distance     float64     `json:"distance"`
}

// ActiveRecommendations returns recommendations whose evaluation still
// clears the edge threshold, which have not been superseded by a later
// pass, and which have no recorded outcome yet
func (g *Graph) ActiveRecommendations(minEdgePct float64) []models.BetRecommendation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var active []models.BetRecommendation
	for id, rec := range g.recommendations {
		if rec.Superseded {
			continue
		}
		if _, graded := g.outcomes[id]; graded {
			continue
		}

		eval, ok := g.evaluations[rec.EvaluationID]
		if !ok || eval.EdgePct < minEdgePct {
			continue
		}

		active = append(active, rec)
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active
}

// ClosingLineValue computes closing_spread - bet_line for a graded
// recommendation. Positive favors the bettor.
func (g *Graph) ClosingLineValue(recommendationID string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, ok := g.recommendations[recommendationID]
	if !ok {
		return 0, fmt.Errorf("recommendation not found: %s", recommendationID)
	}

	outcome, ok := g.outcomes[recommendationID]
	if !ok {
		return 0, fmt.Errorf("no outcome recorded for recommendation %s", recommendationID)
	}

	return clv(rec, outcome), nil
}

// Performance aggregates graded recommendations. season <= 0 means all
// seasons; week <= 0 means all weeks within the season filter.
func (g *Graph) Performance(season, week int) PerformanceSummary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	summary := PerformanceSummary{
		Season:      season,
		Week:        week,
		EdgeBuckets: make(map[string]int),
	}

	var totalProfit, totalCLV float64
	var clvSamples, clvBeats, graded int

	for id, rec := range g.recommendations {
		if rec.Superseded {
			continue
		}

		game, ok := g.games[rec.GameID]
		if !ok {
			continue
		}
		if season > 0 && game.Season != season {
			continue
		}
		if week > 0 && game.Week != week {
			continue
		}

		if eval, ok := g.evaluations[rec.EvaluationID]; ok {
			for _, bucket := range edgeBuckets {
				if eval.EdgePct >= bucket.floor && eval.EdgePct < bucket.ceil {
					summary.EdgeBuckets[bucket.label]++
					break
				}
			}
		}

		outcome, ok := g.outcomes[id]
		if !ok {
			continue
		}

		graded++
		totalProfit += outcome.ProfitLoss

		value := clv(rec, outcome)
		totalCLV += value
		clvSamples++
		if value > 0 {
			clvBeats++
		}

		switch outcome.Result {
		case models.ResultWin:
			summary.Wins++
		case models.ResultLoss:
			summary.Losses++
		case models.ResultPush:
			summary.Pushes++
		}
	}

	if graded > 0 {
		summary.ROIPct = totalProfit / float64(graded) * 100
	}
	if clvSamples > 0 {
		summary.AvgCLV = totalCLV / float64(clvSamples)
		summary.CLVBeatRate = float64(clvBeats) / float64(clvSamples)
	}

	return summary
}

// SimilarMatchups ranks other games touching either participant of the
// target game by absolute market-spread distance from the target's most
// recent evaluation, ascending
func (g *Graph) SimilarMatchups(gameID string, limit int) ([]SimilarMatchup, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	target, ok := g.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}

	targetEvals := g.evaluationsForGameLocked(gameID)
	if len(targetEvals) == 0 {
		return nil, fmt.Errorf("game %s has no evaluations to compare against", gameID)
	}
	targetSpread := targetEvals[len(targetEvals)-1].MarketSpread

	seen := map[string]bool{gameID: true}
	var similar []SimilarMatchup

	for _, teamID := range []string{target.HomeTeamID, target.AwayTeamID} {
		for _, candidateID := range g.gamesByTeam[teamID] {
			if seen[candidateID] {
				continue
			}
			seen[candidateID] = true

			evals := g.evaluationsForGameLocked(candidateID)
			if len(evals) == 0 {
				continue
			}

			spread := evals[len(evals)-1].MarketSpread
			similar = append(similar, SimilarMatchup{
				Game:         g.games[candidateID],
				MarketSpread: spread,
				Distance:     math.Abs(spread - targetSpread),
			})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		return similar[i].Distance < similar[j].Distance
	})

	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

func clv(rec models.BetRecommendation, outcome models.Outcome) float64 {
	return outcome.ClosingLine - rec.Line
}
