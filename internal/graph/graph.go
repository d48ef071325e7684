// Package graph is the durable relationship layer tying teams, games,
// rating snapshots, evaluations, recommendations, and outcomes together
// for historical querying. Entity tables are authoritative; every index is
// derived and rebuilt on load.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Graph is the in-memory knowledge graph
type Graph struct {
	mu sync.RWMutex

	// Entity tables (authoritative)
	teams           map[string]models.Team
	games           map[string]models.Game
	evaluations     map[string]models.MatchupEvaluation
	recommendations map[string]models.BetRecommendation
	outcomes        map[string]models.Outcome               // keyed by recommendation id
	ratingTimeline  map[string][]models.PowerRatingSnapshot // keyed sport:team, chronological

	// Derived indexes
	gamesByTeam           map[string][]string
	gamesByTeamSeason     map[string][]string
	gamesByTeamSeasonWeek map[string][]string
	evalsByGame           map[string][]string
	recsByGame            map[string][]string
}

// New creates an empty knowledge graph
func New() *Graph {
	g := &Graph{}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.teams = make(map[string]models.Team)
	g.games = make(map[string]models.Game)
	g.evaluations = make(map[string]models.MatchupEvaluation)
	g.recommendations = make(map[string]models.BetRecommendation)
	g.outcomes = make(map[string]models.Outcome)
	g.ratingTimeline = make(map[string][]models.PowerRatingSnapshot)

	g.gamesByTeam = make(map[string][]string)
	g.gamesByTeamSeason = make(map[string][]string)
	g.gamesByTeamSeasonWeek = make(map[string][]string)
	g.evalsByGame = make(map[string][]string)
	g.recsByGame = make(map[string][]string)
}

// AddTeam stores or replaces a team entity
func (g *Graph) AddTeam(team models.Team) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teams[team.TeamID] = team
}

// AddGame stores a game and indexes it for both participants
func (g *Graph) AddGame(game models.Game) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.games[game.GameID]; exists {
		g.games[game.GameID] = game
		return
	}

	g.games[game.GameID] = game
	g.indexGame(game)
}

// AddRatingSnapshot appends a rating point to the team's timeline
func (g *Graph) AddRatingSnapshot(snap models.PowerRatingSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := timelineKey(snap.TeamID, snap.SportKey)
	g.ratingTimeline[key] = append(g.ratingTimeline[key], snap)
}

// AddEvaluation links an evaluation to its game. A game accumulates one
// evaluation per pass as lines move.
func (g *Graph) AddEvaluation(eval models.MatchupEvaluation) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evaluations[eval.EvaluationID] = eval
	g.evalsByGame[eval.GameID] = append(g.evalsByGame[eval.GameID], eval.EvaluationID)
}

// AddRecommendation links a recommendation to its game
func (g *Graph) AddRecommendation(rec models.BetRecommendation) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.recommendations[rec.RecommendationID] = rec
	g.recsByGame[rec.GameID] = append(g.recsByGame[rec.GameID], rec.RecommendationID)
}

// SupersedeOpenRecommendations retires every ungraded recommendation on a
// game so a re-evaluation pass replaces rather than duplicates. Returns the
// number of recommendations retired.
func (g *Graph) SupersedeOpenRecommendations(gameID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	retired := 0
	for _, id := range g.recsByGame[gameID] {
		rec := g.recommendations[id]
		if rec.Superseded {
			continue
		}
		if _, graded := g.outcomes[id]; graded {
			continue
		}

		rec.Superseded = true
		g.recommendations[id] = rec
		retired++
	}
	return retired
}

// AddOutcome records the graded result against exactly one recommendation
func (g *Graph) AddOutcome(outcome models.Outcome) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.recommendations[outcome.RecommendationID]; !ok {
		return fmt.Errorf("outcome references unknown recommendation %s", outcome.RecommendationID)
	}

	g.outcomes[outcome.RecommendationID] = outcome
	return nil
}

// Team looks up a team by id
func (g *Graph) Team(teamID string) (models.Team, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	team, ok := g.teams[teamID]
	return team, ok
}

// Game looks up a game by id
func (g *Graph) Game(gameID string) (models.Game, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	game, ok := g.games[gameID]
	return game, ok
}

// GamesForTeam returns a team's games via the season/week indexes.
// week <= 0 returns the whole season; season <= 0 returns everything.
func (g *Graph) GamesForTeam(teamID string, season, week int) []models.Game {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ids []string
	switch {
	case season > 0 && week > 0:
		ids = g.gamesByTeamSeasonWeek[teamSeasonWeekKey(teamID, season, week)]
	case season > 0:
		ids = g.gamesByTeamSeason[teamSeasonKey(teamID, season)]
	default:
		ids = g.gamesByTeam[teamID]
	}

	games := make([]models.Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, g.games[id])
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].KickoffTime.Before(games[j].KickoffTime)
	})
	return games
}

// RatingAsOf returns the latest rating snapshot for a team at or before ts
func (g *Graph) RatingAsOf(teamID, sportKey string, ts time.Time) (models.PowerRatingSnapshot, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	timeline := g.ratingTimeline[timelineKey(teamID, sportKey)]
	for i := len(timeline) - 1; i >= 0; i-- {
		if !timeline[i].LastUpdated.After(ts) {
			return timeline[i], true
		}
	}
	return models.PowerRatingSnapshot{}, false
}

// LatestRating returns the most recent rating snapshot for a team
func (g *Graph) LatestRating(teamID, sportKey string) (models.PowerRatingSnapshot, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	timeline := g.ratingTimeline[timelineKey(teamID, sportKey)]
	if len(timeline) == 0 {
		return models.PowerRatingSnapshot{}, false
	}
	return timeline[len(timeline)-1], true
}

// EvaluationsForGame returns every evaluation linked to a game,
// oldest first
func (g *Graph) EvaluationsForGame(gameID string) []models.MatchupEvaluation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.evaluationsForGameLocked(gameID)
}

func (g *Graph) evaluationsForGameLocked(gameID string) []models.MatchupEvaluation {
	ids := g.evalsByGame[gameID]
	evals := make([]models.MatchupEvaluation, 0, len(ids))
	for _, id := range ids {
		evals = append(evals, g.evaluations[id])
	}

	sort.Slice(evals, func(i, j int) bool {
		return evals[i].EvaluatedAt.Before(evals[j].EvaluatedAt)
	})
	return evals
}

// RecommendationsForGame returns every recommendation linked to a game,
// oldest first
func (g *Graph) RecommendationsForGame(gameID string) []models.BetRecommendation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := g.recsByGame[gameID]
	recs := make([]models.BetRecommendation, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, g.recommendations[id])
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs
}

// Outcome returns the graded outcome for a recommendation, if any
func (g *Graph) Outcome(recommendationID string) (models.Outcome, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	outcome, ok := g.outcomes[recommendationID]
	return outcome, ok
}

func (g *Graph) indexGame(game models.Game) {
	for _, teamID := range []string{game.HomeTeamID, game.AwayTeamID} {
		g.gamesByTeam[teamID] = append(g.gamesByTeam[teamID], game.GameID)
		g.gamesByTeamSeason[teamSeasonKey(teamID, game.Season)] = append(
			g.gamesByTeamSeason[teamSeasonKey(teamID, game.Season)], game.GameID)
		g.gamesByTeamSeasonWeek[teamSeasonWeekKey(teamID, game.Season, game.Week)] = append(
			g.gamesByTeamSeasonWeek[teamSeasonWeekKey(teamID, game.Season, game.Week)], game.GameID)
	}
}

func timelineKey(teamID, sportKey string) string {
	return fmt.Sprintf("%s:%s", sportKey, teamID)
}

func teamSeasonKey(teamID string, season int) string {
	return fmt.Sprintf("%s|%d", teamID, season)
}

func teamSeasonWeekKey(teamID string, season, week int) string {
	return fmt.Sprintf("%s|%d|%d", teamID, season, week)
}
