package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// snapshotDoc is the durable form of the graph: entity tables only.
// Indexes are derived and rebuilt on load, never serialized.
type snapshotDoc struct {
	SavedAt         time.Time                    `json:"saved_at"`
	Teams           []models.Team                `json:"teams"`
	Games           []models.Game                `json:"games"`
	Ratings         []models.PowerRatingSnapshot `json:"ratings"`
	Evaluations     []models.MatchupEvaluation   `json:"evaluations"`
	Recommendations []models.BetRecommendation   `json:"recommendations"`
	Outcomes        []models.Outcome             `json:"outcomes"`
}

// Save serializes the whole graph to one JSON document. Write failures
// propagate: losing a snapshot silently would break historical queries.
func (g *Graph) Save(path string) error {
	g.mu.RLock()
	doc := snapshotDoc{
		SavedAt: time.Now().UTC(),
	}

	for _, team := range g.teams {
		doc.Teams = append(doc.Teams, team)
	}
	for _, game := range g.games {
		doc.Games = append(doc.Games, game)
	}
	for _, timeline := range g.ratingTimeline {
		doc.Ratings = append(doc.Ratings, timeline...)
	}
	for _, eval := range g.evaluations {
		doc.Evaluations = append(doc.Evaluations, eval)
	}
	for _, rec := range g.recommendations {
		doc.Recommendations = append(doc.Recommendations, rec)
	}
	for _, outcome := range g.outcomes {
		doc.Outcomes = append(doc.Outcomes, outcome)
	}
	g.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph snapshot %s: %w", path, err)
	}

	return nil
}

// Load replaces the graph's contents from a snapshot document. A missing
// or corrupt snapshot is non-fatal: the graph starts empty with a warning.
func (g *Graph) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("⚠️  No graph snapshot at %s, starting empty\n", path)
			return nil
		}
		fmt.Printf("⚠️  Failed to read graph snapshot %s: %v, starting empty\n", path, err)
		return nil
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Printf("⚠️  Corrupt graph snapshot %s: %v, starting empty\n", path, err)
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.reset()

	for _, team := range doc.Teams {
		g.teams[team.TeamID] = team
	}
	for _, game := range doc.Games {
		g.games[game.GameID] = game
		g.indexGame(game)
	}

	// Rating timelines must come back in chronological order
	sort.Slice(doc.Ratings, func(i, j int) bool {
		return doc.Ratings[i].LastUpdated.Before(doc.Ratings[j].LastUpdated)
	})
	for _, snap := range doc.Ratings {
		key := timelineKey(snap.TeamID, snap.SportKey)
		g.ratingTimeline[key] = append(g.ratingTimeline[key], snap)
	}

	for _, eval := range doc.Evaluations {
		g.evaluations[eval.EvaluationID] = eval
		g.evalsByGame[eval.GameID] = append(g.evalsByGame[eval.GameID], eval.EvaluationID)
	}
	for _, rec := range doc.Recommendations {
		g.recommendations[rec.RecommendationID] = rec
		g.recsByGame[rec.GameID] = append(g.recsByGame[rec.GameID], rec.RecommendationID)
	}
	for _, outcome := range doc.Outcomes {
		g.outcomes[outcome.RecommendationID] = outcome
	}

	fmt.Printf("✓ Graph snapshot loaded: %d teams, %d games, %d evaluations, %d recommendations\n",
		len(g.teams), len(g.games), len(g.evaluations), len(g.recommendations))
	return nil
}
