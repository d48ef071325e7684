// Package engine orchestrates the weekly handicapping loop: evaluate
// matchups against market lines, persist the audit trail, update power
// ratings from finals, and grade open recommendations.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/adjust"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/calibration"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/edge"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/graph"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/ratings"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/registry"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Flat -110 pricing: a spread win pays 100/110 units per unit staked
const winUnitsPerBet = 100.0 / 110.0

// MatchupInput bundles everything one evaluation pass needs for one game
type MatchupInput struct {
	Game   models.Game
	Market models.MarketLine
	Adjust adjust.Input
	Sharp  *models.SharpSignal
}

// GameFinal is a completed game as reported by the results feed.
// ClosingSpread uses the market convention (negative favors home).
type GameFinal struct {
	GameID         string  `json:"game_id"`
	HomeScore      float64 `json:"home_score"`
	AwayScore      float64 `json:"away_score"`
	ClosingSpread  float64 `json:"closing_spread"`
	HomeInjuryDiff float64 `json:"home_injury_diff"`
	AwayInjuryDiff float64 `json:"away_injury_diff"`
}

// Engine wires the rating store, adjustment scoring, edge calculation,
// knowledge graph, and calibration loop together
type Engine struct {
	registry  *registry.Registry
	store     *ratings.Store
	graph     *graph.Graph
	tracker   *calibration.Tracker
	publisher *publisher.StreamPublisher // optional
	mirror    *ratings.RedisMirror       // optional

	mu          sync.Mutex
	calculators map[string]*edge.Calculator
	pending     map[string]MatchupInput // game id -> last inputs, for line moves
}

// NewEngine creates a new handicapping engine. publisher and mirror may be
// nil; both are best-effort collaborator surfaces, never load-bearing.
func NewEngine(
	reg *registry.Registry,
	store *ratings.Store,
	g *graph.Graph,
	tracker *calibration.Tracker,
	pub *publisher.StreamPublisher,
	mirror *ratings.RedisMirror,
) *Engine {
	return &Engine{
		registry:    reg,
		store:       store,
		graph:       g,
		tracker:     tracker,
		publisher:   pub,
		mirror:      mirror,
		calculators: make(map[string]*edge.Calculator),
		pending:     make(map[string]MatchupInput),
	}
}

// EvaluateWeek runs one evaluation pass over a batch of matchups.
// An unknown team fails that game only; the rest of the batch proceeds.
func (e *Engine) EvaluateWeek(ctx context.Context, sportKey string, matchups []MatchupInput) (evaluated, skipped int, err error) {
	if _, ok := e.registry.Get(sportKey); !ok {
		return 0, 0, fmt.Errorf("sport not registered: %s", sportKey)
	}

	fmt.Printf("✓ [Engine] Evaluating %d matchups for %s\n", len(matchups), sportKey)

	for _, matchup := range matchups {
		if _, _, evalErr := e.EvaluateMatchup(ctx, matchup); evalErr != nil {
			if models.IsUnknownTeam(evalErr) {
				fmt.Printf("⚠️  [Engine] Skipping game %s: %v\n", matchup.Game.GameID, evalErr)
				skipped++
				continue
			}
			return evaluated, skipped, evalErr
		}
		evaluated++
	}

	fmt.Printf("✓ [Engine] Batch complete: %d evaluated, %d skipped\n", evaluated, skipped)
	return evaluated, skipped, nil
}

// EvaluateMatchup evaluates a single game against its market line. The
// evaluation is recorded in the graph and calibration store even when no
// bet results; the recommendation is nil below threshold.
func (e *Engine) EvaluateMatchup(ctx context.Context, in MatchupInput) (models.MatchupEvaluation, *models.BetRecommendation, error) {
	game := in.Game

	profile, ok := e.registry.Get(game.SportKey)
	if !ok {
		return models.MatchupEvaluation{}, nil, fmt.Errorf("sport not registered: %s", game.SportKey)
	}

	homeTeam, ok := profile.TeamByID(game.HomeTeamID)
	if !ok {
		return models.MatchupEvaluation{}, nil, &models.UnknownTeamError{TeamID: game.HomeTeamID, SportKey: game.SportKey}
	}
	awayTeam, ok := profile.TeamByID(game.AwayTeamID)
	if !ok {
		return models.MatchupEvaluation{}, nil, &models.UnknownTeamError{TeamID: game.AwayTeamID, SportKey: game.SportKey}
	}

	adjustment := adjust.Evaluate(in.Adjust)
	injuryDiff := adjustment.HomeInjury.Impact - adjustment.AwayInjury.Impact

	// Our line, market convention: negate the predicted home margin
	predictedMargin := e.store.PredictedSpread(
		game.AwayTeamID, game.HomeTeamID, game.SportKey,
		profile.HomeFieldAdvantage(), injuryDiff)
	ourLine := -predictedMargin

	eval := e.calculatorFor(game.SportKey, profile).Evaluate(edge.EvaluationInput{
		Game:       game,
		OurLine:    ourLine,
		Market:     in.Market,
		HomeRating: e.store.GetRating(game.HomeTeamID, game.SportKey),
		AwayRating: e.store.GetRating(game.AwayTeamID, game.SportKey),
		Adjustment: adjustment,
		Sharp:      in.Sharp,
	})

	e.graph.AddTeam(homeTeam)
	e.graph.AddTeam(awayTeam)
	e.graph.AddGame(game)
	e.graph.AddEvaluation(eval)

	// A re-run before kickoff replaces the game's open recommendation;
	// the retired one stays in the graph for the audit trail only
	if retired := e.graph.SupersedeOpenRecommendations(game.GameID); retired > 0 {
		fmt.Printf("✓ [Engine] Superseded %d open recommendation(s) for %s\n", retired, game.GameID)
	}

	rec := e.calculatorFor(game.SportKey, profile).Recommend(eval)
	if rec != nil {
		e.graph.AddRecommendation(*rec)
		fmt.Printf("✓ [Engine] %s: %s\n", game.GameID, rec.Rationale)
	}

	if err := e.tracker.RecordPrediction(ctx, models.CalibrationRecord{
		GameID:           game.GameID,
		League:           game.SportKey,
		PredictedEdgePct: eval.EdgePct,
		AdjustmentTotal:  adjustment.SpreadPoints,
		Sources:          adjustment.Sources(),
		SharpAlignment:   eval.SharpAlignment,
		Confidence:       eval.Confidence,
		PredictedAt:      eval.EvaluatedAt,
	}); err != nil {
		return eval, rec, err
	}

	e.publish(ctx, eval, rec)

	e.mu.Lock()
	e.pending[game.GameID] = in
	e.mu.Unlock()

	return eval, rec, nil
}

// ProcessFinal applies one completed game: both ratings update, open
// recommendations grade, and the calibration row closes. A failed rating
// save is fatal; everything downstream of storage is best-effort.
func (e *Engine) ProcessFinal(ctx context.Context, final GameFinal) error {
	game, ok := e.graph.Game(final.GameID)
	if !ok {
		return fmt.Errorf("final for unknown game %s", final.GameID)
	}

	profile, ok := e.registry.Get(game.SportKey)
	if !ok {
		return fmt.Errorf("sport not registered: %s", game.SportKey)
	}

	actualMargin := final.HomeScore - final.AwayScore
	hfa := profile.HomeFieldAdvantage()

	results := []models.GameResult{
		{
			GameID:             game.GameID,
			TeamID:             game.HomeTeamID,
			SportKey:           game.SportKey,
			OpponentID:         game.AwayTeamID,
			ScoreDiff:          actualMargin,
			InjuryDifferential: final.HomeInjuryDiff,
			WasHome:            true,
		},
		{
			GameID:             game.GameID,
			TeamID:             game.AwayTeamID,
			SportKey:           game.SportKey,
			OpponentID:         game.HomeTeamID,
			ScoreDiff:          -actualMargin,
			InjuryDifferential: final.AwayInjuryDiff,
			WasHome:            false,
		},
	}

	snaps := make([]models.PowerRatingSnapshot, 0, len(results))
	for _, result := range results {
		snap, err := e.store.Update(result, hfa)
		if err != nil {
			return fmt.Errorf("rating update failed for %s: %w", result.TeamID, err)
		}
		e.graph.AddRatingSnapshot(snap)
		snaps = append(snaps, snap)
	}

	if err := e.store.Save(); err != nil {
		return fmt.Errorf("rating save failed after %s: %w", final.GameID, err)
	}

	if e.mirror != nil {
		if err := e.mirror.WriteAll(ctx, snaps); err != nil {
			fmt.Printf("⚠️  [Engine] Rating mirror write failed: %v\n", err)
		}
	}

	if err := e.gradeGame(ctx, game, final, actualMargin); err != nil {
		return err
	}

	e.mu.Lock()
	delete(e.pending, game.GameID)
	e.mu.Unlock()

	fmt.Printf("✓ [Engine] Final processed: %s %v-%v (margin %+.0f)\n",
		final.GameID, final.HomeScore, final.AwayScore, actualMargin)
	return nil
}

// gradeGame grades every open recommendation on a game and closes the
// calibration row against the latest evaluation's pick
func (e *Engine) gradeGame(ctx context.Context, game models.Game, final GameFinal, actualMargin float64) error {
	for _, rec := range e.graph.RecommendationsForGame(game.GameID) {
		if rec.Superseded {
			continue
		}
		if _, graded := e.graph.Outcome(rec.RecommendationID); graded {
			continue
		}

		result := gradeSpreadBet(rec.Side, rec.Line, actualMargin)

		outcome := models.Outcome{
			RecommendationID: rec.RecommendationID,
			GameID:           game.GameID,
			Result:           result,
			ActualMargin:     actualMargin,
			ClosingLine:      sideLine(rec.Side, final.ClosingSpread),
			ProfitLoss:       profitUnits(result),
			RecordedAt:       time.Now().UTC(),
		}

		if err := e.graph.AddOutcome(outcome); err != nil {
			return fmt.Errorf("failed to grade recommendation %s: %w", rec.RecommendationID, err)
		}
	}

	// The calibration row exists even for no-bet games; grade it against
	// the latest evaluation's pick at the closing line
	evals := e.graph.EvaluationsForGame(game.GameID)
	if len(evals) == 0 {
		return nil
	}
	latest := evals[len(evals)-1]

	closing := sideLine(latest.Side, final.ClosingSpread)
	result := gradeSpreadBet(latest.Side, closing, actualMargin)

	return e.tracker.RecordOutcome(ctx, game.GameID, result, actualMargin, closing)
}

// LineObserver returns the observer the ingestion layer calls on market
// line moves. A move on a game with pending inputs triggers a fresh
// evaluation pass with the new line.
func (e *Engine) LineObserver(ctx context.Context) contracts.LineObserver {
	return contracts.LineObserverFunc(func(line models.MarketLine) {
		e.mu.Lock()
		in, ok := e.pending[line.GameID]
		e.mu.Unlock()

		if !ok {
			fmt.Printf("⚠️  [Engine] Line move for unevaluated game %s, ignored\n", line.GameID)
			return
		}

		in.Market = line
		if _, _, err := e.EvaluateMatchup(ctx, in); err != nil {
			fmt.Printf("⚠️  [Engine] Re-evaluation failed for %s: %v\n", line.GameID, err)
		}
	})
}

func (e *Engine) calculatorFor(sportKey string, profile contracts.SportProfile) *edge.Calculator {
	e.mu.Lock()
	defer e.mu.Unlock()

	calc, ok := e.calculators[sportKey]
	if !ok {
		calc = edge.NewCalculator(profile)
		e.calculators[sportKey] = calc
	}
	return calc
}

func (e *Engine) publish(ctx context.Context, eval models.MatchupEvaluation, rec *models.BetRecommendation) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.PublishEvaluation(ctx, eval); err != nil {
		fmt.Printf("⚠️  [Engine] Failed to publish evaluation %s: %v\n", eval.EvaluationID, err)
	}
	if rec != nil {
		if err := e.publisher.PublishRecommendation(ctx, *rec); err != nil {
			fmt.Printf("⚠️  [Engine] Failed to publish recommendation %s: %v\n", rec.RecommendationID, err)
		}
	}
}

// gradeSpreadBet settles a spread bet given the line from the bet side's
// perspective and the actual home margin
func gradeSpreadBet(side models.Side, line, actualMargin float64) models.BetResult {
	margin := actualMargin
	if side == models.SideAway {
		margin = -actualMargin
	}

	cover := margin + line
	switch {
	case cover > 0:
		return models.ResultWin
	case cover < 0:
		return models.ResultLoss
	default:
		return models.ResultPush
	}
}

// sideLine converts a home-convention spread into the given side's line
func sideLine(side models.Side, homeSpread float64) float64 {
	if side == models.SideAway {
		return -homeSpread
	}
	return homeSpread
}

func profitUnits(result models.BetResult) float64 {
	switch result {
	case models.ResultWin:
		return winUnitsPerBet
	case models.ResultLoss:
		return -1.0
	default:
		return 0
	}
}
