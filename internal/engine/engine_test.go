package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/calibration"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/graph"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/ratings"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/registry"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/sports/football_nfl"
)

func newTestEngine(t *testing.T) (*Engine, *graph.Graph, *calibration.MemoryStore) {
	t.Helper()

	reg := registry.New()
	reg.Register(football_nfl.NewConfig())

	g := graph.New()
	records := calibration.NewMemoryStore()
	store := ratings.NewStore(t.TempDir())
	tracker := calibration.NewTracker(records)

	return NewEngine(reg, store, g, tracker, nil, nil), g, records
}

func testMatchup(gameID, home, away string, marketSpread float64) MatchupInput {
	return MatchupInput{
		Game: models.Game{
			GameID:      gameID,
			SportKey:    "football_nfl",
			Season:      2025,
			Week:        1,
			HomeTeamID:  home,
			AwayTeamID:  away,
			KickoffTime: time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC),
		},
		Market: models.MarketLine{
			GameID:       gameID,
			MarketSpread: marketSpread,
			BookSource:   "pinnacle",
		},
	}
}

func TestEvaluateMatchupRecordsEverything(t *testing.T) {
	ctx := context.Background()
	eng, g, records := newTestEngine(t)

	// Unrated teams: our line is -HFA = -2.5 against a -4.5 market
	eval, rec, err := eng.EvaluateMatchup(ctx, testMatchup("g1", "KC", "LV", -4.5))
	if err != nil {
		t.Fatalf("EvaluateMatchup() error = %v", err)
	}

	if math.Abs(eval.OurLine-(-2.5)) > 1e-9 {
		t.Errorf("our line = %v, want -2.5", eval.OurLine)
	}
	if eval.Side != models.SideAway {
		t.Errorf("side = %v, want away", eval.Side)
	}
	// base 2.0 + 8% crossing 3
	if math.Abs(eval.EdgePct-10.0) > 1e-9 {
		t.Errorf("edge pct = %v, want 10.0", eval.EdgePct)
	}

	if rec == nil {
		t.Fatal("expected a recommendation at 10% edge")
	}
	if rec.Line != 4.5 {
		t.Errorf("rec line = %v, want +4.5 from the away side", rec.Line)
	}

	if _, ok := g.Game("g1"); !ok {
		t.Error("game missing from graph")
	}
	if evals := g.EvaluationsForGame("g1"); len(evals) != 1 {
		t.Errorf("graph holds %d evaluations, want 1", len(evals))
	}
	if recs := g.RecommendationsForGame("g1"); len(recs) != 1 {
		t.Errorf("graph holds %d recommendations, want 1", len(recs))
	}

	record, err := records.Get(ctx, "g1")
	if err != nil || record == nil {
		t.Fatalf("calibration record missing: %v, %v", record, err)
	}
	if math.Abs(record.PredictedEdgePct-10.0) > 1e-9 {
		t.Errorf("calibration edge = %v, want 10.0", record.PredictedEdgePct)
	}
}

func TestEvaluateWeekIsolatesUnknownTeams(t *testing.T) {
	ctx := context.Background()
	eng, g, _ := newTestEngine(t)

	matchups := []MatchupInput{
		testMatchup("g1", "KC", "LV", -4.5),
		testMatchup("g2", "XXX", "LV", -3.0),
		testMatchup("g3", "BUF", "NYJ", -6.5),
	}

	evaluated, skipped, err := eng.EvaluateWeek(ctx, "football_nfl", matchups)
	if err != nil {
		t.Fatalf("EvaluateWeek() error = %v", err)
	}
	if evaluated != 2 || skipped != 1 {
		t.Errorf("evaluated=%d skipped=%d, want 2/1", evaluated, skipped)
	}
	if _, ok := g.Game("g2"); ok {
		t.Error("skipped game should not enter the graph")
	}
}

func TestEvaluateWeekUnregisteredSport(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	if _, _, err := eng.EvaluateWeek(context.Background(), "curling", nil); err == nil {
		t.Error("EvaluateWeek() for an unregistered sport should error")
	}
}

func TestProcessFinalUpdatesRatingsAndGrades(t *testing.T) {
	ctx := context.Background()
	eng, g, records := newTestEngine(t)

	_, rec, err := eng.EvaluateMatchup(ctx, testMatchup("g1", "KC", "LV", -4.5))
	if err != nil {
		t.Fatalf("EvaluateMatchup() error = %v", err)
	}
	if rec == nil {
		t.Fatal("expected a recommendation")
	}

	err = eng.ProcessFinal(ctx, GameFinal{
		GameID:        "g1",
		HomeScore:     27,
		AwayScore:     17,
		ClosingSpread: -5.0,
	})
	if err != nil {
		t.Fatalf("ProcessFinal() error = %v", err)
	}

	// Home rating: true_perf = 10 + 0 + 0 + 2.5 = 12.5, smoothed to 1.25
	kc, ok := g.LatestRating("KC", "football_nfl")
	if !ok {
		t.Fatal("KC rating snapshot missing from graph")
	}
	if math.Abs(kc.Rating-1.25) > 1e-9 {
		t.Errorf("KC rating = %v, want 1.25", kc.Rating)
	}
	lv, ok := g.LatestRating("LV", "football_nfl")
	if !ok {
		t.Fatal("LV rating snapshot missing from graph")
	}
	if lv.Rating >= 0 {
		t.Errorf("LV rating = %v, want negative after a road loss", lv.Rating)
	}

	// Away +4.5 with a -10 margin is a loss
	outcome, ok := g.Outcome(rec.RecommendationID)
	if !ok {
		t.Fatal("recommendation was not graded")
	}
	if outcome.Result != models.ResultLoss {
		t.Errorf("result = %v, want loss", outcome.Result)
	}
	if math.Abs(outcome.ClosingLine-5.0) > 1e-9 {
		t.Errorf("closing line = %v, want +5.0 from the away side", outcome.ClosingLine)
	}
	if math.Abs(outcome.ProfitLoss-(-1.0)) > 1e-9 {
		t.Errorf("profit = %v, want -1.0", outcome.ProfitLoss)
	}

	record, err := records.Get(ctx, "g1")
	if err != nil || record == nil {
		t.Fatalf("calibration record missing: %v, %v", record, err)
	}
	if !record.HasOutcome() {
		t.Error("calibration record should be graded after the final")
	}
	if *record.Result != models.ResultLoss {
		t.Errorf("calibration result = %v, want loss", *record.Result)
	}
}

func TestProcessFinalUnknownGame(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	err := eng.ProcessFinal(context.Background(), GameFinal{GameID: "ghost", HomeScore: 20, AwayScore: 10})
	if err == nil {
		t.Error("ProcessFinal() for an unseen game should error")
	}
}

func TestLineObserverTriggersReEvaluation(t *testing.T) {
	ctx := context.Background()
	eng, g, _ := newTestEngine(t)

	if _, _, err := eng.EvaluateMatchup(ctx, testMatchup("g1", "KC", "LV", -4.5)); err != nil {
		t.Fatalf("EvaluateMatchup() error = %v", err)
	}

	observer := eng.LineObserver(ctx)
	observer.OnLineUpdate(models.MarketLine{GameID: "g1", MarketSpread: -6.5, BookSource: "pinnacle"})

	evals := g.EvaluationsForGame("g1")
	if len(evals) != 2 {
		t.Fatalf("got %d evaluations after a line move, want 2", len(evals))
	}
	if math.Abs(evals[len(evals)-1].MarketSpread-(-6.5)) > 1e-9 {
		t.Errorf("latest evaluation market = %v, want -6.5", evals[len(evals)-1].MarketSpread)
	}

	// Moves on unknown games are ignored, not fatal
	observer.OnLineUpdate(models.MarketLine{GameID: "ghost", MarketSpread: -1.0})
}

func TestReEvaluationReplacesOpenRecommendation(t *testing.T) {
	ctx := context.Background()
	eng, g, _ := newTestEngine(t)

	_, first, err := eng.EvaluateMatchup(ctx, testMatchup("g1", "KC", "LV", -4.5))
	if err != nil {
		t.Fatalf("EvaluateMatchup() error = %v", err)
	}
	if first == nil {
		t.Fatal("expected a recommendation on the first pass")
	}

	_, second, err := eng.EvaluateMatchup(ctx, testMatchup("g1", "KC", "LV", -4.5))
	if err != nil {
		t.Fatalf("EvaluateMatchup() error = %v", err)
	}
	if second == nil {
		t.Fatal("expected a recommendation on the second pass")
	}

	if recs := g.RecommendationsForGame("g1"); len(recs) != 2 {
		t.Fatalf("graph holds %d recommendations, want the full 2-entry audit trail", len(recs))
	}

	// Only the latest pass stays bettable
	active := g.ActiveRecommendations(5.5)
	if len(active) != 1 {
		t.Fatalf("active = %v, want exactly the latest recommendation", active)
	}
	if active[0].RecommendationID != second.RecommendationID {
		t.Errorf("active rec = %s, want %s", active[0].RecommendationID, second.RecommendationID)
	}

	err = eng.ProcessFinal(ctx, GameFinal{
		GameID:        "g1",
		HomeScore:     27,
		AwayScore:     17,
		ClosingSpread: -5.0,
	})
	if err != nil {
		t.Fatalf("ProcessFinal() error = %v", err)
	}

	if _, graded := g.Outcome(first.RecommendationID); graded {
		t.Error("superseded recommendation should not be graded")
	}
	if _, graded := g.Outcome(second.RecommendationID); !graded {
		t.Error("live recommendation should be graded")
	}

	// One losing bet means exactly one loss, never double-counted
	perf := g.Performance(0, 0)
	if perf.Wins != 0 || perf.Losses != 1 || perf.Pushes != 0 {
		t.Errorf("record = %d-%d-%d, want 0-1-0", perf.Wins, perf.Losses, perf.Pushes)
	}
}

func TestGradeSpreadBet(t *testing.T) {
	tests := []struct {
		name   string
		side   models.Side
		line   float64
		margin float64
		want   models.BetResult
	}{
		{"home favorite covers", models.SideHome, -3.5, 7, models.ResultWin},
		{"home favorite fails to cover", models.SideHome, -3.5, 3, models.ResultLoss},
		{"home dog covers by losing small", models.SideHome, 6.5, -3, models.ResultWin},
		{"away dog covers", models.SideAway, 4.5, 3, models.ResultWin},
		{"away dog blown out", models.SideAway, 4.5, 10, models.ResultLoss},
		{"push lands on the number", models.SideHome, -3.0, 3, models.ResultPush},
		{"away push", models.SideAway, 3.0, 3, models.ResultPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeSpreadBet(tt.side, tt.line, tt.margin); got != tt.want {
				t.Errorf("gradeSpreadBet(%v, %v, %v) = %v, want %v", tt.side, tt.line, tt.margin, got, tt.want)
			}
		})
	}
}
