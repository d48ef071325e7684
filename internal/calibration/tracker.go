// Package calibration records predictions, reconciles them against
// outcomes, and computes the aggregate metrics that feed source
// re-weighting. Weight changes are surfaced as recommendation strings,
// never auto-applied.
package calibration

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Flat -110 pricing: a spread win pays 100/110 units per unit staked
const winUnitsPerBet = 100.0 / 110.0

// Source-score cutoffs for the weight recommendations
const (
	increaseWeightWinRate = 0.55
	decreaseWeightWinRate = 0.45
	minSourceSamples      = 5
)

// Tracker is the calibration and feedback loop
type Tracker struct {
	store RecordStore
}

// NewTracker creates a tracker over a record store
func NewTracker(store RecordStore) *Tracker {
	return &Tracker{
		store: store,
	}
}

// RecordPrediction upserts the prediction row for a game. Idempotent:
// re-predicting the same game replaces the row and the second call's
// values win.
func (t *Tracker) RecordPrediction(ctx context.Context, record models.CalibrationRecord) error {
	if record.GameID == "" {
		return fmt.Errorf("calibration prediction missing game id")
	}
	if record.PredictedAt.IsZero() {
		record.PredictedAt = time.Now().UTC()
	}

	if err := t.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to record prediction for %s: %w", record.GameID, err)
	}

	return nil
}

// RecordOutcome fills the outcome half of a prediction row. A missing
// prediction logs a warning and is a no-op: an outcome must never exist
// before its prediction.
func (t *Tracker) RecordOutcome(ctx context.Context, gameID string, result models.BetResult, actualMargin, closingLine float64) error {
	updated, err := t.store.SetOutcome(ctx, gameID, result, actualMargin, closingLine, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", gameID, err)
	}

	if !updated {
		fmt.Printf("⚠️  [Calibration] No prediction on record for game %s, outcome dropped\n", gameID)
		return nil
	}

	return nil
}

// Report computes metrics on demand for a league, optionally restricted to
// the last windowWeeks weeks. Nothing is cached beyond the query.
func (t *Tracker) Report(ctx context.Context, league string, windowWeeks int) (*models.CalibrationReport, error) {
	since := time.Time{}
	if windowWeeks > 0 {
		since = time.Now().UTC().AddDate(0, 0, -7*windowWeeks)
	}

	records, err := t.store.List(ctx, league, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration records: %w", err)
	}

	report := &models.CalibrationReport{
		League:       league,
		WindowWeeks:  windowWeeks,
		SampleSize:   len(records),
		SourceScores: make(map[string]models.SourceScore),
	}

	var squaredErr, totalUnits, efactorTotal float64
	var efactorCount int
	sourceWins := make(map[string]int)
	sourceDecided := make(map[string]int)
	sourceSamples := make(map[string]int)

	for _, record := range records {
		if hasSource(record.Sources, string(models.CategoryNews)) {
			efactorTotal += record.AdjustmentTotal
			efactorCount++
		}

		if !record.HasOutcome() {
			continue
		}

		report.GradedSize++
		diff := record.PredictedEdgePct - math.Abs(*record.ActualMargin)
		squaredErr += diff * diff

		key := sourceKey(record.Sources)
		sourceSamples[key]++

		switch *record.Result {
		case models.ResultWin:
			report.ATSWins++
			totalUnits += winUnitsPerBet
			sourceWins[key]++
			sourceDecided[key]++
		case models.ResultLoss:
			report.ATSLosses++
			totalUnits -= 1.0
			sourceDecided[key]++
		case models.ResultPush:
			report.ATSPushes++
		}
	}

	if report.GradedSize > 0 {
		report.EdgeRMSE = math.Sqrt(squaredErr / float64(report.GradedSize))
		report.ROIPerBetPct = totalUnits / float64(report.GradedSize) * 100
	}

	decided := report.ATSWins + report.ATSLosses
	if decided > 0 {
		report.ATSWinRate = float64(report.ATSWins) / float64(decided)
	}

	if efactorCount > 0 {
		report.EFactorImpactAvg = efactorTotal / float64(efactorCount)
	}

	for key, samples := range sourceSamples {
		winRate := 0.0
		if sourceDecided[key] > 0 {
			winRate = float64(sourceWins[key]) / float64(sourceDecided[key])
		}
		report.SourceScores[key] = models.SourceScore{
			Samples: samples,
			WinRate: winRate,
		}
	}

	report.Recommendations = buildRecommendations(report)
	return report, nil
}

// buildRecommendations surfaces weight changes as strings for the caller
// to act on
func buildRecommendations(report *models.CalibrationReport) []string {
	recommendations := []string{}

	// Deterministic ordering for the report document
	keys := make([]string, 0, len(report.SourceScores))
	for key := range report.SourceScores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		score := report.SourceScores[key]
		if score.Samples < minSourceSamples {
			continue
		}

		if score.WinRate >= increaseWeightWinRate {
			recommendations = append(recommendations,
				fmt.Sprintf("increase weight for sources [%s]: %.0f%% win rate over %d bets", key, score.WinRate*100, score.Samples))
		} else if score.WinRate <= decreaseWeightWinRate {
			recommendations = append(recommendations,
				fmt.Sprintf("decrease weight for sources [%s]: %.0f%% win rate over %d bets", key, score.WinRate*100, score.Samples))
		}
	}

	if report.ATSWins+report.ATSLosses >= minSourceSamples && report.ATSWinRate < 0.5 {
		recommendations = append(recommendations,
			fmt.Sprintf("model below break-even at %.0f%% ATS: review factor tables before increasing stakes", report.ATSWinRate*100))
	}

	return recommendations
}

func sourceKey(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	sorted := make([]string, len(sources))
	copy(sorted, sources)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

func hasSource(sources []string, want string) bool {
	for _, s := range sources {
		if s == want {
			return true
		}
	}
	return false
}
