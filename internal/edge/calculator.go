// Package edge merges power-rating edge, factor adjustments, key-number
// premiums, and sharp-money signals into a bounded stake recommendation.
package edge

import (
	"fmt"
	"math"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/adjust"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
	"github.com/google/uuid"
)

// Stake sizing bounds
const (
	StakePerStar     = 0.01
	MaxStakeFraction = 0.03
)

// Star-rating thresholds on the edge percentage scale. Spread points are
// numerically equated with percentage points before the key-number premium
// is added; the thresholds are calibrated against that exact scale, so it
// is preserved rather than corrected.
var starThresholds = []struct {
	edgePct float64
	stars   float64
}{
	{15.0, 3.0},
	{13.0, 2.5},
	{11.0, 2.0},
	{9.0, 1.5},
	{7.0, 1.0},
	{5.5, 0.5},
}

// Confidence floors and the data-sanity ceiling
const (
	highConfidenceEdgePct   = 12.0
	mediumConfidenceEdgePct = 8.0
	dataSanityEdgePct       = 15.0
	thinBaseEdgePoints      = 1.0
	valueTrapBaseEdgePoints = 3.0
)

// Calculator evaluates matchups for one sport
type Calculator struct {
	profile contracts.SportProfile
}

// NewCalculator creates an edge calculator bound to a sport profile
func NewCalculator(profile contracts.SportProfile) *Calculator {
	return &Calculator{
		profile: profile,
	}
}

// EvaluationInput is everything one evaluation pass needs. Lines use the
// market convention: negative favors the home side.
type EvaluationInput struct {
	Game       models.Game
	OurLine    float64
	Market     models.MarketLine
	HomeRating float64
	AwayRating float64
	Adjustment adjust.Result
	Sharp      *models.SharpSignal
}

// Evaluate runs the full edge pipeline and returns an immutable
// MatchupEvaluation. The evaluation is produced even when the edge is
// below threshold so the audit trail survives.
func (c *Calculator) Evaluate(in EvaluationInput) models.MatchupEvaluation {
	minEdge := c.profile.MinEdgePct()

	// 1. Raw line disagreement, in points
	baseEdgePoints := math.Abs(in.Market.MarketSpread - in.OurLine)

	// Pick the side our line favors relative to the market
	side := models.SideAway
	if in.OurLine < in.Market.MarketSpread {
		side = models.SideHome
	}

	// 2. Key-number premium over the straddled range
	premium, crossed := keyPremium(in.OurLine, in.Market.MarketSpread, c.profile.KeyNumbers())

	// Adjustment points are signed toward home; they help an away pick
	// only when negative
	adjContribution := in.Adjustment.SpreadPoints
	if side == models.SideAway {
		adjContribution = -adjContribution
	}

	edgePoints := baseEdgePoints + adjContribution
	if edgePoints < 0 {
		edgePoints = 0
	}

	// 3. House convention: spread points equate to percentage points,
	// then the key premium lands on the same 0-100 scale
	edgePct := edgePoints + premium*100

	// 4. Sharp-money modifier, scaled by divergence strength
	moderate, strong, veryStrong := c.profile.SharpThresholds()
	alignment, modifier := classifySharp(in.Sharp, side, moderate, strong, veryStrong)
	edgePct *= modifier

	// 5. Star rating
	stars := starRating(edgePct, minEdge)

	// 6. Confidence, then the sharp notch shift
	confidence := baseConfidence(edgePct, minEdge, crossed)
	if confidence != models.ConfidenceNone {
		confidence = shiftConfidence(confidence, alignment)
	}

	// 7. Warnings travel with the evaluation, not the logs
	warnings := buildWarnings(edgePct, baseEdgePoints, minEdge, alignment)
	warnings = append(warnings, in.Adjustment.Notes...)

	return models.MatchupEvaluation{
		EvaluationID:          uuid.NewString(),
		GameID:                in.Game.GameID,
		SportKey:              in.Game.SportKey,
		HomeRating:            in.HomeRating,
		AwayRating:            in.AwayRating,
		OurLine:               in.OurLine,
		MarketSpread:          in.Market.MarketSpread,
		Side:                  side,
		Factors:               in.Adjustment.Factors,
		TotalAdjustmentPoints: in.Adjustment.SpreadPoints,
		BaseEdgePoints:        baseEdgePoints,
		EdgePoints:            edgePoints,
		EdgePct:               edgePct,
		StarRating:            stars,
		CrossedKeyNumbers:     crossed,
		SharpAlignment:        alignment,
		Confidence:            confidence,
		Warnings:              warnings,
		EvaluatedAt:           time.Now().UTC(),
	}
}

// Recommend turns a playable evaluation into a BetRecommendation.
// Below-threshold evaluations return nil: that is a normal terminal state,
// not an error.
func (c *Calculator) Recommend(eval models.MatchupEvaluation) *models.BetRecommendation {
	stake := math.Min(eval.StarRating*StakePerStar, MaxStakeFraction)
	if eval.EdgePct < c.profile.MinEdgePct() || stake == 0 {
		return nil
	}

	// Line taken, expressed from the bet side's perspective
	line := eval.MarketSpread
	if eval.Side == models.SideAway {
		line = -eval.MarketSpread
	}

	return &models.BetRecommendation{
		RecommendationID: uuid.NewString(),
		GameID:           eval.GameID,
		EvaluationID:     eval.EvaluationID,
		SportKey:         eval.SportKey,
		Side:             eval.Side,
		Line:             line,
		StakeFraction:    stake,
		StarRating:       eval.StarRating,
		IsPlay:           stake > 0,
		Rationale:        buildRationale(eval),
		CreatedAt:        time.Now().UTC(),
	}
}

func starRating(edgePct, minEdge float64) float64 {
	if edgePct < minEdge {
		return 0
	}
	for _, tier := range starThresholds {
		if edgePct >= tier.edgePct {
			return tier.stars
		}
	}
	return 0
}

// baseConfidence grades the edge before the sharp shift. Crossing 3 or 7
// forces high once the minimum floor is met.
func baseConfidence(edgePct, minEdge float64, crossed []int) models.Confidence {
	if edgePct < minEdge {
		return models.ConfidenceNone
	}
	if edgePct >= highConfidenceEdgePct || crossedMajorKey(crossed) {
		return models.ConfidenceHigh
	}
	if edgePct >= mediumConfidenceEdgePct {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

func buildWarnings(edgePct, baseEdgePoints, minEdge float64, alignment models.SharpAlignment) []string {
	warnings := []string{}

	if edgePct < minEdge {
		warnings = append(warnings, fmt.Sprintf("NO BET: edge %.1f%% below %.1f%% minimum", edgePct, minEdge))
		return warnings
	}

	if edgePct > dataSanityEdgePct {
		warnings = append(warnings, fmt.Sprintf("edge %.1f%% exceeds %.0f%% - verify data accuracy", edgePct, dataSanityEdgePct))
	}

	if baseEdgePoints < thinBaseEdgePoints {
		warnings = append(warnings, "edge primarily from factors, not power ratings")
	}

	if baseEdgePoints >= valueTrapBaseEdgePoints && alignment != models.SharpConfirms {
		warnings = append(warnings, "possible value trap: large line gap without sharp confirmation")
	}

	return warnings
}

func buildRationale(eval models.MatchupEvaluation) string {
	line := eval.MarketSpread
	if eval.Side == models.SideAway {
		line = -eval.MarketSpread
	}

	rationale := fmt.Sprintf("%.1f★ %s %+.1f: edge %.1f%% (base %.1f, factors %+.2f)",
		eval.StarRating, eval.Side, line, eval.EdgePct,
		eval.BaseEdgePoints, eval.TotalAdjustmentPoints)

	if len(eval.CrossedKeyNumbers) > 0 {
		rationale += fmt.Sprintf(", key numbers %v crossed", eval.CrossedKeyNumbers)
	}
	if eval.SharpAlignment != models.SharpUnknown {
		rationale += fmt.Sprintf(", sharp money %s", eval.SharpAlignment)
	}
	return rationale
}
