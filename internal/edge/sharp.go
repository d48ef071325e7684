package edge

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Sharp modifier magnitudes by divergence tier
const (
	sharpModerateModifier   = 0.10
	sharpStrongModifier     = 0.15
	sharpVeryStrongModifier = 0.20
)

// classifySharp grades a ticket-vs-money signal against our pick.
//
// The divergence between ticket share and money share on the flagged side
// must clear the league's moderate threshold before the signal counts at
// all; low-volume leagues set that bar much higher. Returns the alignment
// and the multiplicative modifier to apply to edge_pct.
func classifySharp(signal *models.SharpSignal, pick models.Side, moderate, strong, veryStrong float64) (models.SharpAlignment, float64) {
	if signal == nil {
		return models.SharpUnknown, 1.0
	}

	divergence := math.Abs(signal.TicketsPct - signal.MoneyPct)
	if divergence < moderate {
		return models.SharpNeutral, 1.0
	}

	modifier := sharpModerateModifier
	switch {
	case divergence >= veryStrong:
		modifier = sharpVeryStrongModifier
	case divergence >= strong:
		modifier = sharpStrongModifier
	}

	if signal.Side == pick {
		return models.SharpConfirms, 1.0 + modifier
	}
	return models.SharpContradicts, 1.0 - modifier
}

// shiftConfidence moves confidence one notch for sharp alignment,
// clamped to the none..high range
func shiftConfidence(confidence models.Confidence, alignment models.SharpAlignment) models.Confidence {
	ladder := []models.Confidence{
		models.ConfidenceNone,
		models.ConfidenceLow,
		models.ConfidenceMedium,
		models.ConfidenceHigh,
	}

	idx := 0
	for i, c := range ladder {
		if c == confidence {
			idx = i
			break
		}
	}

	switch alignment {
	case models.SharpConfirms:
		idx++
	case models.SharpContradicts:
		idx--
	}

	if idx < 0 {
		idx = 0
	}
	if idx >= len(ladder) {
		idx = len(ladder) - 1
	}
	return ladder[idx]
}
