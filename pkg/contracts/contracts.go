package contracts

import (
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// SportProfile defines the per-sport tables and thresholds the engine needs.
// One implementation lives under sports/<sport_key>/.
type SportProfile interface {
	// SportKey returns the canonical sport key (e.g., "football_nfl")
	SportKey() string

	// HomeFieldAdvantage returns the sport's home-field edge in points
	HomeFieldAdvantage() float64

	// BaselineTotal returns the sport's baseline for predicted totals
	BaselineTotal() float64

	// KeyNumbers returns the key-number frequency table:
	// margin -> edge premium (fraction, e.g. 0.08 for 8%)
	KeyNumbers() map[int]float64

	// SharpThresholds returns the league's ticket-vs-money divergence tiers
	// (moderate, strong, very strong). Low-volume leagues need far larger
	// divergence before a signal counts.
	SharpThresholds() (moderate, strong, veryStrong float64)

	// MinEdgePct returns the minimum edge percentage for a playable bet
	MinEdgePct() float64

	// TeamByID resolves a team id against the sport's static roster
	TeamByID(teamID string) (models.Team, bool)
}

// RatingProvider exposes power ratings to the calculators.
// Unrated teams return 0.0 (neutral), never an error.
type RatingProvider interface {
	GetRating(teamID, sportKey string) float64
}

// LineObserver receives market line moves from the ingestion layer.
// The engine registers one; ingestion calls it instead of patching handlers.
type LineObserver interface {
	OnLineUpdate(line models.MarketLine)
}

// LineObserverFunc adapts a plain closure into a LineObserver
type LineObserverFunc func(line models.MarketLine)

// OnLineUpdate implements LineObserver
func (f LineObserverFunc) OnLineUpdate(line models.MarketLine) {
	f(line)
}
