// Package adjust converts situational, weather, and news/injury signals
// into spread-point adjustments. Everything here is stateless: fixed factor
// tables applied to typed inputs. Factor points are signed toward the home
// side (positive helps home) and convert to spread points at the fixed
// 5:1 ratio shared by every family.
package adjust

import (
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Input bundles the per-game adjustment inputs. Nil sections are treated
// as zero adjustment and noted, never errored (missing data degrades
// gracefully).
type Input struct {
	Situational *SituationalInput
	Weather     *WeatherInput
	Injuries    *InjuryInput
}

// Result is the scored adjustment set for one game
type Result struct {
	Factors      []models.AdjustmentFactor
	SpreadPoints float64 // total adjustment in spread points, toward home
	HomeInjury   InjurySummary
	AwayInjury   InjurySummary
	Notes        []string // insufficient-data and review notes
}

// Sources lists which factor families contributed a non-zero adjustment
func (r Result) Sources() []string {
	seen := map[models.AdjustmentCategory]bool{}
	for _, f := range r.Factors {
		if f.Points != 0 {
			seen[f.Category] = true
		}
	}

	var sources []string
	for _, c := range []models.AdjustmentCategory{models.CategorySituational, models.CategoryWeather, models.CategoryNews} {
		if seen[c] {
			sources = append(sources, string(c))
		}
	}
	return sources
}

// Evaluate scores all three factor families for one game
func Evaluate(input Input) Result {
	var result Result

	if input.Situational != nil {
		result.Factors = append(result.Factors, ScoreSituational(*input.Situational)...)
	} else {
		result.Notes = append(result.Notes, "no situational inputs provided, S-factors treated as zero")
	}

	if input.Weather != nil {
		factors, notes := ScoreWeather(*input.Weather)
		result.Factors = append(result.Factors, factors...)
		result.Notes = append(result.Notes, notes...)
	} else {
		result.Notes = append(result.Notes, "no weather reading provided, W-factors treated as zero")
	}

	if input.Injuries != nil {
		factors, home, away := ScoreInjuries(*input.Injuries)
		result.Factors = append(result.Factors, factors...)
		result.HomeInjury = home
		result.AwayInjury = away
	} else {
		result.Notes = append(result.Notes, "no injury report provided, E-factors treated as zero")
		result.HomeInjury = InjurySummary{Severity: models.SeverityHealthy, Recommendation: severityNote(models.SeverityHealthy)}
		result.AwayInjury = InjurySummary{Severity: models.SeverityHealthy, Recommendation: severityNote(models.SeverityHealthy)}
	}

	result.SpreadPoints = TotalSpreadPoints(result.Factors)
	return result
}

// TotalFactorPoints sums raw factor points across all families
func TotalFactorPoints(factors []models.AdjustmentFactor) float64 {
	total := 0.0
	for _, f := range factors {
		total += f.Points
	}
	return total
}

// TotalSpreadPoints converts summed factor points to spread points.
// The 5:1 conversion applies uniformly so the families stay commensurable.
func TotalSpreadPoints(factors []models.AdjustmentFactor) float64 {
	return TotalFactorPoints(factors) / models.FactorPointsPerSpreadPoint
}
