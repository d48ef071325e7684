package adjust

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// InjuryInput holds both teams' inbound injury reports
type InjuryInput struct {
	Home []models.InjuryReport
	Away []models.InjuryReport
}

// InjurySummary is one team's aggregated injury picture. The severity
// bucket, not the raw number, drives the recommendation text.
type InjurySummary struct {
	Impact         float64               `json:"impact"` // summed points, <= 0
	Severity       models.InjurySeverity `json:"severity"`
	Recommendation string                `json:"recommendation"`
}

// Point value a fully confident, fully out player at each position costs
// the team
var positionPointValues = map[string]float64{
	"QB": 4.5,
	"RB": 1.0,
	"WR": 1.5,
	"TE": 0.75,
	"OL": 0.75,
	"DL": 1.0,
	"LB": 0.75,
	"CB": 1.25,
	"S":  0.75,
	"K":  0.25,
}

const defaultPositionPoints = 0.5

// Status weights applied on top of the reported confidence
var statusWeights = map[models.InjuryStatus]float64{
	models.StatusOut:          1.0,
	models.StatusDoubtful:     0.75,
	models.StatusQuestionable: 0.5,
}

// Severity bucket cutoffs on summed impact
const (
	severeImpactCeil   = -3.0
	moderateImpactCeil = -1.5
	minorImpactCeil    = -0.5
)

// ScoreInjuries computes both teams' confidence-weighted injury impact and
// emits the net differential as a single E-factor toward the home side
func ScoreInjuries(in InjuryInput) ([]models.AdjustmentFactor, InjurySummary, InjurySummary) {
	home := summarize(in.Home)
	away := summarize(in.Away)

	net := home.Impact - away.Impact
	if net == 0 {
		return nil, home, away
	}

	factor := models.AdjustmentFactor{
		Category: models.CategoryNews,
		Name:     "injury_differential",
		Points:   net,
	}

	return []models.AdjustmentFactor{factor}, home, away
}

// TeamInjuryImpact sums confidence-weighted point impact for one team's
// report list. Always <= 0.
func TeamInjuryImpact(reports []models.InjuryReport) float64 {
	impact := 0.0
	for _, report := range reports {
		impact += injuryImpact(report)
	}
	return impact
}

// ClassifySeverity buckets a team's summed injury impact
func ClassifySeverity(impact float64) models.InjurySeverity {
	switch {
	case impact <= severeImpactCeil:
		return models.SeveritySevere
	case impact <= moderateImpactCeil:
		return models.SeverityModerate
	case impact <= minorImpactCeil:
		return models.SeverityMinor
	default:
		return models.SeverityHealthy
	}
}

func summarize(reports []models.InjuryReport) InjurySummary {
	impact := TeamInjuryImpact(reports)
	severity := ClassifySeverity(impact)

	return InjurySummary{
		Impact:         impact,
		Severity:       severity,
		Recommendation: severityNote(severity),
	}
}

func injuryImpact(report models.InjuryReport) float64 {
	points, ok := positionPointValues[strings.ToUpper(report.Position)]
	if !ok {
		points = defaultPositionPoints
	}

	weight, ok := statusWeights[report.Status]
	if !ok {
		weight = statusWeights[models.StatusQuestionable]
	}

	confidence := report.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return -points * weight * confidence
}

func severityNote(severity models.InjurySeverity) string {
	switch severity {
	case models.SeveritySevere:
		return "severe injury situation: fade or pass until practice reports clarify"
	case models.SeverityModerate:
		return "moderate injury situation: reduce stake a tier"
	case models.SeverityMinor:
		return "minor injury situation: no stake change"
	default:
		return "healthy: no injury concerns"
	}
}
