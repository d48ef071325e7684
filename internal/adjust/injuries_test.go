package adjust

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func TestTeamInjuryImpact(t *testing.T) {
	tests := []struct {
		name    string
		reports []models.InjuryReport
		want    float64
	}{
		{"healthy", nil, 0},
		{
			"qb out",
			[]models.InjuryReport{{Player: "a", Position: "QB", Status: models.StatusOut, Confidence: 1.0}},
			-4.5,
		},
		{
			"qb questionable",
			[]models.InjuryReport{{Player: "a", Position: "QB", Status: models.StatusQuestionable, Confidence: 1.0}},
			-2.25,
		},
		{
			"doubtful wr at half confidence",
			[]models.InjuryReport{{Player: "b", Position: "WR", Status: models.StatusDoubtful, Confidence: 0.5}},
			-1.5 * 0.75 * 0.5,
		},
		{
			"unknown position takes the default value",
			[]models.InjuryReport{{Player: "c", Position: "FB", Status: models.StatusOut, Confidence: 1.0}},
			-0.5,
		},
		{
			"confidence clamped to [0,1]",
			[]models.InjuryReport{{Player: "d", Position: "K", Status: models.StatusOut, Confidence: 3.0}},
			-0.25,
		},
		{
			"impacts sum",
			[]models.InjuryReport{
				{Player: "a", Position: "QB", Status: models.StatusOut, Confidence: 1.0},
				{Player: "b", Position: "CB", Status: models.StatusOut, Confidence: 1.0},
			},
			-5.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TeamInjuryImpact(tt.reports); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TeamInjuryImpact() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		impact float64
		want   models.InjurySeverity
	}{
		{0, models.SeverityHealthy},
		{-0.4, models.SeverityHealthy},
		{-0.5, models.SeverityMinor},
		{-1.4, models.SeverityMinor},
		{-1.5, models.SeverityModerate},
		{-2.9, models.SeverityModerate},
		{-3.0, models.SeveritySevere},
		{-8.0, models.SeveritySevere},
	}

	for _, tt := range tests {
		if got := ClassifySeverity(tt.impact); got != tt.want {
			t.Errorf("ClassifySeverity(%v) = %v, want %v", tt.impact, got, tt.want)
		}
	}
}

func TestScoreInjuriesNetFactor(t *testing.T) {
	qbOut := []models.InjuryReport{{Player: "a", Position: "QB", Status: models.StatusOut, Confidence: 1.0}}

	// Home QB out: net toward away
	factors, home, away := ScoreInjuries(InjuryInput{Home: qbOut})
	if len(factors) != 1 {
		t.Fatalf("expected one factor, got %v", factors)
	}
	if math.Abs(factors[0].Points-(-4.5)) > 1e-9 {
		t.Errorf("net injury points = %v, want -4.5", factors[0].Points)
	}
	if factors[0].Category != models.CategoryNews {
		t.Errorf("category = %v, want E", factors[0].Category)
	}
	if home.Severity != models.SeveritySevere {
		t.Errorf("home severity = %v, want severe", home.Severity)
	}
	if away.Severity != models.SeverityHealthy {
		t.Errorf("away severity = %v, want healthy", away.Severity)
	}
}

func TestScoreInjuriesSymmetricTeamsEmitNothing(t *testing.T) {
	qbOut := []models.InjuryReport{{Player: "a", Position: "QB", Status: models.StatusOut, Confidence: 1.0}}

	factors, _, _ := ScoreInjuries(InjuryInput{Home: qbOut, Away: qbOut})
	if len(factors) != 0 {
		t.Errorf("equal injury impact should net to no factor, got %v", factors)
	}
}
