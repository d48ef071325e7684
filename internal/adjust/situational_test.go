package adjust

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func factorPoints(factors []models.AdjustmentFactor, name string) (float64, bool) {
	for _, f := range factors {
		if f.Name == name {
			return f.Points, true
		}
	}
	return 0, false
}

func TestFactorToSpreadConversion(t *testing.T) {
	factor := models.AdjustmentFactor{Category: models.CategorySituational, Name: "x", Points: 11.25}

	if got := factor.SpreadPoints(); math.Abs(got-2.25) > 1e-9 {
		t.Errorf("SpreadPoints() = %v, want 2.25", got)
	}

	factors := []models.AdjustmentFactor{
		{Points: 2.5}, {Points: -1.0}, {Points: 1.0},
	}
	if got := TotalSpreadPoints(factors); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("TotalSpreadPoints() = %v, want 0.5", got)
	}
}

func TestQualityFromRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   TeamQuality
	}{
		{5.0, QualityGreat},
		{4.0, QualityGreat},
		{3.9, QualityAverage},
		{0.0, QualityAverage},
		{-2.0, QualityBelowAverage},
		{-6.0, QualityBelowAverage},
	}

	for _, tt := range tests {
		if got := QualityFromRating(tt.rating); got != tt.want {
			t.Errorf("QualityFromRating(%v) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestByeTiers(t *testing.T) {
	tests := []struct {
		name  string
		in    SituationalInput
		wantF string
		want  float64
	}{
		{"home great off bye", SituationalInput{HomeOffBye: true, HomeQuality: QualityGreat}, "home_off_bye", 3.5},
		{"home average off bye", SituationalInput{HomeOffBye: true, HomeQuality: QualityAverage}, "home_off_bye", 2.0},
		{"home below average off bye", SituationalInput{HomeOffBye: true, HomeQuality: QualityBelowAverage}, "home_off_bye", 1.0},
		// Away bye takes the road surcharge and flips toward away
		{"away great off bye", SituationalInput{AwayOffBye: true, AwayQuality: QualityGreat}, "away_off_bye", -4.0},
		{"away average off bye", SituationalInput{AwayOffBye: true, AwayQuality: QualityAverage}, "away_off_bye", -2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, ok := factorPoints(ScoreSituational(tt.in), tt.wantF)
			if !ok {
				t.Fatalf("factor %s not emitted", tt.wantF)
			}
			if math.Abs(points-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.wantF, points, tt.want)
			}
		})
	}
}

func TestShortWeek(t *testing.T) {
	factors := ScoreSituational(SituationalInput{HomeShortWeek: true})
	if points, _ := factorPoints(factors, "home_short_week"); points != -2.0 {
		t.Errorf("home short week = %v, want -2.0", points)
	}

	factors = ScoreSituational(SituationalInput{AwayShortWeek: true})
	if points, _ := factorPoints(factors, "away_short_week"); points != 2.0 {
		t.Errorf("away short week = %v, want 2.0 toward home", points)
	}
}

func TestDivisionTrumpsConference(t *testing.T) {
	factors := ScoreSituational(SituationalInput{DivisionGame: true, ConferenceGame: true})

	if _, ok := factorPoints(factors, "conference_game"); ok {
		t.Error("conference factor should not fire on a division game")
	}
	if points, _ := factorPoints(factors, "division_game"); points != -1.0 {
		t.Errorf("division game = %v, want -1.0", points)
	}
}

func TestPrimetimeSlots(t *testing.T) {
	tests := []struct {
		slot  GameSlot
		wantF string
		want  float64
	}{
		{SlotThursdayNight, "thursday_night_home", 1.5},
		{SlotSundayNight, "sunday_night_home", 1.0},
		{SlotMondayNight, "monday_night_home", 1.25},
	}

	for _, tt := range tests {
		points, ok := factorPoints(ScoreSituational(SituationalInput{Slot: tt.slot}), tt.wantF)
		if !ok || math.Abs(points-tt.want) > 1e-9 {
			t.Errorf("slot %s: got %v (emitted %v), want %v", tt.slot, points, ok, tt.want)
		}
	}

	if factors := ScoreSituational(SituationalInput{Slot: SlotDay}); len(factors) != 0 {
		t.Errorf("day slot should emit nothing, got %v", factors)
	}
}

func TestOffRoadPrimetime(t *testing.T) {
	factors := ScoreSituational(SituationalInput{HomeOffRoadPrimetime: true})
	if points, _ := factorPoints(factors, "home_off_road_primetime"); points != -1.0 {
		t.Errorf("home off road primetime = %v, want -1.0", points)
	}

	factors = ScoreSituational(SituationalInput{AwayOffRoadPrimetime: true})
	if points, _ := factorPoints(factors, "away_off_road_primetime"); points != 2.0 {
		t.Errorf("away off road primetime = %v, want 2.0 toward home", points)
	}
}

func TestTravelTiers(t *testing.T) {
	tests := []struct {
		miles float64
		want  float64
	}{
		{500, 0},
		{999, 0},
		{1000, -0.5},
		{1499, -0.5},
		{1500, -1.0},
		{2000, -1.5},
		{2800, -1.5},
	}

	for _, tt := range tests {
		factors := ScoreSituational(SituationalInput{TravelMiles: tt.miles})
		points, ok := factorPoints(factors, "away_travel_distance")
		if tt.want == 0 {
			if ok {
				t.Errorf("%v miles should not emit a factor", tt.miles)
			}
			continue
		}
		if math.Abs(points-tt.want) > 1e-9 {
			t.Errorf("%v miles = %v, want %v", tt.miles, points, tt.want)
		}
	}
}

func TestBodyClock(t *testing.T) {
	tests := []struct {
		name string
		in   SituationalInput
		want float64
	}{
		{
			"pacific team at 10am body clock",
			SituationalInput{AwayTimeZone: models.TimeZonePacific, HomeTimeZone: models.TimeZoneEastern, EarlyKickoff: true},
			-3.0,
		},
		{
			"mountain team at 10am body clock",
			SituationalInput{AwayTimeZone: models.TimeZoneMountain, HomeTimeZone: models.TimeZoneEastern, EarlyKickoff: true},
			-1.5,
		},
		{
			"eastern team under the lights out west",
			SituationalInput{AwayTimeZone: models.TimeZoneEastern, HomeTimeZone: models.TimeZonePacific, NightKickoff: true},
			-1.0,
		},
		{
			"central team under the lights out west",
			SituationalInput{AwayTimeZone: models.TimeZoneCentral, HomeTimeZone: models.TimeZonePacific, NightKickoff: true},
			-0.5,
		},
		{
			"one zone crossed is not enough",
			SituationalInput{AwayTimeZone: models.TimeZoneCentral, HomeTimeZone: models.TimeZoneEastern, EarlyKickoff: true},
			0,
		},
		{
			"two zones but normal kickoff",
			SituationalInput{AwayTimeZone: models.TimeZonePacific, HomeTimeZone: models.TimeZoneEastern},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := ScoreSituational(tt.in)
			points, ok := factorPoints(factors, "away_body_clock")
			if tt.want == 0 {
				if ok {
					t.Errorf("expected no body clock factor, got %v", points)
				}
				return
			}
			if math.Abs(points-tt.want) > 1e-9 {
				t.Errorf("body clock = %v, want %v", points, tt.want)
			}
		})
	}
}

func TestBounceBack(t *testing.T) {
	tests := []struct {
		margin float64
		want   float64
	}{
		{10, 0},
		{18.9, 0},
		{19, 1.5},
		{28, 1.5},
		{29, 2.5},
		{45, 2.5},
	}

	for _, tt := range tests {
		factors := ScoreSituational(SituationalInput{HomeLastLossMargin: tt.margin})
		points, ok := factorPoints(factors, "home_bounce_back")
		if tt.want == 0 {
			if ok {
				t.Errorf("loss by %v should not emit a factor", tt.margin)
			}
			continue
		}
		if math.Abs(points-tt.want) > 1e-9 {
			t.Errorf("loss by %v = %v, want %v", tt.margin, points, tt.want)
		}
	}

	// Away bounce-back flips toward away
	factors := ScoreSituational(SituationalInput{AwayLastLossMargin: 30})
	if points, _ := factorPoints(factors, "away_bounce_back"); points != -2.5 {
		t.Errorf("away bounce back = %v, want -2.5", points)
	}
}

func TestTurfMismatch(t *testing.T) {
	factors := ScoreSituational(SituationalInput{HomeTurf: TurfGrass, AwayTurf: TurfArtificial})
	if points, _ := factorPoints(factors, "turf_mismatch"); points != 1.0 {
		t.Errorf("turf mismatch = %v, want 1.0", points)
	}

	factors = ScoreSituational(SituationalInput{HomeTurf: TurfGrass, AwayTurf: TurfGrass})
	if _, ok := factorPoints(factors, "turf_mismatch"); ok {
		t.Error("matching turf should not emit a factor")
	}
}
