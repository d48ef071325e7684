package adjust

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func outdoorCold(temp float64) WeatherInput {
	return WeatherInput{
		Reading:   models.WeatherReading{TemperatureF: temp},
		HomeVenue: models.VenueInfo{Dome: false, Climate: models.ClimateCold},
		AwayVenue: models.VenueInfo{Dome: false, Climate: models.ClimateWarm},
	}
}

func TestDomeGameTakesNoWeather(t *testing.T) {
	factors, notes := ScoreWeather(WeatherInput{
		Reading:   models.WeatherReading{TemperatureF: 5, WindMPH: 40, Precipitation: models.PrecipSnow},
		HomeVenue: models.VenueInfo{Dome: true, Climate: models.ClimateCold},
		AwayVenue: models.VenueInfo{Climate: models.ClimateWarm},
	})

	if len(factors) != 0 || len(notes) != 0 {
		t.Errorf("dome game scored factors %v notes %v, want none", factors, notes)
	}
}

func TestWarmIntoColdTiers(t *testing.T) {
	tests := []struct {
		temp float64
		want float64
	}{
		{40, 0},
		{35, 1.0},
		{30.5, 1.0},
		{30, 1.5},
		{25, 2.0},
		{20, 2.5},
		{15, 3.0},
		{10, 4.0},
		{-5, 4.0},
	}

	for _, tt := range tests {
		factors, _ := ScoreWeather(outdoorCold(tt.temp))
		points, ok := factorPoints(factors, "cold_weather_mismatch")
		if tt.want == 0 {
			if ok {
				t.Errorf("%v°F should not score, got %v", tt.temp, points)
			}
			continue
		}
		if math.Abs(points-tt.want) > 1e-9 {
			t.Errorf("%v°F = %v, want %v", tt.temp, points, tt.want)
		}
	}
}

func TestDomeTeamIntoColdTiers(t *testing.T) {
	tests := []struct {
		temp float64
		want float64
	}{
		{35, 0},
		{30, 0.5},
		{20, 1.0},
		{10, 1.5},
	}

	for _, tt := range tests {
		in := WeatherInput{
			Reading:   models.WeatherReading{TemperatureF: tt.temp},
			HomeVenue: models.VenueInfo{Dome: false, Climate: models.ClimateCold},
			AwayVenue: models.VenueInfo{Dome: true, Climate: models.ClimateCold},
		}
		factors, _ := ScoreWeather(in)
		points, ok := factorPoints(factors, "cold_weather_mismatch")
		if tt.want == 0 {
			if ok {
				t.Errorf("%v°F should not score, got %v", tt.temp, points)
			}
			continue
		}
		if math.Abs(points-tt.want) > 1e-9 {
			t.Errorf("%v°F = %v, want %v", tt.temp, points, tt.want)
		}
	}
}

func TestColdOutdoorVisitorIsAcclimated(t *testing.T) {
	in := WeatherInput{
		Reading:   models.WeatherReading{TemperatureF: 5},
		HomeVenue: models.VenueInfo{Dome: false, Climate: models.ClimateCold},
		AwayVenue: models.VenueInfo{Dome: false, Climate: models.ClimateCold},
	}

	factors, _ := ScoreWeather(in)
	if _, ok := factorPoints(factors, "cold_weather_mismatch"); ok {
		t.Error("cold outdoor visitor should take no temperature adjustment")
	}
}

func TestPrecipitation(t *testing.T) {
	base := outdoorCold(60)

	base.Reading.Precipitation = models.PrecipRain
	factors, notes := ScoreWeather(base)
	if points, _ := factorPoints(factors, "rain"); points != 0.5 {
		t.Errorf("rain = %v, want 0.5", points)
	}
	if len(notes) != 0 {
		t.Errorf("rain should not add notes, got %v", notes)
	}

	base.Reading.Precipitation = models.PrecipHardRain
	factors, _ = ScoreWeather(base)
	if points, _ := factorPoints(factors, "hard_rain"); points != 1.25 {
		t.Errorf("hard rain = %v, want 1.25", points)
	}
}

func TestSnowIsReviewOnly(t *testing.T) {
	in := outdoorCold(60)
	in.Reading.Precipitation = models.PrecipSnow

	factors, notes := ScoreWeather(in)
	if len(factors) != 0 {
		t.Errorf("snow should not auto-score, got %v", factors)
	}
	if len(notes) != 1 {
		t.Fatalf("snow should produce one review note, got %v", notes)
	}
}

func TestWindRequiresThresholdAndGap(t *testing.T) {
	tests := []struct {
		name     string
		windMPH  float64
		homePass float64
		awayPass float64
		want     float64
	}{
		{"calm", 10, 0.70, 0.45, 0},
		{"at threshold", 20, 0.70, 0.45, 0},
		{"windy but symmetric offenses", 25, 0.55, 0.50, 0},
		{"windy pass-heavy home", 25, 0.70, 0.45, -1.5},
		{"windy pass-heavy away", 25, 0.45, 0.70, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := outdoorCold(60)
			in.Reading.WindMPH = tt.windMPH
			in.HomePassRate = tt.homePass
			in.AwayPassRate = tt.awayPass

			factors, _ := ScoreWeather(in)
			points, ok := factorPoints(factors, "wind")
			if tt.want == 0 {
				if ok {
					t.Errorf("wind should not score, got %v", points)
				}
				return
			}
			if math.Abs(points-tt.want) > 1e-9 {
				t.Errorf("wind = %v, want %v", points, tt.want)
			}
		})
	}
}
