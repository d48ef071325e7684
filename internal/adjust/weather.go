package adjust

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// WeatherInput carries the game-day reading plus both teams' home-venue
// metadata and pass-reliance rates
type WeatherInput struct {
	Reading   models.WeatherReading
	HomeVenue models.VenueInfo
	AwayVenue models.VenueInfo

	// Share of offensive plays that are passes, 0.0 - 1.0
	HomePassRate float64
	AwayPassRate float64
}

// Temperature tiers for a warm-climate team traveling into a cold
// outdoor venue, from 35°F down
var warmIntoColdTiers = []struct {
	maxTempF float64
	points   float64
}{
	{10, 4.0},
	{15, 3.0},
	{20, 2.5},
	{25, 2.0},
	{30, 1.5},
	{35, 1.0},
}

// Smaller tiers for a cold-weather dome team traveling into the cold
var domeIntoColdTiers = []struct {
	maxTempF float64
	points   float64
}{
	{10, 1.5},
	{20, 1.0},
	{30, 0.5},
}

// Precipitation and wind values
const (
	rainPoints     = 0.5
	hardRainPoints = 1.25

	windThresholdMPH = 20.0
	windPoints       = 1.5
	passRateGapFloor = 0.08
)

// ScoreWeather applies the W-factor tables. Games in a dome take no
// weather adjustment at all. Snow is team-dependent and never auto-scored;
// it comes back as a review note instead.
func ScoreWeather(in WeatherInput) ([]models.AdjustmentFactor, []string) {
	if in.HomeVenue.Dome {
		return nil, nil
	}

	var factors []models.AdjustmentFactor
	var notes []string

	add := func(name string, points float64) {
		factors = append(factors, models.AdjustmentFactor{
			Category: models.CategoryWeather,
			Name:     name,
			Points:   points,
		})
	}

	if points := temperaturePoints(in); points != 0 {
		add("cold_weather_mismatch", points)
	}

	switch in.Reading.Precipitation {
	case models.PrecipRain:
		add("rain", rainPoints)
	case models.PrecipHardRain:
		add("hard_rain", hardRainPoints)
	case models.PrecipSnow:
		notes = append(notes, "snow forecast: team-dependent, not auto-scored, review manually")
	}

	if points := windPointsFor(in); points != 0 {
		add("wind", points)
	}

	return factors, notes
}

// temperaturePoints scores the visiting team's cold exposure. The full tier
// table applies to warm-climate visitors; cold-climate visitors that play
// indoors at home get the smaller dome table. Cold outdoor teams are
// acclimated and take no adjustment.
func temperaturePoints(in WeatherInput) float64 {
	temp := in.Reading.TemperatureF

	if in.AwayVenue.Climate == models.ClimateWarm && !in.AwayVenue.Dome {
		for _, tier := range warmIntoColdTiers {
			if temp <= tier.maxTempF {
				return tier.points
			}
		}
		return 0
	}

	if in.AwayVenue.Dome && in.AwayVenue.Climate == models.ClimateCold {
		for _, tier := range domeIntoColdTiers {
			if temp <= tier.maxTempF {
				return tier.points
			}
		}
	}

	return 0
}

// windPointsFor scores wind only above the threshold and only when one
// offense is materially more pass-reliant than the other. Symmetric
// offenses net to zero.
func windPointsFor(in WeatherInput) float64 {
	if in.Reading.WindMPH <= windThresholdMPH {
		return 0
	}

	gap := in.HomePassRate - in.AwayPassRate
	if math.Abs(gap) < passRateGapFloor {
		return 0
	}

	// Wind punishes the more pass-reliant side
	if gap > 0 {
		return -windPoints
	}
	return windPoints
}
