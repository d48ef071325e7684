package adjust

import (
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// TurfType is the playing surface a team is built on
type TurfType string

const (
	TurfGrass      TurfType = "grass"
	TurfArtificial TurfType = "artificial"
)

// GameSlot is the scheduling slot of the game
type GameSlot string

const (
	SlotDay           GameSlot = "day"
	SlotThursdayNight GameSlot = "thursday_night"
	SlotSundayNight   GameSlot = "sunday_night"
	SlotMondayNight   GameSlot = "monday_night"
)

// TeamQuality classes a team's current strength for the rest tiers
type TeamQuality string

const (
	QualityBelowAverage TeamQuality = "below_average"
	QualityAverage      TeamQuality = "average"
	QualityGreat        TeamQuality = "great"
)

// Quality-class rating cutoffs
const (
	greatRatingFloor       = 4.0
	belowAverageRatingCeil = -2.0
)

// QualityFromRating classes a team by its current power rating
func QualityFromRating(rating float64) TeamQuality {
	switch {
	case rating >= greatRatingFloor:
		return QualityGreat
	case rating <= belowAverageRatingCeil:
		return QualityBelowAverage
	default:
		return QualityAverage
	}
}

// SituationalInput carries the boolean/enumerated scheduling and travel
// flags for one game. All flags are collaborator-provided.
type SituationalInput struct {
	DivisionGame   bool
	ConferenceGame bool // non-division conference game

	HomeTurf TurfType
	AwayTurf TurfType

	HomeOffBye  bool
	AwayOffBye  bool
	HomeQuality TeamQuality
	AwayQuality TeamQuality

	HomeShortWeek bool
	AwayShortWeek bool

	Slot                 GameSlot
	HomeOffRoadPrimetime bool
	AwayOffRoadPrimetime bool

	TravelMiles  float64 // away team's trip to the venue
	AwayTimeZone models.TimeZone
	HomeTimeZone models.TimeZone
	EarlyKickoff bool // 1 PM ET window (10 AM body clock for a PT team)
	NightKickoff bool

	// Margin of the team's most recent loss; 0 when the last game
	// was not a loss
	HomeLastLossMargin float64
	AwayLastLossMargin float64
}

// Situational factor point values
const (
	turfMismatchPoints = 1.0

	divisionGamePoints   = -1.0
	conferenceGamePoints = -0.5

	byeBelowAveragePoints = 1.0
	byeAveragePoints      = 2.0
	byeGreatPoints        = 3.5
	byeAwaySurcharge      = 0.5

	shortWeekPoints = -2.0

	thursdayNightHomePoints = 1.5
	sundayNightHomePoints   = 1.0
	mondayNightHomePoints   = 1.25

	offRoadPrimetimeAtHomePoints = -1.0
	offRoadPrimetimeAwayPoints   = -2.0

	travelLongPoints     = -0.5 // >= 1000 miles
	travelVeryLongPoints = -1.0 // >= 1500 miles
	travelCrossPoints    = -1.5 // >= 2000 miles

	earlyKickoffPacificPoints  = -3.0
	earlyKickoffMountainPoints = -1.5
	nightKickoffEasternPoints  = -1.0
	nightKickoffCentralPoints  = -0.5

	bounceBackBigLossPoints     = 1.5 // lost by >= 19
	bounceBackBlowoutLossPoints = 2.5 // lost by >= 29
)

// Loss-margin tiers for the bounce-back bonus
const (
	bigLossMargin     = 19.0
	blowoutLossMargin = 29.0
)

// Time-zone offsets west of Eastern, for crossing counts
var zoneOffsets = map[models.TimeZone]int{
	models.TimeZoneEastern:  0,
	models.TimeZoneCentral:  1,
	models.TimeZoneMountain: 2,
	models.TimeZonePacific:  3,
}

// ScoreSituational applies the S-factor table. Each rule is a pure function
// of its flags; rules in the family are only additive as listed here.
func ScoreSituational(in SituationalInput) []models.AdjustmentFactor {
	var factors []models.AdjustmentFactor

	add := func(name string, points float64) {
		factors = append(factors, models.AdjustmentFactor{
			Category: models.CategorySituational,
			Name:     name,
			Points:   points,
		})
	}

	// Surface mismatch favors the side on its accustomed turf
	if in.HomeTurf != "" && in.AwayTurf != "" && in.HomeTurf != in.AwayTurf {
		add("turf_mismatch", turfMismatchPoints)
	}

	// Familiarity trims the home edge in division and conference games
	if in.DivisionGame {
		add("division_game", divisionGamePoints)
	} else if in.ConferenceGame {
		add("conference_game", conferenceGamePoints)
	}

	// Rest: bye-week bonus tiered by the rested team's quality class,
	// with a surcharge when the rested team plays on the road
	if in.HomeOffBye {
		add("home_off_bye", byePoints(in.HomeQuality))
	}
	if in.AwayOffBye {
		add("away_off_bye", -(byePoints(in.AwayQuality) + byeAwaySurcharge))
	}

	if in.HomeShortWeek {
		add("home_short_week", shortWeekPoints)
	}
	if in.AwayShortWeek {
		add("away_short_week", -shortWeekPoints)
	}

	// Primetime home-side bonus by slot
	switch in.Slot {
	case SlotThursdayNight:
		add("thursday_night_home", thursdayNightHomePoints)
	case SlotSundayNight:
		add("sunday_night_home", sundayNightHomePoints)
	case SlotMondayNight:
		add("monday_night_home", mondayNightHomePoints)
	}

	// Letdown after a road primetime game; worse when back on the road
	if in.HomeOffRoadPrimetime {
		add("home_off_road_primetime", offRoadPrimetimeAtHomePoints)
	}
	if in.AwayOffRoadPrimetime {
		add("away_off_road_primetime", -offRoadPrimetimeAwayPoints)
	}

	if points := travelPoints(in.TravelMiles); points != 0 {
		add("away_travel_distance", points)
	}

	if points := bodyClockPoints(in); points != 0 {
		add("away_body_clock", points)
	}

	// Bounce-back bonus after a large loss, two tiers
	if points := bounceBackPoints(in.HomeLastLossMargin); points != 0 {
		add("home_bounce_back", points)
	}
	if points := bounceBackPoints(in.AwayLastLossMargin); points != 0 {
		add("away_bounce_back", -points)
	}

	return factors
}

func byePoints(quality TeamQuality) float64 {
	switch quality {
	case QualityGreat:
		return byeGreatPoints
	case QualityBelowAverage:
		return byeBelowAveragePoints
	default:
		return byeAveragePoints
	}
}

func travelPoints(miles float64) float64 {
	switch {
	case miles >= 2000:
		return travelCrossPoints
	case miles >= 1500:
		return travelVeryLongPoints
	case miles >= 1000:
		return travelLongPoints
	default:
		return 0
	}
}

// bodyClockPoints scores time-zone-crossing penalties for early and night
// kickoffs. Magnitude depends on the traveling team's home time zone;
// only trips crossing two or more zones are scored.
func bodyClockPoints(in SituationalInput) float64 {
	awayOffset, ok := zoneOffsets[in.AwayTimeZone]
	if !ok {
		return 0
	}
	homeOffset, ok := zoneOffsets[in.HomeTimeZone]
	if !ok {
		return 0
	}

	crossed := awayOffset - homeOffset // positive: traveling east
	if crossed < 0 {
		crossed = -crossed
	}
	if crossed < 2 {
		return 0
	}

	// Western team playing what its body clock reads as a 10 AM kickoff
	if in.EarlyKickoff && awayOffset > homeOffset {
		switch in.AwayTimeZone {
		case models.TimeZonePacific:
			return earlyKickoffPacificPoints
		case models.TimeZoneMountain:
			return earlyKickoffMountainPoints
		}
	}

	// Eastern team playing deep into its body-clock night out west
	if in.NightKickoff && awayOffset < homeOffset {
		switch in.AwayTimeZone {
		case models.TimeZoneEastern:
			return nightKickoffEasternPoints
		case models.TimeZoneCentral:
			return nightKickoffCentralPoints
		}
	}

	return 0
}

func bounceBackPoints(lastLossMargin float64) float64 {
	switch {
	case lastLossMargin >= blowoutLossMargin:
		return bounceBackBlowoutLossPoints
	case lastLossMargin >= bigLossMargin:
		return bounceBackBigLossPoints
	default:
		return 0
	}
}
