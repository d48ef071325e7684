package football_nfl

import (
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func team(id, name, conference, division string, dome bool, climate models.ClimateClass, tz models.TimeZone) models.Team {
	return models.Team{
		TeamID:      id,
		DisplayName: name,
		Conference:  conference,
		Division:    division,
		Venue: models.VenueInfo{
			Dome:     dome,
			Climate:  climate,
			TimeZone: tz,
		},
	}
}

// Static NFL roster with home-venue metadata for the weather and
// body-clock factors
var nflTeams = map[string]models.Team{
	"ARI": team("ARI", "Arizona Cardinals", "NFC", "West", true, models.ClimateWarm, models.TimeZoneMountain),
	"ATL": team("ATL", "Atlanta Falcons", "NFC", "South", true, models.ClimateWarm, models.TimeZoneEastern),
	"BAL": team("BAL", "Baltimore Ravens", "AFC", "North", false, models.ClimateModerate, models.TimeZoneEastern),
	"BUF": team("BUF", "Buffalo Bills", "AFC", "East", false, models.ClimateCold, models.TimeZoneEastern),
	"CAR": team("CAR", "Carolina Panthers", "NFC", "South", false, models.ClimateModerate, models.TimeZoneEastern),
	"CHI": team("CHI", "Chicago Bears", "NFC", "North", false, models.ClimateCold, models.TimeZoneCentral),
	"CIN": team("CIN", "Cincinnati Bengals", "AFC", "North", false, models.ClimateCold, models.TimeZoneEastern),
	"CLE": team("CLE", "Cleveland Browns", "AFC", "North", false, models.ClimateCold, models.TimeZoneEastern),
	"DAL": team("DAL", "Dallas Cowboys", "NFC", "East", true, models.ClimateWarm, models.TimeZoneCentral),
	"DEN": team("DEN", "Denver Broncos", "AFC", "West", false, models.ClimateCold, models.TimeZoneMountain),
	"DET": team("DET", "Detroit Lions", "NFC", "North", true, models.ClimateCold, models.TimeZoneEastern),
	"GB":  team("GB", "Green Bay Packers", "NFC", "North", false, models.ClimateCold, models.TimeZoneCentral),
	"HOU": team("HOU", "Houston Texans", "AFC", "South", true, models.ClimateWarm, models.TimeZoneCentral),
	"IND": team("IND", "Indianapolis Colts", "AFC", "South", true, models.ClimateCold, models.TimeZoneEastern),
	"JAX": team("JAX", "Jacksonville Jaguars", "AFC", "South", false, models.ClimateWarm, models.TimeZoneEastern),
	"KC":  team("KC", "Kansas City Chiefs", "AFC", "West", false, models.ClimateCold, models.TimeZoneCentral),
	"LAC": team("LAC", "Los Angeles Chargers", "AFC", "West", true, models.ClimateWarm, models.TimeZonePacific),
	"LAR": team("LAR", "Los Angeles Rams", "NFC", "West", true, models.ClimateWarm, models.TimeZonePacific),
	"LV":  team("LV", "Las Vegas Raiders", "AFC", "West", true, models.ClimateWarm, models.TimeZonePacific),
	"MIA": team("MIA", "Miami Dolphins", "AFC", "East", false, models.ClimateWarm, models.TimeZoneEastern),
	"MIN": team("MIN", "Minnesota Vikings", "NFC", "North", true, models.ClimateCold, models.TimeZoneCentral),
	"NE":  team("NE", "New England Patriots", "AFC", "East", false, models.ClimateCold, models.TimeZoneEastern),
	"NO":  team("NO", "New Orleans Saints", "NFC", "South", true, models.ClimateWarm, models.TimeZoneCentral),
	"NYG": team("NYG", "New York Giants", "NFC", "East", false, models.ClimateCold, models.TimeZoneEastern),
	"NYJ": team("NYJ", "New York Jets", "AFC", "East", false, models.ClimateCold, models.TimeZoneEastern),
	"PHI": team("PHI", "Philadelphia Eagles", "NFC", "East", false, models.ClimateCold, models.TimeZoneEastern),
	"PIT": team("PIT", "Pittsburgh Steelers", "AFC", "North", false, models.ClimateCold, models.TimeZoneEastern),
	"SEA": team("SEA", "Seattle Seahawks", "NFC", "West", false, models.ClimateModerate, models.TimeZonePacific),
	"SF":  team("SF", "San Francisco 49ers", "NFC", "West", false, models.ClimateModerate, models.TimeZonePacific),
	"TB":  team("TB", "Tampa Bay Buccaneers", "NFC", "South", false, models.ClimateWarm, models.TimeZoneEastern),
	"TEN": team("TEN", "Tennessee Titans", "AFC", "South", false, models.ClimateModerate, models.TimeZoneCentral),
	"WAS": team("WAS", "Washington Commanders", "NFC", "East", false, models.ClimateModerate, models.TimeZoneEastern),
}

// TeamIDs returns every roster team id
func TeamIDs() []string {
	ids := make([]string, 0, len(nflTeams))
	for id := range nflTeams {
		ids = append(ids, id)
	}
	return ids
}

// Teams returns the full roster
func Teams() []models.Team {
	teams := make([]models.Team, 0, len(nflTeams))
	for _, t := range nflTeams {
		teams = append(teams, t)
	}
	return teams
}
