package football_ncaaf

import (
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func team(id, name, conference string, dome bool, climate models.ClimateClass, tz models.TimeZone) models.Team {
	return models.Team{
		TeamID:      id,
		DisplayName: name,
		Conference:  conference,
		Venue: models.VenueInfo{
			Dome:     dome,
			Climate:  climate,
			TimeZone: tz,
		},
	}
}

// Static college roster. Not exhaustive; collaborators extend it through
// the roster feed before kickoff evaluations run.
var ncaafTeams = map[string]models.Team{
	"ALA":  team("ALA", "Alabama Crimson Tide", "SEC", false, models.ClimateWarm, models.TimeZoneCentral),
	"UGA":  team("UGA", "Georgia Bulldogs", "SEC", false, models.ClimateWarm, models.TimeZoneEastern),
	"LSU":  team("LSU", "LSU Tigers", "SEC", false, models.ClimateWarm, models.TimeZoneCentral),
	"TEX":  team("TEX", "Texas Longhorns", "SEC", false, models.ClimateWarm, models.TimeZoneCentral),
	"OSU":  team("OSU", "Ohio State Buckeyes", "Big Ten", false, models.ClimateCold, models.TimeZoneEastern),
	"MICH": team("MICH", "Michigan Wolverines", "Big Ten", false, models.ClimateCold, models.TimeZoneEastern),
	"PSU":  team("PSU", "Penn State Nittany Lions", "Big Ten", false, models.ClimateCold, models.TimeZoneEastern),
	"WIS":  team("WIS", "Wisconsin Badgers", "Big Ten", false, models.ClimateCold, models.TimeZoneCentral),
	"ORE":  team("ORE", "Oregon Ducks", "Big Ten", false, models.ClimateModerate, models.TimeZonePacific),
	"USC":  team("USC", "USC Trojans", "Big Ten", false, models.ClimateWarm, models.TimeZonePacific),
	"OU":   team("OU", "Oklahoma Sooners", "SEC", false, models.ClimateModerate, models.TimeZoneCentral),
	"FSU":  team("FSU", "Florida State Seminoles", "ACC", false, models.ClimateWarm, models.TimeZoneEastern),
	"CLEM": team("CLEM", "Clemson Tigers", "ACC", false, models.ClimateWarm, models.TimeZoneEastern),
	"ND":   team("ND", "Notre Dame Fighting Irish", "Independent", false, models.ClimateCold, models.TimeZoneEastern),
	"UTAH": team("UTAH", "Utah Utes", "Big 12", false, models.ClimateCold, models.TimeZoneMountain),
	"SYR":  team("SYR", "Syracuse Orange", "ACC", true, models.ClimateCold, models.TimeZoneEastern),
}

// Teams returns the full roster
func Teams() []models.Team {
	teams := make([]models.Team, 0, len(ncaafTeams))
	for _, t := range ncaafTeams {
		teams = append(teams, t)
	}
	return teams
}
