package football_ncaaf

import (
	"os"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Config holds college-football engine configuration.
// College is a low-volume market: a ticket/money split needs a much larger
// divergence before it counts as a sharp signal, and the home crowd is
// worth more.
type Config struct {
	HFA             float64
	BaselineTot     float64
	MinEdge         float64
	SharpModerate   float64
	SharpStrong     float64
	SharpVeryStrong float64
	keyNumbers      map[int]float64
}

// NewConfig creates the college configuration with defaults and
// environment overrides
func NewConfig() *Config {
	return &Config{
		HFA:             getEnvFloat("NCAAF_HFA", 3.5),
		BaselineTot:     getEnvFloat("NCAAF_BASELINE_TOTAL", 52.0),
		MinEdge:         getEnvFloat("NCAAF_MIN_EDGE_PCT", 5.5),
		SharpModerate:   getEnvFloat("NCAAF_SHARP_MODERATE", 15),
		SharpStrong:     getEnvFloat("NCAAF_SHARP_STRONG", 25),
		SharpVeryStrong: getEnvFloat("NCAAF_SHARP_VERY_STRONG", 35),
		keyNumbers: map[int]float64{
			3:  0.08,
			7:  0.06,
			10: 0.03,
			6:  0.02,
			14: 0.015,
		},
	}
}

// SportKey implements SportProfile
func (c *Config) SportKey() string {
	return "football_ncaaf"
}

// HomeFieldAdvantage implements SportProfile
func (c *Config) HomeFieldAdvantage() float64 {
	return c.HFA
}

// BaselineTotal implements SportProfile
func (c *Config) BaselineTotal() float64 {
	return c.BaselineTot
}

// KeyNumbers implements SportProfile
func (c *Config) KeyNumbers() map[int]float64 {
	return c.keyNumbers
}

// SharpThresholds implements SportProfile
func (c *Config) SharpThresholds() (moderate, strong, veryStrong float64) {
	return c.SharpModerate, c.SharpStrong, c.SharpVeryStrong
}

// MinEdgePct implements SportProfile
func (c *Config) MinEdgePct() float64 {
	return c.MinEdge
}

// TeamByID implements SportProfile
func (c *Config) TeamByID(teamID string) (models.Team, bool) {
	team, ok := ncaafTeams[teamID]
	return team, ok
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
