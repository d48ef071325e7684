package football_nfl

import (
	"os"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Config holds NFL-specific engine configuration.
// The NFL is a high-volume market: sharp divergence thresholds are low
// because even small ticket/money splits are meaningful.
type Config struct {
	HFA             float64
	BaselineTot     float64
	MinEdge         float64
	SharpModerate   float64
	SharpStrong     float64
	SharpVeryStrong float64
	keyNumbers      map[int]float64
}

// NewConfig creates the NFL configuration with defaults and
// environment overrides
func NewConfig() *Config {
	return &Config{
		HFA:             getEnvFloat("NFL_HFA", 2.5),
		BaselineTot:     getEnvFloat("NFL_BASELINE_TOTAL", 37.5),
		MinEdge:         getEnvFloat("NFL_MIN_EDGE_PCT", 5.5),
		SharpModerate:   getEnvFloat("NFL_SHARP_MODERATE", 5),
		SharpStrong:     getEnvFloat("NFL_SHARP_STRONG", 10),
		SharpVeryStrong: getEnvFloat("NFL_SHARP_VERY_STRONG", 20),
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
	return "football_nfl"
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
	team, ok := nflTeams[teamID]
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
