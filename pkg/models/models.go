package models

import "time"

// Side identifies which side of a spread a rating, signal, or bet refers to
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opposite returns the other side of the matchup
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// ClimateClass classifies a team's home climate for weather adjustments
type ClimateClass string

const (
	ClimateWarm     ClimateClass = "warm"
	ClimateCold     ClimateClass = "cold"
	ClimateModerate ClimateClass = "moderate"
)

// TimeZone is the home time zone of a team (body-clock adjustments)
type TimeZone string

const (
	TimeZoneEastern  TimeZone = "ET"
	TimeZoneCentral  TimeZone = "CT"
	TimeZoneMountain TimeZone = "MT"
	TimeZonePacific  TimeZone = "PT"
)

// VenueInfo holds home-venue metadata used by the weather factors
type VenueInfo struct {
	Dome     bool         `json:"dome"`
	Climate  ClimateClass `json:"climate"`
	TimeZone TimeZone     `json:"time_zone"`
}

// Team is a static roster entry; created once, rarely mutated
type Team struct {
	TeamID      string    `json:"team_id"`
	DisplayName string    `json:"display_name"`
	Conference  string    `json:"conference"`
	Division    string    `json:"division"`
	Venue       VenueInfo `json:"venue"`
}

// Game is the inbound game record handed to the core by collaborators
type Game struct {
	GameID      string    `json:"game_id"`
	SportKey    string    `json:"sport_key"`
	Season      int       `json:"season"`
	Week        int       `json:"week"`
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	KickoffTime time.Time `json:"kickoff_time"`
}

// MarketLine is the inbound market line record for a game.
// Spread uses the standard convention: negative means the home side is favored.
type MarketLine struct {
	GameID       string  `json:"game_id"`
	MarketSpread float64 `json:"market_spread"`
	MarketTotal  float64 `json:"market_total"`
	BookSource   string  `json:"book_source"`
}

// PowerRatingSnapshot is the current smoothed strength rating for a (team, sport).
// RatingHistory is append-only; its length always equals GamesPlayed.
type PowerRatingSnapshot struct {
	TeamID        string    `json:"team_id"`
	SportKey      string    `json:"sport_key"`
	Rating        float64   `json:"rating"`
	GamesPlayed   int       `json:"games_played"`
	LastUpdated   time.Time `json:"last_updated"`
	RatingHistory []float64 `json:"rating_history"`
}

// GameResult is a completed game seen from one team's perspective,
// used to update that team's power rating
type GameResult struct {
	GameID             string  `json:"game_id"`
	TeamID             string  `json:"team_id"`
	SportKey           string  `json:"sport_key"`
	OpponentID         string  `json:"opponent_id"`
	ScoreDiff          float64 `json:"score_diff"` // team score minus opponent score
	InjuryDifferential float64 `json:"injury_differential"`
	WasHome            bool    `json:"was_home"`
}

// AdjustmentCategory tags which factor family produced an adjustment
type AdjustmentCategory string

const (
	CategorySituational AdjustmentCategory = "S"
	CategoryWeather     AdjustmentCategory = "W"
	CategoryNews        AdjustmentCategory = "E"
)

// FactorPointsPerSpreadPoint is the fixed conversion ratio between
// factor points and spread points. It holds for every category.
const FactorPointsPerSpreadPoint = 5.0

// AdjustmentFactor is a single scored adjustment rule in factor points.
// Positive points favor the home side. Ephemeral; embedded in the
// evaluation for auditability, never persisted on its own.
type AdjustmentFactor struct {
	Category AdjustmentCategory `json:"category"`
	Name     string             `json:"name"`
	Points   float64            `json:"points"`
}

// SpreadPoints converts this factor's points into spread points
func (f AdjustmentFactor) SpreadPoints() float64 {
	return f.Points / FactorPointsPerSpreadPoint
}

// PrecipitationType classifies precipitation for the weather factors
type PrecipitationType string

const (
	PrecipNone     PrecipitationType = "none"
	PrecipRain     PrecipitationType = "rain"
	PrecipHardRain PrecipitationType = "hard_rain"
	PrecipSnow     PrecipitationType = "snow"
)

// WeatherReading is the inbound weather record for a game
type WeatherReading struct {
	TemperatureF  float64           `json:"temperature_f"`
	WindMPH       float64           `json:"wind_mph"`
	Precipitation PrecipitationType `json:"precipitation_type"`
}

// InjuryStatus is a player's reported availability
type InjuryStatus string

const (
	StatusOut          InjuryStatus = "out"
	StatusDoubtful     InjuryStatus = "doubtful"
	StatusQuestionable InjuryStatus = "questionable"
)

// InjuryReport is a single inbound injury line item
type InjuryReport struct {
	Player     string       `json:"player"`
	Position   string       `json:"position"`
	Status     InjuryStatus `json:"status"`
	Confidence float64      `json:"confidence"` // 0.0 - 1.0
}

// InjurySeverity buckets a team's summed injury impact
type InjurySeverity string

const (
	SeveritySevere   InjurySeverity = "severe"
	SeverityModerate InjurySeverity = "moderate"
	SeverityMinor    InjurySeverity = "minor"
	SeverityHealthy  InjurySeverity = "healthy"
)

// SharpSignal is an optional ticket-vs-money divergence reading from the
// sharp-money feed. Side is the side the feed flags; TicketsPct and
// MoneyPct are that side's shares of tickets and dollars.
type SharpSignal struct {
	TicketsPct float64 `json:"tickets_pct"`
	MoneyPct   float64 `json:"money_pct"`
	League     string  `json:"league"`
	Side       Side    `json:"side"`
}

// SharpAlignment classifies a sharp signal relative to our pick
type SharpAlignment string

const (
	SharpConfirms    SharpAlignment = "confirms"
	SharpContradicts SharpAlignment = "contradicts"
	SharpNeutral     SharpAlignment = "neutral"
	SharpUnknown     SharpAlignment = "unknown"
)

// Confidence grades how much we trust an evaluation
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MatchupEvaluation is the full audited output of one evaluation pass.
// Immutable once created; a game may accumulate several as lines move.
type MatchupEvaluation struct {
	EvaluationID          string             `json:"evaluation_id"`
	GameID                string             `json:"game_id"`
	SportKey              string             `json:"sport_key"`
	HomeRating            float64            `json:"home_rating"`
	AwayRating            float64            `json:"away_rating"`
	OurLine               float64            `json:"our_line"`
	MarketSpread          float64            `json:"market_spread"`
	Side                  Side               `json:"side"`
	Factors               []AdjustmentFactor `json:"factors"`
	TotalAdjustmentPoints float64            `json:"total_adjustment_points"`
	BaseEdgePoints        float64            `json:"base_edge_points"`
	EdgePoints            float64            `json:"edge_points"`
	EdgePct               float64            `json:"edge_pct"`
	StarRating            float64            `json:"star_rating"`
	CrossedKeyNumbers     []int              `json:"crossed_key_numbers"`
	SharpAlignment        SharpAlignment     `json:"sharp_alignment"`
	Confidence            Confidence         `json:"confidence"`
	Warnings              []string           `json:"warnings"`
	EvaluatedAt           time.Time          `json:"evaluated_at"`
}

// BetRecommendation is produced only when the edge clears the minimum
// threshold. Never mutated after creation except to attach an outcome.
type BetRecommendation struct {
	RecommendationID string    `json:"recommendation_id"`
	GameID           string    `json:"game_id"`
	EvaluationID     string    `json:"evaluation_id"`
	SportKey         string    `json:"sport_key"`
	Side             Side      `json:"side"`
	Line             float64   `json:"line"` // line taken, from the bet side's perspective
	StakeFraction    float64   `json:"stake_fraction"`
	StarRating       float64   `json:"star_rating"`
	IsPlay           bool      `json:"is_play"`
	Superseded       bool      `json:"superseded"` // replaced by a later pass, never bettable
	Rationale        string    `json:"rationale"`
	CreatedAt        time.Time `json:"created_at"`
}

// BetResult is the graded result of a recommendation
type BetResult string

const (
	ResultWin  BetResult = "win"
	ResultLoss BetResult = "loss"
	ResultPush BetResult = "push"
)

// Outcome is recorded once, after the game is final,
// against exactly one recommendation
type Outcome struct {
	RecommendationID string    `json:"recommendation_id"`
	GameID           string    `json:"game_id"`
	Result           BetResult `json:"result"`
	ActualMargin     float64   `json:"actual_margin"`
	ClosingLine      float64   `json:"closing_line"`
	ProfitLoss       float64   `json:"profit_loss"` // units, flat -110 pricing
	RecordedAt       time.Time `json:"recorded_at"`
}

// CalibrationRecord is the denormalized prediction+outcome projection keyed
// by game_id. Outcome fields stay nil until the game is graded.
type CalibrationRecord struct {
	GameID           string         `json:"game_id"`
	League           string         `json:"league"`
	PredictedEdgePct float64        `json:"predicted_edge_pct"`
	AdjustmentTotal  float64        `json:"adjustment_total"`
	Sources          []string       `json:"sources"`
	SharpAlignment   SharpAlignment `json:"sharp_alignment"`
	Confidence       Confidence     `json:"confidence"`
	PredictedAt      time.Time      `json:"predicted_at"`

	Result       *BetResult `json:"result,omitempty"`
	ActualMargin *float64   `json:"actual_margin,omitempty"`
	ClosingLine  *float64   `json:"closing_line,omitempty"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
}

// HasOutcome reports whether the record has been graded
func (r *CalibrationRecord) HasOutcome() bool {
	return r.Result != nil
}

// SourceScore is a naive per-source reliability score from the
// calibration report
type SourceScore struct {
	Samples int     `json:"samples"`
	WinRate float64 `json:"win_rate"`
}

// CalibrationReport is the on-demand metrics document for a league window
type CalibrationReport struct {
	League           string                 `json:"league"`
	WindowWeeks      int                    `json:"window_weeks"` // 0 = all time
	SampleSize       int                    `json:"sample_size"`
	GradedSize       int                    `json:"graded_size"`
	EdgeRMSE         float64                `json:"edge_rmse"`
	ATSWins          int                    `json:"ats_wins"`
	ATSLosses        int                    `json:"ats_losses"`
	ATSPushes        int                    `json:"ats_pushes"`
	ATSWinRate       float64                `json:"ats_win_rate"`
	ROIPerBetPct     float64                `json:"roi_per_bet_pct"`
	EFactorImpactAvg float64                `json:"efactor_impact_avg"`
	SourceScores     map[string]SourceScore `json:"source_scores"`
	Recommendations  []string               `json:"recommendations"`
}
