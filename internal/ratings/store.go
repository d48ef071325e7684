package ratings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// Smoothing weights for the rating update. The 90/10 split is the house
// exponential smoothing ratio; override only via NewStoreWithWeights.
const (
	DefaultCarryWeight       = 0.9
	DefaultPerformanceWeight = 0.1
)

// TotalRatingWeight scales average rating into the predicted total
const TotalRatingWeight = 0.3

// Store maintains one smoothed power rating per (team, sport).
// Updates are serialized under a single mutex; ratings for different teams
// are independent until read together in PredictedSpread.
type Store struct {
	dataDir   string
	carry     float64
	perf      float64
	mu        sync.RWMutex
	snapshots map[string]*models.PowerRatingSnapshot // key: sport:team
}

// NewStore creates a rating store persisting under dataDir with the
// default 0.9/0.1 smoothing weights
func NewStore(dataDir string) *Store {
	return NewStoreWithWeights(dataDir, DefaultCarryWeight, DefaultPerformanceWeight)
}

// NewStoreWithWeights creates a rating store with custom smoothing weights.
// Weights must be positive and sum to 1.0; invalid weights fall back to the
// defaults.
func NewStoreWithWeights(dataDir string, carry, perf float64) *Store {
	if carry <= 0 || perf <= 0 || carry+perf < 0.999 || carry+perf > 1.001 {
		carry = DefaultCarryWeight
		perf = DefaultPerformanceWeight
	}
	return &Store{
		dataDir:   dataDir,
		carry:     carry,
		perf:      perf,
		snapshots: make(map[string]*models.PowerRatingSnapshot),
	}
}

// GetRating returns the current rating for a team, or 0.0 (neutral) if the
// team is unrated. Never errors.
func (s *Store) GetRating(teamID, sportKey string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap, ok := s.snapshots[ratingKey(teamID, sportKey)]; ok {
		return snap.Rating
	}
	return 0.0
}

// Snapshot returns a copy of the current snapshot for a (team, sport)
func (s *Store) Snapshot(teamID, sportKey string) (models.PowerRatingSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[ratingKey(teamID, sportKey)]
	if !ok {
		return models.PowerRatingSnapshot{}, false
	}
	return copySnapshot(snap), true
}

// Update applies one completed game to the team's rating.
//
//	true_performance = score_diff + opponent_rating + injury_differential - home_field_adjustment
//
// where home_field_adjustment is +HFA when the team was away and -HFA when
// it was home. The new rating is the carry/performance convex combination
// of the old rating and the true performance.
func (s *Store) Update(result models.GameResult, hfa float64) (models.PowerRatingSnapshot, error) {
	if result.TeamID == "" || result.SportKey == "" {
		return models.PowerRatingSnapshot{}, fmt.Errorf("rating update missing team or sport key")
	}

	opponentRating := s.GetRating(result.OpponentID, result.SportKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := ratingKey(result.TeamID, result.SportKey)
	snap, ok := s.snapshots[key]
	if !ok {
		snap = &models.PowerRatingSnapshot{
			TeamID:   result.TeamID,
			SportKey: result.SportKey,
		}
		s.snapshots[key] = snap
	}

	homeFieldAdjustment := hfa
	if result.WasHome {
		homeFieldAdjustment = -hfa
	}

	truePerformance := result.ScoreDiff + opponentRating + result.InjuryDifferential - homeFieldAdjustment

	snap.Rating = snap.Rating*s.carry + truePerformance*s.perf
	snap.RatingHistory = append(snap.RatingHistory, snap.Rating)
	snap.GamesPlayed++
	snap.LastUpdated = time.Now().UTC()

	return copySnapshot(snap), nil
}

// PredictedSpread returns the predicted home margin of victory:
//
//	(home_rating - away_rating) + home_field - injury_diff
//
// injuryDiff is signed toward the home side. Callers negate to express the
// result as a market-convention home line.
func (s *Store) PredictedSpread(awayTeamID, homeTeamID, sportKey string, hfa, injuryDiff float64) float64 {
	homeRating := s.GetRating(homeTeamID, sportKey)
	awayRating := s.GetRating(awayTeamID, sportKey)
	return (homeRating - awayRating) + hfa - injuryDiff
}

// PredictedTotal returns the sport baseline plus a fraction of the
// participants' average rating
func (s *Store) PredictedTotal(awayTeamID, homeTeamID, sportKey string, baseline float64) float64 {
	homeRating := s.GetRating(homeTeamID, sportKey)
	awayRating := s.GetRating(awayTeamID, sportKey)
	avg := (homeRating + awayRating) / 2.0
	return baseline + avg*TotalRatingWeight
}

// Snapshots returns copies of all current snapshots
func (s *Store) Snapshots() []models.PowerRatingSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PowerRatingSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, copySnapshot(snap))
	}
	return out
}

// Save writes one JSON document per (team, sport) under
// <dataDir>/ratings/<sport>/<team>.json. A failed write is fatal and
// propagates to the caller; swallowing it would corrupt the history
// invariant on the next load.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.snapshots {
		dir := filepath.Join(s.dataDir, "ratings", snap.SportKey)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ratings dir %s: %w", dir, err)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rating %s: %w", snap.TeamID, err)
		}

		path := filepath.Join(dir, snap.TeamID+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write rating document %s: %w", path, err)
		}
	}

	return nil
}

// Load reads rating documents from disk. A missing directory or a corrupt
// document is non-fatal: the store logs a warning and continues with
// whatever loaded cleanly, falling back to an empty store.
func (s *Store) Load() error {
	root := filepath.Join(s.dataDir, "ratings")

	sportDirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("⚠️  No rating documents at %s, starting with empty store\n", root)
			return nil
		}
		fmt.Printf("⚠️  Failed to read ratings dir %s: %v, starting with empty store\n", root, err)
		return nil
	}

	loaded := 0
	skipped := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sportDir := range sportDirs {
		if !sportDir.IsDir() {
			continue
		}

		sportPath := filepath.Join(root, sportDir.Name())
		files, err := os.ReadDir(sportPath)
		if err != nil {
			fmt.Printf("⚠️  Failed to read %s: %v, skipping sport\n", sportPath, err)
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}

			path := filepath.Join(sportPath, file.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("⚠️  Failed to read rating document %s: %v, skipping\n", path, err)
				skipped++
				continue
			}

			var snap models.PowerRatingSnapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				fmt.Printf("⚠️  Corrupt rating document %s: %v, skipping\n", path, err)
				skipped++
				continue
			}

			if snap.TeamID == "" || snap.SportKey == "" {
				fmt.Printf("⚠️  Rating document %s missing identifiers, skipping\n", path)
				skipped++
				continue
			}

			s.snapshots[ratingKey(snap.TeamID, snap.SportKey)] = &snap
			loaded++
		}
	}

	fmt.Printf("✓ Loaded %d rating documents (%d skipped)\n", loaded, skipped)
	return nil
}

func ratingKey(teamID, sportKey string) string {
	return fmt.Sprintf("%s:%s", sportKey, teamID)
}

func copySnapshot(snap *models.PowerRatingSnapshot) models.PowerRatingSnapshot {
	out := *snap
	out.RatingHistory = make([]float64, len(snap.RatingHistory))
	copy(out.RatingHistory, snap.RatingHistory)
	return out
}
