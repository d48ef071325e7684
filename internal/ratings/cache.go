package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
	"github.com/redis/go-redis/v9"
)

// RatingDocTTL keeps mirrored rating documents around for a full game week
const RatingDocTTL = 8 * 24 * time.Hour

// RedisMirror mirrors current rating snapshots into Redis so collaborator
// services can read them without going through the store
type RedisMirror struct {
	client *redis.Client
}

// NewRedisMirror creates a new rating mirror
func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{
		client: client,
	}
}

// WriteSnapshot stores one rating document at rating:<sport>:<team>
func (m *RedisMirror) WriteSnapshot(ctx context.Context, snap models.PowerRatingSnapshot) error {
	key := fmt.Sprintf("rating:%s:%s", snap.SportKey, snap.TeamID)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling rating snapshot: %w", err)
	}

	return m.client.Set(ctx, key, data, RatingDocTTL).Err()
}

// WriteAll mirrors every snapshot in one pipeline
func (m *RedisMirror) WriteAll(ctx context.Context, snaps []models.PowerRatingSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	pipe := m.client.Pipeline()
	for _, snap := range snaps {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshaling rating snapshot %s: %w", snap.TeamID, err)
		}
		key := fmt.Sprintf("rating:%s:%s", snap.SportKey, snap.TeamID)
		pipe.Set(ctx, key, data, RatingDocTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// ReadSnapshot retrieves a mirrored rating document
func (m *RedisMirror) ReadSnapshot(ctx context.Context, teamID, sportKey string) (*models.PowerRatingSnapshot, error) {
	key := fmt.Sprintf("rating:%s:%s", sportKey, teamID)

	data, err := m.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var snap models.PowerRatingSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling rating snapshot: %w", err)
	}

	return &snap, nil
}
