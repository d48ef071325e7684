package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
	"github.com/redis/go-redis/v9"
)

// StreamPublisher publishes evaluations and recommendations to Redis
// Streams for the reporting and alerting collaborators
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// PublishEvaluation publishes one evaluation to evaluations.graded.<sport>
func (p *StreamPublisher) PublishEvaluation(ctx context.Context, eval models.MatchupEvaluation) error {
	evalJSON, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	streamKey := fmt.Sprintf("evaluations.graded.%s", eval.SportKey)

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"evaluation": string(evalJSON),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
	}

	return nil
}

// PublishRecommendation publishes one recommendation to both the
// sport-specific and the global recommendations stream
func (p *StreamPublisher) PublishRecommendation(ctx context.Context, rec models.BetRecommendation) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	for _, streamKey := range []string{
		fmt.Sprintf("recommendations.made.%s", rec.SportKey),
		"recommendations.made",
	} {
		_, err = p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			Values: map[string]interface{}{
				"recommendation": string(recJSON),
			},
		}).Result()

		if err != nil {
			return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
		}
	}

	return nil
}
