// Package consumer reads the inbound collaborator streams: prepared
// matchups, market line moves, and final scores. Payloads arrive as JSON
// documents in a "data" field, the same envelope every fortuna stream uses.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/engine"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// StreamConsumer consumes engine inputs from Redis Streams
type StreamConsumer struct {
	client     *redis.Client
	consumerID string
	groupName  string
}

// Message is one parsed stream entry. Exactly one payload field is set,
// determined by the stream it arrived on.
type Message struct {
	ID        string
	StreamKey string

	Matchup *engine.MatchupInput
	Line    *models.MarketLine
	Final   *engine.GameFinal
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(client *redis.Client, consumerID, groupName string) *StreamConsumer {
	return &StreamConsumer{
		client:     client,
		consumerID: consumerID,
		groupName:  groupName,
	}
}

// ConsumeStream starts consuming from a stream and returns channels for
// messages and errors
func (c *StreamConsumer) ConsumeStream(ctx context.Context, streamKey string) (<-chan Message, <-chan error) {
	messageCh := make(chan Message, 100)
	errorCh := make(chan error, 10)

	// Create consumer group if it doesn't exist
	err := c.client.XGroupCreateMkStream(ctx, streamKey, c.groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		errorCh <- fmt.Errorf("failed to create consumer group: %w", err)
		close(messageCh)
		close(errorCh)
		return messageCh, errorCh
	}

	go func() {
		defer close(messageCh)
		defer close(errorCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    c.groupName,
					Consumer: c.consumerID,
					Streams:  []string{streamKey, ">"},
					Count:    10,
					Block:    1 * time.Second,
				}).Result()

				if err != nil {
					if err == redis.Nil {
						continue
					}
					if ctx.Err() != nil {
						return
					}
					errorCh <- fmt.Errorf("error reading from stream: %w", err)
					time.Sleep(1 * time.Second)
					continue
				}

				for _, stream := range streams {
					for _, message := range stream.Messages {
						msg, err := parseMessage(streamKey, message)
						if err != nil {
							errorCh <- fmt.Errorf("error parsing message %s: %w", message.ID, err)
							continue
						}

						messageCh <- msg
					}
				}
			}
		}
	}()

	return messageCh, errorCh
}

// AckMessage acknowledges a message as processed
func (c *StreamConsumer) AckMessage(ctx context.Context, streamKey, messageID string) error {
	return c.client.XAck(ctx, streamKey, c.groupName, messageID).Err()
}

// parseMessage decodes the payload by stream family:
// matchups.ready.*, lines.moved.*, games.final.*
func parseMessage(streamKey string, xmsg redis.XMessage) (Message, error) {
	payload, ok := xmsg.Values["data"].(string)
	if !ok {
		return Message{}, fmt.Errorf("missing 'data' field in message")
	}

	msg := Message{
		ID:        xmsg.ID,
		StreamKey: streamKey,
	}

	switch {
	case strings.HasPrefix(streamKey, "matchups.ready."):
		var matchup engine.MatchupInput
		if err := json.Unmarshal([]byte(payload), &matchup); err != nil {
			return Message{}, fmt.Errorf("failed to parse matchup JSON: %w", err)
		}
		msg.Matchup = &matchup

	case strings.HasPrefix(streamKey, "lines.moved."):
		var line models.MarketLine
		if err := json.Unmarshal([]byte(payload), &line); err != nil {
			return Message{}, fmt.Errorf("failed to parse line JSON: %w", err)
		}
		msg.Line = &line

	case strings.HasPrefix(streamKey, "games.final."):
		var final engine.GameFinal
		if err := json.Unmarshal([]byte(payload), &final); err != nil {
			return Message{}, fmt.Errorf("failed to parse final JSON: %w", err)
		}
		msg.Final = &final

	default:
		return Message{}, fmt.Errorf("unrecognized stream %s", streamKey)
	}

	return msg, nil
}
