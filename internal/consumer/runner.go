package consumer

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/engine"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/contracts"
)

// Runner drives the engine from the three inbound stream families of a
// sport. A bad message is logged and acknowledged; the stream never stalls
// on one game.
type Runner struct {
	consumer *StreamConsumer
	engine   *engine.Engine
}

// NewRunner creates a runner over a consumer and an engine
func NewRunner(c *StreamConsumer, e *engine.Engine) *Runner {
	return &Runner{
		consumer: c,
		engine:   e,
	}
}

// Start consumes a sport's streams until the context is cancelled
func (r *Runner) Start(ctx context.Context, sportKey string) error {
	streams := []string{
		fmt.Sprintf("matchups.ready.%s", sportKey),
		fmt.Sprintf("lines.moved.%s", sportKey),
		fmt.Sprintf("games.final.%s", sportKey),
	}

	observer := r.engine.LineObserver(ctx)
	merged := make(chan Message)

	for _, streamKey := range streams {
		fmt.Printf("✓ [Runner] Consuming stream: %s\n", streamKey)
		messageCh, errorCh := r.consumer.ConsumeStream(ctx, streamKey)

		go func() {
			for err := range errorCh {
				fmt.Printf("⚠️  [Runner] Stream error: %v\n", err)
			}
		}()
		go func() {
			for msg := range messageCh {
				select {
				case merged <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-merged:
			r.dispatch(ctx, observer, msg)
			if err := r.consumer.AckMessage(ctx, msg.StreamKey, msg.ID); err != nil {
				fmt.Printf("⚠️  [Runner] Failed to ack message %s: %v\n", msg.ID, err)
			}
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, observer contracts.LineObserver, msg Message) {
	switch {
	case msg.Matchup != nil:
		if _, _, err := r.engine.EvaluateMatchup(ctx, *msg.Matchup); err != nil {
			fmt.Printf("⚠️  [Runner] Evaluation failed for %s: %v\n", msg.Matchup.Game.GameID, err)
		}

	case msg.Line != nil:
		observer.OnLineUpdate(*msg.Line)

	case msg.Final != nil:
		if err := r.engine.ProcessFinal(ctx, *msg.Final); err != nil {
			fmt.Printf("⚠️  [Runner] Final processing failed for %s: %v\n", msg.Final.GameID, err)
		}
	}
}
