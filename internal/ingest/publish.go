package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/BRO3886/user-search/internal/queue"
	"github.com/BRO3886/user-search/internal/types"
)

const maxLineSize = 1 << 20

type Stats struct {
	Enqueued int
	Skipped  int
	Failed   int
}

type Publisher struct {
	enqueuer queue.Enqueuer
	topic    string
	logger   *slog.Logger
	now      func() time.Time
}

func NewPublisher(enqueuer queue.Enqueuer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		enqueuer: enqueuer,
		topic:    topic,
		logger:   logger.With("component", "ingest"),
		now:      time.Now,
	}
}

// Publish reads JSON lines of UserEvent from r and enqueues the valid ones,
// keyed by user id. Blank, malformed and future-stamped lines are skipped.
// It stops early only when ctx is cancelled or r fails.
func (p *Publisher) Publish(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		raw := append([]byte(nil), scanner.Bytes()...)
		if len(raw) == 0 {
			continue
		}

		var event types.UserEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			p.logger.WarnContext(ctx, "skipping malformed line", "line", line, "error", err)
			stats.Skipped++
			continue
		}
		if err := event.Validate(p.now()); err != nil {
			p.logger.WarnContext(ctx, "skipping invalid event", "line", line, "error", err)
			stats.Skipped++
			continue
		}

		key := ""
		if event.User.Id != 0 {
			key = strconv.Itoa(event.User.Id)
		}
		if err := p.enqueuer.Enqueue(ctx, p.topic, key, raw); err != nil {
			p.logger.ErrorContext(ctx, "error enqueuing event", "line", line, "error", err)
			stats.Failed++
			continue
		}
		stats.Enqueued++
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}

	p.logger.InfoContext(ctx, "ingestion completed",
		"enqueued", stats.Enqueued, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, nil
}
