package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamSink appends events to a capped Redis stream.
type RedisStreamSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewRedisStreamSink(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Name() string { return "redis-stream" }

func (s *RedisStreamSink) Publish(ctx context.Context, evt Event) error {
	if err := s.client.XAdd(ctx, s.xaddArgs(evt)).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisStreamSink) xaddArgs(evt Event) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Values: []interface{}{
			"id", evt.ID,
			"type", string(evt.Type),
			"activity", evt.Activity,
			"email", evt.Email,
			"participant_count", strconv.Itoa(evt.ParticipantCount),
			"occurred_at", evt.OccurredAt.Format(time.RFC3339Nano),
		},
	}
}
