package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTranscriptTTL = 24 * time.Hour

// RedisTranscript stores a session transcript as a Redis list, so multiple
// instances behind a load balancer can share sessions. Entries keep their
// append order; the key carries a TTL refreshed on every write.
type RedisTranscript struct {
	redis  *redis.Client
	key    string
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisTranscript creates a Redis-backed transcript under the given key.
func NewRedisTranscript(client *redis.Client, key string, ttl time.Duration, tracer trace.Tracer) *RedisTranscript {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultTranscriptTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("voxcare.internal.conversation.transcript")
	}
	return &RedisTranscript{
		redis:  client,
		key:    transcriptKey(key),
		ttl:    ttl,
		tracer: tracer,
	}
}

func (s *RedisTranscript) Append(ctx context.Context, entries ...TranscriptEntry) error {
	ctx, span := s.tracer.Start(ctx, "conversation.transcript_append")
	defer span.End()

	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("conversation: failed to marshal transcript entry: %w", err)
		}
		values = append(values, data)
	}
	if err := s.redis.RPush(ctx, s.key, values...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to append transcript: %w", err)
	}
	if err := s.redis.Expire(ctx, s.key, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to refresh transcript ttl: %w", err)
	}
	return nil
}

func (s *RedisTranscript) Snapshot(ctx context.Context) ([]TranscriptEntry, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.transcript_snapshot")
	defer span.End()

	raw, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load transcript: %w", err)
	}
	entries := make([]TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var e TranscriptEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("conversation: failed to decode transcript entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisTranscript) Clear(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "conversation.transcript_clear")
	defer span.End()

	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to clear transcript: %w", err)
	}
	return nil
}

func transcriptKey(id string) string {
	return fmt.Sprintf("transcript:%s", id)
}
