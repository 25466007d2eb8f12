package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "helios:history:"
	defaultTTL = 7 * 24 * time.Hour
)

// RedisStore keeps each conversation in a capped Redis list.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
	logger   *zap.Logger
}

// NewRedisStore accepts either a redis:// URL or a bare host:port.
func NewRedisStore(redisURL string, maxTurns int, logger *zap.Logger) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &RedisStore{
		client:   redis.NewClient(opts),
		maxTurns: maxTurns,
		ttl:      defaultTTL,
		logger:   logger,
	}, nil
}

func conversationRedisKey(playerID uuid.UUID, npcID string) string {
	return keyPrefix + playerID.String() + ":" + npcID
}

func (s *RedisStore) Append(ctx context.Context, playerID uuid.UUID, npcID string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, b)
	}

	key := conversationRedisKey(playerID, npcID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append history: %w", err)
	}
	s.logger.Debug("history appended", zap.String("key", key), zap.Int("turns", len(turns)))
	return nil
}

// Recent returns up to n turns, oldest first. Entries that fail to decode are skipped.
func (s *RedisStore) Recent(ctx context.Context, playerID uuid.UUID, npcID string, n int) ([]domain.Turn, error) {
	if n <= 0 || n > s.maxTurns {
		n = s.maxTurns
	}
	key := conversationRedisKey(playerID, npcID)
	raw, err := s.client.LRange(ctx, key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read history: %w", err)
	}

	turns := make([]domain.Turn, 0, len(raw))
	for _, r := range raw {
		var t domain.Turn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			s.logger.Warn("skipping malformed history entry", zap.String("key", key), zap.Error(err))
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
