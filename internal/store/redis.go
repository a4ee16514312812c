package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/studyforge/studyforge-backend/internal/logger"
	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/types"
)

const (
	redisPlanKeyPrefix = "studyplan:"
	redisPlanIDsKey    = "studyplan:ids"
)

// redisStore keeps one JSON value per plan plus an insertion-order list of
// ids. No TTL: plans live as long as the Redis instance does.
type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisStore(log *logger.Logger) (PlanStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		log: log.With("service", "RedisPlanStore"),
		rdb: rdb,
	}, nil
}

func (s *redisStore) Put(ctx context.Context, record *types.PlanRecord) error {
	if record == nil || strings.TrimSpace(record.PlanID) == "" {
		return fmt.Errorf("plan record requires an id: %w", apperrors.ErrInvalidArgument)
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", record.PlanID, err)
	}

	// SetNX enforces append-only at the Redis level.
	ok, err := s.rdb.SetNX(ctx, redisPlanKeyPrefix+record.PlanID, raw, 0).Result()
	if err != nil {
		return fmt.Errorf("redis set plan %s: %w", record.PlanID, err)
	}
	if !ok {
		return fmt.Errorf("plan %s already stored: %w", record.PlanID, apperrors.ErrInvalidArgument)
	}
	if err := s.rdb.RPush(ctx, redisPlanIDsKey, record.PlanID).Err(); err != nil {
		return fmt.Errorf("redis push plan id %s: %w", record.PlanID, err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, planID string) (*types.PlanRecord, error) {
	raw, err := s.rdb.Get(ctx, redisPlanKeyPrefix+planID).Bytes()
	if err == goredis.Nil {
		return nil, fmt.Errorf("plan %s: %w", planID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get plan %s: %w", planID, err)
	}
	var rec types.PlanRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", planID, err)
	}
	return &rec, nil
}

func (s *redisStore) List(ctx context.Context) ([]types.PlanSummary, error) {
	ids, err := s.rdb.LRange(ctx, redisPlanIDsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list plan ids: %w", err)
	}
	out := make([]types.PlanSummary, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			s.log.Warn("plan id listed but record missing", "plan_id", id, "error", err)
			continue
		}
		out = append(out, rec.Summary())
	}
	return out, nil
}
