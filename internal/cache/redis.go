package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	engine "github.com/jason-s-yu/jass/engine"
)

const (
	fieldScore    = "score"
	fieldUnplayed = "unplayed"
	fieldTrick    = "trick"
)

func stateKey(id uuid.UUID) string   { return "jass:game:" + id.String() + ":state" }
func actionsKey(id uuid.UUID) string { return "jass:game:" + id.String() + ":actions" }

// Redis is a Store backed by a Redis server. Snapshots are hashes of the
// three packed turn-state components; actions are JSON list entries.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// ConnectRedis opens a client and pings the server.
func ConnectRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

// Close releases the connection pool.
func (r *Redis) Close() error { return r.rdb.Close() }

func (r *Redis) SaveSnapshot(ctx context.Context, gameID uuid.UUID, state engine.TurnState) error {
	key := stateKey(gameID)
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			fieldScore, strconv.FormatUint(state.PackedScore(), 10),
			fieldUnplayed, strconv.FormatUint(state.PackedUnplayed(), 10),
			fieldTrick, strconv.FormatUint(uint64(state.PackedTrick()), 10),
		)
		if r.ttl > 0 {
			p.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: save snapshot %s: %w", gameID, err)
	}
	return nil
}

func (r *Redis) LoadSnapshot(ctx context.Context, gameID uuid.UUID) (engine.TurnState, error) {
	vals, err := r.rdb.HMGet(ctx, stateKey(gameID), fieldScore, fieldUnplayed, fieldTrick).Result()
	if err != nil {
		return engine.TurnState{}, fmt.Errorf("cache: load snapshot %s: %w", gameID, err)
	}
	var packed [3]uint64
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return engine.TurnState{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		if packed[i], err = strconv.ParseUint(s, 10, 64); err != nil {
			return engine.TurnState{}, fmt.Errorf("cache: snapshot %s: %w", gameID, err)
		}
	}
	if packed[2] > uint64(^uint32(0)) {
		return engine.TurnState{}, fmt.Errorf("%w: trick %#x", engine.ErrInvalidEncoding, packed[2])
	}
	return engine.TurnStateFromPacked(packed[0], packed[1], uint32(packed[2]))
}

func (r *Redis) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: encode action: %w", err)
	}
	key := actionsKey(rec.GameID)
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, b)
		if r.ttl > 0 {
			p.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: publish action %d: %w", rec.ActionIndex, err)
	}
	return nil
}

// Actions reads back the action log of a game.
func (r *Redis) Actions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	raw, err := r.rdb.LRange(ctx, actionsKey(gameID), 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: read actions %s: %w", gameID, err)
	}
	out := make([]GameActionRecord, 0, len(raw))
	for _, s := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("cache: decode action: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

var _ Store = (*Redis)(nil)
