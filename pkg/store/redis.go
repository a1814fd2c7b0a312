package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection parameters, mirroring the source
// implementation's constructor arguments (host, port, db).
type Config struct {
	Host     string
	Port     int
	DB       int
	Password string
}

type redisClient struct {
	rdb *redis.Client
}

// New dials Redis and verifies connectivity with PING, matching the
// source's `self.client.ping()` at construction time.
func New(ctx context.Context, cfg Config) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password, // pragma: allowlist secret
		DB:       cfg.DB,
	})
	c := &redisClient{rdb: rdb}
	if err := c.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: connect to redis at %s:%d db %d: %w", cfg.Host, cfg.Port, cfg.DB, err)
	}
	return c, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (c *redisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := c.rdb.SAdd(ctx, key, args...).Err(); err != nil {
		log.Errorf("store: SADD %s: %v", key, err)
		return err
	}
	return nil
}

func (c *redisClient) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := c.rdb.SRem(ctx, key, args...).Err(); err != nil {
		log.Errorf("store: SREM %s: %v", key, err)
		return err
	}
	return nil
}

func (c *redisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		log.Errorf("store: SMEMBERS %s: %v", key, err)
		return nil, err
	}
	return members, nil
}

func (c *redisClient) SCard(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.SCard(ctx, key).Result()
	if err != nil {
		log.Errorf("store: SCARD %s: %v", key, err)
		return 0, err
	}
	return n, nil
}

func (c *redisClient) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := c.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		log.Errorf("store: SISMEMBER %s: %v", key, err)
		return false, err
	}
	return ok, nil
}

func (c *redisClient) ZAdd(ctx context.Context, key, member string) error {
	err := c.rdb.ZAdd(ctx, key, redis.Z{Score: fixedScore, Member: member}).Err()
	if err != nil {
		log.Errorf("store: ZADD %s: %v", key, err)
	}
	return err
}

func (c *redisClient) ZRem(ctx context.Context, key, member string) error {
	err := c.rdb.ZRem(ctx, key, member).Err()
	if err != nil {
		log.Errorf("store: ZREM %s: %v", key, err)
	}
	return err
}

func (c *redisClient) ZRank(ctx context.Context, key, member string) (int64, bool, error) {
	rank, err := c.rdb.ZRank(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		log.Errorf("store: ZRANK %s: %v", key, err)
		return 0, false, err
	}
	return rank, true, nil
}

func (c *redisClient) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := c.rdb.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		log.Errorf("store: ZRANGE %s: %v", key, err)
		return nil, err
	}
	return members, nil
}

func (c *redisClient) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := c.rdb.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		log.Errorf("store: ZSCORE %s: %v", key, err)
		return 0, false, err
	}
	return score, true, nil
}

func (c *redisClient) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.ZCard(ctx, key).Result()
	if err != nil {
		log.Errorf("store: ZCARD %s: %v", key, err)
		return 0, err
	}
	return n, nil
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Errorf("store: DEL %v: %v", keys, err)
		return err
	}
	return nil
}

func (c *redisClient) Atomic(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			switch op.Kind {
			case OpSAdd:
				pipe.SAdd(ctx, op.Key, op.Member)
			case OpSRem:
				pipe.SRem(ctx, op.Key, op.Member)
			case OpZAdd:
				pipe.ZAdd(ctx, op.Key, redis.Z{Score: fixedScore, Member: op.Member})
			case OpZRem:
				pipe.ZRem(ctx, op.Key, op.Member)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("store: atomic pipeline of %d ops: %v", len(ops), err)
	}
	return err
}
