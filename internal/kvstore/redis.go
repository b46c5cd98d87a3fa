package kvstore

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lapakpos:collection:"

// Redis persists each collection under a single key, matching the
// whole-value replacement semantics of the Store contract.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) GetCollection(ctx context.Context, name string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *Redis) SetCollection(ctx context.Context, name string, payload []byte) error {
	return r.client.Set(ctx, redisKeyPrefix+name, payload, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
