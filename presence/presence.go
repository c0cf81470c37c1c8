// Package presence tracks which game servers currently hold a live connection.
//
// Connected servers heartbeat their key; a server whose key expired is considered disconnected.
package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 90 * time.Second

type Registry struct {
	Redis  *redis.Client
	Prefix string
	TTL    time.Duration
}

func New(rdb *redis.Client) *Registry {
	return &Registry{Redis: rdb, Prefix: "cmdgate:presence:", TTL: DefaultTTL}
}

func (r *Registry) key(resourceID string) string {
	return r.Prefix + resourceID
}

// Heartbeat marks the server as connected for another TTL
func (r *Registry) Heartbeat(ctx context.Context, resourceID string) error {
	return r.Redis.Set(ctx, r.key(resourceID), time.Now().Unix(), r.TTL).Err()
}

func (r *Registry) Disconnect(ctx context.Context, resourceID string) error {
	return r.Redis.Del(ctx, r.key(resourceID)).Err()
}

func (r *Registry) IsConnected(ctx context.Context, resourceID string) (bool, error) {
	n, err := r.Redis.Exists(ctx, r.key(resourceID)).Result()

	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// LastSeen returns when the server last sent a heartbeat, zero if it is disconnected
func (r *Registry) LastSeen(ctx context.Context, resourceID string) (time.Time, error) {
	unix, err := r.Redis.Get(ctx, r.key(resourceID)).Int64()

	if err == redis.Nil {
		return time.Time{}, nil
	}

	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(unix, 0), nil
}
