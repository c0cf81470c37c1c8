package hotcache

import "context"

// UsageCounter keeps per-command usage counters in redis
type UsageCounter struct {
	Cache RuedisHotCache[int64]
}

func (u UsageCounter) IncrementUsage(ctx context.Context, commandName string) error {
	return u.Cache.IncrementOne(ctx, "usage:"+commandName)
}

func (u UsageCounter) Usage(ctx context.Context, commandName string) (int64, error) {
	return u.Cache.Int64(ctx, "usage:"+commandName)
}
