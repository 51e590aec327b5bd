package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the redis instance shared by the idempotency store and the
// event stream.
type Options struct {
	Addr        string
	DB          int
	PingTimeout time.Duration
}

// OpenRedis connects and pings once so a bad address fails at startup rather
// than on the first request.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
	r := redis.NewClient(&redis.Options{Addr: o.Addr, DB: o.DB})
	ctx, cancel := context.WithTimeout(ctx, o.PingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", o.Addr, o.DB, err)
	}
	return r, nil
}
