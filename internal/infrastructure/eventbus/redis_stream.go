// Package eventbus fans committed settlement events out to a redis stream.
package eventbus

import (
	"context"
	"encoding/json"
	"strconv"

	eventDomain "loan-settlement/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisStream struct {
	rdb    *redis.Client
	stream string
	maxLen int64
	log    *zap.Logger
}

var _ eventDomain.Publisher = (*RedisStream)(nil)

func NewRedisStream(rdb *redis.Client, stream string, maxLen int64, log *zap.Logger) *RedisStream {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStream{rdb: rdb, stream: stream, maxLen: maxLen, log: log}
}

// Publish appends one stream entry per event inside a single pipeline. The
// database row stays the source of truth; a failed publish is logged and
// returned but never undoes the commit.
func (p *RedisStream) Publish(ctx context.Context, events []eventDomain.Event) error {
	if len(events) == 0 {
		return nil
	}
	_, err := p.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range events {
			payload, err := json.Marshal(events[i])
			if err != nil {
				return err
			}
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: p.stream,
				MaxLen: p.maxLen,
				Approx: p.maxLen > 0,
				Values: map[string]any{
					"seq":     strconv.FormatUint(events[i].Seq, 10),
					"kind":    string(events[i].Kind),
					"tx_id":   events[i].TxID,
					"payload": payload,
				},
			})
		}
		return nil
	})
	if err != nil {
		p.log.Warn("event publish failed", zap.String("stream", p.stream), zap.Int("events", len(events)), zap.Error(err))
	}
	return err
}
