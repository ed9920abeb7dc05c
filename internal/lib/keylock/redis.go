package keylock

import (
	"ProgJulia/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis shares keyed try-locks between service instances. The ttl bounds how
// long a crashed holder keeps the key.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.With(sl.Module("keylock.redis")),
	}
}

func (r *Redis) TryLock(ctx context.Context, key string) (func(), error) {
	name := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		if err := unlockScript.Run(context.Background(), r.client, []string{name}, token).Err(); err != nil {
			r.log.With(
				slog.String("key", name),
				sl.Err(err),
			).Warn("release lock")
		}
	}, nil
}
