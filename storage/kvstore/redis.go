package kvstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisChannel = notificationPrefix + ":kv"

// RedisStore keeps every key under the "gradecalc:" namespace and publishes
// the bare key on the "gradecalc:kv" channel after each write.
type RedisStore struct {
	Client *redis.Client
}

var (
	_ Store   = (*RedisStore)(nil)
	_ Watcher = (*RedisStore)(nil)
)

func NewRedisStore(ctx context.Context, opt *redis.Options) (*RedisStore, error) {
	s := &RedisStore{Client: redis.NewClient(opt)}
	if err := s.Client.Ping(ctx).Err(); err != nil {
		_ = s.Client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return s, nil
}

func redisKey(key string) string { return notificationPrefix + ":" + key }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.Client.Get(ctx, redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "getting %s", key)
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(key), value, 0)
		pipe.Publish(ctx, redisChannel, key)
		return nil
	})
	return errors.Wrapf(err, "setting %s", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey(key))
		pipe.Publish(ctx, redisChannel, key)
		return nil
	})
	return errors.Wrapf(err, "deleting %s", key)
}

// Watch subscribes to the notification channel until ctx is done.
func (s *RedisStore) Watch(ctx context.Context, key string, fn func()) error {
	sub := s.Client.Subscribe(ctx, redisChannel)
	// wait for the subscription to be confirmed so no write is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return errors.Wrap(err, "subscribing to store notifications")
	}

	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload == key {
					fn()
				}
			}
		}
	}()
	return nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
