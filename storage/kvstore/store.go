package kvstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/gradecalc/core"
)

// Fixed keys of the persisted state.
const (
	KeyTheme           = "theme"
	KeyHistory         = "grade_history"
	KeySubjects        = "gwaSubjects"
	KeyGoal            = "gwaGoal"
	KeyGoalAchieved    = "gwaGoalAchieved"
	KeyHistoryLayout   = "historyLayout"
	notificationPrefix = "gradecalc"
)

// Backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var (
	// errors
	ErrUnknownBackend = errors.New("unknown store backend")
)

type (
	// Store is a durable string-keyed blob store.
	Store interface {
		// Get returns found == false when the key has never been set or was deleted.
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
		Set(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, key string) error
		Close() error
	}

	// Watcher is implemented by stores that can report writes to a key.
	// fn runs for every Set or Delete of key, including the caller's own, until ctx is done.
	Watcher interface {
		Watch(ctx context.Context, key string, fn func()) error
	}
)

// Open returns the Store selected by conf.Backend.
func Open(ctx context.Context, conf core.StoreConfig) (Store, error) {
	switch conf.Backend {
	case BackendFile, "":
		return NewFileStore(conf.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		if conf.RedisAddr == "" {
			return nil, errors.New("store.redisaddr is required by the redis backend")
		}
		return NewRedisStore(ctx, &redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		})
	case BackendPostgres:
		if conf.PostgresDSN == "" {
			return nil, errors.New("store.postgresdsn is required by the postgres backend")
		}
		return NewPostgresStore(ctx, conf.PostgresDSN)
	default:
		return nil, errors.Wrap(ErrUnknownBackend, conf.Backend)
	}
}
