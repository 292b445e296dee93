package kvstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	pgChannel = notificationPrefix + "_kv"

	createTableQuery = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	getQuery    = `SELECT value FROM kv_store WHERE key = $1`
	upsertQuery = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteQuery = `DELETE FROM kv_store WHERE key = $1`
	notifyQuery = `SELECT pg_notify($1, $2)`
)

// PostgresStore keeps keys in the kv_store table and NOTIFYs the gradecalc_kv channel on commit.
type PostgresStore struct {
	DB  *sqlx.DB
	dsn string
}

var (
	_ Store   = (*PostgresStore)(nil)
	_ Watcher = (*PostgresStore)(nil)
)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err = db.ExecContext(ctx, createTableQuery); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating kv_store table")
	}
	return &PostgresStore{DB: db, dsn: dsn}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.GetContext(ctx, &value, getQuery, key)
	if errors.Cause(err) == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "getting %s", key)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(s.inTx(ctx, key, upsertQuery, key, value), "setting %s", key)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.inTx(ctx, key, deleteQuery, key), "deleting %s", key)
}

// inTx runs query then notifies listeners of key; the notification is only delivered on commit.
func (s *PostgresStore) inTx(ctx context.Context, key, query string, args ...interface{}) (err error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, notifyQuery, pgChannel, key); err != nil {
		return err
	}
	return tx.Commit()
}

// Watch LISTENs on a dedicated connection until ctx is done.
// fn also runs after a reconnect since notifications may have been lost meanwhile.
func (s *PostgresStore) Watch(ctx context.Context, key string, fn func()) error {
	l := pq.NewListener(s.dsn, 10*time.Second, time.Minute, nil)
	if err := l.Listen(pgChannel); err != nil {
		_ = l.Close()
		return errors.Wrap(err, "listening to store notifications")
	}

	go func() {
		defer func() { _ = l.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-l.Notify:
				if !ok {
					return
				}
				// nil after a reconnect
				if n == nil || n.Extra == key {
					fn()
				}
			case <-time.After(90 * time.Second):
				go func() { _ = l.Ping() }()
			}
		}
	}()
	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
