package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrLockHeld is returned by a JobLocker when another holder owns the lock.
var ErrLockHeld = errors.New("lock already held")

// JobLocker serializes background jobs across processes. Acquire returns a
// release func that must be called once the job finishes; an empty name means
// no locking.
type JobLocker interface {
	Acquire(ctx context.Context, name string) (release func() error, err error)
}

// NewJobLocker prefers redis when a client is available, otherwise the
// database's own named locks. SQLite has none, so jobs run unlocked there.
func NewJobLocker(db *gorm.DB, rdb *redis.Client) JobLocker {
	if rdb != nil {
		return NewRedisLocker(rdb, 0)
	}
	if db == nil {
		return NoopLocker{}
	}
	switch db.Dialector.Name() {
	case "mysql":
		return &SQLLocker{db: db, acquireSQL: "SELECT GET_LOCK(?, 0)", releaseSQL: "SELECT RELEASE_LOCK(?)"}
	case "postgres":
		return &SQLLocker{db: db, acquireSQL: "SELECT CASE WHEN pg_try_advisory_lock(hashtext($1)) THEN 1 ELSE 0 END", releaseSQL: "SELECT CASE WHEN pg_advisory_unlock(hashtext($1)) THEN 1 ELSE 0 END"}
	}
	return NoopLocker{}
}

type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func() error, error) {
	return func() error { return nil }, nil
}

// SQLLocker uses session-scoped database locks (MySQL GET_LOCK, PostgreSQL
// advisory locks). The lock lives on one pinned connection, so acquire and
// release always run on the same session.
type SQLLocker struct {
	db         *gorm.DB
	acquireSQL string
	releaseSQL string
}

// NewMySQLLocker builds a GET_LOCK based locker.
func NewMySQLLocker(db *gorm.DB) *SQLLocker {
	return &SQLLocker{db: db, acquireSQL: "SELECT GET_LOCK(?, 0)", releaseSQL: "SELECT RELEASE_LOCK(?)"}
}

func (l *SQLLocker) Acquire(ctx context.Context, name string) (func() error, error) {
	if strings.TrimSpace(name) == "" {
		return func() error { return nil }, nil
	}

	sqlDB, err := l.db.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var ok sql.NullInt64
	if err := conn.QueryRowContext(ctx, l.acquireSQL, name).Scan(&ok); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if !ok.Valid || ok.Int64 != 1 {
		_ = conn.Close()
		return nil, ErrLockHeld
	}

	return func() error {
		defer conn.Close()
		var released sql.NullInt64
		return conn.QueryRowContext(persistentContext(ctx), l.releaseSQL, name).Scan(&released)
	}, nil
}

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a lock as a key with an owner token and a TTL, so a
// crashed holder cannot block the job forever.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisLocker{Client: client, TTL: ttl, Prefix: "lock:"}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string) (func() error, error) {
	if strings.TrimSpace(name) == "" {
		return func() error { return nil }, nil
	}
	key := l.Prefix + name
	owner := uuid.NewString()

	ok, err := l.Client.SetNX(ctx, key, owner, l.TTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func() error {
		return releaseLockScript.Run(persistentContext(ctx), l.Client, []string{key}, owner).Err()
	}, nil
}
