// Package lease keeps two guardian sessions from writing the same playlist.
//
// A lease is a Redis key set with NX and a TTL. The holder renews it in the
// background and deletes it on release; a crashed holder loses it once the
// TTL runs out. A holder whose key was taken over is told through Lost and
// must stop writing.
package lease

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLocked is returned by Acquire when another session holds the lease.
var ErrLocked = errors.New("lease is already held")

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

// renewScript extends the TTL only while it still carries our token.
var renewScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	end
	return 0
`)

// Manager hands out leases backed by one Redis client.
type Manager struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// New parses a Redis URL and returns a manager. Call Ping to verify the
// connection.
func New(rawURL string, logger *zap.Logger) (*Manager, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewWithClient(redis.NewClient(opts), logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{client: client, logger: logger}
}

// Ping checks the connection to Redis.
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (m *Manager) Close() error {
	return m.client.Close()
}

// Lease is a held lock. Release must be called exactly once.
type Lease struct {
	m     *Manager
	key   string
	token string
	ttl   time.Duration

	stop chan struct{}
	done chan struct{}
	lost chan struct{}
	once sync.Once
}

// Acquire takes the lease named key and renews it every ttl/3 until
// Release. ErrLocked means another session holds it.
func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	token := randomToken()

	ok, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lease %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	l := &Lease{
		m:     m,
		key:   key,
		token: token,
		ttl:   ttl,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		lost:  make(chan struct{}),
	}
	go l.renew()
	return l, nil
}

// Held reports whether key is currently leased by anyone.
func (m *Manager) Held(ctx context.Context, key string) bool {
	n, _ := m.client.Exists(ctx, key).Result()
	return n > 0
}

// Lost is closed when renewal finds the key owned by someone else. It stays
// open after a normal Release.
func (l *Lease) Lost() <-chan struct{} {
	return l.lost
}

func (l *Lease) renew() {
	defer close(l.done)

	interval := l.ttl / 3
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			n, err := renewScript.Run(context.Background(), l.m.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
			if err != nil {
				l.m.logger.Warn("Failed to renew lease", zap.String("key", l.key), zap.Error(err))
				continue
			}
			if n == 0 {
				l.m.logger.Error("Lease lost", zap.String("key", l.key))
				close(l.lost)
				return
			}
		}
	}
}

// Release stops renewal and deletes the key if we still own it.
func (l *Lease) Release() {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		// Background context so release works after the session context is cancelled.
		if err := releaseScript.Run(context.Background(), l.m.client, []string{l.key}, l.token).Err(); err != nil {
			l.m.logger.Warn("Failed to release lease", zap.String("key", l.key), zap.Error(err))
		}
	})
}

func randomToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
