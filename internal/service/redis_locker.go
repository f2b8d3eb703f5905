package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// releaseLockScript deletes the lock key only if it still holds our token,
// so a lock that expired and was taken by another instance is never released
// by the old holder.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// Delay between SET NX attempts while the key is held elsewhere
	lockRetryInterval = 25 * time.Millisecond

	// Timeout for the release call, independent of the caller's ctx
	lockReleaseTimeout = 2 * time.Second
)

// RedisLocker is an AdmissionLocker shared by every instance using the same
// Redis. The in-process lock is taken FIRST so that requests from one
// instance queue locally instead of polling Redis.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire local key mutex
// 2. Then acquire Redis key
type RedisLocker struct {
	redisClient *redis.Client
	local       *LocalLocker
	breaker     *gobreaker.CircuitBreaker
	log         *logrus.Logger
	waitTimeout time.Duration
	ttl         time.Duration
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a crashed holder
// can keep a key; it must exceed the longest admission transaction.
func NewRedisLocker(
	redisClient *redis.Client,
	local *LocalLocker,
	breaker *gobreaker.CircuitBreaker,
	log *logrus.Logger,
	waitTimeout time.Duration,
	ttl time.Duration,
) *RedisLocker {
	return &RedisLocker{
		redisClient: redisClient,
		local:       local,
		breaker:     breaker,
		log:         log,
		waitTimeout: waitTimeout,
		ttl:         ttl,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	deadline := time.Now().Add(l.waitTimeout)

	for {
		acquired, err := l.trySet(ctx, key, token)
		if err != nil {
			unlockLocal()
			l.log.Warnf("Failed to acquire Redis lock %s: %+v", key, err)
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if acquired {
			break
		}

		if time.Now().After(deadline) {
			unlockLocal()
			l.log.Warnf("Timed out after %v waiting for Redis lock %s", l.waitTimeout, key)
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		select {
		case <-time.After(lockRetryInterval):
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		}
	}

	return func() {
		defer unlockLocal()

		releaseCtx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.redisClient, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			// Key expires on its own after ttl
			l.log.Warnf("Failed to release Redis lock %s (non-fatal): %+v", key, err)
		}
	}, nil
}

// trySet runs SET NX PX through the circuit breaker.
func (l *RedisLocker) trySet(ctx context.Context, key, token string) (bool, error) {
	result, err := l.breaker.Execute(func() (interface{}, error) {
		return l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
