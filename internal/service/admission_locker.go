package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrLockTimeout is returned when an admission lock could not be acquired in time
var ErrLockTimeout = errors.New("timed out waiting for admission lock")

// =============================================================================
// Constants
// =============================================================================

const (
	// Key prefixes for admission locks
	DoctorLockPrefix = "admission:doctor:"
	EmailLockPrefix  = "admission:email:"

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// =============================================================================
// Types
// =============================================================================

// AdmissionLocker serializes admissions that share a key (a doctor id or an
// email address) for the duration of their check-and-insert.
type AdmissionLocker interface {
	// Lock blocks until the key is held, ctx is done, or the wait timeout
	// elapses. The returned func releases the key.
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLocker is an in-process AdmissionLocker.
//
// Key Features:
// - Per-key mutex: unrelated doctors never wait on each other
// - Bounded wait: acquisition gives up after waitTimeout
// - Memory safe: a background loop drops mutexes unused for mutexStaleThreshold
type LocalLocker struct {
	log         *logrus.Logger
	waitTimeout time.Duration

	keyMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup.
// The buffered channel acts as a mutex that can be waited on with a deadline.
type mutexWithTimestamp struct {
	sem      chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
}

func newMutexWithTimestamp() *mutexWithTimestamp {
	return &mutexWithTimestamp{sem: make(chan struct{}, 1)}
}

func (m *mutexWithTimestamp) tryLock() bool {
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *mutexWithTimestamp) unlock() {
	<-m.sem
}

// =============================================================================
// Constructor
// =============================================================================

// NewLocalLocker creates a LocalLocker.
// Starts background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewLocalLocker(log *logrus.Logger, waitTimeout time.Duration) *LocalLocker {
	l := &LocalLocker{
		log:         log,
		waitTimeout: waitTimeout,
		stopChan:    make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (l *LocalLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalLocker stopped")
	}
}

// =============================================================================
// Public Methods
// =============================================================================

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	timer := time.NewTimer(l.waitTimeout)
	defer timer.Stop()

	for {
		mt := l.getKeyMutex(key)

		select {
		case mt.sem <- struct{}{}:
		case <-timer.C:
			l.log.Warnf("Timed out after %v waiting for lock %s", l.waitTimeout, key)
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		// The sweeper may have dropped this mutex while we waited on it.
		if current, ok := l.keyMu.Load(key); !ok || current != mt {
			mt.unlock()
			continue
		}

		mt.lastUsed.Store(time.Now().Unix())
		var once sync.Once
		return func() {
			once.Do(func() {
				mt.lastUsed.Store(time.Now().Unix())
				mt.unlock()
			})
		}, nil
	}
}

// =============================================================================
// Private Helper Methods
// =============================================================================

// getKeyMutex returns mutex for a specific key
func (l *LocalLocker) getKeyMutex(key string) *mutexWithTimestamp {
	mt, _ := l.keyMu.LoadOrStore(key, newMutexWithTimestamp())
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (l *LocalLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff.
// lastUsed is checked while holding the mutex so a concurrent Lock cannot
// slip in between the check and the delete.
func (l *LocalLocker) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffTime := cutoff.Unix()
	var cleaned int

	l.keyMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.tryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				l.keyMu.Delete(key)
				cleaned++
			}
			mt.unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
