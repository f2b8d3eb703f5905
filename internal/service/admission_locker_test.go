package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestLocker(t *testing.T, waitTimeout time.Duration) *LocalLocker {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	l := NewLocalLocker(log, waitTimeout)
	t.Cleanup(l.Stop)
	return l
}

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := newTestLocker(t, 5*time.Second)

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), DoctorLockPrefix+"a")
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	if maxInside.Load() != 1 {
		t.Errorf("max holders = %d, want 1", maxInside.Load())
	}
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := newTestLocker(t, 100*time.Millisecond)

	unlockA, err := l.Lock(context.Background(), DoctorLockPrefix+"a")
	if err != nil {
		t.Fatalf("Lock a: %v", err)
	}
	defer unlockA()

	unlockB, err := l.Lock(context.Background(), DoctorLockPrefix+"b")
	if err != nil {
		t.Fatalf("Lock b while a is held: %v", err)
	}
	unlockB()
}

func TestLocalLocker_Timeout(t *testing.T) {
	l := newTestLocker(t, 20*time.Millisecond)

	unlock, err := l.Lock(context.Background(), EmailLockPrefix+"jane@clinic.test")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	_, err = l.Lock(context.Background(), EmailLockPrefix+"jane@clinic.test")
	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("err = %v, want ErrLockTimeout", err)
	}
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := newTestLocker(t, time.Second)

	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Lock(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLocalLocker_UnlockIsIdempotent(t *testing.T) {
	l := newTestLocker(t, 50*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	unlock()
	unlock()

	unlock2, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	unlock2()
}

func TestLocalLocker_CleanupStaleMutexes(t *testing.T) {
	l := newTestLocker(t, 50*time.Millisecond)

	unlockHeld, err := l.Lock(context.Background(), "held")
	if err != nil {
		t.Fatalf("Lock held: %v", err)
	}
	defer unlockHeld()

	unlockIdle, err := l.Lock(context.Background(), "idle")
	if err != nil {
		t.Fatalf("Lock idle: %v", err)
	}
	unlockIdle()

	// Everything is older than a cutoff in the future; only the idle key can be dropped.
	cleaned := l.cleanupStaleMutexes(time.Now().Add(time.Hour))
	if cleaned != 1 {
		t.Errorf("cleaned = %d, want 1", cleaned)
	}
	if _, ok := l.keyMu.Load("held"); !ok {
		t.Error("held key must survive cleanup")
	}
}
