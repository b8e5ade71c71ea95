// internal/netlock/netlock_test.go
//
// Unit-tests for the per-network lock registry: exclusivity, bounded wait,
// and independence between networks.

package netlock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAcquire_Exclusive(t *testing.T) {
	reg := New()
	ctx := context.Background()

	release, err := reg.Acquire(ctx, 7, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := reg.Acquire(ctx, 7, 20*time.Millisecond); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Acquire err = %v, want ErrBusy", err)
	}

	release()

	release2, err := reg.Acquire(ctx, 7, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	release2()
}

func TestAcquire_IndependentNetworks(t *testing.T) {
	reg := New()
	ctx := context.Background()

	r1, err := reg.Acquire(ctx, 1, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("network 1: %v", err)
	}
	defer r1()

	r2, err := reg.Acquire(ctx, 2, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("network 2 blocked by network 1: %v", err)
	}
	r2()
}

func TestAcquire_WaitsForRelease(t *testing.T) {
	reg := New()
	ctx := context.Background()

	release, err := reg.Acquire(ctx, 7, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	go func() {
		time.Sleep(30 * time.Millisecond)
		release()
	}()

	// Wait window is longer than the hold, so this must succeed.
	r2, err := reg.Acquire(ctx, 7, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Acquire with generous wait: %v", err)
	}
	r2()
}
