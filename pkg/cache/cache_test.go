package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := SnapshotKeyOpts{Axis: "vertical", UnitWidth: 100, UnitHeight: 100, ViewportWidth: 400}

	k1 := k.SnapshotKey("abc", base)
	if k1 != k.SnapshotKey("abc", base) {
		t.Error("SnapshotKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "snapshot:") {
		t.Errorf("SnapshotKey unexpected prefix: %s", k1)
	}

	variants := []SnapshotKeyOpts{
		{Axis: "horizontal", UnitWidth: 100, UnitHeight: 100, ViewportWidth: 400},
		{Axis: "vertical", UnitWidth: 50, UnitHeight: 100, ViewportWidth: 400},
		{Axis: "vertical", UnitWidth: 100, UnitHeight: 100, ViewportWidth: 500},
		{Axis: "vertical", UnitWidth: 100, UnitHeight: 100, ViewportWidth: 400, Eager: true},
		{Axis: "vertical", UnitWidth: 100, UnitHeight: 100, ViewportWidth: 400, Rect: "0,0,10,10"},
	}
	for _, v := range variants {
		if k.SnapshotKey("abc", v) == k1 {
			t.Errorf("options %+v should change the key", v)
		}
	}
	if k.SnapshotKey("def", base) == k1 {
		t.Error("manifest hash should change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")
	key := scoped.SnapshotKey("abc", SnapshotKeyOpts{})
	want := "staging:" + NewDefaultKeyer().SnapshotKey("abc", SnapshotKeyOpts{})
	if key != want {
		t.Errorf("ScopedKeyer key = %s, want %s", key, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	key := NewScopedKeyer(nil, "prefix:").SnapshotKey("abc", SnapshotKeyOpts{})
	if !strings.HasPrefix(key, "prefix:snapshot:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrBackend)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrBackend)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrBackend)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
