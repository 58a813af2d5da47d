package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "tree:abc", []byte(`{"root":"n0"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "tree:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"root":"n0"}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "tree:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "tree:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "tree:abc"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "fresh", []byte("1"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("2"), 0)
	_ = c.Set(ctx, "stale", []byte("3"), time.Nanosecond)
	corrupt := c.path("corrupt")
	if err := os.MkdirAll(filepath.Dir(corrupt), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corrupt, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)

	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 4 || st.Expired != 2 || st.Bytes == 0 {
		t.Errorf("Stats() = %+v, want 4 entries, 2 expired", st)
	}

	n, err := c.Prune()
	if err != nil || n != 2 {
		t.Errorf("Prune() = %d, %v, want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, "fresh"); !hit {
		t.Error("Prune removed a fresh entry")
	}
	if st, _ := c.Stats(); st.Entries != 2 || st.Expired != 0 {
		t.Errorf("Stats() after prune = %+v", st)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tk1 := k.TreeKey("wn.toml", "n1", TreeKeyOpts{MaxRecurse: 2, MaxLinks: 10})
	tk2 := k.TreeKey("wn.toml", "n1", TreeKeyOpts{MaxRecurse: 3, MaxLinks: 10})
	if tk1 == tk2 {
		t.Error("Different TreeKeyOpts should produce different keys")
	}
	if tk1 != k.TreeKey("wn.toml", "n1", TreeKeyOpts{MaxRecurse: 2, MaxLinks: 10}) {
		t.Error("TreeKey should be deterministic")
	}
	if !strings.HasPrefix(tk1, "tree:") {
		t.Errorf("TreeKey prefix unexpected: %s", tk1)
	}

	ck := k.ConceptKey("wn.toml", "n1")
	if !strings.HasPrefix(ck, "concept:") || !strings.HasSuffix(ck, ":n1") {
		t.Errorf("ConceptKey unexpected: %s", ck)
	}
	if ck == k.ConceptKey("other.toml", "n1") {
		t.Error("ConceptKey should depend on source")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:1:")

	if key := scoped.ConceptKey("s", "id"); !strings.HasPrefix(key, "tenant:1:concept:") {
		t.Errorf("ScopedKeyer ConceptKey should be prefixed: %s", key)
	}
	if key := scoped.TreeKey("s", "r", TreeKeyOpts{}); !strings.HasPrefix(key, "tenant:1:tree:") {
		t.Errorf("ScopedKeyer TreeKey should be prefixed: %s", key)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if key := nilInner.ConceptKey("s", "id"); !strings.HasPrefix(key, "p:concept:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return ErrCacheMiss })
	if err != ErrCacheMiss || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRetryAttempts(t *testing.T) {
	for _, attempts := range []int{0, 1, 4} {
		calls := 0
		err := Retry(context.Background(), attempts, time.Microsecond, func() error {
			calls++
			return Retryable(ErrNetwork)
		})
		if want := max(attempts, 1); calls != want {
			t.Errorf("Retry(%d) made %d calls, want %d", attempts, calls, want)
		}
		if !errors.Is(err, ErrNetwork) {
			t.Errorf("Retry(%d) = %v, want ErrNetwork", attempts, err)
		}
	}
}
