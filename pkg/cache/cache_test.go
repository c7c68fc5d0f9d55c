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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("frames"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "frames" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(c.Dir(), "gone")}
	if n, err := missing.Clear(); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	g1 := k.GridKey("hello", "standard")
	g2 := k.GridKey("hello", "slant")
	if g1 == g2 {
		t.Error("different fonts should produce different grid keys")
	}
	if !strings.HasPrefix(g1, "grid:") {
		t.Errorf("GridKey unexpected: %s", g1)
	}
	if g1 != k.GridKey("hello", "standard") {
		t.Error("GridKey should be deterministic")
	}

	base := ProgramKeyOpts{Direction: "down", Characters: "/*+#", Spacing: 1, Mode: "loop", Seed: 7}
	variants := []ProgramKeyOpts{
		{Direction: "up", Characters: "/*+#", Spacing: 1, Mode: "loop", Seed: 7},
		{Direction: "down", Characters: "#", Spacing: 1, Mode: "loop", Seed: 7},
		{Direction: "down", Characters: "/*+#", Spacing: 2, Mode: "loop", Seed: 7},
		{Direction: "down", Characters: "/*+#", Spacing: 1, Mode: "fade-in", Seed: 7},
		{Direction: "down", Characters: "/*+#", Spacing: 1, Mode: "loop", Seed: 8},
	}
	p := k.ProgramKey("h", base)
	if !strings.HasPrefix(p, "program:") {
		t.Errorf("ProgramKey unexpected: %s", p)
	}
	for _, v := range variants {
		if k.ProgramKey("h", v) == p {
			t.Errorf("ProgramKeyOpts %+v should change the key", v)
		}
	}
	if k.ProgramKey("other", base) == p {
		t.Error("different grid hashes should produce different keys")
	}
}

func TestKeyerSeparatesFields(t *testing.T) {
	k := NewDefaultKeyer()
	// Field boundaries are part of the key, so shifting text into the font
	// name must not collide.
	if k.GridKey("ab", "c") == k.GridKey("a", "bc") {
		t.Error("GridKey collides across the text/font boundary")
	}
	if k.GridKey("x", "y") == k.ProgramKey("x", ProgramKeyOpts{}) {
		t.Error("grid and program keys share a namespace")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "server:v1:")

	gridKey := scoped.GridKey("hi", "standard")
	if !strings.HasPrefix(gridKey, "server:v1:grid:") {
		t.Errorf("ScopedKeyer GridKey should be prefixed: %s", gridKey)
	}

	programKey := scoped.ProgramKey("h", ProgramKeyOpts{})
	if !strings.HasPrefix(programKey, "server:v1:program:") {
		t.Errorf("ScopedKeyer ProgramKey should be prefixed: %s", programKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().GridKey("a", "b")
	if key := scoped.GridKey("a", "b"); key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

var errPermanent = errors.New("permanent")

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
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

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
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
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

func TestRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"retry then success", 2, Retryable(ErrNetwork), 3, false},
		{"exhausted", 5, Retryable(ErrNetwork), 3, true},
		{"permanent", 5, errPermanent, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
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

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0"); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestNewMongoCacheBadURI(t *testing.T) {
	if _, err := NewMongoCache(context.Background(), "not-a-mongo-uri", "db"); err == nil {
		t.Error("expected error for invalid URI")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, target := range []string{"", "none"} {
		c, err := Open(ctx, target)
		if err != nil {
			t.Fatalf("Open(%q): %v", target, err)
		}
		if _, ok := c.(*NullCache); !ok {
			t.Errorf("Open(%q) = %T, want *NullCache", target, c)
		}
	}

	dir := t.TempDir()
	for _, target := range []string{dir, "file://" + dir} {
		c, err := Open(ctx, target)
		if err != nil {
			t.Fatalf("Open(%q): %v", target, err)
		}
		fc, ok := c.(*FileCache)
		if !ok || fc.Dir() != dir {
			t.Errorf("Open(%q) = %#v", target, c)
		}
	}

	if _, err := Open(ctx, "memcached://localhost"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}
