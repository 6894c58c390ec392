package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()

	if err := c.SetBytes("k", []byte(`{"status":200}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := c.GetBytes("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || !bytes.Equal(b, []byte(`{"status":200}`)) {
		t.Fatalf("unexpected value: ok=%v b=%s", ok, b)
	}

	_, ok, err = c.GetBytes("missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()

	if err := c.SetBytes("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, ok, err := c.GetBytes("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected entry to expire")
	}
}

func TestTTLCacheSweepsExpiredOnWrite(t *testing.T) {
	c := NewTTLCache()

	if err := c.SetBytes("old", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := c.SetBytes("new", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m["old"]; ok {
		t.Fatal("expected expired entry swept on write")
	}
	if len(c.m) != 1 {
		t.Fatalf("expected 1 live entry, got %d", len(c.m))
	}
}
