// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		cache, err := New(3, compress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cache.Len() != 0 {
			t.Errorf("expected empty cache, got %d entries", cache.Len())
		}
	}

	if cache, err := New(0, false); err != ErrInvalidSize || cache != nil {
		t.Errorf("expected ErrInvalidSize and nil cache, got %v, %v", err, cache)
	}
}

func TestAddAndGetEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, false)

	if cache.Add("a", "/a", []byte("1"), 0) {
		t.Error("eviction should not occur when the cache is not full")
	}

	cache.Add("b", "/b", []byte("2"), 0)

	// Touch "a" so that "b" becomes the oldest.
	if v, ok := cache.Get("a"); !ok || string(v) != "1" {
		t.Fatalf("expected to get '1', got %q (found=%v)", v, ok)
	}

	if !cache.Add("c", "/c", []byte("3"), 0) {
		t.Error("expected eviction when adding a third key to a size 2 cache")
	}

	if _, ok := cache.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}

	if got := strings.Join(cache.Keys(), ","); got != "a,c" {
		t.Errorf("expected keys a,c got %s", got)
	}
}

func TestAddExistingKeyUpdatesValue(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, false)
	cache.Add("k", "/old", []byte("v1"), 0)

	if cache.Add("k", "/new", []byte("v2"), 0) {
		t.Error("re-adding an existing key should not evict anything")
	}

	if v, _ := cache.Get("k"); string(v) != "v2" {
		t.Errorf("expected 'v2', got %q", v)
	}

	if removed := cache.RemoveMatching(func(l string) bool { return l == "/new" }); len(removed) != 1 {
		t.Errorf("expected label to be updated, removed %v", removed)
	}
}

func TestPeekDoesNotPromote(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, false)
	cache.Add("foo", "", []byte("bar"), 0)
	cache.Add("baz", "", []byte("qux"), 0)

	if v, ok := cache.Peek("foo"); !ok || string(v) != "bar" {
		t.Fatalf("expected to peek 'bar', got %q", v)
	}

	cache.Add("third", "", []byte("x"), 0)

	if _, ok := cache.Get("foo"); ok {
		t.Error("expected 'foo' to be evicted after adding 'third'")
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	cache, _ := New(4, false)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Add("short", "", []byte("x"), time.Minute)
	cache.Add("forever", "", []byte("y"), 0)

	now = now.Add(59 * time.Second)

	if _, ok := cache.Get("short"); !ok {
		t.Error("entry should still be fresh")
	}

	now = now.Add(time.Second)

	if _, ok := cache.Get("short"); ok {
		t.Error("entry should have expired")
	}

	if cache.Len() != 1 {
		t.Errorf("expired entry should be dropped, len=%d", cache.Len())
	}

	if _, ok := cache.Peek("forever"); !ok {
		t.Error("entry without ttl should never expire")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, false)
	cache.Add("foo", "", []byte("bar"), 0)

	if !cache.Remove("foo") {
		t.Error("expected to remove existing key")
	}

	if cache.Remove("foo") {
		t.Error("expected false when removing a missing key")
	}
}

func TestRemoveMatching(t *testing.T) {
	t.Parallel()

	cache, _ := New(10, false)
	cache.Add("1", "https://cms.test/api/brokers?page=1", []byte("a"), 0)
	cache.Add("2", "https://cms.test/api/faqs?page=1", []byte("b"), 0)
	cache.Add("3", "https://cms.test/api/brokers?page=2", []byte("c"), 0)

	removed := cache.RemoveMatching(func(label string) bool {
		return strings.HasPrefix(label, "https://cms.test/api/brokers")
	})

	if len(removed) != 2 || removed[0] != "https://cms.test/api/brokers?page=1" {
		t.Errorf("unexpected removed labels: %v", removed)
	}

	if cache.Len() != 1 {
		t.Errorf("expected one entry left, got %d", cache.Len())
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	cache, _ := New(2, true)

	payload := bytes.Repeat([]byte(`{"docs":[{"name":"broker"}]}`), 200)
	cache.Add("big", "", payload, 0)

	stored := cache.items["big"].Value.(*entry)
	if !stored.compressed || len(stored.value) >= len(payload) {
		t.Error("expected repetitive payload to be stored compressed")
	}

	got, ok := cache.Get("big")
	if !ok || !bytes.Equal(got, payload) {
		t.Fatal("decompressed value does not match")
	}

	// Mutating the returned slice must not affect the cache.
	got[0] = 'X'

	again, _ := cache.Get("big")
	if again[0] != '{' {
		t.Error("cached value was mutated through a returned slice")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, _ := New(50, true)

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := strconv.Itoa((worker*200 + i) % 75)
				cache.Add(key, key, []byte(strings.Repeat(key, 20)), time.Minute)
				cache.Get(key)
				cache.Peek(strconv.Itoa(i % 75))
			}
		}()
	}

	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("cache exceeded its capacity: %d", cache.Len())
	}
}
