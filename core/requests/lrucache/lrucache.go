// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
for response bodies.

Every entry carries a label (the upstream URL it was fetched from) so that groups
of entries can be invalidated without knowing their keys, and an optional expiry.
When created with compression enabled via [New], values are stored zstd-compressed
whenever that saves space and are transparently decompressed on read.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex

	compress bool
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder

	// now is swapped out by tests.
	now func() time.Time
}

type entry struct {
	key        string
	label      string
	value      []byte
	compressed bool
	expiresAt  time.Time // zero means the entry never expires
}

// New creates a cache holding at most size entries.
//
// It returns [ErrInvalidSize] if size is not a positive integer.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		compress:  compress,
		now:       time.Now,
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key and marks it as most recently used.
//
// A ttl of zero or less keeps the entry until it is evicted or removed.
// Add reports whether an older entry was evicted to make room.
func (c *Cache) Add(key, label string, value []byte, ttl time.Duration) bool {
	stored, compressed := c.pack(value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.label = label
		ent.value = stored
		ent.compressed = compressed
		ent.expiresAt = expiresAt

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		label:      label,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get returns a copy of the value for key and marks it as most recently used.
//
// Expired entries are dropped and reported as missing.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.lookup(key, true)
}

// Peek is like Get but leaves the LRU order untouched.
func (c *Cache) Peek(key string) ([]byte, bool) {
	return c.lookup(key, false)
}

func (c *Cache) lookup(key string, touch bool) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent := el.Value.(*entry)
	if !ent.expiresAt.IsZero() && !c.now().Before(ent.expiresAt) {
		c.removeElement(el)
		c.lock.Unlock()

		return nil, false
	}

	if touch {
		c.evictList.MoveToFront(el)
	}

	stored, compressed := ent.value, ent.compressed

	c.lock.Unlock()

	return c.unpack(stored, compressed)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)

		return true
	}

	return false
}

// RemoveMatching deletes every entry whose label satisfies match and
// returns the removed labels, oldest first.
func (c *Cache) RemoveMatching(match func(label string) bool) []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	var removed []string

	for el := c.evictList.Back(); el != nil; {
		prev := el.Prev()

		if ent := el.Value.(*entry); match(ent.label) {
			removed = append(removed, ent.label)
			c.removeElement(el)
		}

		el = prev
	}

	return removed
}

// Keys returns all keys from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the current number of entries, expired ones included.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// removeElement must be called with the lock held.
func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// pack copies or compresses value for storage. Compression is kept only when it saves space.
// The zstd encoder supports concurrent EncodeAll calls, so this runs without the lock.
func (c *Cache) pack(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return nil, false
	}

	if c.compress {
		if packed := c.zstdEnc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	return copied, false
}

// unpack returns a caller-owned copy of a stored value.
// A value that fails to decompress is reported as missing.
func (c *Cache) unpack(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		if stored == nil {
			return nil, true
		}

		copied := make([]byte, len(stored))
		copy(copied, stored)

		return copied, true
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
