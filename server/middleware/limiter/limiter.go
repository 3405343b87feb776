// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/choosestockbroker/web/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long an idle network's bucket is kept.
	CleanupInterval       = 5 * time.Minute // Minimum time between cleanup runs.

	// OutboundRateDivisor scales the page rate down for the /go/ bucket.
	OutboundRateDivisor = 4

	outboundKeySuffix = ":go"
)

var (
	limiters sync.Map   // network string -> *limiterWrapper
	timeNow  = time.Now // replaced in tests

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time
)

// limiterWrapper is the token bucket of one client network.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
	mu         sync.Mutex
}

func newLimiterWrapper(r rate.Limit, burst int, network string) *limiterWrapper {
	return &limiterWrapper{
		limiter:    rate.NewLimiter(r, burst),
		network:    network,
		lastAccess: timeNow(),
	}
}

// pageRate returns the configured bucket parameters for page requests.
func pageRate() (rate.Limit, int) {
	return rate.Limit(config.Global.Limiter.Rate), config.Global.Limiter.Burst
}

// outboundRate returns the bucket parameters for /go/ links.
func outboundRate() (rate.Limit, int) {
	r, burst := pageRate()

	return r / OutboundRateDivisor, max(burst/OutboundRateDivisor, 1)
}

// getOrCreateLimiter returns the bucket for the network, creating it if needed.
func getOrCreateLimiter(network string) *limiterWrapper {
	r, burst := pageRate()

	return loadOrStore(network, r, burst)
}

// getOrCreateOutboundLimiter returns the /go/ bucket for the network. It uses
// its own key space so that it never shares tokens with page requests.
func getOrCreateOutboundLimiter(network string) *limiterWrapper {
	r, burst := outboundRate()

	return loadOrStore(network+outboundKeySuffix, r, burst)
}

func loadOrStore(key string, r rate.Limit, burst int) *limiterWrapper {
	if value, ok := limiters.Load(key); ok {
		if lw, ok := value.(*limiterWrapper); ok {
			return lw
		}
	}

	value, _ := limiters.LoadOrStore(key, newLimiterWrapper(r, burst, key))

	lw, _ := value.(*limiterWrapper)

	return lw
}

// allow consumes one token. It returns false when the bucket is empty.
func (lw *limiterWrapper) allow() bool {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	now := timeNow()
	lw.lastAccess = now

	return lw.limiter.AllowN(now, 1)
}

// cleanupExpiredLimiters removes buckets that have been idle for LimiterExpiryDuration.
func cleanupExpiredLimiters() int {
	now := timeNow()

	var keysToDelete []any

	limiters.Range(func(key, value any) bool {
		lw, ok := value.(*limiterWrapper)
		if !ok {
			keysToDelete = append(keysToDelete, key)

			return true
		}

		lw.mu.Lock()
		lastAccess := lw.lastAccess
		lw.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	for _, key := range keysToDelete {
		limiters.Delete(key)
	}

	return len(keysToDelete)
}

// DoCleanup runs cleanupExpiredLimiters in the background at most once per CleanupInterval.
func DoCleanup() {
	now := timeNow()

	cleanupMu.Lock()
	defer cleanupMu.Unlock()

	if lastCleanupAt.IsZero() {
		lastCleanupAt = now

		return
	}

	if now.Sub(lastCleanupAt) < CleanupInterval {
		return
	}

	lastCleanupAt = now

	go func() {
		if n := cleanupExpiredLimiters(); n > 0 {
			log.Info().
				Int("count", n).
				Dur("dur", time.Since(now)).
				Msg("Cleaned up expired limiters")
		}
	}()
}
