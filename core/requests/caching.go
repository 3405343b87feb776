// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core/requests/lrucache"
)

var (
	cache    *lrucache.Cache
	cacheTTL time.Duration
)

// cachePolicy defines the caching behavior for a request.
type cachePolicy struct {
	// Whether to store an OK response that we receive.
	shouldStore bool

	// A fresh cached body, if available.
	cachedBody []byte
}

// Setup initializes the CMS response cache from config.Global.
//
// If caching is disabled in the configuration, it skips initialization.
func Setup() {
	if !config.Global.Cache.Enabled {
		log.Info().
			Msg("Cache is disabled, skipping cache initialization")

		return
	}

	if err := setupCache(config.Global.Cache.Size, config.Global.Cache.Compress, config.Global.Cache.TTL); err != nil {
		panic(fmt.Sprintf("failed to create cache: %v", err))
	}

	log.Info().
		Int("size", config.Global.Cache.Size).
		Bool("compress", config.Global.Cache.Compress).
		Dur("ttl", config.Global.Cache.TTL).
		Msg("Initialized CMS response cache")
}

func setupCache(size int, compress bool, ttl time.Duration) error {
	c, err := lrucache.New(size, compress)
	if err != nil {
		return err
	}

	cache = c
	cacheTTL = ttl

	return nil
}

// generateCacheKey binds a cached response to the request URL and the credential
// that fetched it, so documents visible to one API key are never served under another.
func generateCacheKey(url, credential string) string {
	hasher := fnv.New64a()

	_, _ = hasher.Write([]byte(url + "\x00" + credential))

	return strconv.FormatUint(hasher.Sum64(), 16)
}

// determineCachePolicy returns a fresh cached body for the request if one exists,
// or whether the upcoming response may be stored.
//
// A "no-cache" directive from the downstream client skips both read and write;
// "no-store" only skips the write.
func determineCachePolicy(rawURL, credential string, incoming http.Header) cachePolicy {
	if cache == nil {
		return cachePolicy{}
	}

	cacheControl := strings.ToLower(incoming.Get("Cache-Control"))
	if strings.Contains(cacheControl, "no-cache") {
		return cachePolicy{}
	}

	if body, ok := cache.Get(generateCacheKey(rawURL, credential)); ok {
		return cachePolicy{cachedBody: body}
	}

	return cachePolicy{
		shouldStore: !strings.Contains(cacheControl, "no-store"),
	}
}

func storeResponse(rawURL, credential string, body []byte) {
	if cache == nil {
		return
	}

	cache.Add(generateCacheKey(rawURL, credential), rawURL, body, cacheTTL)
}

// InvalidateURLs removes all cached responses fetched from a URL starting with
// any of the provided prefixes, and returns the URLs that were removed.
//
// Safe to call even if caching is disabled.
func InvalidateURLs(urlPrefixes []string) []string {
	if cache == nil || len(urlPrefixes) == 0 {
		return nil
	}

	invalidated := cache.RemoveMatching(func(url string) bool {
		for _, prefix := range urlPrefixes {
			if strings.HasPrefix(url, prefix) {
				return true
			}
		}

		return false
	})

	log.Info().
		Int("count", len(invalidated)).
		Strs("urls", invalidated).
		Msg("Invalidated URLs")

	return invalidated
}
