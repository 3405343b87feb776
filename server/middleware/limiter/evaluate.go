// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/i18n"
	"codeberg.org/choosestockbroker/web/server/request_context"
	"codeberg.org/choosestockbroker/web/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// excludedPaths are never filtered.
var excludedPaths = []string{
	"/css/",
	"/img/",
	"/js/",
	"/robots.txt",
	"/sitemap.xml",
	// Called by the CMS, which authenticates with the webhook secret instead.
	"/api/revalidate",
}

// headerCheckExcludedPaths are rate limited but skip the header checks.
var headerCheckExcludedPaths = []string{
	"/api/",
}

// Evaluate is the entrypoint to the limiter middleware.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	if isExcludedPath(r.URL.Path, excludedPaths) {
		next.ServeHTTP(w, r)

		return
	}

	ip, ok := clientAddr(r)
	if !ok {
		block(w, r, http.StatusBadRequest, "invalid client IP")

		return
	}

	network := networkOf(ip, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix)

	logger := log.With().
		Str("ip", ip.String()).
		Str("network", network.String()).
		Logger()

	switch {
	case inList(ip, config.Global.Limiter.PassIPs):
		next.ServeHTTP(w, r)

		return
	case inList(ip, config.Global.Limiter.BlockIPs):
		logger.Warn().Msg("Request blocked, IP in block-list")
		block(w, r, http.StatusForbidden, "IP in block-list")

		return
	}

	if !config.Global.Limiter.FilterLocal && (ip.IsLinkLocalUnicast() || ip.IsLoopback()) {
		next.ServeHTTP(w, r)

		return
	}

	if config.Global.Limiter.CheckHeaders && !isExcludedPath(r.URL.Path, headerCheckExcludedPaths) {
		if reason := blockedByHeaders(r); reason != "" {
			logger.Warn().Str("reason", reason).Msg("Request blocked, headers")
			block(w, r, http.StatusForbidden, reason)

			return
		}
	}

	var lw *limiterWrapper
	if strings.HasPrefix(r.URL.Path, "/go/") {
		lw = getOrCreateOutboundLimiter(network.String())
	} else {
		lw = getOrCreateLimiter(network.String())
	}

	if !lw.allow() {
		logger.Warn().Str("path", r.URL.Path).Msg("Request blocked, exceeded rate limit")
		addRateLimitHeaders(w, lw)
		block(w, r, http.StatusTooManyRequests, "rate limit exceeded")

		return
	}

	addRateLimitHeaders(w, lw)
	next.ServeHTTP(w, r)
}

func isExcludedPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// block renders the error page with a visitor-facing explanation.
func block(w http.ResponseWriter, r *http.Request, status int, reason string) {
	rc := request_context.FromRequest(r)
	rc.StatusCode = status

	if status == http.StatusTooManyRequests {
		rc.RequestError = i18n.NewUserError(r.Context(), "Too many requests. Please wait a moment and try again.")
	} else {
		rc.RequestError = i18n.NewUserError(r.Context(), "Your request was blocked ({{.Reason}}).", "Reason", reason)
	}

	w.Header().Set("Vary", "User-Agent, Accept, Accept-Encoding, Accept-Language")
	routes.ErrorPage(w, r)
}

// addRateLimitHeaders reports the state of lw's bucket.
func addRateLimitHeaders(w http.ResponseWriter, lw *limiterWrapper) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	limiter := lw.limiter

	tokens := limiter.TokensAt(timeNow())
	burst := limiter.Burst()
	limit := limiter.Limit()

	remaining := int(math.Max(0, math.Min(float64(burst), tokens)))

	var resetTime int64
	if tokens < float64(burst) && limit > 0 {
		resetTime = int64(math.Ceil((float64(burst) - tokens) / float64(limit)))
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}
