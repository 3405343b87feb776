// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/server/middleware"
	"codeberg.org/choosestockbroker/web/server/request_context"
)

func newEvaluateRequest(path, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":12345"

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func TestEvaluate(t *testing.T) {
	setupLimiterTest(t)

	tests := []struct {
		name           string
		path           string
		ip             string
		passList       []string
		blockList      []string
		expectedStatus int
		shouldCallNext bool
	}{
		{
			name:           "static path bypasses all checks",
			path:           "/css/main.css",
			ip:             "1.1.1.1",
			blockList:      []string{"1.1.1.1"},
			expectedStatus: http.StatusOK,
			shouldCallNext: true,
		},
		{
			name:           "webhook bypasses all checks",
			path:           "/api/revalidate",
			ip:             "1.1.1.1",
			blockList:      []string{"1.1.1.0/24"},
			expectedStatus: http.StatusOK,
			shouldCallNext: true,
		},
		{
			name:           "pass-listed IP",
			path:           "/en/global",
			ip:             "1.1.1.1",
			passList:       []string{"1.1.1.1/32"},
			blockList:      []string{"1.1.1.1/32"},
			expectedStatus: http.StatusOK,
			shouldCallNext: true,
		},
		{
			name:           "block-listed IP",
			path:           "/en/global",
			ip:             "1.1.1.1",
			blockList:      []string{"1.1.1.0/24"},
			expectedStatus: http.StatusForbidden,
			shouldCallNext: false,
		},
		{
			name:           "regular page within budget",
			path:           "/vi/vietnam",
			ip:             "2.2.2.2",
			expectedStatus: http.StatusOK,
			shouldCallNext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.Global.Limiter.PassIPs = tt.passList
			config.Global.Limiter.BlockIPs = tt.blockList

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true

				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			middleware.Wrap(Evaluate, next).ServeHTTP(rr, newEvaluateRequest(tt.path, tt.ip))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.shouldCallNext, nextCalled)
		})
	}
}

func TestEvaluateRateLimits(t *testing.T) {
	setupLimiterTest(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := middleware.Wrap(Evaluate, next)

	for i := range 4 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newEvaluateRequest("/en/global", "203.0.113.7"))
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i)
		assert.Equal(t, "4", rr.Header().Get(HeaderRateLimitLimit))
	}

	// Same /24, so the same bucket.
	rr := httptest.NewRecorder()
	req := newEvaluateRequest("/en/global", "203.0.113.99")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get(HeaderRateLimitRemaining))
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "Too many requests")
	assert.Equal(t, http.StatusTooManyRequests, request_context.FromRequest(req).StatusCode)

	// Another network is unaffected.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newEvaluateRequest("/en/global", "198.51.100.1"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEvaluateHeaderChecks(t *testing.T) {
	setupLimiterTest(t)

	config.Global.Limiter.CheckHeaders = true

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := middleware.Wrap(Evaluate, next)

	rr := httptest.NewRecorder()
	req := newEvaluateRequest("/en/global", "1.1.1.1")
	req.Header.Set("User-Agent", "curl/8.5.0")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "scripted client")

	// API endpoints are rate limited only.
	rr = httptest.NewRecorder()
	req = newEvaluateRequest("/api/countries", "1.1.1.1")
	req.Header.Set("User-Agent", "curl/8.5.0")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEvaluateLocalLinkUnfiltered(t *testing.T) {
	setupLimiterTest(t)

	config.Global.Limiter.FilterLocal = false
	config.Global.Limiter.Burst = 1

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := middleware.Wrap(Evaluate, next)

	for range 3 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newEvaluateRequest("/en/global", "127.0.0.1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
