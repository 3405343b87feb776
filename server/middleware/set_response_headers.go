// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/server/utils"
)

var (
	// baseHeaders are set on every response.
	//
	// ChooseStockBroker-Version and ChooseStockBroker-Revision are added in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"strict-origin-when-cross-origin"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(permissionsPolicy, ", ")},
	}

	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"script-src 'self'",
		"frame-ancestors 'none'",
		"form-action 'self'",
	}

	permissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders adds the security, version and caching headers.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("ChooseStockBroker-Version", config.BuildVersion)
	headers.Set("ChooseStockBroker-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP(config.Global.CMS.URL))

	next.ServeHTTP(w, r)
}

var clearedDevCache atomic.Bool

// invalidateCacheInDevelopment clears the browser cache on the first response after a restart.
func invalidateCacheInDevelopment(headers http.Header) {
	if clearedDevCache.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", "cache")
	}
}

// setCacheControl picks a Cache-Control policy from the request path.
//
// Landing pages are shared-cacheable for config.Global.HTTPCache.MaxAge; API
// endpoints and outbound redirects are never stored.
func setCacheControl(headers http.Header, path string) {
	headers.Set("Cache-Control", cacheControlFor(path))
}

func cacheControlFor(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/go/"):
		return "no-store"
	case strings.HasPrefix(path, "/img/"):
		return "public, max-age=1209600"
	case strings.HasPrefix(path, "/js/"), strings.HasPrefix(path, "/css/"):
		return "public, max-age=604800"
	case strings.HasSuffix(path, ".txt"), strings.HasSuffix(path, ".xml"):
		return "public, max-age=86400"
	}

	maxAge := config.Global.HTTPCache.MaxAge
	if maxAge <= 0 || config.Global.Development.InDevelopment {
		return "private, no-cache"
	}

	s := fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second))
	if swr := config.Global.HTTPCache.StaleWhileRevalidate; swr > 0 {
		s += fmt.Sprintf(", stale-while-revalidate=%d", int(swr/time.Second))
	}

	return s
}

// buildCSP allows images from the CMS origin in addition to our own.
func buildCSP(cmsURL string) string {
	imgSrc := "img-src 'self' data:"

	if u, err := url.Parse(cmsURL); err == nil {
		if origin := utils.GetOriginFromURL(*u); origin != "" {
			imgSrc += " " + origin
		}
	}

	directives := make([]string, len(baseCSP), len(baseCSP)+1)
	copy(directives, baseCSP)

	return strings.Join(append(directives, imgSrc), "; ") + ";"
}
