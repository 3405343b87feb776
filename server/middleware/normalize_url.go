// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL redirects paths with a trailing slash (except the root) to the
// same path without it, keeping the query string.
//
// Case and country code normalization happen in the landing route, which knows
// the canonical slug.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL
	target.Path = "/" + strings.Trim(target.Path, "/")
	target.RawPath = ""

	// Only the path and query are kept, so the Location stays on this host.
	location := target.Path
	if target.RawQuery != "" {
		location += "?" + target.RawQuery
	}

	http.Redirect(w, r, location, http.StatusPermanentRedirect)
}
