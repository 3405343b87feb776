// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"codeberg.org/choosestockbroker/web/server/utils"
)

var (
	// requiredEncodings lists content codings a user agent must accept one of.
	requiredEncodings = []string{
		"identity",
		"gzip",
		"deflate",
		"br",
		"zstd",
	}

	// requiredSecFetchHeaders must be present on secure connections.
	requiredSecFetchHeaders = []string{
		"Sec-Fetch-Dest",
		"Sec-Fetch-Mode",
		"Sec-Fetch-Site",
	}

	// scraperSubstrings identify scripted clients by User-Agent, compared in lowercase.
	//
	// Search engine crawlers are deliberately absent: the landing pages exist to be indexed.
	scraperSubstrings = []string{
		"ahrefsbot",
		"curl",
		"go-http-client",
		"headlesschrome",
		"httpclient",
		"java",
		"libwww-perl",
		"mj12bot",
		"okhttp",
		"petalbot",
		"python",
		"scrapy",
		"semrushbot",
		"wget",
		"zmeu",
	}

	// crawlerSubstrings identify search engine crawlers, which are exempt from
	// the browser-only Accept-Language and Sec-Fetch checks.
	crawlerSubstrings = []string{
		"applebot",
		"baiduspider",
		"bingbot",
		"duckduckbot",
		"googlebot",
		"yandexbot",
	}
)

// mimeRule describes the Accept header requirements for a resource type.
type mimeRule struct {
	required []string
	errorMsg string
}

var (
	defaultAcceptRule = mimeRule{
		required: []string{"text/html"},
		errorMsg: "HTML page requires text/html Accept type",
	}

	acceptHeaderRules = map[string]mimeRule{
		".xml": {
			required: []string{"application/xml", "text/xml"},
			errorMsg: "XML file requires an XML Accept type",
		},
		".txt": {
			required: []string{"text/plain"},
			errorMsg: "Text file requires text/plain Accept type",
		},
	}
)

// blockedByHeaders returns a block reason, or "" when r looks like a browser or a known crawler.
func blockedByHeaders(r *http.Request) string {
	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	if userAgent == "" {
		return "Blocked by User-Agent header, missing or empty"
	}

	if slices.ContainsFunc(scraperSubstrings, func(sub string) bool { return strings.Contains(userAgent, sub) }) {
		return "Blocked by User-Agent header, scripted client"
	}

	if reason := checkAcceptHeader(r.URL.Path, r.Header.Get("Accept")); reason != "" {
		return "Blocked by Accept header, " + reason
	}

	encoding := strings.ToLower(r.Header.Get("Accept-Encoding"))
	if !slices.ContainsFunc(requiredEncodings, func(enc string) bool { return strings.Contains(encoding, enc) }) {
		return "Blocked by Accept-Encoding header"
	}

	if slices.ContainsFunc(crawlerSubstrings, func(sub string) bool { return strings.Contains(userAgent, sub) }) {
		return ""
	}

	if strings.TrimSpace(r.Header.Get("Accept-Language")) == "" {
		return "Blocked by Accept-Language header"
	}

	// A real browser may omit these over plain HTTP.
	if utils.IsConnectionSecure(r) {
		return checkSecFetch(r)
	}

	return ""
}

// checkAcceptHeader returns "" when accept satisfies the rule for path's extension.
func checkAcceptHeader(path, accept string) string {
	if strings.Contains(accept, "*/*") {
		return ""
	}

	rule, ok := acceptHeaderRules[strings.ToLower(filepath.Ext(path))]
	if !ok {
		rule = defaultAcceptRule
	}

	for _, mime := range rule.required {
		if strings.Contains(accept, mime) {
			return ""
		}
	}

	return rule.errorMsg
}

// checkSecFetch reports missing Fetch Metadata headers.
func checkSecFetch(r *http.Request) string {
	var missing []string

	for _, name := range requiredSecFetchHeaders {
		if r.Header.Get(name) == "" {
			missing = append(missing, name)
		}
	}

	switch len(missing) {
	case 0:
		return ""
	case 1:
		return "Missing " + missing[0] + " header"
	default:
		return "Missing Sec-Fetch headers: " + strings.Join(missing, ", ")
	}
}
