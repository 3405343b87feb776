// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// DefaultSiteURL is the public origin used for canonical links and the sitemap.
	DefaultSiteURL = "https://www.choosestockbroker.com"

	defaultCMSPageSize = 100
	defaultCMSMaxPages = 10
	defaultCMSTimeout  = 10 * time.Second

	defaultCacheSize = 200
	defaultCacheTTL  = time.Hour

	defaultHTTPCacheMaxAge               = 5 * time.Minute
	defaultHTTPCacheStaleWhileRevalidate = time.Hour
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	// Host and Port are filled in by validateListener unless a unix socket is used.

	cfg.CMS.URL = "http://localhost:3001"
	cfg.CMS.APIKeyCollection = "users"
	cfg.CMS.PageSize = defaultCMSPageSize
	cfg.CMS.MaxPages = defaultCMSMaxPages
	cfg.CMS.Timeout = defaultCMSTimeout

	cfg.Cache.Enabled = true
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.TTL = defaultCacheTTL
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAge
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidate

	cfg.Feature.FilterByCountry = false
	cfg.Feature.ExitIntentPopup = true

	cfg.Instance.SiteURL = DefaultSiteURL

	cfg.Development.ResponseSaveLocation = "/tmp/choosestockbroker/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
	cfg.Limiter.CheckHeaders = true
	cfg.Limiter.Rate = 5
	cfg.Limiter.Burst = 30

	cfg.Clicks.Enabled = false
	cfg.Clicks.DatabasePath = "./data/clicks.db"

	cfg.Internationalization.StrictMissingKeys = false
}
