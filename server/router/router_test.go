// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/outbound"
	"codeberg.org/choosestockbroker/web/server/assets"
	"codeberg.org/choosestockbroker/web/server/routes"
)

type emptyContent struct{}

func (emptyContent) GetBrokers(context.Context) ([]core.Broker, error)   { return nil, nil }
func (emptyContent) GetCountries(context.Context) ([]core.Country, error) { return nil, nil }
func (emptyContent) GetFAQs(context.Context) ([]core.FAQ, error)         { return nil, nil }
func (emptyContent) SitemapCountries(context.Context) ([]core.Country, error) {
	return []core.Country{{Code: "us"}}, nil
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	origFS, origConfig := assets.FS, config.Global

	t.Cleanup(func() {
		assets.FS = origFS
		config.Global = origConfig
	})

	assets.FS = fstest.MapFS{
		"assets/css/main.css":             {Data: []byte("body{margin:0}")},
		"assets/img/placeholder-logo.svg": {Data: []byte("<svg/>")},
		"assets/js/exit-intent.js":        {Data: []byte("'use strict';")},
	}

	config.Global.Instance.FileServerCacheID = "abc123"
	config.Global.Limiter.Enabled = false
	config.Global.Development.InDevelopment = false

	signer, err := outbound.NewSigner("")
	require.NoError(t, err)

	site := routes.NewSite(signer, nil)
	site.Content = func(*http.Request) routes.Content { return emptyContent{} }

	r := NewRouter()
	r.DefineRoutes(site)
	r.RegisterMiddleware()

	return r
}

func TestStaticFiles(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/css/main.css", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body{margin:0}", rr.Body.String())
	assert.Equal(t, `"abc123"`, rr.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=604800", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/img/placeholder-logo.svg", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=1209600", rr.Header().Get("Cache-Control"))
}

func TestMiddlewareChain(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Equal(t, config.BuildVersion, rr.Header().Get("ChooseStockBroker-Version"))
	assert.Contains(t, rr.Body.String(), "User-Agent: *")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/en/global/?sort=assets", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/en/global?sort=assets", rr.Header().Get("Location"))
}

func TestRouting(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/", http.StatusFound},
		{http.MethodGet, "/en/global", http.StatusOK},
		{http.MethodGet, "/en/global/brokers", http.StatusOK},
		{http.MethodGet, "/en/us", http.StatusMovedPermanently},
		{http.MethodGet, "/api/countries", http.StatusOK},
		{http.MethodGet, "/api/revalidate", http.StatusNotFound},
		{http.MethodGet, "/sitemap.xml", http.StatusOK},
		{http.MethodGet, "/go/not-a-token", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/a/b/c/d", http.StatusNotFound},
		{http.MethodGet, "/css/missing.css", http.StatusNotFound},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
		assert.Equal(t, tt.status, rr.Code, "%s %s", tt.method, tt.target)
	}
}

func TestNotFoundPageIsThemed(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestDebugRoutesRegister(t *testing.T) {
	origConfig := config.Global

	t.Cleanup(func() { config.Global = origConfig })

	config.Global.Development.InDevelopment = true

	signer, err := outbound.NewSigner("")
	require.NoError(t, err)

	r := NewRouter()

	assert.NotPanics(t, func() {
		r.DefineRoutes(routes.NewSite(signer, nil))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/clicks", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"brokers":[],"total":0}`, rr.Body.String())
}

func TestDebugRoutesHiddenInProduction(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/clicks", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
