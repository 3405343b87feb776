// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/server/assets"
	"codeberg.org/choosestockbroker/web/server/middleware"
	"codeberg.org/choosestockbroker/web/server/routes"
)

// DefineRoutes registers every route of the site on the mux.
func (router *Router) DefineRoutes(site *routes.Site) {
	fileServerHandler := fileServer()

	// The asset directories are flat. Single-segment wildcards keep these
	// patterns more specific than /{locale}/{country}.
	router.Handle("GET /css/{file}", fileServerHandler)
	router.Handle("GET /img/{file}", fileServerHandler)
	router.Handle("GET /js/{file}", fileServerHandler)

	router.HandleFunc("GET /robots.txt", middleware.CatchError(site.Robots))
	router.HandleFunc("GET /sitemap.xml", middleware.CatchError(site.Sitemap))

	router.HandleFunc("GET /api/countries", middleware.CatchError(site.CountriesAPI))
	router.HandleFunc("POST /api/revalidate", middleware.CatchError(site.Revalidate))

	router.HandleFunc("GET /go/{token}", middleware.CatchError(site.Outbound))

	// /{$} matches only the root path.
	router.HandleFunc("GET /{$}", middleware.CatchError(site.IndexPage))
	router.HandleFunc("GET /{locale}/{country}", middleware.CatchError(site.LandingPage))
	router.HandleFunc("GET /{locale}/{country}/brokers", middleware.CatchError(site.BrokersPage))

	// Everything else gets the themed 404 page.
	router.HandleFunc("/", middleware.CatchError(func(w http.ResponseWriter, r *http.Request) error {
		http.NotFound(w, r)

		return nil
	}))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router, site)
	}
}

// fileServer serves the embedded css/, img/ and js/ directories.
func fileServer() http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS()))

	return func(w http.ResponseWriter, r *http.Request) {
		// The embedded files only change with a new build, which also changes
		// the cache ID, so it doubles as a strong ETag.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	}
}

func staticFS() fs.FS {
	sub, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	return sub
}

// pprofProfiles are registered by name. A /debug/pprof/ subtree pattern would
// overlap /{locale}/{country}/brokers and make the mux panic.
var pprofProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

func registerDebugRoutes(router *Router, site *routes.Site) {
	router.HandleFunc("GET /debug/clicks", middleware.CatchError(site.ClickStats))

	router.HandleFunc("GET /debug/pprof/{$}", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	for _, name := range pprofProfiles {
		router.Handle("GET /debug/pprof/"+name, pprof.Handler(name))
	}
}
