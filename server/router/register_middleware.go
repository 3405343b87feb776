// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/server/middleware"
	"codeberg.org/choosestockbroker/web/server/middleware/limiter"
	"codeberg.org/choosestockbroker/web/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain, outermost first.
func (router *Router) RegisterMiddleware() {
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)
	router.Use(set_request_context.WithRequestContext) // everything below reads it
	router.Use(middleware.SetResponseHeaders)
	router.Use(middleware.Compress)

	if config.Global.Limiter.Enabled {
		router.Use(limiter.Evaluate)
	}
}
