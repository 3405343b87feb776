// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware wraps the route handlers with the cross-cutting request
handling: URL normalization, security and caching headers, compression,
rate limiting, request context setup and error page rendering.

The chain is assembled in server/router, outermost first.
*/
package middleware
