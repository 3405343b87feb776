// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits requests per client network
and optionally rejects clients whose headers do not look like a browser.

Clients are grouped by network prefix (config.Global.Limiter.IPv4Prefix and
IPv6Prefix), and each network shares one token bucket. Outbound broker links
under /go/ draw from a separate, slower bucket so that click inflation cannot
starve page views.
*/
package limiter
