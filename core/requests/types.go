// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"net/http"
)

// RequestOptions are parameters for Do.
type RequestOptions struct {
	Method string
	URL    string

	// Headers are sent upstream as-is, e.g. the CMS Authorization header.
	Headers http.Header

	// IncomingHeaders are the headers of the downstream request that led to this one.
	// Only Cache-Control is consulted.
	IncomingHeaders http.Header
}
