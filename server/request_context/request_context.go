// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context provides per-request state management for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/choosestockbroker/web/core/idgen"
	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/i18n"
)

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID is an identifier for tracing requests.
	RequestID string

	// Holds any critical error encountered during request processing.
	//
	// Automatically populated by middleware.CatchError when handlers return errors,
	// which interrupts normal response handling and renders an error page instead.
	RequestError error

	// HTTP status code to be sent in the response. Defaults to 200 OK.
	StatusCode int

	// Locale is the normalized language code of the page, from the first path
	// segment when it names one, else from Accept-Language.
	Locale string

	// CountryCode is set by the landing handlers once the {country} segment is resolved.
	CountryCode string

	// IncomingHeader is the header of the downstream request, consulted by the CMS
	// response cache for Cache-Control.
	IncomingHeader http.Header

	T language.Tag
}

type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext initializes a new request context and attaches it to
// the parent context.
//
// This is called once per request, first in the middleware chain.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	code := localeFromPath(r.URL.Path)
	if code == "" {
		code = locale.Normalize(i18n.FromRequest(r).String())
	}

	tag := locale.Tag(code)

	rc := RequestContext{
		RequestID:      idgen.Make(),
		StatusCode:     http.StatusOK,
		Locale:         code,
		IncomingHeader: r.Header,
		T:              tag,
	}

	ctx = i18n.WithTag(ctx, tag)

	return context.WithValue(ctx, requestContextKey, &rc)
}

// localeFromPath returns the published locale named by the first path segment, if any.
func localeFromPath(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if primary, ok := locale.Primary(first); ok {
		return primary
	}

	return ""
}

// FromContext extracts the RequestContext from a context, always returning
// a valid pointer.
//
// If no context is found, returns a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if v := ctx.Value(requestContextKey); v != nil {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}

	return &RequestContext{}
}

// FromRequest is a convenience wrapper for extracting RequestContext
// directly from HTTP requests.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
