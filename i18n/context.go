// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// WithTag returns a derived context carrying t. The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the tag stored in ctx, or the tag for [BaseLocale].
// It never returns the zero value of [language.Tag].
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// FromRequest matches the Accept-Language header of r against the loaded catalogs.
//
// The locale in the URL path always wins over this; it is only consulted for
// pages without one, such as the root redirect and error pages.
// If r is nil or Setup has not been called, the tag for [BaseLocale] is returned.
func FromRequest(r *http.Request) language.Tag {
	if r == nil || matcher == nil {
		return baseTag
	}

	al := r.Header.Get("Accept-Language")
	if al == "" {
		return baseTag
	}

	tag, _ := language.MatchStrings(matcher, al)

	return tag
}
