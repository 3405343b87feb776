// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package request_context

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/choosestockbroker/web/core/locale"
)

func TestLocaleFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/vi/vietnam":         "vi",
		"/pt-BR/brazil":       "pt",
		"/ZH_hant/china":      "zh",
		"/ar":                 "ar",
		"/fr/france":          "",
		"/":                   "",
		"/api/countries":      "",
		"/go/v4.public.token": "",
	}

	for path, want := range tests {
		assert.Equal(t, want, localeFromPath(path), path)

		// A locale read from the path is the one Normalize gives for the segment.
		if want != "" {
			first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
			assert.Equal(t, want, locale.Normalize(first), path)
		}
	}
}

func TestWithRequestContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/ja/japan", nil)
	r.Header.Set("Cache-Control", "no-cache")

	rc := FromContext(WithRequestContext(r.Context(), r))

	assert.Equal(t, "ja", rc.Locale)
	assert.Equal(t, "ja", rc.T.String())
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, "no-cache", rc.IncomingHeader.Get("Cache-Control"))
}

func TestWithRequestContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)

	rc := FromContext(WithRequestContext(r.Context(), r))
	assert.Equal(t, "en", rc.Locale)
}

func TestFromContextWithoutValue(t *testing.T) {
	t.Parallel()

	rc := FromContext(context.Background())
	require.NotNil(t, rc)
	assert.Empty(t, rc.RequestID)

	// Each call returns a fresh zero value.
	rc.StatusCode = http.StatusTeapot
	assert.Zero(t, FromContext(context.Background()).StatusCode)
}

func TestFromRequestSharesState(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/en/global", nil)
	r = r.WithContext(WithRequestContext(r.Context(), r))

	FromRequest(r).CountryCode = "global"
	assert.Equal(t, "global", FromRequest(r).CountryCode)
}
