// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/assets/views"
	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/server/request_context"
)

// ErrorPage writes the request's StatusCode and renders the error page for its RequestError.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rc.StatusCode)

	pageData := views.ErrorData{
		Locale:      rc.Locale,
		StatusCode:  rc.StatusCode,
		Error:       rc.RequestError,
		ShowDetails: config.Global.Development.InDevelopment,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render the error page")
	}
}
