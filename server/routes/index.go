// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/choosestockbroker/web/core/country"
	"codeberg.org/choosestockbroker/web/server/request_context"
)

// IndexPage sends the visitor to the worldwide page in their preferred language.
func (s *Site) IndexPage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Accept-Language")

	http.Redirect(w, r, "/"+request_context.FromRequest(r).Locale+"/"+country.Global, http.StatusFound)

	return nil
}
