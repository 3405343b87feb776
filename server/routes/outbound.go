// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/core/outbound"
	"codeberg.org/choosestockbroker/web/server/utils"
)

// Outbound is the handler for /go/{token}: it records the click and redirects
// to the broker. Unknown, tampered and expired tokens are 404s.
func (s *Site) Outbound(w http.ResponseWriter, r *http.Request) error {
	if s.Signer == nil {
		http.NotFound(w, r)

		return nil
	}

	link, err := s.Signer.Verify(utils.GetPathVar(r, "token"))
	if err != nil {
		log.Debug().Err(err).Msg("Rejected outbound token")
		http.NotFound(w, r)

		return nil
	}

	click := outbound.Click{
		Broker:  link.Broker,
		Locale:  link.Locale,
		Country: link.Country,
		URL:     link.URL,
	}

	// A lost click is not worth a lost visitor.
	if err := s.Clicks.Record(r.Context(), click); err != nil {
		log.Warn().Err(err).Str("broker", link.Broker).Msg("Failed to record outbound click")
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Tag", "noindex, nofollow")
	http.Redirect(w, r, link.URL, http.StatusFound)

	return nil
}
