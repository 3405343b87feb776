// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/core/seo"
)

// Sitemap is the handler for /sitemap.xml. Countries come from the CMS,
// falling back to a fixed list when it is unreachable or empty.
func (s *Site) Sitemap(w http.ResponseWriter, r *http.Request) error {
	countries, err := s.Content(r).SitemapCountries(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch countries for the sitemap, using fallback")
	}

	if len(countries) == 0 {
		countries = seo.FallbackCountries()
	}

	body, err := seo.Sitemap(seo.BaseURL(), locale.Supported(), countries, s.now())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, err = w.Write(body)

	return err
}

// Robots is the handler for /robots.txt.
func (s *Site) Robots(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := io.WriteString(w, seo.Robots(seo.BaseURL()))

	return err
}
