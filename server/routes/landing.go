// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/views"
	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core/country"
	"codeberg.org/choosestockbroker/web/core/landing"
	"codeberg.org/choosestockbroker/web/core/seo"
	"codeberg.org/choosestockbroker/web/server/request_context"
	"codeberg.org/choosestockbroker/web/server/utils"
)

// Any plausible country segment renders a page. Locale segments are two-letter
// codes with optional subtags, which keeps /api/... from being read as a locale.
var (
	localeSegment  = regexp.MustCompile(`^[A-Za-z]{2}([_-][A-Za-z0-9]{2,8})*$`)
	countrySegment = regexp.MustCompile(`^[A-Za-z0-9-]{2,` + strconv.Itoa(country.MaxSlugLength) + `}$`)
)

// LandingPage is the handler for /{locale}/{country}.
func (s *Site) LandingPage(w http.ResponseWriter, r *http.Request) error {
	return s.landing(w, r, "", views.Landing)
}

// BrokersPage is the handler for /{locale}/{country}/brokers.
func (s *Site) BrokersPage(w http.ResponseWriter, r *http.Request) error {
	return s.landing(w, r, "/brokers", views.Brokers)
}

func (s *Site) landing(
	w http.ResponseWriter,
	r *http.Request,
	suffix string,
	view func(landing.PageData, bool) templ.Component,
) error {
	localeSeg := utils.GetPathVar(r, "locale")
	countrySeg := utils.GetPathVar(r, "country")

	if !localeSegment.MatchString(localeSeg) || !countrySegment.MatchString(countrySeg) {
		http.NotFound(w, r)

		return nil
	}

	data := landing.GetPageData(r.Context(), s.Content(r), landing.Input{
		Locale:          localeSeg,
		Country:         countrySeg,
		Query:           r.URL.Query(),
		Now:             s.now(),
		BaseURL:         seo.BaseURL(),
		FilterByCountry: config.Global.Feature.FilterByCountry,
		Signer:          s.Signer,
	})

	// Locale aliases, country codes and letter case all collapse onto one URL.
	if canonical := data.Path + suffix; canonical != r.URL.Path {
		if r.URL.RawQuery != "" {
			canonical += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, canonical, http.StatusMovedPermanently)

		return nil
	}

	request_context.FromRequest(r).CountryCode = data.Country.Code

	data.Timings.WriteHeaders(w)
	w.Header().Set("Content-Language", data.Locale)

	if data.BrokersUnavailable {
		// Don't let shared caches keep the retry state.
		w.Header().Set("Cache-Control", "no-store")
	}

	// CatchError buffers the body, so this header still reaches the client.
	start := time.Now()
	err := view(data, config.Global.Feature.ExitIntentPopup).Render(r.Context(), w)
	utils.AddServerTimingHeader(w, "render", time.Since(start), "Render page")

	return err
}
