// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/cms"
	"codeberg.org/choosestockbroker/web/core/outbound"
	"codeberg.org/choosestockbroker/web/core/requests"
)

// maxWebhookBody bounds the revalidation payload.
const maxWebhookBody = 64 << 10

type languageDoc struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type countryDoc struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Code      string        `json:"code"`
	Flag      string        `json:"flag,omitempty"`
	Languages []languageDoc `json:"languages"`
}

type countriesResponse struct {
	Docs []countryDoc `json:"docs"`
}

// CountriesAPI is the handler for /api/countries. A CMS failure is answered
// with 500 and an empty list rather than the error page.
func (s *Site) CountriesAPI(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	resp := countriesResponse{Docs: []countryDoc{}}

	countries, err := s.Content(r).GetCountries(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch countries for the API")
		w.WriteHeader(http.StatusInternalServerError)

		return json.NewEncoder(w).Encode(resp)
	}

	for _, c := range countries {
		resp.Docs = append(resp.Docs, toCountryDoc(c))
	}

	return json.NewEncoder(w).Encode(resp)
}

func toCountryDoc(c core.Country) countryDoc {
	doc := countryDoc{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Flag:      c.Flag,
		Languages: make([]languageDoc, 0, len(c.Languages)),
	}

	for _, l := range c.Languages {
		doc.Languages = append(doc.Languages, languageDoc(l))
	}

	return doc
}

type revalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Collections []string `json:"collections"`
	Invalidated int      `json:"invalidated"`
}

// Revalidate is the CMS webhook behind /api/revalidate. It drops cached
// responses for the collection named in the body ({"collection": "brokers"}),
// or for every collection when none is named.
//
// The webhook authenticates with "Authorization: Bearer {cms.webhookSecret}".
// Without a configured secret the endpoint does not exist.
func (s *Site) Revalidate(w http.ResponseWriter, r *http.Request) error {
	secret := config.Global.CMS.WebhookSecret
	if secret == "" {
		http.NotFound(w, r)

		return nil
	}

	w.Header().Set("Content-Type", "application/json")

	given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		_, err := io.WriteString(w, `{"revalidated":false}`+"\n")

		return err
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return err
	}

	collections := []string{cms.Brokers, cms.Countries, cms.FAQs}

	if name := gjson.GetBytes(body, "collection").String(); name != "" {
		if !isCollection(name) {
			w.WriteHeader(http.StatusBadRequest)

			return json.NewEncoder(w).Encode(revalidateResponse{Collections: []string{}})
		}

		collections = []string{name}
	}

	prefixes := make([]string, 0, len(collections))
	for _, c := range collections {
		prefixes = append(prefixes, cms.CollectionPrefix(config.Global.CMS.URL, c))
	}

	invalidated := requests.InvalidateURLs(prefixes)

	log.Info().
		Strs("collections", collections).
		Int("invalidated", len(invalidated)).
		Msg("Revalidated CMS collections")

	return json.NewEncoder(w).Encode(revalidateResponse{
		Revalidated: true,
		Collections: collections,
		Invalidated: len(invalidated),
	})
}

func isCollection(name string) bool {
	switch name {
	case cms.Brokers, cms.Countries, cms.FAQs:
		return true
	default:
		return false
	}
}

type clickStatsResponse struct {
	Brokers []outbound.BrokerCount `json:"brokers"`
	Total   int64                  `json:"total"`
}

// ClickStats reports the outbound click totals per broker, most clicked first.
// It is only routed in development.
func (s *Site) ClickStats(w http.ResponseWriter, r *http.Request) error {
	counts, err := s.Clicks.CountByBroker(r.Context())
	if err != nil {
		return fmt.Errorf("failed to count clicks: %w", err)
	}

	resp := clickStatsResponse{Brokers: []outbound.BrokerCount{}}

	for _, c := range counts {
		resp.Brokers = append(resp.Brokers, c)
		resp.Total += c.Clicks
	}

	w.Header().Set("Content-Type", "application/json")

	return json.NewEncoder(w).Encode(resp)
}
