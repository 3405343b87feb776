// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package landing assembles everything the /{locale}/{country} page shows.

Brokers, countries and FAQs are fetched concurrently. Each fetch owns its own
result slot and a failure never cancels the others; instead every failure is
replaced by its fallback:

  - brokers: an empty table with a retry link (BrokersUnavailable)
  - countries: the three built-in selector entries
  - FAQs: the two built-in entries
*/
package landing

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/cms"
	"codeberg.org/choosestockbroker/web/core/country"
	"codeberg.org/choosestockbroker/web/core/faq"
	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/core/outbound"
	"codeberg.org/choosestockbroker/web/core/ranking"
	"codeberg.org/choosestockbroker/web/core/selection"
	"codeberg.org/choosestockbroker/web/core/seo"
	"codeberg.org/choosestockbroker/web/server/utils"
)

// Source is where the page content comes from. cms.Client implements it.
type Source interface {
	GetBrokers(ctx context.Context) ([]core.Broker, error)
	GetCountries(ctx context.Context) ([]core.Country, error)
	GetFAQs(ctx context.Context) ([]core.FAQ, error)
}

// Input describes one page request.
type Input struct {
	// Locale and Country are the raw path segments.
	Locale  string
	Country string

	Query url.Values
	Now   time.Time

	// BaseURL is the public origin used for canonical and alternate links.
	BaseURL string

	FilterByCountry bool

	// Signer turns broker websites into /go/ links. Nil leaves VisitPath empty.
	Signer *outbound.Signer
}

// Row is one line of the broker table.
type Row struct {
	core.Broker

	// VisitPath is the signed /go/ link, or "" when the broker has no website.
	VisitPath string
}

// PageData is the view model of a landing page.
type PageData struct {
	Locale string
	Dir    string

	Country core.Country
	Slug    string

	// Path is the canonical path of this page, without the query.
	Path string

	Selection selection.Selection
	Groups    []selection.Group

	HeroTitle string
	Metadata  seo.PageMetadata
	Year      int

	Rows               []Row
	BrokersUnavailable bool
	Sort               ranking.State

	FAQs []core.FAQ
	Open faq.OpenSet

	Query url.Values

	Timings *utils.Timings
}

// GetPageData fetches and assembles the page. It never fails: every fetch
// error is logged and replaced by a fallback.
func GetPageData(ctx context.Context, src Source, in Input) PageData {
	var (
		g       errgroup.Group
		timings = utils.NewTimings()

		brokers    []core.Broker
		brokersErr error
		countries  []core.Country
		countryErr error
		faqs       []core.FAQ
		faqsErr    error
	)

	g.Go(func() error {
		t0 := time.Now()
		brokers, brokersErr = src.GetBrokers(ctx)
		timings.Append("cms-brokers", time.Since(t0), "Brokers fetch")

		return nil
	})

	g.Go(func() error {
		t0 := time.Now()
		countries, countryErr = src.GetCountries(ctx)
		timings.Append("cms-countries", time.Since(t0), "Countries fetch")

		return nil
	})

	g.Go(func() error {
		t0 := time.Now()
		faqs, faqsErr = src.GetFAQs(ctx)
		timings.Append("cms-faqs", time.Since(t0), "FAQs fetch")

		return nil
	})

	_ = g.Wait()

	logFetchError("brokers", brokersErr)
	logFetchError("countries", countryErr)
	logFetchError("faqs", faqsErr)

	code := locale.Normalize(in.Locale)
	countries = selection.Resolve(countries, countryErr)
	current := findCountry(countries, in.Country)
	slug := country.Slug(current)

	if in.FilterByCountry {
		brokers = cms.FilterBrokersByCountry(brokers, current.Code)
		faqs = faq.Filter(faqs, current.Code, code)
	}

	sort := ranking.ParseState(in.Query)
	sel := selection.New(countries, code, current.Code)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return PageData{
		Locale:             code,
		Dir:                locale.Dir(code),
		Country:            current,
		Slug:               slug,
		Path:               "/" + code + "/" + slug,
		Selection:          sel,
		Groups:             sel.Groups(countries),
		HeroTitle:          seo.HeroTitle(ctx, current, now.Year()),
		Metadata:           seo.Metadata(ctx, in.BaseURL, code, slug),
		Year:               now.Year(),
		Rows:               rows(sort.Apply(brokers), in, code, current.Code),
		BrokersUnavailable: brokersErr != nil,
		Sort:               sort,
		FAQs:               faq.Resolve(faqs, faqsErr),
		Open:               faq.ParseOpenSet(in.Query),
		Query:              in.Query,
		Timings:            timings,
	}
}

// findCountry resolves a {country} segment, which may be a slug or a code,
// against the CMS list before falling back to the built-in table.
func findCountry(countries []core.Country, segment string) core.Country {
	segment = strings.ToLower(strings.TrimSpace(segment))
	if segment == "" {
		return core.Country{Code: country.Global, Name: "Global"}
	}

	code, _ := country.Canonical(segment)
	if code == country.Global {
		return core.Country{Code: country.Global, Name: "Global"}
	}

	for _, c := range countries {
		if c.Code == code || country.Slug(c) == segment {
			return c
		}
	}

	return core.Country{Code: code}
}

func rows(brokers []core.Broker, in Input, localeCode, countryCode string) []Row {
	out := make([]Row, 0, len(brokers))

	for _, b := range brokers {
		row := Row{Broker: b}

		if in.Signer != nil && b.VisitURL != "" {
			row.VisitPath = in.Signer.Path(outbound.Link{
				URL:     b.VisitURL,
				Broker:  b.ID,
				Locale:  localeCode,
				Country: countryCode,
			})
		}

		out = append(out, row)
	}

	return out
}

func logFetchError(collection string, err error) {
	if err == nil {
		return
	}

	log.Warn().
		Err(err).
		Str("collection", collection).
		Msg("CMS fetch failed, using fallback")
}

// SortQuery returns the query string of the header link for f.
func (p PageData) SortQuery(f ranking.Field) string {
	return p.Sort.Select(f).Query(p.Query).Encode()
}

// ResetQuery returns the query string of the "reset sorting" link.
func (p PageData) ResetQuery() string {
	return p.Sort.Reset().Query(p.Query).Encode()
}

// ToggleQuery returns the query string of the link that opens or closes FAQ id.
func (p PageData) ToggleQuery(id string) string {
	return p.Open.ToggleQuery(p.Query, id).Encode()
}
