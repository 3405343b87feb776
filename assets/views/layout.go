// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the full-page components.

Pages are plain templ components; every one of them is wrapped by Layout, which
owns <head>, the site header and the footer.
*/
package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/core/landing"
	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/core/selection"
	"codeberg.org/choosestockbroker/web/core/seo"
	"codeberg.org/choosestockbroker/web/server/template"
)

// LayoutData is everything Layout needs besides the page body.
type LayoutData struct {
	Locale   string
	Metadata seo.PageMetadata

	// Header is nil on pages without a country context, such as error pages.
	Header *HeaderData

	ExitIntentPopup bool

	// OfferPath is where the exit popup's call to action leads.
	OfferPath string
}

// HeaderData drives the navigation bar and the country selector.
type HeaderData struct {
	HomePath    string
	BrokersPath string
	CurrentPath string

	Selection selection.Selection
	Groups    []selection.Group
}

// LayoutFromPage builds the layout data of a landing-style page.
func LayoutFromPage(data landing.PageData, exitIntentPopup bool) LayoutData {
	offer := "#brokers"
	if len(data.Rows) > 0 && data.Rows[0].VisitPath != "" {
		offer = data.Rows[0].VisitPath
	}

	return LayoutData{
		Locale:   data.Locale,
		Metadata: data.Metadata,
		Header: &HeaderData{
			HomePath:    data.Path,
			BrokersPath: data.Path + "/brokers",
			Selection:   data.Selection,
			Groups:      data.Groups,
		},
		ExitIntentPopup: exitIntentPopup,
		OfferPath:       offer,
	}
}

// Layout wraps body in the page skeleton.
func Layout(data LayoutData, body templ.Component) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		code := locale.Normalize(data.Locale)

		h.Raw(`<!DOCTYPE html><html`)
		h.Attr("lang", code)
		h.Attr("dir", locale.Dir(code))
		h.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.Text(data.Metadata.Title)
		h.Raw(`</title>`)

		if data.Metadata.Description != "" {
			h.Raw(`<meta name="description"`)
			h.Attr("content", data.Metadata.Description)
			h.Raw(`>`)
		}

		if data.Metadata.Canonical != "" {
			h.Raw(`<link rel="canonical"`)
			h.Attr("href", data.Metadata.Canonical)
			h.Raw(`>`)
		}

		for _, alt := range data.Metadata.Alternates {
			h.Raw(`<link rel="alternate"`)
			h.Attr("hreflang", alt.Hreflang)
			h.Attr("href", alt.Href)
			h.Raw(`>`)
		}

		h.Raw(`<link rel="stylesheet"`)
		h.Attr("href", template.StaticURL("/css/main.css"))
		h.Raw(`><link rel="icon" type="image/svg+xml"`)
		h.Attr("href", template.StaticURL("/img/favicon.svg"))
		h.Raw(`></head><body>`)

		if data.Header != nil {
			h.Component(ctx, Header(*data.Header))
		}

		h.Raw(`<main>`)
		h.Component(ctx, body)
		h.Raw(`</main>`)
		h.Component(ctx, Footer())

		if data.ExitIntentPopup {
			h.Component(ctx, ExitIntentPopup(data.OfferPath))
		}

		h.Raw(`</body></html>`)
	})
}
