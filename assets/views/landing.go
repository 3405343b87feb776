// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/assets/components/partials"
	"codeberg.org/choosestockbroker/web/core/landing"
)

// Landing renders /{locale}/{country}.
func Landing(data landing.PageData, exitIntentPopup bool) templ.Component {
	layout := LayoutFromPage(data, exitIntentPopup)
	layout.Header.CurrentPath = layout.Header.HomePath

	return Layout(layout, fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Component(ctx, Hero(data.HeroTitle))
		h.Raw(`<div class="container">`)
		h.Component(ctx, partials.BrokerTable(data))
		h.Component(ctx, partials.FAQList(data))
		h.Raw(`</div>`)
	}))
}

// Brokers renders /{locale}/{country}/brokers: the table on its own.
func Brokers(data landing.PageData, exitIntentPopup bool) templ.Component {
	layout := LayoutFromPage(data, exitIntentPopup)
	layout.Header.CurrentPath = layout.Header.BrokersPath

	return Layout(layout, fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<div class="container"><h1>`)
		h.Text(data.HeroTitle)
		h.Raw(`</h1>`)
		h.Component(ctx, partials.BrokerTable(data))
		h.Raw(`</div>`)
	}))
}
