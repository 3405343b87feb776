// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/i18n"
)

// Hero renders the headline section of a landing page.
func Hero(title string) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<section class="hero"><div class="container hero__inner"><div class="hero__text"><h1>`)
		h.Text(title)
		h.Raw(`</h1><p class="hero__subtitle">`)
		h.Text(i18n.Tr(ctx, "Compare fees, platforms and regulation side by side and find the broker that fits the way you trade."))
		h.Raw(`</p><div class="hero__actions"><a class="button button--primary" href="#brokers">`)
		h.Text(i18n.Tr(ctx, "View Top Brokers"))
		h.Raw(`</a><a class="button" href="#faq">`)
		h.Text(i18n.Tr(ctx, "Learn More"))
		h.Raw(`</a></div></div><div class="hero__panel"><div class="hero__count">5000+</div><div>`)
		h.Text(i18n.Tr(ctx, "Trading Assets"))
		h.Raw(`</div><div class="hero__grid">`)

		for _, c := range []struct{ name, detail string }{
			{i18n.Tr(ctx, "Stocks"), i18n.Tr(ctx, "Global Markets")},
			{i18n.Tr(ctx, "Forex"), i18n.Tr(ctx, "Major Pairs")},
			{i18n.Tr(ctx, "Crypto"), i18n.Tr(ctx, "Top Tokens")},
			{i18n.Tr(ctx, "ETFs"), i18n.Tr(ctx, "Diversified")},
		} {
			h.Raw(`<div><strong>`)
			h.Text(c.name)
			h.Raw(`</strong><span>`)
			h.Text(c.detail)
			h.Raw(`</span></div>`)
		}

		h.Raw(`</div></div></div></section>`)
	})
}
