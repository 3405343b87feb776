// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/i18n"
	"codeberg.org/choosestockbroker/web/server/template"
)

// ExitIntentPopup renders the offer dialog. It stays closed until
// /js/exit-intent.js sees the pointer leave through the top of the window,
// and is shown at most once per session.
func ExitIntentPopup(offerPath string) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<dialog class="exit-popup" id="exit-intent"><form method="dialog" class="exit-popup__close"><button`)
		h.Attr("aria-label", i18n.Tr(ctx, "Close"))
		h.Raw(`>&times;</button></form><div class="exit-popup__badge">`)
		h.Text("🎯 " + i18n.Tr(ctx, "Exclusive Broker Offer"))
		h.Raw(`</div><h3>`)
		h.Text(i18n.Tr(ctx, "Special Trading Account Bonus"))
		h.Raw(`</h3><p>`)
		h.Text(i18n.Tr(ctx, "Get started with our top-rated broker partner and receive:"))
		h.Raw(`</p><ul class="exit-popup__perks">`)

		for _, perk := range []string{
			i18n.Tr(ctx, "$100 Welcome Bonus"),
			i18n.Tr(ctx, "Zero Commission Trading"),
			i18n.Tr(ctx, "Free Trading Signals"),
			i18n.Tr(ctx, "24/7 Customer Support"),
		} {
			h.Raw(`<li><span aria-hidden="true">✓</span> `)
			h.Text(perk)
			h.Raw(`</li>`)
		}

		h.Raw(`</ul><a class="button button--primary" rel="nofollow sponsored"`)
		h.Attr("href", offerPath)
		h.Raw(`>`)
		h.Text(i18n.Tr(ctx, "Claim Exclusive Offer"))
		h.Raw(`</a><form method="dialog"><button class="button button--link">`)
		h.Text(i18n.Tr(ctx, "No thanks, continue browsing"))
		h.Raw(`</button></form><p class="exit-popup__terms">`)
		h.Text(i18n.Tr(ctx, "*Terms and conditions apply. Risk warning: Trading involves risk."))
		h.Raw(`</p></dialog><script defer`)
		h.Attr("src", template.StaticURL("/js/exit-intent.js"))
		h.Raw(`></script>`)
	})
}
