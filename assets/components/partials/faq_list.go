// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/core/landing"
	"codeberg.org/choosestockbroker/web/i18n"
	"codeberg.org/choosestockbroker/web/server/template"
)

// SupportAddress is where "Contact Support" points.
const SupportAddress = "mailto:support@choosestockbroker.com"

// FAQList renders the disclosure list. Each question links to the page with
// that item toggled, so any number of answers can be open at once.
func FAQList(data landing.PageData) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<section class="faq" id="faq"><h2>`)
		h.Text(i18n.Tr(ctx, "Frequently Asked Questions"))
		h.Raw(`</h2><div class="faq__items">`)

		for _, item := range data.FAQs {
			id := "faq-" + item.ID
			open := data.Open.IsOpen(item.ID)

			h.Raw(`<div class="faq__item"`)
			h.Attr("id", id)
			h.Raw(`><h3><a class="faq__question"`)
			h.Attr("href", template.Anchor(template.WithQuery(data.Path, data.ToggleQuery(item.ID)), id))

			if open {
				h.Attr("aria-expanded", "true")
			} else {
				h.Attr("aria-expanded", "false")
			}

			h.Raw(`>`)
			h.Text(item.Question)
			h.Raw(`<span class="faq__icon" aria-hidden="true">`)

			if open {
				h.Raw(`&minus;`)
			} else {
				h.Raw(`+`)
			}

			h.Raw(`</span></a></h3>`)

			if open {
				h.Raw(`<div class="faq__answer"><p>`)
				h.Text(item.Answer)
				h.Raw(`</p></div>`)
			}

			h.Raw(`</div>`)
		}

		h.Raw(`</div><div class="faq__contact"><p>`)
		h.Text(i18n.Tr(ctx, "Still have questions? We're here to help."))
		h.Raw(`</p><a class="button"`)
		h.Attr("href", SupportAddress)
		h.Raw(`>`)
		h.Text(i18n.Tr(ctx, "Contact Support"))
		h.Raw(`</a></div></section>`)
	})
}
