// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/core/selection"
	"codeberg.org/choosestockbroker/web/i18n"
)

// Header renders the navigation bar. The country selector is a <details>
// element so it works without JavaScript.
func Header(data HeaderData) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<header class="site-header"><nav class="container"><a class="logo"`)
		h.Attr("href", data.HomePath)
		h.Raw(`>ChooseStockBroker</a><ul class="nav-links">`)

		navLink(h, data.HomePath, i18n.Tr(ctx, "Home"), data.CurrentPath == data.HomePath)
		navLink(h, data.BrokersPath, i18n.Tr(ctx, "Online Brokers"), data.CurrentPath == data.BrokersPath)

		h.Raw(`</ul>`)
		h.Component(ctx, countrySelector(data.Selection, data.Groups))
		h.Raw(`</nav></header>`)
	})
}

func navLink(h *fragments.HTML, href, label string, current bool) {
	h.Raw(`<li><a`)
	h.Attr("href", href)

	if current {
		h.Attr("aria-current", "page")
	}

	h.Raw(`>`)
	h.Text(label)
	h.Raw(`</a></li>`)
}

func countrySelector(sel selection.Selection, groups []selection.Group) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<details class="selector"><summary><span class="flag">`)
		h.Text(sel.Flag())
		h.Raw(`</span> <span class="selector__country">`)
		h.Text(sel.Country.Name)
		h.Raw(`</span> <span class="selector__language">(`)
		h.Text(sel.Language.Name)
		h.Raw(`)</span></summary><div class="selector__menu"><h3>`)
		h.Text(i18n.Tr(ctx, "Select Country & Language"))
		h.Raw(`</h3>`)

		for _, g := range groups {
			h.Raw(`<div class="selector__group"><div class="selector__group-name"><span class="flag">`)
			h.Text(selection.FlagOf(g.Country))
			h.Raw(`</span> `)
			h.Text(g.Country.Name)
			h.Raw(`</div><div class="selector__options">`)

			for _, opt := range g.Options {
				h.Raw(`<a`)
				h.Attr("href", opt.Path)
				h.Attr("hreflang", opt.Language.Code)

				if opt.Active {
					h.Attr("aria-current", "true")
				}

				h.Raw(`>`)
				h.Text(opt.Language.Name)
				h.Raw(`</a>`)
			}

			h.Raw(`</div></div>`)
		}

		h.Raw(`</div></details>`)
	})
}
