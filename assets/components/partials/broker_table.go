// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds components that would otherwise be included under views/,
but are also rendered on their own by route handlers.
*/
package partials

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/core/landing"
	"codeberg.org/choosestockbroker/web/core/ranking"
	"codeberg.org/choosestockbroker/web/i18n"
	"codeberg.org/choosestockbroker/web/server/template"
)

// BrokerTableID is the fragment the sort links jump back to.
const BrokerTableID = "brokers"

// BrokerTable renders the comparison table with its sort links.
func BrokerTable(data landing.PageData) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<section class="brokers"`)
		h.Attr("id", BrokerTableID)
		h.Raw(`>`)

		switch {
		case data.BrokersUnavailable:
			brokerStatus(ctx, h,
				i18n.Tr(ctx, "Brokers could not be loaded right now."),
				template.WithQuery(data.Path, data.Query.Encode()))
		case len(data.Rows) == 0:
			brokerStatus(ctx, h,
				i18n.Tr(ctx, "No brokers available at the moment."),
				template.WithQuery(data.Path, data.ResetQuery()))
		default:
			brokerRows(ctx, h, data)
		}

		h.Raw(`</section>`)
	})
}

func brokerStatus(ctx context.Context, h *fragments.HTML, message, retry string) {
	h.Raw(`<div class="brokers__status"><p>`)
	h.Text(message)
	h.Raw(`</p><a class="button"`)
	h.Attr("href", template.Anchor(retry, BrokerTableID))
	h.Raw(`>`)
	h.Text(i18n.Tr(ctx, "Retry"))
	h.Raw(`</a></div>`)
}

func brokerRows(ctx context.Context, h *fragments.HTML, data landing.PageData) {
	h.Raw(`<table class="brokers__table"><thead><tr>`)

	// The broker column header resets the order.
	h.Raw(`<th scope="col"><a`)
	h.Attr("href", template.Anchor(template.WithQuery(data.Path, data.ResetQuery()), BrokerTableID))
	h.Raw(`>`)
	h.Text(i18n.Tr(ctx, "Broker"))
	h.Raw(`</a></th>`)

	sortHeader(ctx, h, data, ranking.FieldDeposit, i18n.Tr(ctx, "Min. Deposit"))
	sortHeader(ctx, h, data, ranking.FieldAssets, i18n.Tr(ctx, "Assets"))

	for _, label := range []string{
		i18n.Tr(ctx, "Highlights"),
		i18n.Tr(ctx, "Payment Methods"),
		i18n.Tr(ctx, "Learn More"),
	} {
		h.Raw(`<th scope="col">`)
		h.Text(label)
		h.Raw(`</th>`)
	}

	h.Raw(`</tr></thead><tbody>`)

	for _, row := range data.Rows {
		brokerRow(ctx, h, row)
	}

	h.Raw(`</tbody></table>`)
}

func sortHeader(ctx context.Context, h *fragments.HTML, data landing.PageData, f ranking.Field, label string) {
	h.Raw(`<th scope="col"`)

	if data.Sort.Field == f {
		sort := "ascending"
		if data.Sort.Direction == ranking.Descending {
			sort = "descending"
		}

		h.Attr("aria-sort", sort)
	}

	h.Raw(`><a`)
	h.Attr("href", template.Anchor(template.WithQuery(data.Path, data.SortQuery(f)), BrokerTableID))
	h.Attr("title", i18n.Tr(ctx, "Sort by {{.Column}}", "Column", label))
	h.Raw(`>`)
	h.Text(label)
	h.Raw(` <span class="sort-indicator" aria-hidden="true">`)
	h.Text(data.Sort.Indicator(f))
	h.Raw(`</span></a></th>`)
}

func brokerRow(ctx context.Context, h *fragments.HTML, row landing.Row) {
	h.Raw(`<tr`)
	h.Attr("data-broker", row.ID)
	h.Raw(`><td class="broker"><img loading="lazy" width="48" height="48"`)
	h.URLAttr("src", row.LogoURL())
	h.Attr("alt", row.LogoAlt())
	h.Raw(`><div><strong>`)
	h.Text(row.Name)
	h.Raw(`</strong><span class="stars"`)
	h.Attr("title", strconv.FormatFloat(row.Rating, 'f', 1, 64)+"/5")
	h.Raw(`>`)
	h.Text(template.Stars(row.Rating))
	h.Raw(`</span>`)

	if row.Regulation != "" {
		h.Raw(`<small class="regulation">`)
		h.Text(row.Regulation)
		h.Raw(`</small>`)
	}

	h.Raw(`</div></td><td>`)
	h.Text(template.Deposit(ctx, row.MinDeposit))
	h.Raw(`</td><td>`)

	if row.Assets > 0 {
		h.Text(template.AbbrevInt(row.Assets) + "+")
	} else {
		h.Raw(`&ndash;`)
	}

	h.Raw(`</td><td>`)
	list(h, "highlights", row.Highlights)
	h.Raw(`</td><td>`)
	list(h, "payment-methods", row.PaymentMethods)
	h.Raw(`</td><td>`)

	if row.VisitPath != "" {
		h.Raw(`<a class="button button--primary" rel="nofollow sponsored" target="_blank"`)
		h.Attr("href", row.VisitPath)
		h.Raw(`>`)
		h.Text(i18n.Tr(ctx, "Visit Site"))
		h.Raw(`</a>`)
	}

	if row.RiskWarning != "" {
		h.Raw(`<p class="risk-warning">`)
		h.Text(row.RiskWarning)
		h.Raw(`</p>`)
	}

	if row.Address != "" {
		h.Raw(`<address>`)
		h.Text(row.Address)
		h.Raw(`</address>`)
	}

	h.Raw(`</td></tr>`)
}

func list(h *fragments.HTML, class string, items []string) {
	if len(items) == 0 {
		return
	}

	h.Raw(`<ul`)
	h.Attr("class", class)
	h.Raw(`>`)

	for _, item := range items {
		h.Raw(`<li>`)
		h.Text(item)
		h.Raw(`</li>`)
	}

	h.Raw(`</ul>`)
}
