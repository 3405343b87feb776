// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/i18n"
)

// Footer renders the risk disclaimer and copyright line.
func Footer() templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		h.Raw(`<footer class="site-footer"><div class="container"><p class="disclaimer">`)
		h.Text(i18n.Tr(ctx, "Trading involves risk. The value of investments can go down as well as up and you may get back less than you invest."))
		h.Raw(`</p><p>&copy; `)
		h.Text(strconv.Itoa(time.Now().Year()))
		h.Raw(` ChooseStockBroker &middot; `)
		h.Text(config.BuildVersion)
		h.Raw(`</p></div></footer>`)
	})
}
