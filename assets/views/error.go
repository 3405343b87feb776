// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/assets/components/fragments"
	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/core/seo"
	"codeberg.org/choosestockbroker/web/i18n"
)

// ErrorData describes a failed request.
type ErrorData struct {
	Locale     string
	StatusCode int
	Error      error

	// ShowDetails includes the error text, for development instances.
	ShowDetails bool
}

// Error renders the error page.
func Error(data ErrorData) templ.Component {
	return fragments.Component(func(ctx context.Context, h *fragments.HTML) {
		status := data.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}

		var (
			title   string
			message string
		)

		if status == http.StatusNotFound {
			title = i18n.Tr(ctx, "Page not found")
			message = i18n.Tr(ctx, "The page you are looking for does not exist.")
		} else {
			title = i18n.Tr(ctx, "Something went wrong")
			message = i18n.Tr(ctx, "We could not load this page. Please try again later.")
		}

		// Messages meant for the visitor are shown even outside development.
		var userErr *i18n.UserError
		if errors.As(data.Error, &userErr) {
			message = userErr.Error()
		}

		code := locale.Normalize(data.Locale)
		body := fragments.Component(func(ctx context.Context, h *fragments.HTML) {
			h.Raw(`<section class="container error-page"><p class="error-page__status">`)
			h.Text(strconv.Itoa(status))
			h.Raw(`</p><h1>`)
			h.Text(title)
			h.Raw(`</h1><p>`)
			h.Text(message)
			h.Raw(`</p>`)

			if data.ShowDetails && data.Error != nil && userErr == nil {
				h.Raw(`<pre class="error-page__details">`)
				h.Text(data.Error.Error())
				h.Raw(`</pre>`)
			}

			h.Raw(`<a class="button button--primary"`)
			h.Attr("href", "/"+code+"/global")
			h.Raw(`>`)
			h.Text(i18n.Tr(ctx, "Back to the homepage"))
			h.Raw(`</a></section>`)
		})

		h.Component(ctx, Layout(LayoutData{
			Locale:   code,
			Metadata: seo.PageMetadata{Title: title + " - ChooseStockBroker"},
		}, body))
	})
}
