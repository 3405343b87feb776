// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fragments holds the small building blocks shared by every component:
an escaping HTML writer and accessors for request-scoped data.
*/
package fragments

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/choosestockbroker/web/server/request_context"
)

// Locale returns the page locale of the current request.
func Locale(ctx context.Context) string {
	if l := request_context.FromContext(ctx).Locale; l != "" {
		return l
	}

	return "en"
}

// HTML writes markup and remembers the first write error.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML returns a writer over w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup as is.
func (h *HTML) Raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}

		_, h.err = io.WriteString(h.w, p)
	}
}

// Text writes escaped text.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (h *HTML) Attr(name, value string) {
	h.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// URLAttr is Attr for URLs from untrusted sources. Unsafe schemes are replaced.
func (h *HTML) URLAttr(name, url string) {
	h.Attr(name, string(templ.URL(url)))
}

// Component renders c in place.
func (h *HTML) Component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}

	h.err = c.Render(ctx, h.w)
}

// Err returns the first error encountered.
func (h *HTML) Err() error {
	return h.err
}

// Component adapts a function writing through HTML into a templ.Component.
func Component(fn func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		fn(ctx, h)

		return h.Err()
	})
}
