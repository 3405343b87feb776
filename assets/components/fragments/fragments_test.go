// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fragments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.n++

	return 0, errors.New("closed")
}

func TestComponentEscapes(t *testing.T) {
	t.Parallel()

	c := Component(func(_ context.Context, h *HTML) {
		h.Raw("<a")
		h.Attr("title", `"quoted" & <tag>`)
		h.URLAttr("href", "javascript:alert(1)")
		h.Raw(">")
		h.Text("<b>bold</b>")
		h.Raw("</a>")
	})

	var b strings.Builder
	assert.NoError(t, c.Render(context.Background(), &b))

	out := b.String()
	assert.Contains(t, out, `title="&#34;quoted&#34; &amp; &lt;tag&gt;"`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
}

func TestHTMLStopsAtFirstError(t *testing.T) {
	t.Parallel()

	w := &failingWriter{}
	h := NewHTML(w)
	h.Raw("a", "b")
	h.Text("c")

	assert.Error(t, h.Err())
	assert.Equal(t, 1, w.n)
}

func TestLocaleDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en", Locale(context.Background()))
}
