// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const viCatalog = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: vi\n"
"Plural-Forms: nplurals=1; plural=0;\n"

msgid "Visit Site"
msgstr "Truy cập trang"

msgid "Compare Online Trading Brokers in {{.Country}} - {{.Year}}"
msgstr "So Sánh Các Nhà Môi Giới Giao Dịch Trực Tuyến tại {{.Country}} - {{.Year}}"

msgid "{{.Count}} broker"
msgid_plural "{{.Count}} brokers"
msgstr[0] "{{.Count}} nhà môi giới"
`

func TestMain(m *testing.M) {
	fsys := fstest.MapFS{
		"po/vi.po":                 {Data: []byte(viCatalog)},
		"po/choosestockbroker.pot": {Data: []byte(`msgid ""` + "\n" + `msgstr ""` + "\n")},
		"po/README":                {Data: []byte("not a catalog")},
	}

	if err := Load(fsys); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func vi() context.Context {
	return WithTag(context.Background(), language.Vietnamese)
}

func TestTrFallsBackToMsgid(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Visit Site", Tr(context.Background(), "Visit Site"))
	assert.Equal(t, "Visit Site", Tr(WithTag(context.Background(), language.Japanese), "Visit Site"))
}

func TestTrTranslates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Truy cập trang", Tr(vi(), "Visit Site"))
	assert.Equal(t, "Truy cập trang", Tr(WithTag(context.Background(), language.MustParse("vi-VN")), "Visit Site"))
}

func TestTrFillsPlaceholders(t *testing.T) {
	t.Parallel()

	msgid := "Compare Online Trading Brokers in {{.Country}} - {{.Year}}"

	assert.Equal(t,
		"Compare Online Trading Brokers in Germany - 2025",
		Tr(context.Background(), msgid, "Country", "Germany", "Year", 2025))
	assert.Equal(t,
		"So Sánh Các Nhà Môi Giới Giao Dịch Trực Tuyến tại Việt Nam - 2025",
		Tr(vi(), msgid, "Country", "Việt Nam", "Year", 2025))
}

func TestTrMissingPlaceholderReturnsText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello {{.Name}}", Tr(context.Background(), "Hello {{.Name}}"))
}

func TestTrPanicsOnOddArguments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Tr(context.Background(), "{{.A}}", "A") })
}

func TestTrN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 broker", TrN(context.Background(), "{{.Count}} broker", "{{.Count}} brokers", 1, "Count", 1))
	assert.Equal(t, "3 brokers", TrN(context.Background(), "{{.Count}} broker", "{{.Count}} brokers", 3, "Count", 3))
	assert.Equal(t, "3 nhà môi giới", TrN(vi(), "{{.Count}} broker", "{{.Count}} brokers", 3, "Count", 3))
}

func TestNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2,500", Number(context.Background(), 2500))
	assert.Equal(t, "2.500", Number(WithTag(context.Background(), language.German), 2500))
}

func TestMsgKeyRenderEscapes(t *testing.T) {
	t.Parallel()

	var b strings.Builder

	require.NoError(t, MsgKey("Fees & <Commissions>").Render(context.Background(), &b))
	assert.Equal(t, "Fees &amp; &lt;Commissions&gt;", b.String())
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	var got []string
	for _, tag := range Languages() {
		got = append(got, tag.String())
	}

	assert.Equal(t, []string{"en", "vi"}, got)
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "en", Base(FromRequest(r)))

	r.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")
	assert.Equal(t, "vi", Base(FromRequest(r)))

	r.Header.Set("Accept-Language", "fr-FR")
	assert.Equal(t, "en", Base(FromRequest(r)))

	assert.Equal(t, "en", Base(FromRequest(nil)))
}

func TestTagFromDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.English, TagFrom(context.Background()))
	assert.Equal(t, language.English, TagFrom(WithTag(context.Background(), language.Tag{})))
}
