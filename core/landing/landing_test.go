// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package landing

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/outbound"
	"codeberg.org/choosestockbroker/web/core/ranking"
)

var errOffline = errors.New("cms offline")

type fakeSource struct {
	brokers    []core.Broker
	countries  []core.Country
	faqs       []core.FAQ
	brokersErr error
	countryErr error
	faqsErr    error
}

func (f fakeSource) GetBrokers(context.Context) ([]core.Broker, error) {
	return f.brokers, f.brokersErr
}

func (f fakeSource) GetCountries(context.Context) ([]core.Country, error) {
	return f.countries, f.countryErr
}

func (f fakeSource) GetFAQs(context.Context) ([]core.FAQ, error) {
	return f.faqs, f.faqsErr
}

var (
	now   = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	base  = "https://www.example.com"
	fixed = fakeSource{
		brokers: []core.Broker{
			{ID: "a", Name: "A", MinDeposit: 500, Countries: []string{"vn"}, VisitURL: "https://a.example"},
			{ID: "b", Name: "B", MinDeposit: 100},
			{ID: "c", Name: "C", MinDeposit: 300, Countries: []string{"gb"}},
		},
		countries: []core.Country{
			{ID: "1", Code: "vn", Name: "Vietnam", Languages: []core.Language{{Name: "Tiếng Việt", Code: "vi"}}},
			{ID: "2", Code: "nz", Name: "New Zealand"},
		},
		faqs: []core.FAQ{{ID: "x", Question: "Q?", Answer: "A."}},
	}
)

func names(rows []Row) string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Name)
	}

	return strings.Join(out, ",")
}

func TestGetPageData(t *testing.T) {
	t.Parallel()

	q, _ := url.ParseQuery("sort=deposit&open=x")
	data := GetPageData(context.Background(), fixed, Input{
		Locale:  "VI",
		Country: "vietnam",
		Query:   q,
		Now:     now,
		BaseURL: base,
	})

	assert.Equal(t, "vi", data.Locale)
	assert.Equal(t, "ltr", data.Dir)
	assert.Equal(t, "vn", data.Country.Code)
	assert.Equal(t, "/vi/vietnam", data.Path)
	assert.Equal(t, "B,C,A", names(data.Rows))
	assert.False(t, data.BrokersUnavailable)
	assert.Equal(t, 2025, data.Year)
	assert.Equal(t, base+"/vi/vietnam", data.Metadata.Canonical)
	assert.Equal(t, "vi", data.Selection.Language.Code)
	assert.Len(t, data.FAQs, 1)
	assert.True(t, data.Open.IsOpen("x"))
	assert.Equal(t, "dir=desc&open=x&sort=deposit", data.SortQuery(ranking.FieldDeposit))
	assert.Equal(t, "open=x", data.ResetQuery())
	assert.Equal(t, "sort=deposit", data.ToggleQuery("x"))
}

func TestGetPageDataFallbacks(t *testing.T) {
	t.Parallel()

	data := GetPageData(context.Background(), fakeSource{
		brokersErr: errOffline,
		countryErr: errOffline,
		faqsErr:    errOffline,
	}, Input{Locale: "ar", Country: "gb", Now: now, BaseURL: base})

	assert.True(t, data.BrokersUnavailable)
	assert.Empty(t, data.Rows)
	require.Len(t, data.FAQs, 2)
	assert.Equal(t, "1", data.FAQs[0].ID)
	require.Len(t, data.Groups, 3)
	assert.Equal(t, "gb", data.Country.Code)
	assert.Equal(t, "/ar/united-kingdom", data.Path)
	assert.Equal(t, "rtl", data.Dir)
}

func TestGetPageDataFiltersByCountry(t *testing.T) {
	t.Parallel()

	vn := GetPageData(context.Background(), fixed, Input{
		Locale: "en", Country: "vn", Now: now, FilterByCountry: true,
	})
	assert.Equal(t, "A,B", names(vn.Rows))

	global := GetPageData(context.Background(), fixed, Input{
		Locale: "en", Country: "global", Now: now, FilterByCountry: true,
	})
	assert.Equal(t, "A,B,C", names(global.Rows))
	assert.Equal(t, "/en/global", global.Path)
}

func TestFindCountry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "New Zealand", findCountry(fixed.countries, "new-zealand").Name)
	assert.Equal(t, "New Zealand", findCountry(fixed.countries, "NZ").Name)
	assert.Equal(t, core.Country{Code: "de"}, findCountry(fixed.countries, "germany"))
	assert.Equal(t, "global", findCountry(fixed.countries, "").Code)
	assert.Equal(t, "Global", findCountry(fixed.countries, "GLOBAL").Name)
	assert.Equal(t, core.Country{Code: "gb"}, findCountry(fixed.countries, "United-Kingdom"))
	assert.Equal(t, core.Country{Code: "atlantis"}, findCountry(fixed.countries, "atlantis"))
}

func TestRowsCarrySignedLinks(t *testing.T) {
	t.Parallel()

	signer, err := outbound.NewSigner("")
	require.NoError(t, err)

	data := GetPageData(context.Background(), fixed, Input{
		Locale: "en", Country: "vn", Now: now, Signer: signer,
	})

	require.Len(t, data.Rows, 3)
	assert.True(t, strings.HasPrefix(data.Rows[0].VisitPath, "/go/v4.public."))
	assert.Empty(t, data.Rows[1].VisitPath, "no website, no link")

	link, err := signer.Verify(strings.TrimPrefix(data.Rows[0].VisitPath, "/go/"))
	require.NoError(t, err)
	assert.Equal(t, outbound.Link{URL: "https://a.example", Broker: "a", Locale: "en", Country: "vn"}, link)
}
