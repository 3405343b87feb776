// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"codeberg.org/choosestockbroker/web/core"
)

func mapBroker(doc gjson.Result, base string) (core.Broker, bool) {
	id, name := str(doc, "id"), text(doc, "name")
	if id == "" || name == "" {
		return core.Broker{}, false
	}

	b := core.Broker{
		ID:             id,
		Name:           name,
		Rating:         core.ClampRating(num(doc, "rating")),
		MinDeposit:     max(num(doc, "minDeposit"), 0),
		Assets:         max(int(num(doc, "assets")), 0),
		Commissions:    text(doc, "commissions"),
		Regulation:     text(doc, "regulation"),
		Platforms:      flatten(doc, "platforms", "platform"),
		Highlights:     flatten(doc, "highlights", "highlight"),
		PaymentMethods: flatten(doc, "paymentMethods", "method"),
		VisitURL:       str(doc, "website"),
		RiskWarning:    text(doc, "riskWarning"),
		Address:        text(doc, "address"),
	}

	for _, code := range flatten(doc, "countries", "countryCode") {
		b.Countries = append(b.Countries, strings.ToLower(code))
	}

	if logo := doc.Get("logo"); logo.IsObject() {
		if u := resolveMediaURL(base, str(logo, "url")); u != "" {
			b.Logo = &core.Media{URL: u, Alt: text(logo, "alt")}
		}
	}

	return b, true
}

func mapCountries(docs []gjson.Result) []core.Country {
	countries := make([]core.Country, 0, len(docs))

	for _, doc := range docs {
		if c, ok := mapCountry(doc); ok {
			countries = append(countries, c)
		}
	}

	return countries
}

func mapCountry(doc gjson.Result) (core.Country, bool) {
	c := core.Country{
		ID:   str(doc, "id"),
		Name: text(doc, "name"),
		Code: strings.ToLower(str(doc, "code")),
		Flag: str(doc, "flag"),
	}

	if c.ID == "" || c.Name == "" || c.Code == "" {
		return core.Country{}, false
	}

	for _, l := range array(doc, "languages") {
		code := strings.ToLower(str(l, "code"))
		if code == "" {
			continue
		}

		name := text(l, "name")
		if name == "" {
			name = code
		}

		c.Languages = append(c.Languages, core.Language{Name: name, Code: code})
	}

	return c, true
}

func mapFAQ(doc gjson.Result) (core.FAQ, bool) {
	f := core.FAQ{
		ID:       str(doc, "id"),
		Question: text(doc, "question"),
		Answer:   text(doc, "answer"),
		Country:  strings.ToLower(str(doc, "country")),
		Language: strings.ToLower(str(doc, "language")),
	}

	if f.ID == "" || f.Question == "" {
		return core.FAQ{}, false
	}

	return f, true
}

// str returns a string or number field as a trimmed string.
// Objects, arrays, booleans and null give "".
func str(doc gjson.Result, path string) string {
	v := doc.Get(path)

	switch v.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

// num returns a numeric field, or 0 for anything else.
func num(doc gjson.Result, path string) float64 {
	if v := doc.Get(path); v.Type == gjson.Number {
		return v.Float()
	}

	return 0
}

// text returns a string field with any markup reduced to plain text.
func text(doc gjson.Result, path string) string {
	return plainText(str(doc, path))
}

func plainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	return strings.Join(strings.Fields(d.Text()), " ")
}

// flatten collects one string field out of every element of an array field,
// e.g. highlights[].highlight. Empty values are dropped.
func flatten(doc gjson.Result, path, field string) []string {
	var out []string

	for _, item := range array(doc, path) {
		if v := text(item, field); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// array returns the elements of an array field, or nil for anything else.
func array(doc gjson.Result, path string) []gjson.Result {
	if v := doc.Get(path); v.IsArray() {
		return v.Array()
	}

	return nil
}
