// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package selection resolves the country and language shown in the header selector.
package selection

import (
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/country"
)

// Selection pairs the active country with one of its languages.
type Selection struct {
	Country  core.Country
	Language core.Language
}

// Option is one entry of the selector menu.
type Option struct {
	Language core.Language
	Path     string
	Active   bool
}

// Group lists the entries offered for one country.
type Group struct {
	Country core.Country
	Options []Option
}

// Fallback returns the countries offered when the CMS list is unavailable.
func Fallback() []core.Country {
	return []core.Country{
		{ID: "1", Code: "us", Name: "United States", Languages: []core.Language{core.English}},
		{ID: "2", Code: "gb", Name: "United Kingdom", Languages: []core.Language{core.English}},
		{ID: "3", Code: "vn", Name: "Vietnam", Languages: []core.Language{
			{Name: "Tiếng Việt", Code: "vi"},
			core.English,
		}},
	}
}

// Resolve returns countries, or the fallback list when the fetch failed or came back empty.
func Resolve(countries []core.Country, err error) []core.Country {
	if err != nil || len(countries) == 0 {
		return Fallback()
	}

	return countries
}

// New picks the country with the given code, else the first one, and then its
// language with the given code, else its first language, else English.
func New(countries []core.Country, localeCode, countryCode string) Selection {
	if len(countries) == 0 {
		countries = Fallback()
	}

	selected := countries[0]

	for _, c := range countries {
		if c.Code == countryCode {
			selected = c

			break
		}
	}

	lang, ok := selected.Language(localeCode)
	if !ok {
		lang = selected.DefaultLanguage()
	}

	return Selection{Country: selected, Language: lang}
}

// Groups returns one menu group per country, each with one option per language.
// A country listing no languages is offered in English.
func (s Selection) Groups(countries []core.Country) []Group {
	groups := make([]Group, 0, len(countries))

	for _, c := range countries {
		langs := c.Languages
		if len(langs) == 0 {
			langs = []core.Language{core.English}
		}

		g := Group{Country: c, Options: make([]Option, 0, len(langs))}
		for _, l := range langs {
			g.Options = append(g.Options, Option{
				Language: l,
				Path:     country.Path(l.Code, c),
				Active:   c.Code == s.Country.Code && l.Code == s.Language.Code,
			})
		}

		groups = append(groups, g)
	}

	return groups
}

// Flag returns the country's flag text, or a globe when it has none.
func (s Selection) Flag() string {
	return FlagOf(s.Country)
}

// FlagOf returns c's flag text, or a globe when it has none.
func FlagOf(c core.Country) string {
	if c.Flag == "" {
		return "🌍"
	}

	return c.Flag
}
