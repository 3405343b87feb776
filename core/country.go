// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

// Language is one of the UI languages offered for a country.
type Language struct {
	Name string // endonym, e.g. "Tiếng Việt"
	Code string
}

// English is used when a country lists no languages.
var English = Language{Name: "English", Code: "en"}

// Country is a market the site has a landing page for.
type Country struct {
	ID   string
	Name string

	// Code is the lowercase ISO 3166-1 alpha-2 code, or "global".
	Code string

	// Flag is free text from the CMS, usually an emoji.
	Flag string

	Languages []Language
}

// Language returns the country's language with the given code.
func (c Country) Language(code string) (Language, bool) {
	for _, l := range c.Languages {
		if l.Code == code {
			return l, true
		}
	}

	return Language{}, false
}

// DefaultLanguage returns the first listed language, or English.
func (c Country) DefaultLanguage() Language {
	if len(c.Languages) == 0 {
		return English
	}

	return c.Languages[0]
}
