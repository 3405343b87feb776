// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

// FAQ is one question and answer pair.
type FAQ struct {
	ID       string
	Question string
	Answer   string

	// Country and Language optionally restrict the entry to one market or locale.
	Country  string
	Language string
}

// Matches reports whether the entry targets the given country code and locale.
// Empty targeting matches everything.
func (f FAQ) Matches(countryCode, localeCode string) bool {
	return (f.Country == "" || f.Country == countryCode) &&
		(f.Language == "" || f.Language == localeCode)
}
