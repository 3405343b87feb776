// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the language of the msgids and the fallback for everything else.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Languages returns the tags of all loaded catalogs plus [BaseLocale], sorted by tag string.
//
// Before Setup it returns only the base tag.
func Languages() []language.Tag {
	if matcher == nil {
		return []language.Tag{baseTag}
	}

	out := slices.Clone(supportedTags)
	slices.SortFunc(out, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	return out
}

// Base returns the primary language subtag of t, e.g. "pt" for pt-BR.
func Base(t language.Tag) string {
	b, _ := t.Base()

	return b.String()
}
