// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package locale normalizes free-form locale strings, such as URL path segments
or Accept-Language values, to one of the language codes the site is published in.
*/
package locale

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Default is returned by [Normalize] for anything it does not recognise.
const Default = "en"

// supported lists the published languages in navigation order.
var supported = []string{
	"en", "vi", "th", "ar", "ja", "ko", "zh",
	"hi", "ms", "ur", "ta", "es", "pt", "id",
}

// Supported returns the published language codes in navigation order.
//
// The returned slice is a copy and is safe to retain.
func Supported() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether code is exactly one of the published language codes.
func IsSupported(code string) bool {
	return slices.Contains(supported, code)
}

// Primary returns the lowercased primary subtag of s and whether it is a
// published language code.
//
// Case and surrounding whitespace are ignored, "_" separates subtags like "-",
// and script or region subtags are dropped: "EN-us", "pt_BR" and "zh-Hant-TW"
// reduce to "en", "pt" and "zh".
func Primary(s string) (string, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	primary, _, _ := strings.Cut(s, "-")

	return primary, IsSupported(primary)
}

// Normalize maps s to a published language code using [Primary].
// Empty or unknown input yields [Default].
func Normalize(s string) string {
	if primary, ok := Primary(s); ok {
		return primary
	}

	return Default
}

// Tag returns the language tag for a normalized code.
func Tag(code string) language.Tag {
	return language.Make(Normalize(code))
}

// Dir returns the HTML text direction for a normalized code.
func Dir(code string) string {
	switch code {
	case "ar", "ur":
		return "rtl"
	default:
		return "ltr"
	}
}
