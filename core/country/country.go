// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package country converts between ISO country codes and the URL slugs used in
landing page paths, e.g. "gb" and "united-kingdom".

The baseline tables are fixed at init and never modified afterwards. Countries
added in the CMS that are not in the tables get a slug derived from their name.
*/
package country

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"codeberg.org/choosestockbroker/web/core"
)

// Global is the pseudo-country for the worldwide page. It is its own code and its own slug.
const Global = "global"

// baseline is the pre-rendered set of countries, in navigation order.
var baseline = []struct{ code, slug string }{
	{"vn", "vietnam"},
	{"us", "united-states"},
	{"gb", "united-kingdom"},
	{"de", "germany"},
	{"fr", "france"},
	{"au", "australia"},
	{"es", "spain"},
	{"it", "italy"},
	{"pt", "portugal"},
	{"ru", "russia"},
	{"jp", "japan"},
	{"kr", "korea"},
	{"cn", "china"},
	{"co", "colombia"},
	{"ca", "canada"},
	{"br", "brazil"},
	{"mx", "mexico"},
	{"ar", "argentina"},
	{"cl", "chile"},
	{"in", "india"},
	{"th", "thailand"},
	{"sg", "singapore"},
	{"my", "malaysia"},
	{"id", "indonesia"},
	{"ph", "philippines"},
}

var (
	codeToSlug = make(map[string]string, len(baseline))
	slugToCode = make(map[string]string, len(baseline))
)

func init() {
	for _, c := range baseline {
		codeToSlug[c.code] = c.slug
		slugToCode[c.slug] = c.code
	}
}

// CodeFromSlug returns the code for a known slug. Anything else, including
// codes and unknown slugs, is returned unchanged.
func CodeFromSlug(slug string) string {
	if code, ok := slugToCode[strings.ToLower(slug)]; ok {
		return code
	}

	return slug
}

// SlugFromCode returns the slug for a known code.
func SlugFromCode(code string) (string, bool) {
	slug, ok := codeToSlug[strings.ToLower(code)]

	return slug, ok
}

// Slug returns the URL slug for c: the table entry for its code, else its
// name slugified, else its raw code.
func Slug(c core.Country) string {
	if IsGlobal(c.Code) {
		return Global
	}

	if slug, ok := SlugFromCode(c.Code); ok {
		return slug
	}

	if slug := Slugify(c.Name); slug != "" {
		return slug
	}

	return strings.ToLower(c.Code)
}

// MaxSlugLength is the longest slug [Slugify] returns, and the longest
// {country} path segment the landing routes accept.
const MaxSlugLength = 64

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, strips diacritics and joins the remaining
// alphanumeric runs with single hyphens: "Côte d'Ivoire" becomes "cote-d-ivoire".
// The result is cut to MaxSlugLength.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		stripped = strings.ToLower(name)
	}

	slug := strings.Trim(nonAlphanumeric.ReplaceAllString(stripped, "-"), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}

	return slug
}

// IsGlobal reports whether s names the worldwide page, as a code or a slug.
func IsGlobal(s string) bool {
	return strings.EqualFold(s, Global)
}

// Path returns the canonical landing page path for c in the given language.
func Path(languageCode string, c core.Country) string {
	return "/" + languageCode + "/" + Slug(c)
}

// Canonical resolves a {country} path segment, which may be a slug or a code,
// to its code and the slug that should appear in the URL.
func Canonical(segment string) (code, slug string) {
	segment = strings.ToLower(segment)

	if IsGlobal(segment) {
		return Global, Global
	}

	code = CodeFromSlug(segment)
	if known, ok := SlugFromCode(code); ok {
		return code, known
	}

	return segment, segment
}

// DisplayName returns the name of c in the language of tag, e.g. "Vương quốc Anh"
// for gb in Vietnamese. It falls back to the CMS name and then to the slug in
// title case. The worldwide page has no display name.
func DisplayName(c core.Country, tag language.Tag) string {
	if IsGlobal(c.Code) {
		return ""
	}

	if region, err := language.ParseRegion(c.Code); err == nil && len(c.Code) == 2 {
		// Regions returns nil for languages without display data.
		if namer := display.Regions(tag); namer != nil {
			if name := namer.Name(region); name != "" {
				return name
			}
		}
	}

	if c.Name != "" {
		return c.Name
	}

	return cases.Title(tag).String(strings.ReplaceAll(Slug(c), "-", " "))
}
