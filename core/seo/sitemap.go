// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/country"
)

const (
	rootPriority    = "0.9"
	landingPriority = "0.8"
	changeFreqDaily = "daily"
)

// FallbackCountries are listed when the CMS country list is unavailable.
func FallbackCountries() []core.Country {
	codes := []string{"us", "gb", "vn", "de", "fr"}

	out := make([]core.Country, 0, len(codes))
	for _, code := range codes {
		out = append(out, core.Country{Code: code})
	}

	return out
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod"`
	ChangeFreq string      `xml:"changefreq"`
	Priority   string      `xml:"priority"`
	Links      []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders sitemap.xml: the site root, then one entry per locale and
// country. Entries use the same slug as the landing page's canonical path, so
// a CMS country outside the built-in table is listed under its slugified name.
func Sitemap(base string, locales []string, countries []core.Country, now time.Time) ([]byte, error) {
	lastMod := now.UTC().Format(time.RFC3339)

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs: []sitemapURL{{
			Loc:        base + "/",
			LastMod:    lastMod,
			ChangeFreq: changeFreqDaily,
			Priority:   rootPriority,
		}},
	}

	unique := dedupe(countries)

	slugs := make([]string, 0, len(unique))
	for _, c := range unique {
		slugs = append(slugs, country.Slug(c))
	}

	for _, loc := range locales {
		for _, slug := range slugs {
			entry := sitemapURL{
				Loc:        pageURL(base, loc, slug),
				LastMod:    lastMod,
				ChangeFreq: changeFreqDaily,
				Priority:   landingPriority,
			}

			for _, alt := range alternates(base, slug) {
				entry.Links = append(entry.Links, xhtmlLink{Rel: "alternate", Hreflang: alt.Hreflang, Href: alt.Href})
			}

			set.URLs = append(set.URLs, entry)
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

// dedupe drops countries without a code and repeats of an earlier code.
func dedupe(countries []core.Country) []core.Country {
	out := make([]core.Country, 0, len(countries))
	seen := make(map[string]bool, len(countries))

	for _, c := range countries {
		c.Code = strings.ToLower(strings.TrimSpace(c.Code))
		if c.Code == "" || seen[c.Code] {
			continue
		}

		seen[c.Code] = true
		out = append(out, c)
	}

	return out
}

// Robots renders robots.txt.
func Robots(base string) string {
	var b strings.Builder

	b.WriteString("User-Agent: *\n")
	b.WriteString("Allow: /\n")

	for _, path := range []string{"/admin", "/api", "/go/"} {
		b.WriteString("Disallow: " + path + "\n")
	}

	b.WriteString("\nHost: " + base + "\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")

	return b.String()
}
