// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package seo builds the page titles, alternate links, sitemap and robots.txt.
package seo

import (
	"context"
	"strings"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/country"
	"codeberg.org/choosestockbroker/web/core/locale"
	"codeberg.org/choosestockbroker/web/i18n"
)

// XDefault is the hreflang value of the language-neutral alternate.
const XDefault = "x-default"

// Alternate is one <link rel="alternate" hreflang> entry.
type Alternate struct {
	Hreflang string
	Href     string
}

// PageMetadata is what the layout puts into <head>.
type PageMetadata struct {
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate
}

// BaseURL returns the configured public origin without a trailing slash.
func BaseURL() string {
	base := config.Global.Instance.SiteURL
	if base == "" {
		base = config.DefaultSiteURL
	}

	return strings.TrimRight(base, "/")
}

// HeroTitle returns the localized headline of the landing page for c.
func HeroTitle(ctx context.Context, c core.Country, year int) string {
	name := country.DisplayName(c, i18n.TagFrom(ctx))
	if country.IsGlobal(c.Code) || name == "" {
		return i18n.Tr(ctx, "Compare Global Online Trading Brokers - {{.Year}}", "Year", year)
	}

	return i18n.Tr(ctx, "Compare Online Trading Brokers in {{.Country}} - {{.Year}}",
		"Country", name,
		"Year", year)
}

// Metadata returns the head metadata of the landing page at /{localeCode}/{slug}.
func Metadata(ctx context.Context, base, localeCode, slug string) PageMetadata {
	return PageMetadata{
		Title:       i18n.Tr(ctx, "ChooseStockBroker - Compare Online Trading Brokers"),
		Description: i18n.Tr(ctx, "Compare the best online trading brokers. Find regulated brokers with low fees, great platforms, and excellent customer service."),
		Canonical:   pageURL(base, localeCode, slug),
		Alternates:  alternates(base, slug),
	}
}

// alternates lists the page in every published locale, plus x-default.
func alternates(base, slug string) []Alternate {
	codes := locale.Supported()
	out := make([]Alternate, 0, len(codes)+1)

	for _, code := range codes {
		out = append(out, Alternate{Hreflang: code, Href: pageURL(base, code, slug)})
	}

	return append(out, Alternate{Hreflang: XDefault, Href: pageURL(base, locale.Default, slug)})
}

func pageURL(base, localeCode, slug string) string {
	return base + "/" + localeCode + "/" + slug
}
