// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates UI text using GNU gettext .po catalogs.

The msgid is always the English UI text:

	i18n.Tr(ctx, "Visit Site")
	i18n.Tr(ctx, "Compare Online Trading Brokers in {{.Country}} - {{.Year}}", "Country", name, "Year", 2025)
	i18n.TrN(ctx, "{{.Count}} broker", "{{.Count}} brokers", n, "Count", n)

Placeholders use text/template syntax and are filled from alternating key, value pairs.
Numbers can be rendered with the locale's digit grouping via [Number].

Missing translations fall back to the msgid. With StrictMissingKeys enabled they are
logged once per locale and wrapped as "⟦...⟧" so they stand out in the page.

Catalogs live in po/<locale>.po; po/choosestockbroker.pot is the template
produced by cmd/i18n_extract.
*/
package i18n
