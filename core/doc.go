// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package core holds the data model shared by every page: brokers, countries and
FAQ entries as they come out of the CMS.

Fetching lives in core/cms; the decision logic built on top of these types lives
in its own subpackages:

	core/locale    URL locale normalization
	core/country   country code and slug resolution
	core/ranking   broker table sort state
	core/faq       FAQ disclosure state and fallback entries
	core/selection country and language picker
	core/landing   assembly of a whole landing page
	core/seo       titles, alternates, sitemap and robots.txt
	core/outbound  signed "Visit Site" links and click tracking
*/
package core
