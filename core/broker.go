// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import "math"

// PlaceholderLogo is served for brokers without an uploaded logo.
const PlaceholderLogo = "/img/placeholder-logo.svg"

// MaxRating is the top of the star scale.
const MaxRating = 5

// Media is an uploaded file referenced by a document.
type Media struct {
	URL string
	Alt string
}

// Broker is one row of the comparison table.
type Broker struct {
	ID   string
	Name string
	Logo *Media

	// Rating is kept within [0, MaxRating].
	Rating     float64
	MinDeposit float64
	Assets     int

	Commissions    string
	Regulation     string
	Platforms      []string
	Highlights     []string
	PaymentMethods []string

	// Countries are lowercase country codes the broker accepts clients from.
	// Empty means no restriction.
	Countries []string

	VisitURL    string
	RiskWarning string
	Address     string
}

// ClampRating limits r to [0, MaxRating]. NaN becomes 0.
func ClampRating(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}

	return math.Min(r, MaxRating)
}

// Stars returns the number of whole stars to draw.
func (b Broker) Stars() int {
	return int(math.Floor(ClampRating(b.Rating)))
}

// LogoURL returns the uploaded logo, or PlaceholderLogo.
func (b Broker) LogoURL() string {
	if b.Logo == nil || b.Logo.URL == "" {
		return PlaceholderLogo
	}

	return b.Logo.URL
}

// LogoAlt returns the logo's alt text, defaulting to "{Name} logo".
func (b Broker) LogoAlt() string {
	if b.Logo != nil && b.Logo.Alt != "" {
		return b.Logo.Alt
	}

	return b.Name + " logo"
}

// AvailableIn reports whether the broker serves the given country code.
func (b Broker) AvailableIn(code string) bool {
	if len(b.Countries) == 0 {
		return true
	}

	for _, c := range b.Countries {
		if c == code {
			return true
		}
	}

	return false
}
