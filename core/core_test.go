// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRating(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want float64 }{
		{-1, 0},
		{0, 0},
		{3.5, 3.5},
		{5, 5},
		{7, 5},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, ClampRating(tt.in), 0.0001, "rating %v", tt.in)
	}
}

func TestBrokerStars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, Broker{Rating: 4.9}.Stars())
	assert.Equal(t, 5, Broker{Rating: 12}.Stars())
	assert.Equal(t, 0, Broker{Rating: -2}.Stars())
}

func TestBrokerLogo(t *testing.T) {
	t.Parallel()

	noLogo := Broker{Name: "Acme"}
	assert.Equal(t, PlaceholderLogo, noLogo.LogoURL())
	assert.Equal(t, "Acme logo", noLogo.LogoAlt())

	withLogo := Broker{Name: "Acme", Logo: &Media{URL: "https://cdn.test/acme.png", Alt: "Acme Markets"}}
	assert.Equal(t, "https://cdn.test/acme.png", withLogo.LogoURL())
	assert.Equal(t, "Acme Markets", withLogo.LogoAlt())
}

func TestBrokerAvailableIn(t *testing.T) {
	t.Parallel()

	assert.True(t, Broker{}.AvailableIn("vn"))
	assert.True(t, Broker{Countries: []string{"us", "vn"}}.AvailableIn("vn"))
	assert.False(t, Broker{Countries: []string{"us"}}.AvailableIn("vn"))
}

func TestCountryLanguages(t *testing.T) {
	t.Parallel()

	vn := Country{Code: "vn", Languages: []Language{{Name: "Tiếng Việt", Code: "vi"}, English}}

	l, ok := vn.Language("en")
	assert.True(t, ok)
	assert.Equal(t, English, l)

	_, ok = vn.Language("th")
	assert.False(t, ok)

	assert.Equal(t, "vi", vn.DefaultLanguage().Code)
	assert.Equal(t, English, Country{}.DefaultLanguage())
}

func TestFAQMatches(t *testing.T) {
	t.Parallel()

	assert.True(t, FAQ{}.Matches("vn", "vi"))
	assert.True(t, FAQ{Country: "vn"}.Matches("vn", "en"))
	assert.False(t, FAQ{Country: "us"}.Matches("vn", "en"))
	assert.False(t, FAQ{Language: "vi"}.Matches("vn", "en"))
}
