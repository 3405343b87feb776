// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package country

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/choosestockbroker/web/core"
)

func TestCodeSlugRoundTrip(t *testing.T) {
	t.Parallel()

	require.Len(t, baseline, 25)

	for _, c := range baseline {
		slug, ok := SlugFromCode(c.code)
		if assert.True(t, ok, c.code) {
			assert.Equal(t, c.code, CodeFromSlug(slug))
		}
	}
}

func TestCodeFromSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gb", CodeFromSlug("united-kingdom"))
	assert.Equal(t, "gb", CodeFromSlug("United-Kingdom"))
	assert.Equal(t, "atlantis", CodeFromSlug("atlantis"))
	assert.Equal(t, "vn", CodeFromSlug("vn"))
}

func TestSlugFromCode(t *testing.T) {
	t.Parallel()

	slug, ok := SlugFromCode("KR")
	assert.True(t, ok)
	assert.Equal(t, "korea", slug)

	_, ok = SlugFromCode("ci")
	assert.False(t, ok)
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		country core.Country
		want    string
	}{
		{"table entry wins over name", core.Country{Code: "us", Name: "USA"}, "united-states"},
		{"name is slugified", core.Country{Code: "ci", Name: "Côte d'Ivoire"}, "cote-d-ivoire"},
		{"code when name is empty", core.Country{Code: "NZ"}, "nz"},
		{"code when name has no usable characters", core.Country{Code: "xk", Name: "!!"}, "xk"},
		{"global", core.Country{Code: "global", Name: "Global"}, "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Slug(tt.country))
		})
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cote-d-ivoire", Slugify("Côte d'Ivoire"))
	assert.Equal(t, "sao-tome-and-principe", Slugify("  São Tomé and Príncipe "))
	assert.Equal(t, "viet-nam", Slugify("Việt Nam"))
	assert.Equal(t, "hong-kong-sar", Slugify("Hong Kong (SAR)"))
	assert.Empty(t, Slugify("---"))

	long := Slugify("United Kingdom of Great Britain and Northern Ireland Overseas Territories")
	assert.Equal(t, "united-kingdom-of-great-britain-and-northern-ireland-overseas-te", long)
	assert.Len(t, long, MaxSlugLength)

	// A cut that lands on a separator drops it.
	cut := Slugify(strings.Repeat("a", MaxSlugLength-1) + " bbb")
	assert.Equal(t, strings.Repeat("a", MaxSlugLength-1), cut)
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, code, slug string }{
		{"united-kingdom", "gb", "united-kingdom"},
		{"gb", "gb", "united-kingdom"},
		{"GB", "gb", "united-kingdom"},
		{"Global", Global, Global},
		{"cote-d-ivoire", "cote-d-ivoire", "cote-d-ivoire"},
	}

	for _, tt := range tests {
		code, slug := Canonical(tt.in)
		assert.Equal(t, tt.code, code, tt.in)
		assert.Equal(t, tt.slug, slug, tt.in)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/vi/vietnam", Path("vi", core.Country{Code: "vn"}))
	assert.Equal(t, "/en/global", Path("en", core.Country{Code: Global}))
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Germany", DisplayName(core.Country{Code: "de"}, language.English))
	assert.Equal(t, "Deutschland", DisplayName(core.Country{Code: "de"}, language.German))
	assert.Equal(t, "Atlantis", DisplayName(core.Country{Code: "atlantis", Name: "Atlantis"}, language.English))
	assert.Empty(t, DisplayName(core.Country{Code: Global}, language.English))
}
