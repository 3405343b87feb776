// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"EN-us", "en"},
		{"en_GB", "en"},
		{"  vi  ", "vi"},
		{"pt-BR", "pt"},
		{"zh-Hant-TW", "zh"},
		{"ID", "id"},
		{"", Default},
		{"de", Default},
		{"fr-FR", Default},
		{"klingon", Default},
		{"-", Default},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestPrimary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		primary string
		ok      bool
	}{
		{"pt_BR", "pt", true},
		{" JA-jp ", "ja", true},
		{"zh-Hant-TW", "zh", true},
		{"fr-FR", "fr", false},
		{"api", "api", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			primary, ok := Primary(tt.input)
			assert.Equal(t, tt.primary, primary)
			assert.Equal(t, tt.ok, ok)

			// Normalize and Primary agree on every input.
			if ok {
				assert.Equal(t, primary, Normalize(tt.input))
			} else {
				assert.Equal(t, Default, Normalize(tt.input))
			}
		})
	}
}

func TestNormalizeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, code := range Supported() {
		assert.Equal(t, Normalize(code), Normalize(code+"-XX"), code)
		assert.Equal(t, code, Normalize(code))
	}
}

func TestSupportedIsACopy(t *testing.T) {
	t.Parallel()

	got := Supported()
	got[0] = "xx"

	assert.Equal(t, "en", Supported()[0])
	assert.Len(t, Supported(), 14)
}

func TestTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.Vietnamese, Tag("vi-VN"))
	assert.Equal(t, language.English, Tag("nope"))
}

func TestDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rtl", Dir("ar"))
	assert.Equal(t, "rtl", Dir("ur"))
	assert.Equal(t, "ltr", Dir("en"))
}
