// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/choosestockbroker/web/server/assets"
)

// poDomain is the gettext domain every catalog is registered under.
const poDomain = "choosestockbroker"

var (
	// localesByTag maps canonical BCP 47 tags to their loaded catalog.
	localesByTag map[string]*gotext.Locale

	// supportedTags starts with baseTag, followed by every loaded locale.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads the catalogs under po/ in [assets.FS].
func Setup() error {
	if assets.FS == nil {
		return fmt.Errorf("i18n: asset file system is not set")
	}

	return Load(assets.FS)
}

// Load reads every po/<locale>.po file in fsys and builds the language matcher.
//
// File names may use either "pt-BR" or "pt_BR". The .pot template is skipped.
// Calling Load again replaces the previously loaded catalogs.
func Load(fsys fs.FS) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	entries, err := fs.ReadDir(fsys, "po")
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale)
	tags := []language.Tag{}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".po" {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(name, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", name).Msg("Skipping invalid locale file")

			continue
		}

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join("po", name))

		loc := gotext.NewLocale("", t.String())
		loc.AddTranslator(poDomain, po)

		loaded[t.String()] = loc

		if t != baseTag {
			tags = append(tags, t)
		}

		Logger.Debug().
			Str("locale", t.String()).
			Msg("Loaded locale")
	}

	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	// baseTag goes first so it is the matcher's fallback.
	all := append([]language.Tag{baseTag}, tags...)

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	Logger.Info().
		Int("count", len(loaded)).
		Msg("Loaded translation catalogs")

	return nil
}
