// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/config"
)

var (
	// Logger is the logger used by package i18n.
	Logger zerolog.Logger = log.Logger

	// missingKeyOnce holds locale+"\x00"+msgid for every reported miss.
	missingKeyOnce sync.Map
)

func strictMissingKeys() bool {
	return config.Global.Internationalization.StrictMissingKeys
}

func logMissingOnce(locale, msgid string) {
	if _, loaded := missingKeyOnce.LoadOrStore(locale+"\x00"+msgid, struct{}{}); loaded {
		return
	}

	Logger.Warn().
		Str("locale", locale).
		Str("key", msgid).
		Msg("Missing i18n translation")
}
