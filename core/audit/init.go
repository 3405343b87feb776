// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit records in-flight HTTP traffic, both the requests we serve and the
// requests we make to the CMS, as debug log lines and Server-Timing metrics.
package audit

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger gives readable console output until config.Setup runs.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
