// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short request IDs that sort roughly by time of day.
package idgen

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Make returns the UTC time of day (HHMMSS) followed by five random bytes in lowercase base32.
func Make() string {
	return stamp(time.Now()) + suffix()
}

func stamp(t time.Time) string {
	return t.UTC().Format("150405")
}

func suffix() string {
	var entropy [5]byte

	_, _ = rand.Read(entropy[:])

	return strings.ToLower(encoding.EncodeToString(entropy[:]))
}
