// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template holds the formatting helpers shared by the page components.
*/
package template

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/i18n"
)

// AbbrevInt formats n using short suffixes, e.g. 3200 -> "3.2k".
// Input of n <= 0 returns "0".
func AbbrevInt(n int) string {
	if n <= 0 {
		return "0"
	}

	// formatScaled turns an integer tenths value
	// into a compact string, trimming any trailing .0.
	formatScaled := func(scaled int64) string {
		whole, frac := scaled/10, scaled%10
		if frac == 0 {
			return strconv.FormatInt(whole, 10)
		}

		return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(frac, 10)
	}

	x := int64(n)

	units := []struct {
		threshold int64
		suffix    string
	}{
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "k"},
	}

	for i, u := range units {
		if x < u.threshold {
			continue
		}

		// scaled is the value in tenths of the unit, rounded to nearest.
		scaled := (x*10 + u.threshold/2) / u.threshold

		// 999_950 rounds to 1000.0k; promote it to 1M.
		if scaled >= 10_000 && i > 0 {
			prev := units[i-1]

			return formatScaled((x*10+prev.threshold/2)/prev.threshold) + prev.suffix
		}

		return formatScaled(scaled) + u.suffix
	}

	return strconv.FormatInt(x, 10)
}

// Deposit formats a minimum deposit in US dollars with the digit grouping of
// the page locale. Zero reads as "$0".
func Deposit(ctx context.Context, amount float64) string {
	amount = math.Max(amount, 0)
	p := message.NewPrinter(i18n.TagFrom(ctx))

	if amount == math.Trunc(amount) {
		return "$" + p.Sprintf("%d", int64(amount))
	}

	return "$" + p.Sprintf("%.2f", amount)
}

// Stars renders a rating as five filled or empty stars.
func Stars(rating float64) string {
	filled := core.Broker{Rating: rating}.Stars()

	return strings.Repeat("★", filled) + strings.Repeat("☆", core.MaxRating-filled)
}

// StaticURL appends the cache-busting ID of this process to an asset path.
func StaticURL(path string) string {
	if id := config.Global.Instance.FileServerCacheID; id != "" {
		return path + "?v=" + id
	}

	return path
}
