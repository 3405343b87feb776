// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"net/url"
)

// WithQuery joins a path and an encoded query string, omitting an empty "?".
func WithQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	return path + "?" + rawQuery
}

// Anchor returns href with a fragment appended, so toggle links keep the
// reader's scroll position.
func Anchor(href, id string) string {
	return href + "#" + url.PathEscape(id)
}
