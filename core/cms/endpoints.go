// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"fmt"
	"net/url"
	"strings"
)

// CollectionURL returns the URL of one page of a Payload collection.
// depth=1 populates upload relations such as a broker's logo.
func CollectionURL(base, collection string, limit, page int) string {
	return fmt.Sprintf("%s/api/%s?limit=%d&page=%d&depth=1",
		strings.TrimSuffix(base, "/"), url.PathEscape(collection), limit, max(page, 1))
}

// CollectionPrefix returns the common prefix of every page URL of collection,
// for cache invalidation.
func CollectionPrefix(base, collection string) string {
	return strings.TrimSuffix(base, "/") + "/api/" + url.PathEscape(collection) + "?"
}

// resolveMediaURL makes an upload URL absolute. Payload returns uploads relative
// to its own origin, e.g. /api/media/file/logo.png.
func resolveMediaURL(base, ref string) string {
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return ref
	}

	return b.ResolveReference(u).String()
}
