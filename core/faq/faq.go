// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package faq holds the FAQ disclosure list: which answers are expanded, and
// the built-in entries shown when the CMS has nothing to offer.
package faq

import (
	"net/url"
	"slices"
	"strings"

	"codeberg.org/choosestockbroker/web/core"
)

// OpenParam is the query parameter carrying the open item IDs.
const OpenParam = "open"

// OpenSet is the set of expanded item IDs. Any number of items may be open at once.
//
// OpenSet values are immutable; Toggle returns a new set.
type OpenSet struct {
	ids map[string]struct{}
}

// NewOpenSet returns a set with the given IDs open.
func NewOpenSet(ids ...string) OpenSet {
	s := OpenSet{ids: make(map[string]struct{}, len(ids))}

	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}

	return s
}

// IsOpen reports whether the item is expanded.
func (s OpenSet) IsOpen(id string) bool {
	_, ok := s.ids[id]

	return ok
}

// Toggle closes id if it is open and opens it otherwise. Other items are untouched.
func (s OpenSet) Toggle(id string) OpenSet {
	out := NewOpenSet(s.IDs()...)

	if out.IsOpen(id) {
		delete(out.ids, id)
	} else if id != "" {
		out.ids[id] = struct{}{}
	}

	return out
}

// IDs returns the open IDs, sorted.
func (s OpenSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Len returns the number of open items.
func (s OpenSet) Len() int {
	return len(s.ids)
}

// ParseOpenSet reads ?open=1,2. Repeated parameters are merged.
func ParseOpenSet(q url.Values) OpenSet {
	var ids []string
	for _, v := range q[OpenParam] {
		ids = append(ids, strings.Split(v, ",")...)
	}

	return NewOpenSet(ids...)
}

// Query returns q with the open parameter replaced by s. q is not modified.
func (s OpenSet) Query(q url.Values) url.Values {
	out := url.Values{}

	for k, v := range q {
		if k != OpenParam {
			out[k] = slices.Clone(v)
		}
	}

	if s.Len() > 0 {
		out.Set(OpenParam, strings.Join(s.IDs(), ","))
	}

	return out
}

// ToggleQuery returns the query string of the link that toggles id.
func (s OpenSet) ToggleQuery(q url.Values, id string) url.Values {
	return s.Toggle(id).Query(q)
}

// Fallback returns the built-in entries. The slice is fresh on every call.
func Fallback() []core.FAQ {
	return []core.FAQ{
		{
			ID:       "1",
			Question: "What is the best online trading broker?",
			Answer: "The best online trading broker depends on your individual needs, trading style, " +
				"and investment goals. Factors to consider include fees, available assets, regulation, " +
				"customer support, and trading platforms.",
		},
		{
			ID:       "2",
			Question: "How do I choose a trading broker?",
			Answer: "When choosing a trading broker, consider: 1) Regulation and safety, " +
				"2) Trading fees and commissions, 3) Available assets and markets, " +
				"4) Trading platform quality, 5) Customer support, 6) Minimum deposit requirements, " +
				"7) Educational resources and tools.",
		},
	}
}

// Resolve returns items, or the built-in entries when the fetch failed or came back empty.
func Resolve(items []core.FAQ, err error) []core.FAQ {
	if err != nil || len(items) == 0 {
		return Fallback()
	}

	return items
}

// Filter keeps the entries targeted at the given country and locale.
// The global page keeps entries regardless of their country tag.
func Filter(items []core.FAQ, countryCode, localeCode string) []core.FAQ {
	out := make([]core.FAQ, 0, len(items))

	for _, item := range items {
		c := countryCode
		if c == "global" {
			c = item.Country
		}

		if item.Matches(c, localeCode) {
			out = append(out, item)
		}
	}

	return out
}
