// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package ranking holds the sort state of the broker comparison table.

The table starts unsorted. Selecting a column sorts ascending by it; selecting the
same column again flips the direction; Reset returns to the CMS order. The state
travels in the query string (?sort=deposit&dir=desc) so every header is a plain link.
*/
package ranking

import (
	"cmp"
	"net/url"
	"slices"

	"codeberg.org/choosestockbroker/web/core"
)

// Field is a sortable column.
type Field string

// Sortable columns. FieldNone means the table is unsorted.
const (
	FieldNone    Field = ""
	FieldDeposit Field = "deposit"
	FieldAssets  Field = "assets"
)

// Direction is the sort order of the active column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query parameter names.
const (
	SortParam      = "sort"
	DirectionParam = "dir"
)

// State is the table's sort state. The zero value is unsorted.
type State struct {
	Field     Field
	Direction Direction
}

// Unsorted is the initial state.
var Unsorted = State{}

// IsSorted reports whether a column is active.
func (s State) IsSorted() bool {
	return s.Field != FieldNone
}

// Select returns the state after the header for f is clicked.
func (s State) Select(f Field) State {
	if s.Field == f && f != FieldNone {
		if s.Direction == Ascending {
			return State{Field: f, Direction: Descending}
		}

		return State{Field: f, Direction: Ascending}
	}

	if f == FieldNone {
		return Unsorted
	}

	return State{Field: f, Direction: Ascending}
}

// Reset returns the unsorted state.
func (State) Reset() State {
	return Unsorted
}

// Apply returns a sorted copy of brokers. Ties keep their input order and
// brokers itself is never modified.
func (s State) Apply(brokers []core.Broker) []core.Broker {
	out := slices.Clone(brokers)
	if !s.IsSorted() {
		return out
	}

	key := s.Field.value

	slices.SortStableFunc(out, func(a, b core.Broker) int {
		if s.Direction == Descending {
			return cmp.Compare(key(b), key(a))
		}

		return cmp.Compare(key(a), key(b))
	})

	return out
}

func (f Field) value(b core.Broker) float64 {
	switch f {
	case FieldDeposit:
		return b.MinDeposit
	case FieldAssets:
		return float64(b.Assets)
	default:
		return 0
	}
}

// Indicator returns the arrow shown next to the header of f.
func (s State) Indicator(f Field) string {
	switch {
	case s.Field != f || f == FieldNone:
		return "▲▼"
	case s.Direction == Descending:
		return "▼"
	default:
		return "▲"
	}
}

// ParseState reads the state from a query string. Unknown values give Unsorted.
func ParseState(q url.Values) State {
	f := Field(q.Get(SortParam))
	if f != FieldDeposit && f != FieldAssets {
		return Unsorted
	}

	if Direction(q.Get(DirectionParam)) == Descending {
		return State{Field: f, Direction: Descending}
	}

	return State{Field: f, Direction: Ascending}
}

// Query returns q with the sort parameters replaced by s. q is not modified.
func (s State) Query(q url.Values) url.Values {
	out := url.Values{}

	for k, v := range q {
		if k != SortParam && k != DirectionParam {
			out[k] = slices.Clone(v)
		}
	}

	if s.IsSorted() {
		out.Set(SortParam, string(s.Field))
		out.Set(DirectionParam, string(s.Direction))
	}

	return out
}
