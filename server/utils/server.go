// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Timing is one Server-Timing metric.
type Timing struct {
	Name        string
	Duration    time.Duration
	Description string
}

// Timings collects metrics from concurrent fetches for one response.
type Timings struct {
	mu      sync.Mutex
	entries []Timing
}

// NewTimings returns an empty collection.
func NewTimings() *Timings {
	return &Timings{
		entries: make([]Timing, 0),
	}
}

// Append records a metric. It is safe for concurrent use.
func (t *Timings) Append(name string, duration time.Duration, desc string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Timing{
		Name:        name,
		Duration:    duration,
		Description: desc,
	})
}

// WriteHeaders adds one Server-Timing header per metric. A nil receiver writes nothing.
func (t *Timings) WriteHeaders(w http.ResponseWriter) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, entry := range t.entries {
		w.Header().Add("Server-Timing", fmt.Sprintf(
			"%s;dur=%.0f;desc=\"%s\"",
			entry.Name,
			float64(entry.Duration.Milliseconds()),
			entry.Description,
		))
	}
}

// AddServerTimingHeader writes a Server-Timing header.
func AddServerTimingHeader(w http.ResponseWriter, name string, duration time.Duration, description string) {
	w.Header().Add("Server-Timing", fmt.Sprintf(
		"%s;dur=%s;desc=\"%s\"",
		name,
		strconv.FormatFloat(float64(duration.Nanoseconds())/float64(time.Millisecond), 'f', -1, 64),
		description,
	))
}
