// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// TrafficDestination describes who an HTTP exchange was with.
type TrafficDestination string

const (
	// ToUser marks a response served to a visitor.
	ToUser TrafficDestination = "user"

	// ToCMS marks a request made to the content API.
	ToCMS TrafficDestination = "cms"

	responseFilePermissions = 0o600
)

var (
	// SaveResponses stores CMS response bodies under ResponseDirectory for debugging.
	SaveResponses bool

	// ResponseDirectory is where saved CMS responses go, one file per request ID.
	ResponseDirectory string
)

// Span is one HTTP exchange being measured.
type Span struct {
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error
	Body        []byte // saved to disk, never logged

	savedTo string
}

// ServerTimingName encodes the span as a Server-Timing metric name: "{destination}${method}${base64url(url)}".
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts the clock and registers a Server-Timing metric if ctx carries a timing header.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Destination))

	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the clock. Only the first call has an effect.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()
	span.task = nil

	if span.metric != nil {
		span.metric.Duration = span.duration
	}
}

// Duration returns the measured time, zero until End has been called.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span as a debug event, saving the CMS body first if configured.
func (span Span) Log() {
	if span.Destination == ToCMS && SaveResponses && len(span.Body) > 0 {
		span.saveBody()
	}

	event := log.Debug().
		Str("sys", "http").
		Str("destination", string(span.Destination)).
		Str("request_id", span.RequestID).
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanizeSize(len(span.Body))).
		Dur("dur", span.duration)

	if span.savedTo != "" {
		event.Str("response_filename", span.savedTo)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

func (span *Span) saveBody() {
	filename := filepath.Join(ResponseDirectory, filepath.Base(span.RequestID)+".json")

	if err := os.WriteFile(filename, span.Body, responseFilePermissions); err != nil {
		log.Err(err).
			Str("request_id", span.RequestID).
			Msg("Failed to save response")

		return
	}

	span.savedTo = filename
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

func humanizeSize(x int) string {
	switch {
	case x < bytesInKB:
		return strconv.Itoa(x)
	case x < bytesInMB:
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	default:
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}
}
