// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers. Handlers return an error and are wrapped
by middleware.CatchError, which renders the error page when they fail.
*/
package routes

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/cms"
	"codeberg.org/choosestockbroker/web/core/landing"
	"codeberg.org/choosestockbroker/web/core/outbound"
)

// Content is the CMS surface the handlers read from.
type Content interface {
	landing.Source
	SitemapCountries(ctx context.Context) ([]core.Country, error)
}

// Site carries the dependencies of the handlers.
type Site struct {
	// Content returns the content source for a request. Defaults to the CMS
	// client from config, forwarding the visitor's Cache-Control.
	Content func(r *http.Request) Content

	Signer *outbound.Signer
	Clicks outbound.Recorder

	Now func() time.Time
}

// NewSite returns a Site backed by the configured CMS.
func NewSite(signer *outbound.Signer, clicks outbound.Recorder) *Site {
	if clicks == nil {
		clicks = outbound.NoopRecorder{}
	}

	return &Site{
		Content: func(r *http.Request) Content {
			return cms.NewFromConfig().ForRequest(r)
		},
		Signer: signer,
		Clicks: clicks,
		Now:    time.Now,
	}
}

func (s *Site) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}
