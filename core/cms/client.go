// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cms fetches brokers, countries and FAQs from the Payload REST API and maps
them onto the types of package core.

Mapping is tolerant: a missing or mistyped field becomes its zero value and a
document without an ID or name is skipped, so one bad entry in the CMS never
takes the page down.
*/
package cms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core"
	"codeberg.org/choosestockbroker/web/core/country"
	"codeberg.org/choosestockbroker/web/core/requests"
)

// Collection slugs.
const (
	Brokers   = "brokers"
	Countries = "countries"
	FAQs      = "faqs"
)

// sitemapCountriesLimit bounds the country list used for the sitemap.
const sitemapCountriesLimit = 200

var ErrMalformedCollection = errors.New("CMS collection response has no docs array")

// Client reads collections from one Payload instance.
type Client struct {
	BaseURL string

	// APIKey, when set, is sent as "{APIKeyCollection} API-Key {APIKey}".
	APIKey           string
	APIKeyCollection string

	PageSize int
	MaxPages int

	// Timeout bounds each page request. Zero means no timeout beyond ctx.
	Timeout time.Duration

	// Incoming is the header of the visitor's request, if any.
	Incoming http.Header
}

// NewFromConfig returns a client for the CMS configured in config.Global.
func NewFromConfig() Client {
	c := config.Global.CMS

	return Client{
		BaseURL:          c.URL,
		APIKey:           c.APIKey,
		APIKeyCollection: c.APIKeyCollection,
		PageSize:         c.PageSize,
		MaxPages:         c.MaxPages,
		Timeout:          c.Timeout,
	}
}

// ForRequest returns a copy of c that forwards the caching directives of r.
func (c Client) ForRequest(r *http.Request) Client {
	c.Incoming = r.Header

	return c
}

func (c Client) headers() http.Header {
	h := http.Header{}

	if c.APIKey != "" {
		collection := c.APIKeyCollection
		if collection == "" {
			collection = "users"
		}

		h.Set("Authorization", collection+" API-Key "+c.APIKey)
	}

	return h
}

// fetchDocs returns the docs of every page of collection, following nextPage
// until the CMS reports no more pages or MaxPages is reached.
func (c Client) fetchDocs(ctx context.Context, collection string, limit int) ([]gjson.Result, error) {
	if limit <= 0 {
		limit = c.PageSize
	}

	maxPages := max(c.MaxPages, 1)

	var docs []gjson.Result

	for page, fetched := 1, 0; fetched < maxPages; fetched++ {
		body, err := c.getPage(ctx, CollectionURL(c.BaseURL, collection, limit, page))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s page %d: %w", collection, page, err)
		}

		result := gjson.ParseBytes(body)

		pageDocs := result.Get("docs")
		if !pageDocs.IsArray() {
			return nil, fmt.Errorf("%w: %s", ErrMalformedCollection, collection)
		}

		docs = append(docs, pageDocs.Array()...)

		if !result.Get("hasNextPage").Bool() {
			break
		}

		next := int(result.Get("nextPage").Int())
		if next <= page {
			next = page + 1
		}

		page = next
	}

	return docs, nil
}

func (c Client) getPage(ctx context.Context, url string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	return requests.GetJSON(ctx, url, c.headers(), c.Incoming)
}

// GetBrokers returns every broker in CMS order.
func (c Client) GetBrokers(ctx context.Context) ([]core.Broker, error) {
	docs, err := c.fetchDocs(ctx, Brokers, 0)
	if err != nil {
		return nil, err
	}

	brokers := make([]core.Broker, 0, len(docs))

	for _, doc := range docs {
		if b, ok := mapBroker(doc, c.BaseURL); ok {
			brokers = append(brokers, b)
		}
	}

	return brokers, nil
}

// GetCountries returns every country in CMS order.
func (c Client) GetCountries(ctx context.Context) ([]core.Country, error) {
	docs, err := c.fetchDocs(ctx, Countries, 0)
	if err != nil {
		return nil, err
	}

	return mapCountries(docs), nil
}

// GetFAQs returns every FAQ entry in CMS order.
func (c Client) GetFAQs(ctx context.Context) ([]core.FAQ, error) {
	docs, err := c.fetchDocs(ctx, FAQs, 0)
	if err != nil {
		return nil, err
	}

	faqs := make([]core.FAQ, 0, len(docs))

	for _, doc := range docs {
		if f, ok := mapFAQ(doc); ok {
			faqs = append(faqs, f)
		}
	}

	return faqs, nil
}

// SitemapCountries returns the first page of countries, for the sitemap.
func (c Client) SitemapCountries(ctx context.Context) ([]core.Country, error) {
	c.MaxPages = 1

	docs, err := c.fetchDocs(ctx, Countries, sitemapCountriesLimit)
	if err != nil {
		return nil, err
	}

	return mapCountries(docs), nil
}

// FilterBrokersByCountry keeps the brokers that accept clients from code.
// The worldwide page keeps every broker.
func FilterBrokersByCountry(brokers []core.Broker, code string) []core.Broker {
	if country.IsGlobal(code) {
		return brokers
	}

	out := make([]core.Broker, 0, len(brokers))

	for _, b := range brokers {
		if b.AvailableIn(code) {
			out = append(out, b)
		}
	}

	return out
}
