// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.

The server is started against a stub Payload CMS served from httptest.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 20
	dialTimeout = 250 * time.Millisecond
)

var cmsDocs = map[string]string{
	"brokers": `[
		{"id":"b1","name":"Alpha Markets","rating":4.5,"minDeposit":100,"assets":3000,
		 "website":"https://alpha.example/open","highlights":[{"highlight":"Low fees"}],
		 "countries":[{"countryCode":"VN"},{"countryCode":"US"}]},
		{"id":"b2","name":"Beta Trade","rating":3.9,"minDeposit":0,"assets":800}
	]`,
	"countries": `[
		{"id":"1","name":"Vietnam","code":"VN","flag":"🇻🇳","languages":[{"name":"Tiếng Việt","code":"vi"},{"name":"English","code":"en"}]},
		{"id":"2","name":"United States","code":"US","flag":"🇺🇸","languages":[{"name":"English","code":"en"}]}
	]`,
	"faqs": `[{"id":"f1","question":"Is comparing free?","answer":"<p>Yes.</p>"}]`,
}

// stubCMS answers /api/{collection} with a single page of docs.
func stubCMS() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		docs, ok := cmsDocs[strings.TrimPrefix(r.URL.Path, "/api/")]
		if !ok {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"docs":%s,"hasNextPage":false,"page":1,"totalPages":1}`, docs)
	}))
}

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
	Contains           string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.Method == "" {
		c.Method = http.MethodGet
	}

	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the stub CMS and the server, then waits for the server to accept connections.
func TestMain(m *testing.M) {
	cms := stubCMS()
	defer cms.Close()

	h, p, _ := net.SplitHostPort(host)

	for k, v := range map[string]string{
		"CSB_HOST":        h,
		"CSB_PORT":        p,
		"CSB_CMS_URL":     cms.URL,
		"CSB_CMS_API_KEY": "integration",
		"CSB_LIMITER":     "false",
		"CSB_LOG_LEVEL":   "warn",
	} {
		os.Setenv(k, v)
	}

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/", ExpectedStatusCode: http.StatusFound},
		{URL: "/en/global", Contains: "Alpha Markets"},
		{URL: "/vi/vietnam", Contains: "Is comparing free?"},
		{URL: "/vi/vietnam?sort=deposit&dir=desc", Contains: "Beta Trade"},
		{URL: "/en/united-states/brokers", Contains: "Alpha Markets"},
		{URL: "/en/us", ExpectedStatusCode: http.StatusMovedPermanently},
		{URL: "/xx/vietnam", ExpectedStatusCode: http.StatusMovedPermanently},
		{URL: "/en/global/", ExpectedStatusCode: http.StatusPermanentRedirect},
		{URL: "/api/countries", Contains: `"code":"vn"`},
		{URL: "/sitemap.xml", Contains: "/vi/vietnam"},
		{URL: "/robots.txt", Contains: "Disallow: /go/"},
		{URL: "/css/main.css"},
		{URL: "/js/exit-intent.js"},
		{URL: "/img/placeholder-logo.svg"},
		{URL: "/go/nope", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/does-not-exist", ExpectedStatusCode: http.StatusNotFound, Contains: "Page not found"},
		{URL: "/api/revalidate", Method: http.MethodPost, ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		tc.setDefault()

		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()

			resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}

			if tc.Contains == "" {
				return
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read body: %v", err)
			}

			if !strings.Contains(string(body), tc.Contains) {
				t.Errorf("expected body to contain %q", tc.Contains)
			}
		})
	}
}

func TestOutboundLink(t *testing.T) {
	t.Parallel()

	resp := makeRequest(t, buildRequest(t, authority+"/en/global", http.MethodGet))
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	start := strings.Index(string(body), `href="/go/`)
	if start < 0 {
		t.Fatal("no outbound link on the landing page")
	}

	link := string(body[start+len(`href="`):])
	link = link[:strings.IndexByte(link, '"')]

	resp = makeRequest(t, buildRequest(t, authority+link, http.MethodGet))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "https://alpha.example/open" {
		t.Errorf("unexpected destination %q", loc)
	}
}

func buildRequest(t *testing.T, link, method string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, link, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")

	return req
}

// makeRequest does not follow redirects, so their status codes can be checked.
func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
