// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core/audit"
	"codeberg.org/choosestockbroker/web/core/idgen"
	"codeberg.org/choosestockbroker/web/server/request_context"
	"codeberg.org/choosestockbroker/web/server/utils"
)

var (
	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("CMS response indicated error")
)

// APIError represents an error returned from the CMS.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	StatusCode int

	// Message contains the first error message from the response, or the status text.
	Message string

	// Err is the underlying error cause.
	Err error
}

// Error returns a formatted error message including the status code and API message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// GetJSON makes a GET request and returns the response document.
//
// Returns an error if:
//   - The request fails or the status code is 400 or above
//   - The response contains invalid JSON
//   - The document carries a non-empty "errors" array
func GetJSON(ctx context.Context, url string, headers, incomingHeaders http.Header) ([]byte, error) {
	body, err := do(ctx, RequestOptions{
		Method:          http.MethodGet,
		URL:             url,
		Headers:         headers,
		IncomingHeaders: incomingHeaders,
	})
	if err != nil {
		return nil, err
	}

	return processJSONResponse(body)
}

// Do sends an HTTP request and returns the response together with its body.
//
// GET responses are served from and stored in the response cache when it is enabled.
// The Body field of the returned response is a NopCloser over the same bytes.
//
// This function does not check for non-OK status codes, leaving that task to the caller.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	credential := opts.Headers.Get("Authorization")

	var policy cachePolicy
	if opts.Method == http.MethodGet {
		policy = determineCachePolicy(opts.URL, credential, opts.IncomingHeaders)
		if policy.cachedBody != nil {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": {"application/json"}},
				Body:       io.NopCloser(bytes.NewReader(policy.cachedBody)),
			}, policy.cachedBody, nil
		}
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	resp, body, err := sendRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if policy.shouldStore && resp.StatusCode == http.StatusOK && gjson.ValidBytes(body) {
		storeResponse(opts.URL, credential, body)
	}

	return resp, body, nil
}

// do performs a request and turns error status codes into an *APIError.
func do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Payload reports failures as {"errors":[{"message":"..."}]}.
		message := gjson.GetBytes(body, "errors.0.message").String()
		if message == "" {
			message = gjson.GetBytes(body, "message").String()
		}

		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		if message == "" {
			message = "An unknown CMS error occurred"
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        errAPIResponseError,
		}
	}

	return body, nil
}

// processJSONResponse validates a raw CMS response body.
func processJSONResponse(respBody []byte) ([]byte, error) {
	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("%w: %.200s", errInvalidJSON, respBody)
	}

	if errs := gjson.GetBytes(respBody, "errors"); errs.IsArray() && len(errs.Array()) > 0 {
		message := errs.Get("0.message").String()
		if message == "" {
			message = "CMS response contained an error with no message"
		}

		return nil, fmt.Errorf("%w: %s", errAPIResponseError, message)
	}

	return respBody, nil
}

func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	maps.Copy(req.Header, opts.Headers)

	req.Header.Set("User-Agent", "ChooseStockBroker/"+config.BuildVersion)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// sendRequest executes the HTTP request, reads the body for auditing, and returns the response
// with a new, readable body stream, along with the raw body bytes.
func sendRequest(
	ctx context.Context,
	req *http.Request,
) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: audit.ToCMS,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	span.End()
	span.Log()

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, body, nil
}
