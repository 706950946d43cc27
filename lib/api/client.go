// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// defaultTimeout bounds a single HTTP exchange. The query cache's
// retry policy sits above this; the client itself never retries.
const defaultTimeout = 30 * time.Second

// Client talks to one Sideseat server. Safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	key        string
	httpClient *http.Client
	userAgent  string
}

// Option adjusts Client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use this
// to point at httptest servers with custom transports.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// New creates a client for the server at baseURL, authenticating every
// request with the given API key as a bearer token.
func New(baseURL, apiKey string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q: scheme must be http or https", baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		key:        apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "seatview",
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// get issues a GET for path with the given query and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

// send issues one HTTP exchange. body (when non-nil) is JSON-encoded;
// the response is decoded into out (when non-nil). Non-2xx responses
// are decoded into *Error.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var requestBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		requestBody = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), requestBody)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	request.Header.Set("Authorization", "Bearer "+c.key)
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("Accept", "application/json")
	// Telemetry payloads compress well; advertise both codings the
	// server offers. Setting the header manually disables net/http's
	// automatic gzip handling, so decoding happens below.
	request.Header.Set("Accept-Encoding", "zstd, gzip")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	reader, err := decodeBody(response)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeError(response.StatusCode, reader)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeBody wraps the response body with the decompressor matching
// its Content-Encoding.
func decodeBody(response *http.Response) (io.Reader, error) {
	switch encoding := response.Header.Get("Content-Encoding"); encoding {
	case "", "identity":
		return response.Body, nil
	case "gzip":
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("open gzip response: %w", err)
		}
		return reader, nil
	case "zstd":
		reader, err := zstd.NewReader(response.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd response: %w", err)
		}
		return reader.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// decodeError turns a non-2xx response into *Error. Bodies that are
// not the standard error shape (proxies, load balancers) fall back to
// a generic error carrying the raw text.
func decodeError(status int, reader io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(reader, 64<<10))
	if err != nil {
		return &Error{Status: status, Type: "unreadable_error", Message: err.Error()}
	}

	apiError := &Error{Status: status}
	if json.Unmarshal(raw, apiError) == nil && apiError.Message != "" {
		return apiError
	}
	return &Error{
		Status:  status,
		Type:    http.StatusText(status),
		Message: strings.TrimSpace(string(raw)),
	}
}
