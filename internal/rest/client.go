// Package rest is the single choke point for server I/O: URL construction,
// JSON:API envelope shaping, and error normalization all live here. The
// client owns no state beyond its configuration.
package rest

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
)

// Client talks to one worksheets server. All methods are safe for concurrent
// use; the embedded http.Client does its own pooling.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// NewClient builds a client for server (e.g. "https://sheets.example.org").
// The "/rest" prefix is appended here once so call sites pass bare paths.
func NewClient(server, token string) (*Client, error) {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" {
		return nil, fmt.Errorf("server address is empty")
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("server address %q has no scheme", server)
	}
	return &Client{
		base:  u,
		token: strings.TrimSpace(token),
		// Uploads stream for a long time; per-request deadlines come from ctx.
		http: &http.Client{Timeout: 0},
	}, nil
}

func (c *Client) restURL(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/rest" + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, rawurl string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (skipped when out is nil). Non-2xx responses become
// *APIError with the body preserved.
func (c *Client) doJSON(ctx context.Context, method, rawurl string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, rawurl, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error(), URL: rawurl}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, rawurl)
	}
	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err),
			URL:     rawurl,
		}
	}
	return nil
}

func errorFromResponse(resp *http.Response, rawurl string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := http.StatusText(resp.StatusCode)

	// The service wraps errors in a JSON:API errors array; prefer its detail.
	var envelope struct {
		Errors []struct {
			Detail string `json:"detail"`
			Title  string `json:"title"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		if d := strings.TrimSpace(envelope.Errors[0].Detail); d != "" {
			msg = d
		} else if t := strings.TrimSpace(envelope.Errors[0].Title); t != "" {
			msg = t
		}
	}

	return &APIError{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: msg,
		Body:    strings.TrimSpace(string(body)),
		URL:     rawurl,
	}
}

// get issues a GET and decodes into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.restURL(path, query), nil, out)
}

// post issues a POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, query url.Values, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.restURL(path, query), in, out)
}

// patch issues a PATCH with a JSON body.
func (c *Client) patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, c.restURL(path, nil), in, out)
}

func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// withDefaultTimeout bounds metadata-sized requests. Blob and upload paths
// pass their ctx through untouched.
func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 60*time.Second)
}
