// Package upstream is the HTTP boundary to the payments backend. Every
// orchestrated transition maps to exactly one method here; list responses are
// normalized into the canonical page shape before they leave this package.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"paychain/internal/domain/paging"
)

// TokenSource supplies the bearer token for authenticated calls. It is
// injected rather than read from ambient storage.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds a client for the backend at baseURL. Timeouts are the
// transport's defaults; hc may be nil.
func NewClient(baseURL string, hc *http.Client, tokens TokenSource) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, tokens: tokens}
}

// APIError carries the server's message verbatim; handlers surface it to the
// user unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// newAPIError extracts the server-provided message from a non-2xx body,
// falling back to a generic one.
func newAPIError(res *http.Response, body []byte) *APIError {
	msg := ""
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		case payload.Detail != "":
			msg = payload.Detail
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("operation failed: %s", res.Status)
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet && method != http.MethodHead {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// do executes req and returns the raw body; non-2xx becomes an *APIError.
func (c *Client) do(req *http.Request) ([]byte, *http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, res, newAPIError(res, body)
	}
	return body, res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	body, _, err := c.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	var rd io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, query, rd)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	body, _, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// pageEnvelope tolerates the two envelope spellings the backend uses
// (content vs records) next to the shared pagination metadata.
type pageEnvelope[T any] struct {
	Content       []T   `json:"content"`
	Records       []T   `json:"records"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	CurrentPage   int   `json:"currentPage"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// decodePage normalizes either list shape — `{content|records, totalPages,
// totalElements, number, hasNext, hasPrevious}` or a bare array — into the
// canonical page. Callers never see the dual shape.
func decodePage[T any](body []byte) (paging.Page[T], error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return paging.Page[T]{}, err
		}
		return paging.FromSlice(items), nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return paging.Page[T]{}, err
	}
	content := env.Content
	if content == nil {
		content = env.Records
	}
	number := env.Number
	if number == 0 && env.CurrentPage > 0 {
		number = env.CurrentPage
	}
	return paging.Page[T]{
		Content:       content,
		TotalPages:    env.TotalPages,
		TotalElements: env.TotalElements,
		Number:        number,
		HasNext:       env.HasNext,
		HasPrevious:   env.HasPrevious,
	}, nil
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(req)
	return body, err
}
