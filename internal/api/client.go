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
)

const defaultTimeout = 10 * time.Second

// Refresher exchanges the cached refresh token for a new access token. The
// auth adapter implements it; the client core invokes it at most once per
// request, on a 401.
type Refresher interface {
	RefreshSession(ctx context.Context) error
}

// Client is the HTTP core shared by all adapters for one API base. It
// attaches the bearer credential from the session, maps failures into the
// typed error kinds, and performs the single silent refresh-and-replay when
// the backend rejects the token.
type Client struct {
	base      string
	http      *http.Client
	session   *Session
	refresher Refresher
}

func NewClient(base string, session *Session) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: session,
	}
}

// SetRefresher wires the auth adapter in after construction; the auth adapter
// itself is built on a Client, so the dependency cannot be passed at
// construction time.
func (c *Client) SetRefresher(r Refresher) { c.refresher = r }

// SetHTTPClient overrides the transport, mainly for tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

func (c *Client) Session() *Session { return c.session }

// Get issues an authenticated GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// PostBare issues an unauthenticated POST: no bearer header, no refresh
// replay. Login, register and the refresh call itself go through here, which
// also keeps the refresh path from recursing.
func (c *Client) PostBare(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, withAuth bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	// A token the client already knows to be expired is not worth sending:
	// refresh up front and fail the same way the 401 path would.
	if withAuth && c.refresher != nil && c.session.Authenticated() && c.session.ExpiresWithin(0) {
		if err := c.refresher.RefreshSession(ctx); err != nil {
			c.session.Clear()
			return fmt.Errorf("%w: %v", ErrAuthExpired, err)
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, withAuth)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && withAuth {
		resp.Body.Close()
		if c.refresher == nil {
			c.session.Clear()
			return fmt.Errorf("%w: no refresh available", ErrAuthExpired)
		}
		if err := c.refresher.RefreshSession(ctx); err != nil {
			c.session.Clear()
			return fmt.Errorf("%w: %v", ErrAuthExpired, err)
		}
		// replay the original request exactly once
		resp, err = c.send(ctx, method, path, query, payload, withAuth)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			c.session.Clear()
			return fmt.Errorf("%w: token rejected after refresh", ErrAuthExpired)
		}
	}

	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, withAuth bool) (*http.Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// wireError is the failure body both the real backend and the devserver
// produce: a machine-readable code plus a human message.
type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Request.URL.Path)
	}

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		var we wireError
		if err := json.Unmarshal(raw, &we); err == nil && we.Message != "" {
			return &APIError{Status: resp.StatusCode, Code: we.Code, Message: we.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
