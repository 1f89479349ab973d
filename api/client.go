package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const defaultBase = "http://localhost:3001"

// Client talks to the bot backend. The session rides on an HTTP-only
// cookie, so the client carries a cookie jar and every request goes
// through it; no token is held anywhere else.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func New(opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: defaultBase,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// errDTO matches the two error envelopes the backend uses.
type errDTO struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doJSON builds the URL, sends an optional JSON body, and decodes the
// response into out (which may be nil). 401 maps to ErrUnauthorized, 404
// to ErrNotFound, every other non-2xx to *APIError with the backend's
// message when it sent one. No retries.
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		var dto errDTO
		msg := ""
		if json.Unmarshal(raw, &dto) == nil {
			if dto.Error != "" {
				msg = dto.Error
			} else {
				msg = dto.Message
			}
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
