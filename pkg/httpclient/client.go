package httpclient

import (
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

// Client wraps an http.Client with the pieces every upstream here needs:
// a cookie jar (the wiki API is session-cookie authenticated), a per-call
// timeout, and optional HTTP Basic auth layered on top (required when
// reaching the editors' wiki from outside its LAN).
type Client struct {
	client    *http.Client
	basicUser string
	basicPass string
}

// New creates a client with a fresh cookie jar and the given per-request
// timeout. A zero timeout means no timeout.
func New(timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow up to 10 redirects
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// SetBasicAuth makes every subsequent request carry Basic credentials.
func (c *Client) SetBasicAuth(user, pass string) {
	c.basicUser = user
	c.basicPass = pass
}

// Do executes an HTTP request with the client's credentials applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.basicUser != "" && c.basicPass != "" {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}
	return c.client.Do(req)
}

// Get is a convenience method for GET requests.
func (c *Client) Get(ctx context.Context, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetJSON issues a GET request and decodes the JSON response body into v.
// Any non-2xx status is an error.
func (c *Client) GetJSON(ctx context.Context, rawurl string, v interface{}) error {
	resp, err := c.Get(ctx, rawurl)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, rawurl)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawurl, err)
	}
	return nil
}

// PostForm issues an application/x-www-form-urlencoded POST request.
func (c *Client) PostForm(ctx context.Context, rawurl string, data url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, rawurl, strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// PostFormJSON issues a form POST and decodes the JSON response into v.
func (c *Client) PostFormJSON(ctx context.Context, rawurl string, data url.Values, v interface{}) error {
	resp, err := c.PostForm(ctx, rawurl, data)
	if err != nil {
		return fmt.Errorf("failed to post to %s: %w", rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, rawurl)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawurl, err)
	}
	return nil
}
