// Package wiki is a client for the editors' MediaWiki API. It lists
// published pages and authors, fetches parsed page bodies, and manages
// the login session the private wiki requires.
package wiki

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"encyc-sync/pkg/httpclient"
)

// Timestamp layout used by the MediaWiki API.
const timestampLayout = "2006-01-02T15:04:05Z"

// Config holds the connection settings for the wiki API.
type Config struct {
	// APIURL is the api.php endpoint, e.g. http://editors.example.org/mediawiki/api.php
	APIURL string `yaml:"api_url"`
	// Username and Password are wiki credentials; unpublished pages are
	// only visible to logged-in users.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// HTUser and HTPass are HTTP Basic credentials for wikis behind an
	// htaccess gate. Optional.
	HTUser string `yaml:"htuser"`
	HTPass string `yaml:"htpass"`
	// Timeout for individual API calls.
	Timeout time.Duration `yaml:"timeout"`
}

// Client talks to one MediaWiki instance. Session cookies live in the
// underlying HTTP client's jar, so a logged-in Client may be shared by
// concurrent workers but Login and Logout must bracket the run.
type Client struct {
	apiURL string
	user   string
	pass   string
	http   *httpclient.Client
	log    *zap.Logger
}

// NewClient creates a wiki API client. The session is not opened until
// Login is called.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	hc := httpclient.New(cfg.Timeout)
	if cfg.HTUser != "" {
		hc.SetBasicAuth(cfg.HTUser, cfg.HTPass)
	}
	return &Client{
		apiURL: cfg.APIURL,
		user:   cfg.Username,
		pass:   cfg.Password,
		http:   hc,
		log:    logger,
	}
}

type loginResponse struct {
	Login struct {
		Result string `json:"result"`
		Token  string `json:"token"`
	} `json:"login"`
}

// Login performs the two-round MediaWiki login dance: the first request
// yields a token, the second submits it. Session cookies are stored in
// the client's cookie jar.
func (c *Client) Login(ctx context.Context) error {
	if c.user == "" {
		return nil
	}
	round1 := url.Values{
		"action":     {"login"},
		"format":     {"json"},
		"lgname":     {c.user},
		"lgpassword": {c.pass},
	}
	var resp1 loginResponse
	if err := c.http.PostFormJSON(ctx, c.apiURL, round1, &resp1); err != nil {
		return fmt.Errorf("wiki login: %w", err)
	}
	if resp1.Login.Result == "Success" {
		return nil
	}
	if resp1.Login.Token == "" {
		return fmt.Errorf("wiki login: no token in response (result %q)", resp1.Login.Result)
	}

	round2 := url.Values{
		"action":     {"login"},
		"format":     {"json"},
		"lgname":     {c.user},
		"lgpassword": {c.pass},
		"lgtoken":    {resp1.Login.Token},
	}
	var resp2 loginResponse
	if err := c.http.PostFormJSON(ctx, c.apiURL, round2, &resp2); err != nil {
		return fmt.Errorf("wiki login: %w", err)
	}
	if resp2.Login.Result != "Success" {
		return fmt.Errorf("bad wiki API credentials (result %q)", resp2.Login.Result)
	}
	c.log.Debug("wiki login ok", zap.String("user", c.user))
	return nil
}

// Logout closes the wiki session.
func (c *Client) Logout(ctx context.Context) {
	if c.user == "" {
		return
	}
	data := url.Values{"action": {"logout"}, "format": {"json"}}
	resp, err := c.http.PostForm(ctx, c.apiURL, data)
	if err != nil {
		c.log.Warn("wiki logout failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}
