package hbank

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

const (
	// DefaultBaseURL is the Handelsbanken Open Banking sandbox.
	DefaultBaseURL = "https://sandbox.handelsbanken.com/openbanking"
	// DefaultRedirectURI must match the redirect URI registered with
	// the application.
	DefaultRedirectURI = "https://example.com"
	// DefaultCountry is the consent country header value.
	DefaultCountry = "GB"

	defaultTimeout = 30 * time.Second
)

// defaultHeadersTransport injects the headers every sandbox call expects.
type defaultHeadersTransport struct {
	base http.RoundTripper
}

func (t *defaultHeadersTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Connection", "keep-alive")
	return t.base.RoundTrip(req)
}

// Config carries what a Client needs. Zero fields fall back to the
// sandbox defaults.
type Config struct {
	ClientID    string
	BaseURL     string
	RedirectURI string
	Country     string
	Timeout     time.Duration
}

// Client talks to the Handelsbanken Open Banking API. It is not safe
// for concurrent use: the session is mutated as the OAuth2 steps
// complete.
type Client struct {
	clientID    string
	baseURL     string
	redirectURI string
	country     string
	httpClient  *http.Client
	session     *model.Session
}

// NewClient creates a Client for the given application client id.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		clientID:    cfg.ClientID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		redirectURI: cfg.RedirectURI,
		country:     cfg.Country,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &defaultHeadersTransport{base: http.DefaultTransport},
		},
		session: &model.Session{ClientID: cfg.ClientID},
	}
}

// Session returns the credentials held for the current run.
func (c *Client) Session() *model.Session {
	return c.session
}

// do executes a request, treats any non-2xx status as an error, and
// decodes the JSON body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
