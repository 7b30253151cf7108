package hbank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/bankfeed-dev/bankfeed/internal/reqid"
)

const (
	tokenPath         = "/oauth2/token/1.0"
	redirectTokenPath = "/redirect/oauth2/token/1.0"
	consentsPath      = "/psd2/v1/consents"

	scaMethodRedirect = "REDIRECT"
)

// authCodePattern matches the authorization code the sandbox embeds in
// the SCA redirect page.
var authCodePattern = regexp.MustCompile(`var authorizationCode = '(.*?)';`)

// tokenResponse is the body of both token endpoints.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type consentResponse struct {
	ConsentID  string      `json:"consentId"`
	ScaMethods []scaMethod `json:"scaMethods"`
}

type scaMethod struct {
	ScaMethodType string `json:"scaMethodType"`
	Links         struct {
		Authorization []struct {
			Href string `json:"href"`
		} `json:"authorization"`
	} `json:"_links"`
}

// Authorize runs the full consent flow. Each step's output is required
// input to the next, so they always run in this order.
func (c *Client) Authorize(ctx context.Context) error {
	if err := c.RequestCCGToken(ctx); err != nil {
		return err
	}
	if err := c.InitiateConsent(ctx); err != nil {
		return err
	}
	if err := c.InitiateAuthorization(ctx); err != nil {
		return err
	}
	return c.RequestACGToken(ctx)
}

// RequestCCGToken acquires the client-credentials grant token used to
// create a consent.
func (c *Client) RequestCCGToken(ctx context.Context) error {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"AIS"},
		"client_id":  {c.clientID},
	}

	var tok tokenResponse
	if err := c.postForm(ctx, c.baseURL+tokenPath, form, &tok); err != nil {
		return fmt.Errorf("requesting CCG token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("requesting CCG token: empty access_token in response")
	}

	c.session.AccessToken = tok.AccessToken
	return nil
}

// InitiateConsent creates an ALL_ACCOUNTS consent and records the
// redirect authorization endpoint the PSU must visit to sign it.
func (c *Client) InitiateConsent(ctx context.Context) error {
	payload := []byte(`{"access":"ALL_ACCOUNTS"}`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+consentsPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("initiating consent: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	req.Header.Set("Country", c.country)
	req.Header.Set("X-IBM-Client-ID", c.clientID)
	id := reqid.New()
	req.Header.Set("TPP-Request-ID", id)
	req.Header.Set("TPP-Transaction-ID", id)

	var consent consentResponse
	if err := c.do(req, &consent); err != nil {
		return fmt.Errorf("initiating consent: %w", err)
	}
	if consent.ConsentID == "" {
		return errors.New("initiating consent: empty consentId in response")
	}
	c.session.ConsentID = consent.ConsentID

	for _, m := range consent.ScaMethods {
		if m.ScaMethodType != scaMethodRedirect || len(m.Links.Authorization) == 0 {
			continue
		}
		c.session.AuthorizationEndpoint = m.Links.Authorization[0].Href
	}
	if c.session.AuthorizationEndpoint == "" {
		return errors.New("initiating consent: no REDIRECT sca method in response")
	}
	return nil
}

// InitiateAuthorization follows the SCA redirect and scrapes the
// authorization code the sandbox embeds in the returned page. The
// sandbox auto-approves the PSU, so no interactive step is needed.
func (c *Client) InitiateAuthorization(ctx context.Context) error {
	u, err := url.Parse(c.session.AuthorizationEndpoint)
	if err != nil {
		return fmt.Errorf("parsing authorization endpoint %q: %w", c.session.AuthorizationEndpoint, err)
	}

	q := u.Query()
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("scope", "AIS:"+c.session.ConsentID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("state", "state")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("initiating authorization: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("initiating authorization: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("initiating authorization: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading SCA page: %w", err)
	}

	m := authCodePattern.FindSubmatch(page)
	if m == nil {
		return errors.New("initiating authorization: no authorization code in SCA page")
	}
	c.session.AuthorizationCode = string(m[1])
	return nil
}

// RequestACGToken exchanges the scraped authorization code for the
// access and refresh tokens that authorize account information calls.
func (c *Client) RequestACGToken(ctx context.Context) error {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {c.clientID},
		"scope":        {"AIS:" + c.session.ConsentID},
		"code":         {c.session.AuthorizationCode},
		"redirect_uri": {c.redirectURI},
	}

	var tok tokenResponse
	if err := c.postForm(ctx, c.baseURL+redirectTokenPath, form, &tok); err != nil {
		return fmt.Errorf("requesting ACG token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("requesting ACG token: empty access_token in response")
	}

	c.session.AuthAccessToken = tok.AccessToken
	c.session.RefreshToken = tok.RefreshToken
	return nil
}

// RefreshAccessToken exchanges the held refresh token for a new access
// token, extending the session without rerunning the consent flow.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if c.session.RefreshToken == "" {
		return errors.New("refreshing token: no refresh token held")
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.clientID},
		"refresh_token": {c.session.RefreshToken},
	}

	var tok tokenResponse
	if err := c.postForm(ctx, c.baseURL+redirectTokenPath, form, &tok); err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("refreshing token: empty access_token in response")
	}

	c.session.AuthAccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.session.RefreshToken = tok.RefreshToken
	}
	return nil
}

// postForm sends a form-encoded POST and decodes the JSON response.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}
