package hbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testClientID  = "client-123"
	testConsentID = "consent-1"
	testAuthCode  = "auth-code-xyz"
	testCCGToken  = "ccg-token"
	testACGToken  = "acg-token"
	testRefresh   = "refresh-token"
)

// fakeSandbox implements the five sandbox endpoints the client calls.
type fakeSandbox struct {
	t      *testing.T
	server *httptest.Server

	accounts     []map[string]any
	transactions map[string][]map[string]any
}

func newFakeSandbox(t *testing.T) *fakeSandbox {
	fs := &fakeSandbox{
		t: t,
		accounts: []map[string]any{
			{"accountId": "acc-1", "ownerName": "Jane Doe"},
			{"accountId": "acc-2", "ownerName": "John Doe"},
		},
		transactions: map[string][]map[string]any{
			"acc-1": {
				{
					"status":      "BOOKED",
					"amount":      map[string]any{"currency": "SEK", "content": "100.00"},
					"ledgerDate":  "2025-01-03",
					"creditDebit": "CRDT",
				},
			},
			"acc-2": {},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token/1.0", fs.handleCCGToken)
	mux.HandleFunc("POST /psd2/v1/consents", fs.handleConsents)
	mux.HandleFunc("GET /auth", fs.handleAuthorize)
	mux.HandleFunc("POST /redirect/oauth2/token/1.0", fs.handleACGToken)
	mux.HandleFunc("GET /psd2/v2/accounts", fs.handleAccounts)
	mux.HandleFunc("GET /psd2/v2/accounts/{id}/transactions", fs.handleTransactions)

	fs.server = httptest.NewServer(mux)
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeSandbox) client() *Client {
	return NewClient(Config{
		ClientID: testClientID,
		BaseURL:  fs.server.URL,
	})
}

func (fs *fakeSandbox) handleCCGToken(w http.ResponseWriter, r *http.Request) {
	assert.NoError(fs.t, r.ParseForm())
	assert.Equal(fs.t, "client_credentials", r.PostForm.Get("grant_type"))
	assert.Equal(fs.t, "AIS", r.PostForm.Get("scope"))
	assert.Equal(fs.t, testClientID, r.PostForm.Get("client_id"))

	writeJSON(w, map[string]any{"access_token": testCCGToken, "token_type": "Bearer", "expires_in": 3600})
}

func (fs *fakeSandbox) handleConsents(w http.ResponseWriter, r *http.Request) {
	assert.Equal(fs.t, "Bearer "+testCCGToken, r.Header.Get("Authorization"))
	assert.Equal(fs.t, testClientID, r.Header.Get("X-IBM-Client-ID"))
	assert.Equal(fs.t, "GB", r.Header.Get("Country"))
	assert.NotEmpty(fs.t, r.Header.Get("TPP-Request-ID"))
	assert.NotEmpty(fs.t, r.Header.Get("TPP-Transaction-ID"))

	var body map[string]any
	assert.NoError(fs.t, json.NewDecoder(r.Body).Decode(&body))
	assert.Equal(fs.t, "ALL_ACCOUNTS", body["access"])

	writeJSON(w, map[string]any{
		"consentId": testConsentID,
		"scaMethods": []map[string]any{
			{"scaMethodType": "DECOUPLED"},
			{
				"scaMethodType": "REDIRECT",
				"_links": map[string]any{
					"authorization": []map[string]any{
						{"href": fs.server.URL + "/auth"},
					},
				},
			},
		},
	})
}

func (fs *fakeSandbox) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	assert.Equal(fs.t, testClientID, q.Get("client_id"))
	assert.Equal(fs.t, "code", q.Get("response_type"))
	assert.Equal(fs.t, "AIS:"+testConsentID, q.Get("scope"))
	assert.Equal(fs.t, DefaultRedirectURI, q.Get("redirect_uri"))
	assert.Equal(fs.t, "state", q.Get("state"))

	fmt.Fprintf(w, "<html><script>var authorizationCode = '%s';</script></html>", testAuthCode)
}

func (fs *fakeSandbox) handleACGToken(w http.ResponseWriter, r *http.Request) {
	assert.NoError(fs.t, r.ParseForm())
	assert.Equal(fs.t, testClientID, r.PostForm.Get("client_id"))

	switch grant := r.PostForm.Get("grant_type"); grant {
	case "authorization_code":
		assert.Equal(fs.t, testAuthCode, r.PostForm.Get("code"))
		assert.Equal(fs.t, "AIS:"+testConsentID, r.PostForm.Get("scope"))
		assert.Equal(fs.t, DefaultRedirectURI, r.PostForm.Get("redirect_uri"))
		writeJSON(w, map[string]any{"access_token": testACGToken, "refresh_token": testRefresh})
	case "refresh_token":
		assert.Equal(fs.t, testRefresh, r.PostForm.Get("refresh_token"))
		writeJSON(w, map[string]any{"access_token": "acg-token-2", "refresh_token": "refresh-token-2"})
	default:
		fs.t.Errorf("unexpected grant_type %q", grant)
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (fs *fakeSandbox) handleAccounts(w http.ResponseWriter, r *http.Request) {
	assert.Equal(fs.t, "Bearer "+testACGToken, r.Header.Get("Authorization"))
	assert.Equal(fs.t, testClientID, r.Header.Get("X-IBM-Client-ID"))
	assert.NotEmpty(fs.t, r.Header.Get("TPP-Request-ID"))

	writeJSON(w, map[string]any{"accounts": fs.accounts})
}

func (fs *fakeSandbox) handleTransactions(w http.ResponseWriter, r *http.Request) {
	assert.Equal(fs.t, "Bearer "+testACGToken, r.Header.Get("Authorization"))

	txns, ok := fs.transactions[r.PathValue("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"transactions": txns})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{ClientID: testClientID})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultRedirectURI, c.redirectURI)
	assert.Equal(t, DefaultCountry, c.country)
	assert.Equal(t, testClientID, c.Session().ClientID)
}

func TestGetAccountsRequiresAuthorization(t *testing.T) {
	fs := newFakeSandbox(t)
	c := fs.client()

	_, err := c.GetAccounts(context.Background())
	assert.ErrorContains(t, err, "not authorized")
}
