package hbank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/reqid"
)

const accountsPath = "/psd2/v2/accounts"

// GetAccounts lists the accounts the consent covers.
func (c *Client) GetAccounts(ctx context.Context) ([]model.Account, error) {
	req, err := c.aisRequest(ctx, accountsPath)
	if err != nil {
		return nil, err
	}

	var out struct {
		Accounts []model.Account `json:"accounts"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	return out.Accounts, nil
}

// GetTransactions lists the transactions of one account.
func (c *Client) GetTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	req, err := c.aisRequest(ctx, accountsPath+"/"+url.PathEscape(accountID)+"/transactions")
	if err != nil {
		return nil, err
	}

	var out struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("fetching transactions for account %s: %w", accountID, err)
	}
	return out.Transactions, nil
}

// aisRequest builds a GET against the account information API with the
// authorized-session headers.
func (c *Client) aisRequest(ctx context.Context, path string) (*http.Request, error) {
	if !c.session.Authorized() {
		return nil, errors.New("not authorized: the consent flow must complete first")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AuthAccessToken)
	req.Header.Set("X-IBM-Client-ID", c.clientID)
	id := reqid.New()
	req.Header.Set("TPP-Request-ID", id)
	req.Header.Set("TPP-Transaction-ID", id)
	return req, nil
}
