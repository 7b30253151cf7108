package model

// Account is one entry from the accounts endpoint.
type Account struct {
	AccountID string `json:"accountId"`
	OwnerName string `json:"ownerName"`
	IBAN      string `json:"iban,omitempty"`
	BBAN      string `json:"bban,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Name      string `json:"name,omitempty"`
}
