package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is the currency/content pair the account information API uses
// for money values. Content holds the numeric part exactly as the API
// sent it.
type Amount struct {
	Currency string `json:"currency"`
	Content  string `json:"content"`
}

// Value parses Content as a decimal for arithmetic.
func (a Amount) Value() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.Content)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", a.Content, err)
	}
	return d, nil
}
