package model

// Balance is the booked balance attached to a transaction, e.g. the
// CLBD (closing booked) balance after the movement.
type Balance struct {
	BalanceType string `json:"balanceType"`
	Amount      Amount `json:"amount"`
}

// Transaction is one entry from the per-account transactions endpoint.
// Pointer fields may be absent from the response.
type Transaction struct {
	Status                string   `json:"status,omitempty"`
	Amount                *Amount  `json:"amount,omitempty"`
	LedgerDate            string   `json:"ledgerDate,omitempty"`
	TransactionDate       string   `json:"transactionDate,omitempty"`
	CreditDebit           string   `json:"creditDebit,omitempty"`
	RemittanceInformation string   `json:"remittanceInformation,omitempty"`
	Balance               *Balance `json:"balance,omitempty"`
}

// IsCredit reports whether the credit/debit indicator marks an inbound
// movement. The sandbox has used both ISO 20022 codes and spelled-out
// forms, so both are accepted.
func (t Transaction) IsCredit() bool {
	return t.CreditDebit == "CRDT" || t.CreditDebit == "CREDIT" || t.CreditDebit == "CREDITED"
}

// IsDebit reports whether the credit/debit indicator marks an outbound
// movement.
func (t Transaction) IsDebit() bool {
	return t.CreditDebit == "DBIT" || t.CreditDebit == "DEBIT" || t.CreditDebit == "DEBITED"
}
