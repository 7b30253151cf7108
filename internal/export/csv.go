package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Header is the CSV header for the transaction export.
const Header = "Account ID,Owner Name,Status,Amount,Ledger Date,Transaction Date,Credit/Debit,Remittance Information,Balance"

const (
	numFields      = 9
	colAccountID   = 0
	colOwnerName   = 1
	colStatus      = 2
	colAmount      = 3
	colLedgerDate  = 4
	colTxnDate     = 5
	colCreditDebit = 6
	colRemittance  = 7
	colBalance     = 8
)

// FormatAmount renders an amount as "SEK 100.00". The numeric content
// is written exactly as the API sent it.
func FormatAmount(a model.Amount) string {
	return a.Currency + " " + a.Content
}

// FormatBalance renders a balance as "CLBD: SEK 100.00".
func FormatBalance(b model.Balance) string {
	return b.BalanceType + ": " + FormatAmount(b.Amount)
}

// MarshalRow flattens one transaction into a CSV row prefixed with its
// account's id and owner name. Fields the API omitted become empty
// cells, never errors.
func MarshalRow(acct model.Account, txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colAccountID] = acct.AccountID
	row[colOwnerName] = acct.OwnerName
	row[colStatus] = txn.Status
	if txn.Amount != nil {
		row[colAmount] = FormatAmount(*txn.Amount)
	}
	row[colLedgerDate] = txn.LedgerDate
	row[colTxnDate] = txn.TransactionDate
	row[colCreditDebit] = txn.CreditDebit
	row[colRemittance] = txn.RemittanceInformation
	if txn.Balance != nil {
		row[colBalance] = FormatBalance(*txn.Balance)
	}
	return row
}

// Writer writes the export CSV incrementally, one account at a time.
type Writer struct {
	cw   *csv.Writer
	rows int
}

// NewWriter writes the header and returns a Writer for the data rows.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{cw: cw}, nil
}

// WriteAccount appends one row per transaction of the account.
func (w *Writer) WriteAccount(acct model.Account, txns []model.Transaction) error {
	for _, txn := range txns {
		if err := w.cw.Write(MarshalRow(acct, txn)); err != nil {
			return fmt.Errorf("writing row for account %s: %w", acct.AccountID, err)
		}
		w.rows++
	}
	return nil
}

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}
