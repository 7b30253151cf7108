package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Totals accumulates per-currency credit and debit sums across the
// exported transactions.
type Totals struct {
	Credits map[string]decimal.Decimal
	Debits  map[string]decimal.Decimal
}

// NewTotals creates empty totals.
func NewTotals() *Totals {
	return &Totals{
		Credits: make(map[string]decimal.Decimal),
		Debits:  make(map[string]decimal.Decimal),
	}
}

// Add folds one transaction into the totals. Transactions without a
// parseable amount or a recognized credit/debit indicator are skipped.
func (t *Totals) Add(txn model.Transaction) {
	if txn.Amount == nil {
		return
	}
	v, err := txn.Amount.Value()
	if err != nil {
		return
	}

	switch {
	case txn.IsCredit():
		t.Credits[txn.Amount.Currency] = t.Credits[txn.Amount.Currency].Add(v)
	case txn.IsDebit():
		t.Debits[txn.Amount.Currency] = t.Debits[txn.Amount.Currency].Add(v)
	}
}

// String renders totals like
// "credits: SEK 100.00; debits: SEK 25.50, EUR 10.00".
// Returns "" when nothing was accumulated.
func (t *Totals) String() string {
	credits := formatSide(t.Credits)
	debits := formatSide(t.Debits)

	var parts []string
	if credits != "" {
		parts = append(parts, "credits: "+credits)
	}
	if debits != "" {
		parts = append(parts, "debits: "+debits)
	}
	return strings.Join(parts, "; ")
}

func formatSide(side map[string]decimal.Decimal) string {
	currencies := make([]string, 0, len(side))
	for cur := range side {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	var parts []string
	for _, cur := range currencies {
		parts = append(parts, fmt.Sprintf("%s %s", cur, side[cur].StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}
