package hbank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccounts(t *testing.T) {
	fs := newFakeSandbox(t)
	c := fs.client()
	require.NoError(t, c.Authorize(context.Background()))

	accounts, err := c.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].AccountID)
	assert.Equal(t, "Jane Doe", accounts[0].OwnerName)
	assert.Equal(t, "acc-2", accounts[1].AccountID)
}

func TestGetTransactions(t *testing.T) {
	fs := newFakeSandbox(t)
	c := fs.client()
	require.NoError(t, c.Authorize(context.Background()))

	txns, err := c.GetTransactions(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "BOOKED", txns[0].Status)
	require.NotNil(t, txns[0].Amount)
	assert.Equal(t, "SEK", txns[0].Amount.Currency)
	assert.Equal(t, "100.00", txns[0].Amount.Content)
	assert.Nil(t, txns[0].Balance)
}

func TestGetTransactionsEmptyAccount(t *testing.T) {
	fs := newFakeSandbox(t)
	c := fs.client()
	require.NoError(t, c.Authorize(context.Background()))

	txns, err := c.GetTransactions(context.Background(), "acc-2")
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestGetTransactionsUnknownAccount(t *testing.T) {
	fs := newFakeSandbox(t)
	c := fs.client()
	require.NoError(t, c.Authorize(context.Background()))

	_, err := c.GetTransactions(context.Background(), "acc-999")
	require.Error(t, err)
	assert.ErrorContains(t, err, "acc-999")
}
