package card_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonanatree/securitycard/card"
)

func newTestStore(t *testing.T, accountBalance int64) *card.Store {
	t.Helper()

	cfg := card.DefaultConfig()
	cfg.InitialAccountBalance = accountBalance

	return card.NewStore(cfg, "123")
}

func TestStoreInitialState(t *testing.T) {
	store := newTestStore(t, 250000)

	c := store.Card()
	require.Equal(t, "123", c.Secret)
	require.Equal(t, "02/28", c.Expiry)
	require.EqualValues(t, 0, c.Balance)
	require.True(t, c.Active)
	require.EqualValues(t, 250000, store.AccountBalance())
}

func TestStoreApplyTransaction(t *testing.T) {
	store := newTestStore(t, 250000)

	// Card balance is zero, so the debit clamps there while the account
	// takes the full amount.
	cardBalance, accountBalance := store.ApplyTransaction(3199)
	require.EqualValues(t, 0, cardBalance)
	require.EqualValues(t, 246801, accountBalance)

	_, _, err := store.CreditCardBalance(5000)
	require.NoError(t, err)

	cardBalance, accountBalance = store.ApplyTransaction(3199)
	require.EqualValues(t, 1801, cardBalance)
	require.EqualValues(t, 243602, accountBalance)
}

func TestStoreApplyTransactionClampsBothIndependently(t *testing.T) {
	store := newTestStore(t, 1000)

	_, _, err := store.CreditCardBalance(500)
	require.NoError(t, err)

	cardBalance, accountBalance := store.ApplyTransaction(700)
	require.EqualValues(t, 0, cardBalance)
	require.EqualValues(t, 300, accountBalance)
}

func TestStoreSetSecret(t *testing.T) {
	store := newTestStore(t, 1000)

	store.SetSecret("042")
	require.Equal(t, "042", store.Card().Secret)
}

func TestStoreToggleActive(t *testing.T) {
	store := newTestStore(t, 1000)

	require.False(t, store.ToggleActive())
	require.False(t, store.Card().Active)
	require.True(t, store.ToggleActive())
	require.True(t, store.Card().Active)
}

func TestStoreCreditCardBalance(t *testing.T) {
	store := newTestStore(t, 250000)

	for _, amount := range []int64{0, -1, 250001, 300000} {
		_, _, err := store.CreditCardBalance(amount)
		require.ErrorIs(t, err, card.ErrInvalidAmount, "amount %d must be rejected", amount)
	}

	// Rejections leave both balances untouched.
	require.EqualValues(t, 0, store.Card().Balance)
	require.EqualValues(t, 250000, store.AccountBalance())

	cardBalance, accountBalance, err := store.CreditCardBalance(250000)
	require.NoError(t, err)
	require.EqualValues(t, 250000, cardBalance)
	require.EqualValues(t, 250000, accountBalance)

	// Only the card balance moves on a top-up.
	require.EqualValues(t, 250000, store.AccountBalance())
}

func TestStoreConcurrentTransactions(t *testing.T) {
	store := newTestStore(t, 100000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.ApplyTransaction(100)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 90000, store.AccountBalance())
}
