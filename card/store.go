package card

import (
	"fmt"
	"sync"

	"github.com/jonanatree/securitycard/card/models"
)

var ErrInvalidAmount = fmt.Errorf("invalid amount or exceeds transfer limit")

// Store holds the single card record and the main account balance. All
// mutations take the mutex so concurrent transactions observe the state as
// if serialized. Nothing is persisted; the process restart resets it all.
type Store struct {
	mu sync.Mutex

	card           models.CardRecord
	accountBalance int64
	creditCeiling  int64
}

// NewStore builds the store from config with the given initial secret.
func NewStore(cfg *Config, initialSecret string) *Store {
	return &Store{
		card: models.CardRecord{
			Number:  cfg.CardNumber,
			Secret:  initialSecret,
			Expiry:  cfg.CardExpiry,
			Balance: 0,
			Active:  true,
		},
		accountBalance: cfg.InitialAccountBalance,
		creditCeiling:  cfg.creditCeiling(),
	}
}

// Card returns a snapshot of the card record.
func (s *Store) Card() models.CardRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.card
}

func (s *Store) AccountBalance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accountBalance
}

// ApplyTransaction debits both the card balance and the main account balance
// by amount in one atomic step. Each balance is clamped at zero
// independently; excess amount is absorbed, never an error.
func (s *Store) ApplyTransaction(amount int64) (newCardBalance, newAccountBalance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.card.Balance = clampZero(s.card.Balance - amount)
	s.accountBalance = clampZero(s.accountBalance - amount)

	return s.card.Balance, s.accountBalance
}

func (s *Store) SetSecret(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.card.Secret = secret
}

// ToggleActive flips the freeze state and returns the new value.
func (s *Store) ToggleActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.card.Active = !s.card.Active

	return s.card.Active
}

// CreditCardBalance adds amount to the card balance only; the main account
// balance is left untouched. Amounts outside (0, ceiling] are rejected with
// ErrInvalidAmount and no state changes.
func (s *Store) CreditCardBalance(amount int64) (newCardBalance, newAccountBalance int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 || amount > s.creditCeiling {
		return 0, 0, ErrInvalidAmount
	}

	s.card.Balance += amount

	return s.card.Balance, s.accountBalance, nil
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
